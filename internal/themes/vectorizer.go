// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package themes

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/mat"
)

// ErrEmptyVocabulary is returned when document-frequency filtering leaves
// no usable terms, which happens for corpora too small or too homogeneous
// for the thresholds.
var ErrEmptyVocabulary = errors.New("vectorization produced an empty vocabulary")

// Vectorizer turns documents into TF-IDF weighted term vectors over a
// unigram+bigram vocabulary. Per prd003-themes R2.1-R2.5.
type Vectorizer struct {
	// MaxFeatures caps the vocabulary at the highest-frequency terms.
	MaxFeatures int

	// MaxDocFreq drops terms present in more than this fraction of documents.
	MaxDocFreq float64

	// MinDocCount drops terms present in fewer than this many documents.
	MinDocCount int
}

// TermMatrix is the vectorization result: one row of weights per document
// over the alphabetical vocabulary in Terms. Rows are L2-normalized.
type TermMatrix struct {
	Weights *mat.Dense
	Terms   []string
}

// FitTransform builds the vocabulary from docs and returns the weighted
// document-term matrix. Term weights are raw counts scaled by smoothed
// inverse document frequency, ln((1+n)/(1+df)) + 1, with each document
// row normalized to unit length (R2.5).
func (v *Vectorizer) FitTransform(docs []string) (*TermMatrix, error) {
	n := len(docs)
	if n == 0 {
		return nil, ErrEmptyVocabulary
	}

	counts := make([]map[string]int, n)
	df := make(map[string]int)
	for i, doc := range docs {
		c := countTerms(doc)
		counts[i] = c
		for term := range c {
			df[term]++
		}
	}

	// Document-frequency thresholds: near-universal terms carry no
	// discriminative weight, near-unique terms cannot support a
	// cross-document theme (R2.3, R2.4).
	maxDF := v.MaxDocFreq * float64(n)
	kept := make([]string, 0, len(df))
	for term, d := range df {
		if float64(d) > maxDF || d < v.MinDocCount {
			continue
		}
		kept = append(kept, term)
	}
	if len(kept) == 0 {
		return nil, ErrEmptyVocabulary
	}

	// Cap the vocabulary at the highest total-count terms, ties resolved
	// alphabetically so the selection is deterministic (R2.2).
	if v.MaxFeatures > 0 && len(kept) > v.MaxFeatures {
		totals := make(map[string]int, len(kept))
		for _, c := range counts {
			for term, k := range c {
				totals[term] += k
			}
		}
		sort.Slice(kept, func(a, b int) bool {
			if totals[kept[a]] != totals[kept[b]] {
				return totals[kept[a]] > totals[kept[b]]
			}
			return kept[a] < kept[b]
		})
		kept = kept[:v.MaxFeatures]
	}

	sort.Strings(kept)
	index := make(map[string]int, len(kept))
	for i, term := range kept {
		index[term] = i
	}

	idf := make([]float64, len(kept))
	for i, term := range kept {
		idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	w := mat.NewDense(n, len(kept), nil)
	for i, c := range counts {
		for term, k := range c {
			if j, ok := index[term]; ok {
				w.Set(i, j, float64(k)*idf[j])
			}
		}
		normalizeRow(w, i)
	}

	return &TermMatrix{Weights: w, Terms: kept}, nil
}

// countTerms tokenizes one document and counts its unigrams and bigrams.
func countTerms(doc string) map[string]int {
	tokens := tokenize(doc)
	c := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		c[tok]++
		if i+1 < len(tokens) {
			c[tok+" "+tokens[i+1]]++
		}
	}
	return c
}

// tokenize splits doc into lowercased word-character runs of length >= 2,
// with stop words removed. Bigrams are formed from the surviving token
// sequence, so removal happens before pairing.
func tokenize(doc string) []string {
	doc = strings.ToLower(doc)
	var tokens []string
	var run []rune
	flush := func() {
		if len(run) >= 2 {
			tok := string(run)
			if !isStopWord(tok) {
				tokens = append(tokens, tok)
			}
		}
		run = run[:0]
	}
	for _, r := range doc {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// normalizeRow scales row i of m to unit Euclidean length. Zero rows stay
// zero.
func normalizeRow(m *mat.Dense, i int) {
	row := m.RawRowView(i)
	var sum float64
	for _, x := range row {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for j := range row {
		row[j] /= norm
	}
}
