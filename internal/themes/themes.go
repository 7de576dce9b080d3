// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package themes discovers latent research themes in a paper corpus:
// aggregated texts are vectorized into TF-IDF term weights and factored
// into a fixed number of non-negative themes, each summarized by its
// top-weighted terms.
// Implements: prd003-themes (R1-R5);
//
//	docs/ARCHITECTURE § Theme Extraction.
package themes

import (
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/litreview/pkg/types"
)

// Defaults for theme extraction (R5.1-R5.3). Override through
// types.AnalysisConfig; the values here preserve output compatibility
// across runs.
const (
	DefaultThemes        = 5
	DefaultKeywords      = 9
	DefaultMaxFeatures   = 1000
	DefaultMaxDocFreq    = 0.95
	DefaultMinDocCount   = 2
	DefaultMaxIterations = 400
	DefaultSeed          = 42
)

// Extractor discovers latent themes from aggregated corpus texts.
type Extractor struct {
	cfg types.AnalysisConfig
}

// NewExtractor returns an extractor with zero config fields replaced by
// the package defaults.
func NewExtractor(cfg types.AnalysisConfig) *Extractor {
	if cfg.Themes <= 0 {
		cfg.Themes = DefaultThemes
	}
	if cfg.Keywords <= 0 {
		cfg.Keywords = DefaultKeywords
	}
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = DefaultMaxFeatures
	}
	if cfg.MaxDocFreq <= 0 {
		cfg.MaxDocFreq = DefaultMaxDocFreq
	}
	if cfg.MinDocCount <= 0 {
		cfg.MinDocCount = DefaultMinDocCount
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}
	return &Extractor{cfg: cfg}
}

// Extract returns the themes discovered in texts, labeled by 1-based
// position. Degenerate inputs (no texts, or thresholds that leave no
// vocabulary) and numerical failures inside the factorization produce an
// empty result and a warning on w, never an error: reference analysis
// and reporting must continue regardless (R1.3, R3.4).
func (e *Extractor) Extract(texts []string, w io.Writer) []types.Theme {
	if len(texts) == 0 {
		fmt.Fprintf(w, "warning: no papers to analyze, skipping theme extraction\n")
		return nil
	}

	vec := &Vectorizer{
		MaxFeatures: e.cfg.MaxFeatures,
		MaxDocFreq:  e.cfg.MaxDocFreq,
		MinDocCount: e.cfg.MinDocCount,
	}
	tm, err := vec.FitTransform(texts)
	if err != nil {
		fmt.Fprintf(w, "warning: %v, skipping theme extraction\n", err)
		return nil
	}

	_, h, err := factorize(tm.Weights, e.cfg.Themes, e.cfg.Seed, e.cfg.MaxIterations)
	if err != nil {
		fmt.Fprintf(w, "warning: theme factorization failed (%v), continuing without themes\n", err)
		return nil
	}

	k, _ := h.Dims()
	out := make([]types.Theme, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, types.Theme{
			Label:    fmt.Sprintf("Theme %d", i+1),
			Keywords: topTerms(h.RawRowView(i), tm.Terms, e.cfg.Keywords),
		})
	}
	return out
}

// topTerms returns the count highest-weighted terms in descending weight
// order. Equal weights keep vocabulary order, which is stable across runs
// (R4.2).
func topTerms(weights []float64, terms []string, count int) []string {
	idx := make([]int, len(weights))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return weights[idx[a]] > weights[idx[b]]
	})
	if count > len(idx) {
		count = len(idx)
	}
	out := make([]string, count)
	for i := 0; i < count; i++ {
		out[i] = terms[idx[i]]
	}
	return out
}
