// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus holds the ordered sequence of extracted papers for one
// analysis run and reads/writes the on-disk record format.
// Implements: prd002-corpus (R1-R3);
//
//	docs/ARCHITECTURE § Corpus.
package corpus

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litreview/pkg/types"
)

const recordsDir = "papers"

// Corpus is the ordered sequence of papers for one run. It is append-only
// during ingestion and read-only during analysis; insertion order is
// preserved (R1.1, R1.2). Nothing here is safe for concurrent mutation;
// the pipeline builds the corpus fully before analysis begins.
type Corpus struct {
	papers []types.Paper
}

// New returns an empty corpus.
func New() *Corpus {
	return &Corpus{}
}

// Append adds a paper to the end of the corpus.
func (c *Corpus) Append(p types.Paper) {
	c.papers = append(c.papers, p)
}

// Len returns the number of papers in the corpus.
func (c *Corpus) Len() int {
	return len(c.papers)
}

// Papers returns the papers in insertion order. Callers must treat the
// returned slice as read-only.
func (c *Corpus) Papers() []types.Paper {
	return c.papers
}

// Texts returns the aggregated analysis text for each paper, in corpus
// order (R2.2).
func (c *Corpus) Texts() []string {
	texts := make([]string, len(c.papers))
	for i, p := range c.papers {
		texts[i] = AggregateText(p)
	}
	return texts
}

// AggregateText builds the single analyzable text for one paper: title,
// abstract, and body joined by single spaces. Missing fields contribute
// empty strings; no case-folding or other normalization happens here,
// that belongs to the vectorizer (R2.1).
func AggregateText(p types.Paper) string {
	return p.Title + " " + p.Abstract + " " + p.Body
}

// RecordsDir returns the directory holding paper records under corpusDir.
func RecordsDir(corpusDir string) string {
	return filepath.Join(corpusDir, recordsDir)
}

// RecordPath returns the YAML record path for a paper ID under corpusDir.
func RecordPath(corpusDir, id string) string {
	return filepath.Join(RecordsDir(corpusDir), id+".yaml")
}

// WriteRecord writes a paper record to a YAML file (R3.1).
func WriteRecord(path string, p types.Paper) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRecord reads a paper record from a YAML file.
func ReadRecord(path string) (types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Paper{}, err
	}
	var p types.Paper
	if err := yaml.Unmarshal(data, &p); err != nil {
		return types.Paper{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return p, nil
}

// Load reads every paper record under corpusDir/papers/ in file-name
// order and returns the assembled corpus (R3.2). Unreadable or malformed
// records are skipped with a warning so one bad file cannot sink the run;
// a missing directory is an error because it means ingestion never ran.
func Load(corpusDir string, w io.Writer) (*Corpus, error) {
	dir := RecordsDir(corpusDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", dir, err)
	}

	c := New()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		p, err := ReadRecord(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(w, "warning: skipping %s: %v\n", entry.Name(), err)
			continue
		}
		c.Append(p)
	}
	return c, nil
}
