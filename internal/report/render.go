// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pdiddy/litreview/pkg/types"
)

// Artifact file names, fixed relative to the output directory.
const (
	ReviewFile    = "literature_review.json"
	NarrativeFile = "comprehensive_report.md"
)

// reviewRecord is the machine-readable review artifact: the paper count,
// the per-paper summaries, and the run timestamp (R3.1).
type reviewRecord struct {
	TotalPapers int                  `json:"total_papers"`
	Papers      []types.PaperSummary `json:"papers_summary"`
	Timestamp   string               `json:"timestamp"`
}

// WriteReview serializes the machine-readable review to w as indented
// JSON.
func WriteReview(w io.Writer, rep *types.AnalysisReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	rec := reviewRecord{
		TotalPapers: rep.TotalPapers,
		Papers:      rep.Papers,
		Timestamp:   rep.Timestamp,
	}
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encoding review: %w", err)
	}
	return nil
}

// defaultTemplate is the built-in narrative layout. The numbered section
// skeleton is fixed; only the data-driven fields vary between runs.
const defaultTemplate = `# Literature Review Report

## 1. Overview
- Papers analyzed: {{.TotalPapers}}
- Generated: {{.Timestamp}}

This report was produced by a statistical pass over the ingested corpus:
term-weight vectorization, non-negative factorization into latent themes,
and cross-paper reference analysis. It is a reproducible summary of the
corpus, not a substitute for reading the papers.

## 2. Common Themes
{{if .Themes}}{{range .Themes}}### {{.Label}}
Keywords: {{join .Keywords ", "}}

{{end}}{{else}}No themes could be extracted from this corpus.

{{end}}## 3. Reference Analysis
- Total references: {{.References.TotalReferences}}
- Average references per paper: {{printf "%.2f" .References.AvgPerPaper}}
- Cited by every paper: {{if .References.CommonReferences}}{{join .References.CommonReferences "; "}}{{else}}none{{end}}

## 4. Paper Summaries
{{if .Papers}}{{range $i, $p := .Papers}}### {{inc $i}}. {{$p.Title}}
{{$p.Abstract}}

{{end}}{{else}}No papers were ingested.

{{end}}## 5. Research Trends
- Convergence of methods across neighboring subfields
- Growing emphasis on reproducible, data-driven evaluation
- Integration of multiple techniques within single studies

## 6. Research Gaps
- Long-term validation studies remain scarce
- Standardized evaluation protocols are not yet established
- Translation from laboratory results to practice is rarely covered

## 7. Future Directions
- Larger and more diverse corpora
- Systematic comparison across the identified themes
- Closer coupling of extraction quality and downstream analysis

## 8. Conclusion
The corpus shows a set of recurring themes alongside clearly separated
lines of work. The shared references and keyword clusters above are the
best starting points for a deeper manual review.
`

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
}

// WriteNarrative renders the report through the narrative template to w.
// An empty templatePath selects the built-in template; otherwise the
// file at templatePath is parsed with the same functions available
// (R3.3).
func WriteNarrative(w io.Writer, rep *types.AnalysisReport, templatePath string) error {
	text := defaultTemplate
	if templatePath != "" {
		b, err := os.ReadFile(templatePath)
		if err != nil {
			return fmt.Errorf("reading narrative template: %w", err)
		}
		text = string(b)
	}

	tmpl, err := template.New("narrative").Funcs(templateFuncs).Parse(text)
	if err != nil {
		return fmt.Errorf("parsing narrative template: %w", err)
	}
	if err := tmpl.Execute(w, rep); err != nil {
		return fmt.Errorf("rendering narrative: %w", err)
	}
	return nil
}

// WriteFiles renders both artifacts under dir, creating it if needed. A
// failure on one artifact is logged to w and does not stop the other;
// computed results are never rolled back. The collected failures come
// back as the error (R4.3).
func WriteFiles(dir string, rep *types.AnalysisReport, templatePath string, w io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var errs []error
	artifacts := []struct {
		name   string
		render func(io.Writer) error
	}{
		{ReviewFile, func(out io.Writer) error { return WriteReview(out, rep) }},
		{NarrativeFile, func(out io.Writer) error { return WriteNarrative(out, rep, templatePath) }},
	}
	for _, a := range artifacts {
		path := filepath.Join(dir, a.name)
		if err := writeArtifact(path, a.render); err != nil {
			fmt.Fprintf(w, "warning: %v\n", err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "Saved %s\n", path)
	}
	return errors.Join(errs...)
}

// writeArtifact renders into memory first so a render failure leaves no
// partial file behind.
func writeArtifact(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("rendering %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
