// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Theme is one latent topic discovered by factorizing the corpus term
// weights. Per prd003-themes R4.1: the label is positional ("Theme 1"),
// keywords are ranked by descending topic weight.
type Theme struct {
	Label    string   `json:"theme" yaml:"theme"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ReferenceStats holds corpus-wide reference statistics.
// Per prd004-references R2: CommonReferences is the intersection of every
// paper's reference set, so it is a subset of each paper's references.
type ReferenceStats struct {
	// TotalReferences is the sum of reference-list lengths across the corpus.
	TotalReferences int `json:"total_references" yaml:"total_references"`

	// CommonReferences lists the titles cited by every paper, sorted.
	CommonReferences []string `json:"common_references" yaml:"common_references"`

	// AvgPerPaper is TotalReferences divided by the corpus size, 0 for an
	// empty corpus.
	AvgPerPaper float64 `json:"avg_references_per_paper" yaml:"avg_references_per_paper"`
}

// PaperSummary is the per-paper entry in the final report: the title
// (defaulted when missing) and the truncated abstract.
type PaperSummary struct {
	Title    string `json:"title" yaml:"title"`
	Abstract string `json:"abstract" yaml:"abstract"`
}

// AnalysisReport is the aggregate output of one analysis run. It is
// produced once per run and not modified afterwards.
// Per prd005-report R1.1-R1.3.
type AnalysisReport struct {
	TotalPapers int            `json:"total_papers" yaml:"total_papers"`
	Themes      []Theme        `json:"common_themes" yaml:"common_themes"`
	References  ReferenceStats `json:"reference_analysis" yaml:"reference_analysis"`
	Papers      []PaperSummary `json:"papers_summary" yaml:"papers_summary"`

	// Timestamp is the synthesis time in "YYYY-MM-DD HH:MM:SS" form.
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}
