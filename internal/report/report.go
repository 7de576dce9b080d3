// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report assembles the final analysis record for a run and
// renders the two output artifacts: a machine-readable review and a
// narrative document.
// Implements: prd005-report (R1-R4).
package report

import (
	"time"

	"github.com/pdiddy/litreview/pkg/types"
)

const (
	// abstractLimit is the number of leading characters of an abstract
	// kept in a summary.
	abstractLimit = 500

	defaultTitle    = "Unknown Title"
	missingAbstract = "No abstract available"

	timestampLayout = "2006-01-02 15:04:05"
)

// timeNow is stubbed in tests.
var timeNow = time.Now

// Summarize returns the report entry for one paper. Papers without a
// title get a placeholder. A non-empty abstract is cut to its first 500
// characters and always carries the trailing ellipsis marker, truncated
// or not (R2.1-R2.3).
func Summarize(p types.Paper) types.PaperSummary {
	s := types.PaperSummary{Title: p.Title, Abstract: missingAbstract}
	if s.Title == "" {
		s.Title = defaultTitle
	}
	if p.Abstract != "" {
		r := []rune(p.Abstract)
		if len(r) > abstractLimit {
			r = r[:abstractLimit]
		}
		s.Abstract = string(r) + "..."
	}
	return s
}

// Synthesize builds the AnalysisReport from the corpus and the analysis
// outputs. Pure aggregation: the result is well formed even when themes
// or stats are empty, so degraded analysis stages never block reporting
// (R1.2).
func Synthesize(papers []types.Paper, themes []types.Theme, stats types.ReferenceStats) *types.AnalysisReport {
	if themes == nil {
		themes = []types.Theme{}
	}
	summaries := make([]types.PaperSummary, 0, len(papers))
	for _, p := range papers {
		summaries = append(summaries, Summarize(p))
	}
	return &types.AnalysisReport{
		TotalPapers: len(papers),
		Themes:      themes,
		References:  stats,
		Papers:      summaries,
		Timestamp:   timeNow().Format(timestampLayout),
	}
}
