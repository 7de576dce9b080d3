// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package references computes corpus-wide citation statistics: the total
// reference count, the average per paper, and the set of works cited by
// every paper in the corpus.
// Implements: prd004-references (R1-R3).
package references

import (
	"sort"

	"github.com/pdiddy/litreview/pkg/types"
)

// Analyze computes ReferenceStats over papers in one linear pass.
//
// The common set is seeded from the first paper's references and
// intersected with each later paper's set, so a single paper with an
// empty reference list empties the result for the whole corpus. A
// reference only counts as common when every paper cites it (R2.2).
func Analyze(papers []types.Paper) types.ReferenceStats {
	stats := types.ReferenceStats{CommonReferences: []string{}}

	var common map[string]bool
	for _, p := range papers {
		stats.TotalReferences += len(p.References)

		set := make(map[string]bool, len(p.References))
		for _, ref := range p.References {
			set[ref] = true
		}
		if common == nil {
			common = set
			continue
		}
		for ref := range common {
			if !set[ref] {
				delete(common, ref)
			}
		}
	}

	for ref := range common {
		stats.CommonReferences = append(stats.CommonReferences, ref)
	}
	sort.Strings(stats.CommonReferences)

	if len(papers) > 0 {
		stats.AvgPerPaper = float64(stats.TotalReferences) / float64(len(papers))
	}
	return stats
}
