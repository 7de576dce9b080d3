// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package references

import (
	"reflect"
	"testing"

	"github.com/pdiddy/litreview/pkg/types"
)

func withRefs(refs ...string) types.Paper {
	return types.Paper{Title: "t", References: refs}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name       string
		papers     []types.Paper
		wantTotal  int
		wantCommon []string
		wantAvg    float64
	}{
		{
			name: "shared reference across three papers",
			papers: []types.Paper{
				withRefs("X", "Y"),
				withRefs("X", "Z"),
				withRefs("X"),
			},
			wantTotal:  5,
			wantCommon: []string{"X"},
			wantAvg:    5.0 / 3.0,
		},
		{
			name:       "single paper with no references seeds an empty set",
			papers:     []types.Paper{withRefs()},
			wantTotal:  0,
			wantCommon: []string{},
			wantAvg:    0,
		},
		{
			name: "one empty list collapses the intersection",
			papers: []types.Paper{
				withRefs("X", "Y"),
				withRefs(),
				withRefs("X"),
			},
			wantTotal:  3,
			wantCommon: []string{},
			wantAvg:    1,
		},
		{
			name:       "empty corpus",
			papers:     nil,
			wantTotal:  0,
			wantCommon: []string{},
			wantAvg:    0,
		},
		{
			name: "duplicates count toward the total but not the set",
			papers: []types.Paper{
				withRefs("X", "X", "Y"),
				withRefs("X"),
			},
			wantTotal:  4,
			wantCommon: []string{"X"},
			wantAvg:    2,
		},
		{
			name: "common references come back sorted",
			papers: []types.Paper{
				withRefs("c", "a", "b"),
				withRefs("b", "c", "a"),
			},
			wantTotal:  6,
			wantCommon: []string{"a", "b", "c"},
			wantAvg:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.papers)
			if got.TotalReferences != tt.wantTotal {
				t.Errorf("TotalReferences = %d, want %d", got.TotalReferences, tt.wantTotal)
			}
			if !reflect.DeepEqual(got.CommonReferences, tt.wantCommon) {
				t.Errorf("CommonReferences = %v, want %v", got.CommonReferences, tt.wantCommon)
			}
			if got.AvgPerPaper != tt.wantAvg {
				t.Errorf("AvgPerPaper = %v, want %v", got.AvgPerPaper, tt.wantAvg)
			}
		})
	}
}

// Adding a paper can only shrink the common set, never grow it.
func TestAnalyzeIntersectionShrinks(t *testing.T) {
	papers := []types.Paper{
		withRefs("a", "b", "c", "d"),
		withRefs("a", "b", "c"),
		withRefs("a", "b"),
		withRefs("b"),
	}

	prev := Analyze(papers[:1]).CommonReferences
	for n := 2; n <= len(papers); n++ {
		cur := Analyze(papers[:n]).CommonReferences

		set := make(map[string]bool, len(prev))
		for _, ref := range prev {
			set[ref] = true
		}
		for _, ref := range cur {
			if !set[ref] {
				t.Fatalf("common set grew at %d papers: %v not in %v", n, ref, prev)
			}
		}
		prev = cur
	}
}

// The serialized form must be an empty list, not null, when nothing is
// common.
func TestAnalyzeCommonNeverNil(t *testing.T) {
	if got := Analyze(nil).CommonReferences; got == nil {
		t.Error("CommonReferences is nil for an empty corpus, want empty slice")
	}
	if got := Analyze([]types.Paper{withRefs()}).CommonReferences; got == nil {
		t.Error("CommonReferences is nil after empty seed, want empty slice")
	}
}
