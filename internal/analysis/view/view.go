package view

import (
	"cmp"
	"slices"

	"github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
)

// Apply returns the results matching f, ordered by f.SortBy.
// Dimensions combine with AND, values within a dimension with OR.
// The input slice is never modified.
func Apply(results []types.AnalyzedResult, f types.FilterState) []types.AnalyzedResult {
	risk := setOf(f.Risk)
	cats := setOf(f.Categories)
	engines := setOf(f.Engines)

	out := make([]types.AnalyzedResult, 0, len(results))
	for _, r := range results {
		if len(risk) > 0 && !risk[r.Analysis.RiskLevel] {
			continue
		}
		if len(cats) > 0 && !cats[r.Analysis.Category] {
			continue
		}
		if len(engines) > 0 && !anyIn(r.Engines, engines) {
			continue
		}
		if r.Analysis.Confidence < f.MinConfidence {
			continue
		}
		out = append(out, r)
	}

	if less := comparator(f.SortBy); less != nil {
		slices.SortStableFunc(out, less)
	}
	return out
}

// comparator returns a descending ordering for key, nil for no sort
func comparator(key types.SortKey) func(a, b types.AnalyzedResult) int {
	switch key {
	case types.SortRelevance:
		return func(a, b types.AnalyzedResult) int {
			return cmp.Compare(b.Analysis.Relevance, a.Analysis.Relevance)
		}
	case types.SortConfidence:
		return func(a, b types.AnalyzedResult) int {
			return cmp.Compare(b.Analysis.Confidence, a.Analysis.Confidence)
		}
	case types.SortRisk:
		return func(a, b types.AnalyzedResult) int {
			return cmp.Compare(b.Analysis.RiskLevel.Severity(), a.Analysis.RiskLevel.Severity())
		}
	case types.SortDate:
		return func(a, b types.AnalyzedResult) int {
			return cmp.Compare(unix(b), unix(a))
		}
	default:
		return nil
	}
}

// unix treats a missing timestamp as the epoch
func unix(r types.AnalyzedResult) int64 {
	if r.Timestamp == nil {
		return 0
	}
	return r.Timestamp.UnixNano()
}

func setOf[T comparable](vs []T) map[T]bool {
	if len(vs) == 0 {
		return nil
	}
	m := make(map[T]bool, len(vs))
	for _, v := range vs {
		m[v] = true
	}
	return m
}

func anyIn(vs []string, set map[string]bool) bool {
	for _, v := range vs {
		if set[v] {
			return true
		}
	}
	return false
}
