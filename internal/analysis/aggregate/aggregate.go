package aggregate

import (
	"fmt"
	"slices"

	"github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
)

// minCategoriesForBreadth is the distinct-category count above which the
// coverage insight fires
const minCategoriesForBreadth = 3

// Aggregate computes frequency tables, the top domains and rule-based insights
// over a batch of analyzed results. An empty batch yields an empty summary.
func Aggregate(results []types.AnalyzedResult) types.AggregateSummary {
	summary := types.NewAggregateSummary()
	summary.Total = len(results)

	domainCounts := make(map[string]int)
	domainOrder := make([]string, 0)

	for _, r := range results {
		summary.ByRisk[r.Analysis.RiskLevel]++
		summary.ByCategory[r.Analysis.Category]++

		if r.HasEngines() {
			for _, engine := range r.Engines {
				summary.ByEngine[engine]++
			}
		} else {
			summary.ByEngine[types.UnknownEngine]++
		}

		domain := r.Analysis.Metadata.Domain
		if domain == "" {
			domain = types.UnknownDomain
		}
		if _, seen := domainCounts[domain]; !seen {
			domainOrder = append(domainOrder, domain)
		}
		domainCounts[domain]++
	}

	summary.TopDomains = topDomains(domainOrder, domainCounts)
	summary.Insights = insights(summary)
	return summary
}

// topDomains orders domains by descending count, keeping first-seen order on ties
func topDomains(order []string, counts map[string]int) []types.DomainCount {
	out := make([]types.DomainCount, 0, len(order))
	for _, d := range order {
		out = append(out, types.DomainCount{Domain: d, Count: counts[d]})
	}
	slices.SortStableFunc(out, func(a, b types.DomainCount) int {
		return b.Count - a.Count
	})
	if len(out) > types.MaxTopDomains {
		out = out[:types.MaxTopDomains]
	}
	return out
}

// insights evaluates each rule independently, in fixed order
func insights(s types.AggregateSummary) []types.Insight {
	out := make([]types.Insight, 0, 3)

	if n := s.ByRisk[types.RiskCritical] + s.ByRisk[types.RiskHigh]; n > 0 {
		out = append(out, types.Insight{
			Type:        types.InsightWarning,
			Title:       "High-Risk Results Detected",
			Description: fmt.Sprintf("%d results contain potentially sensitive information", n),
			Action:      "Review high-risk results carefully",
		})
	}

	if n := len(s.ByCategory); n > minCategoriesForBreadth {
		out = append(out, types.Insight{
			Type:        types.InsightInfo,
			Title:       "Diverse Source Coverage",
			Description: fmt.Sprintf("Results span %d different categories", n),
			Action:      "Consider filtering by category for focused analysis",
		})
	}

	if len(s.ByEngine) == 1 {
		desc := "All results come from one search engine"
		if _, ok := s.ByEngine[types.UnknownEngine]; ok {
			desc = "No result records which search engine found it"
		}
		out = append(out, types.Insight{
			Type:        types.InsightSuggestion,
			Title:       "Single Search Engine",
			Description: desc,
			Action:      "Try enabling multiple search engines for broader coverage",
		})
	}

	return out
}
