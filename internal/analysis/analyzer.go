// Package analysis turns raw search hits into risk-tagged, scored results.
//
// Every function in this package and its sub-packages is pure: no I/O, no
// shared mutable state, safe for concurrent use.
package analysis

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"

	"github.com/lk2023060901/osint-analysis-backend/internal/analysis/classifier"
	"github.com/lk2023060901/osint-analysis-backend/internal/analysis/scorer"
	"github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
)

// Analyzer classifies and scores results. It carries no state between calls.
type Analyzer struct {
	scorer scorer.Scorer
}

// NewAnalyzer returns an Analyzer using relevance for relevance scoring.
// A nil relevance selects scorer.StandInRelevance.
func NewAnalyzer(relevance scorer.RelevanceFunc) Analyzer {
	return Analyzer{scorer: scorer.New(relevance)}
}

// ForQuery returns an Analyzer scoring relevance lexically against query
func ForQuery(query string) Analyzer {
	return NewAnalyzer(scorer.LexicalRelevance(query))
}

// Analyze derives the Analysis of one result. It never fails; malformed input
// degrades to category "other", risk "low" and domain "unknown".
func (a Analyzer) Analyze(r types.RawResult) types.AnalyzedResult {
	c := classifier.Classify(r)
	s := a.scorer.Score(r)
	return types.AnalyzedResult{
		RawResult: r,
		Analysis: types.Analysis{
			RiskLevel:  c.RiskLevel,
			Category:   c.Category,
			Confidence: s.Confidence,
			Relevance:  s.Relevance,
			Metadata:   ExtractMetadata(r),
		},
	}
}

// AnalyzeAll analyzes a batch, preserving input order
func (a Analyzer) AnalyzeAll(results []types.RawResult) []types.AnalyzedResult {
	out := make([]types.AnalyzedResult, 0, len(results))
	for _, r := range results {
		out = append(out, a.Analyze(r))
	}
	return out
}

// ExtractMetadata derives URL and text facts from a result
func ExtractMetadata(r types.RawResult) types.Metadata {
	md := types.Metadata{
		Domain:        types.UnknownDomain,
		TitleLength:   utf8.RuneCountInString(r.Title),
		SnippetLength: utf8.RuneCountInString(r.Snippet),
		HasImage:      strings.TrimSpace(r.Image) != "",
	}

	u, ok := classifier.ParseURL(r.URL)
	if !ok {
		return md
	}

	md.Domain = strings.ToLower(u.Hostname())
	md.Protocol = strings.ToLower(u.Scheme)
	md.Path = u.EscapedPath()
	if md.Path == "" {
		md.Path = "/"
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(md.Domain); err == nil {
		md.RegistrableDomain = etld1
	}
	return md
}
