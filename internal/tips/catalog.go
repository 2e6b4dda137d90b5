// Package tips suggests next investigative steps from an aggregate summary.
package tips

import (
	analysis "github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
)

// Context groups tips by what the results contain
type Context string

const (
	ContextHighRisk Context = "high-risk"
	ContextLeak     Context = "leak"
	ContextCode     Context = "code"
	ContextSocial   Context = "social"
	ContextGeneral  Context = "general"
)

// Tip is one piece of advice
type Tip struct {
	Context Context `json:"context"`
	Text    string  `json:"text"`
}

var catalog = map[Context][]string{
	ContextHighRisk: {
		"Review critical and high risk results first and record where each was found.",
		"Do not log in to or interact with exposed admin or database endpoints; document them only.",
		"Capture a timestamped copy of sensitive pages before they are taken down.",
	},
	ContextLeak: {
		"Paste sites rotate content quickly; archive leak results as soon as they appear.",
		"Cross-check leaked identifiers against the target's known email and username patterns.",
	},
	ContextCode: {
		"Check repository commit history for author emails and earlier usernames.",
		"Search code hosts for configuration files that mention the target's domains.",
	},
	ContextSocial: {
		"Compare profile photos and bios across platforms to confirm accounts belong to the same person.",
		"Look at follower and connection overlap to map the target's network.",
	},
	ContextGeneral: {
		"Combine several search engines; each indexes different corners of the web.",
		"Narrow queries with location or profession to cut false positives on common names.",
		"Verify every finding from at least two independent sources.",
	},
}

// Contexts picks the tip groups that apply to a summary, most urgent first.
// General always comes last.
func Contexts(s analysis.AggregateSummary) []Context {
	out := make([]Context, 0, 5)
	if s.ByRisk[analysis.RiskCritical]+s.ByRisk[analysis.RiskHigh] > 0 {
		out = append(out, ContextHighRisk)
	}
	if s.ByCategory[analysis.CategoryLeak] > 0 {
		out = append(out, ContextLeak)
	}
	if s.ByCategory[analysis.CategoryCode] > 0 {
		out = append(out, ContextCode)
	}
	if s.ByCategory[analysis.CategorySocial] > 0 {
		out = append(out, ContextSocial)
	}
	return append(out, ContextGeneral)
}

// Select returns the catalog tips for a summary
func Select(s analysis.AggregateSummary) []Tip {
	var out []Tip
	for _, c := range Contexts(s) {
		for _, text := range catalog[c] {
			out = append(out, Tip{Context: c, Text: text})
		}
	}
	return out
}
