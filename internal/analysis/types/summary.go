package types

import (
	"fmt"
	"strings"
)

// MaxTopDomains bounds AggregateSummary.TopDomains
const MaxTopDomains = 10

// DomainCount is one entry of the top-domains table
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// InsightType classifies an insight for display
type InsightType string

const (
	InsightWarning    InsightType = "warning"
	InsightInfo       InsightType = "info"
	InsightSuggestion InsightType = "suggestion"
)

// Insight is a rule-derived observation about a result set
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Action      string      `json:"action"`
}

// AggregateSummary holds statistics computed over a batch of analyzed results.
// It is always recomputed from the results and never stored as authoritative state.
type AggregateSummary struct {
	Total      int               `json:"total"`
	ByRisk     map[RiskLevel]int `json:"byRisk"`
	ByCategory map[Category]int  `json:"byCategory"`
	ByEngine   map[string]int    `json:"byEngine"`
	TopDomains []DomainCount     `json:"topDomains"`
	Insights   []Insight         `json:"insights"`
}

// NewAggregateSummary returns an empty summary with non-nil collections
func NewAggregateSummary() AggregateSummary {
	return AggregateSummary{
		ByRisk:     make(map[RiskLevel]int),
		ByCategory: make(map[Category]int),
		ByEngine:   make(map[string]int),
		TopDomains: []DomainCount{},
		Insights:   []Insight{},
	}
}

// SortKey selects the ordering applied by the filter view
type SortKey string

const (
	SortNone       SortKey = ""
	SortRelevance  SortKey = "relevance"
	SortConfidence SortKey = "confidence"
	SortRisk       SortKey = "risk"
	SortDate       SortKey = "date"
)

// ParseSortKey validates a user supplied sort key. The empty string means no sort.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNone, SortRelevance, SortConfidence, SortRisk, SortDate:
		return k, nil
	default:
		return SortNone, fmt.Errorf("unknown sort key %q", s)
	}
}

// FilterState is the user controlled view selection.
// An empty set on any dimension places no restriction on that dimension.
type FilterState struct {
	Risk          []RiskLevel `json:"risk"`
	Categories    []Category  `json:"categories"`
	Engines       []string    `json:"engines"`
	MinConfidence float64     `json:"minConfidence"`
	SortBy        SortKey     `json:"sortBy"`
}

// Validate rejects values outside the known tiers, categories and sort keys
func (f FilterState) Validate() error {
	for _, r := range f.Risk {
		if !r.Valid() {
			return fmt.Errorf("unknown risk level %q", r)
		}
	}
	for _, c := range f.Categories {
		if !c.Valid() {
			return fmt.Errorf("unknown category %q", c)
		}
	}
	if f.MinConfidence < 0 || f.MinConfidence > 1 {
		return fmt.Errorf("minConfidence must be within [0,1], got %v", f.MinConfidence)
	}
	if _, err := ParseSortKey(string(f.SortBy)); err != nil {
		return err
	}
	return nil
}
