package types

import "strings"

// MaxQueryLength bounds SearchRequest.Query in bytes
const MaxQueryLength = 1000

// SearchRequest represents a search request
type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
	Language   string `json:"language,omitempty"`
	// SafeSearch follows the SearXNG levels: 0 off, 1 moderate, 2 strict
	SafeSearch     int      `json:"safe_search,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
}

// Validate checks the query is present and bounded
func (r *SearchRequest) Validate() error {
	q := strings.TrimSpace(r.Query)
	if q == "" {
		return ErrEmptyQuery
	}
	if len(q) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}
