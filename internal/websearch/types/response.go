package types

// SearchResponse represents a search response
type SearchResponse struct {
	Query      string          `json:"query"`
	Results    []*SearchResult `json:"results"`
	TotalCount int             `json:"total_count,omitempty"`
	Took       int64           `json:"took"` // milliseconds
	Provider   ProviderID      `json:"provider"`
}

// SearchResult represents a single search hit as reported by a provider
type SearchResult struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Content     string   `json:"content"` // snippet
	Score       float32  `json:"score,omitempty"`
	PublishedAt string   `json:"published_at,omitempty"`
	Engines     []string `json:"engines,omitempty"` // upstream engines that returned the hit
	Thumbnail   string   `json:"thumbnail,omitempty"`
}
