package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/lk2023060901/osint-analysis-backend/internal/websearch/types"
)

// TavilyEngine is the engine name attached to every Tavily hit
const TavilyEngine = "tavily"

// TavilyProvider implements the Tavily search API
type TavilyProvider struct {
	*BaseProvider
}

// NewTavilyProvider creates a new Tavily provider
func NewTavilyProvider(config *types.ProviderConfig) (Provider, error) {
	base, err := NewBaseProvider(config)
	if err != nil {
		return nil, err
	}
	return &TavilyProvider{BaseProvider: base}, nil
}

// tavilyRequest represents a Tavily API request
type tavilyRequest struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
	IncludeImages  bool     `json:"include_images,omitempty"`
}

// Search executes a search query using the Tavily API
func (p *TavilyProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	startTime := time.Now()

	tavilyReq := tavilyRequest{
		Query:          req.Query,
		SearchDepth:    "basic",
		MaxResults:     req.MaxResults,
		IncludeDomains: req.IncludeDomains,
		ExcludeDomains: req.ExcludeDomains,
		IncludeImages:  true,
	}
	if tavilyReq.MaxResults == 0 {
		tavilyReq.MaxResults = 10
	}

	reqBody, err := json.Marshal(tavilyReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/search", strings.TrimRight(p.config.APIHost, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range p.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.GetAPIKey()))

	resp, err := p.DoRequest(ctx, httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to execute request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, p.statusError(resp.StatusCode, body)
	}

	results, err := parseTavily(body)
	if err != nil {
		return nil, &types.ProviderError{Provider: p.GetID(), Code: "DECODE_FAILED", Message: "Malformed response", Err: err}
	}

	return &types.SearchResponse{
		Query:      req.Query,
		Results:    results,
		TotalCount: len(results),
		Took:       time.Since(startTime).Milliseconds(),
		Provider:   p.GetID(),
	}, nil
}

// parseTavily reads the result list. Images come back as a separate top-level
// list and are paired with results by position.
func parseTavily(body []byte) ([]*types.SearchResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, types.ErrInvalidResponse
	}
	root := gjson.ParseBytes(body)
	list := root.Get("results")
	if !list.IsArray() {
		return nil, types.ErrInvalidResponse
	}

	images := root.Get("images").Array()
	results := make([]*types.SearchResult, 0, len(list.Array()))
	list.ForEach(func(_, r gjson.Result) bool {
		hit := &types.SearchResult{
			Title:       r.Get("title").String(),
			URL:         r.Get("url").String(),
			Content:     r.Get("content").String(),
			Score:       float32(r.Get("score").Float()),
			PublishedAt: r.Get("published_date").String(),
			Engines:     []string{TavilyEngine},
		}
		if i := len(results); i < len(images) {
			// entries are plain URLs, or objects when descriptions are requested
			hit.Thumbnail = firstNonEmpty(images[i].Get("url").String(), images[i].String())
		}
		results = append(results, hit)
		return true
	})
	return results, nil
}
