package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/lk2023060901/osint-analysis-backend/internal/websearch/types"
)

// SearXNGProvider implements the SearXNG search API
type SearXNGProvider struct {
	*BaseProvider
}

// NewSearXNGProvider creates a new SearXNG provider
func NewSearXNGProvider(config *types.ProviderConfig) (Provider, error) {
	base, err := NewBaseProvider(config)
	if err != nil {
		return nil, err
	}
	return &SearXNGProvider{BaseProvider: base}, nil
}

// Search executes a search query using the SearXNG API
func (p *SearXNGProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	startTime := time.Now()

	// Build query parameters
	params := url.Values{}
	params.Set("q", scopedQuery(req))
	params.Set("format", "json")
	params.Set("pageno", "1")
	if len(p.config.Engines) > 0 {
		params.Set("engines", strings.Join(p.config.Engines, ","))
	}
	if req.Language != "" {
		params.Set("language", req.Language)
	}
	params.Set("safesearch", strconv.Itoa(req.SafeSearch))

	apiURL := fmt.Sprintf("%s/search?%s", strings.TrimRight(p.config.APIHost, "/"), params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range p.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}
	if p.config.BasicAuthUsername != "" && p.config.BasicAuthPassword != "" {
		httpReq.SetBasicAuth(p.config.BasicAuthUsername, p.config.BasicAuthPassword)
	}

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

	results, err := parseSearXNG(body)
	if err != nil {
		return nil, &types.ProviderError{Provider: p.GetID(), Code: "DECODE_FAILED", Message: "Malformed response", Err: err}
	}
	if req.MaxResults > 0 && len(results) > req.MaxResults {
		results = results[:req.MaxResults]
	}

	return &types.SearchResponse{
		Query:      req.Query,
		Results:    results,
		TotalCount: len(results),
		Took:       time.Since(startTime).Milliseconds(),
		Provider:   p.GetID(),
	}, nil
}

// parseSearXNG reads the result list. Instances differ in which optional
// fields they emit, so each field is probed individually.
func parseSearXNG(body []byte) ([]*types.SearchResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, types.ErrInvalidResponse
	}
	root := gjson.ParseBytes(body)
	list := root.Get("results")
	if !list.IsArray() {
		return nil, types.ErrInvalidResponse
	}

	results := make([]*types.SearchResult, 0, len(list.Array()))
	list.ForEach(func(_, r gjson.Result) bool {
		hit := &types.SearchResult{
			Title:       r.Get("title").String(),
			URL:         r.Get("url").String(),
			Content:     r.Get("content").String(),
			Score:       float32(r.Get("score").Float()),
			PublishedAt: r.Get("publishedDate").String(),
			Thumbnail:   firstNonEmpty(r.Get("img_src").String(), r.Get("thumbnail").String()),
		}
		for _, e := range r.Get("engines").Array() {
			if name := e.String(); name != "" {
				hit.Engines = append(hit.Engines, name)
			}
		}
		if len(hit.Engines) == 0 {
			if name := r.Get("engine").String(); name != "" {
				hit.Engines = []string{name}
			}
		}
		results = append(results, hit)
		return true
	})
	return results, nil
}

// scopedQuery folds domain include/exclude lists into search operators
func scopedQuery(req *types.SearchRequest) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(req.Query))
	for _, d := range req.IncludeDomains {
		b.WriteString(" site:" + d)
	}
	for _, d := range req.ExcludeDomains {
		b.WriteString(" -site:" + d)
	}
	return b.String()
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
