package websearch

import (
	"testing"
	"time"

	analysis "github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/websearch/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRawResults(t *testing.T) {
	resp := &types.SearchResponse{
		Provider: types.ProviderSearXNG,
		Results: []*types.SearchResult{
			{
				Title:       " Jane Doe ",
				URL:         "https://github.com/janedoe",
				Content:     "repos",
				Engines:     []string{"google", "google", "bing"},
				Thumbnail:   "https://img.example/j.png",
				PublishedAt: "2024-03-01T10:00:00",
			},
			{URL: "javascript:alert(1)"},
			{URL: "/relative/path"},
			{URL: "ftp://files.example.com/a"},
			nil,
			{URL: "http://example.com", PublishedAt: "yesterday"},
		},
	}

	got, dropped := ToRawResults(resp)

	assert.Equal(t, 4, dropped)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "Jane Doe", first.Title)
	assert.Equal(t, []string{"google", "bing"}, first.Engines)
	assert.Equal(t, "https://img.example/j.png", first.Image)
	require.NotNil(t, first.Timestamp)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), *first.Timestamp)

	assert.Nil(t, got[1].Timestamp)
	assert.False(t, got[1].HasEngines())

	empty, n := ToRawResults(nil)
	assert.NotNil(t, empty)
	assert.Zero(t, n)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want *time.Time
	}{
		{"", nil},
		{"not a date", nil},
		{"2024-01-02", ptr(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))},
		{"2024-01-02T03:04:05+02:00", ptr(time.Date(2024, 1, 2, 1, 4, 5, 0, time.UTC))},
		{"2024-01-02 03:04:05", ptr(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))},
		{"Tue, 02 Jan 2024 03:04:05 GMT", ptr(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseTimestamp(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v", got)
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"HTTPS://GitHub.com/JaneDoe/", "https://github.com/JaneDoe"},
		{"https://example.com:443/a#frag", "https://example.com/a"},
		{"http://example.com:8080/", "http://example.com:8080"},
		{"https://example.com/", "https://example.com"},
		{"https://example.com/search?q=1", "https://example.com/search?q=1"},
		{"  not a url ", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestMerge(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := []analysis.RawResult{
		{URL: "https://github.com/janedoe", Title: "Jane", Engines: []string{"google"}},
		{URL: "https://example.com/a", Title: "A"},
	}
	b := []analysis.RawResult{
		{URL: "https://GITHUB.com/janedoe/", Title: "other", Snippet: "repos", Engines: []string{"bing", "google"}, Timestamp: &ts},
		{URL: "https://example.com/b", Title: "B", Engines: []string{"tavily"}},
	}

	got := Merge(a, b)

	require.Len(t, got, 3)
	assert.Equal(t, "https://github.com/janedoe", got[0].URL)
	assert.Equal(t, "Jane", got[0].Title)
	assert.Equal(t, "repos", got[0].Snippet)
	assert.Equal(t, []string{"google", "bing"}, got[0].Engines)
	assert.Equal(t, &ts, got[0].Timestamp)
	assert.Equal(t, "https://example.com/a", got[1].URL)
	assert.Equal(t, "https://example.com/b", got[2].URL)

	// inputs are untouched
	assert.Equal(t, []string{"google"}, a[0].Engines)
	assert.Empty(t, Merge())
}

func ptr(t time.Time) *time.Time { return &t }
