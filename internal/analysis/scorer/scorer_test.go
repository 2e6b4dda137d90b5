package scorer

import (
	"math"
	"strings"
	"testing"

	"github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"

	"github.com/stretchr/testify/assert"
)

func TestConfidence(t *testing.T) {
	longTitle := "A descriptive title over twenty characters"
	longSnippet := strings.Repeat("snippet ", 10)

	tests := []struct {
		name   string
		result types.RawResult
		want   float64
	}{
		{
			name:   "base only",
			result: types.RawResult{URL: "http://example.com", Title: "short"},
			want:   0.5,
		},
		{
			name:   "https bonus",
			result: types.RawResult{URL: "https://example.com"},
			want:   0.6,
		},
		{
			name:   "multi engine bonus",
			result: types.RawResult{URL: "http://example.com", Engines: []string{"google", "bing"}},
			want:   0.7,
		},
		{
			name:   "single engine gets no bonus",
			result: types.RawResult{URL: "http://example.com", Engines: []string{"google"}},
			want:   0.5,
		},
		{
			name: "every bonus saturates at one",
			result: types.RawResult{
				URL:     "https://example.com",
				Title:   longTitle,
				Snippet: longSnippet,
				Engines: []string{"google", "bing", "duckduckgo"},
			},
			want: 1.0,
		},
		{
			name: "three single bonuses land exactly on 0.8",
			result: types.RawResult{
				URL:     "https://example.com",
				Title:   strings.Repeat("t", 25),
				Snippet: strings.Repeat("s", 60),
			},
			want: 0.8,
		},
		{
			name:   "malformed url gets no https bonus",
			result: types.RawResult{URL: "https//broken", Title: longTitle},
			want:   0.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.result)
			assert.Equal(t, tt.want, got)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestStandInRelevance(t *testing.T) {
	urls := []string{"", "https://a.example", "https://b.example/x", "not a url", "https://github.com/alice"}
	for _, u := range urls {
		r := types.RawResult{URL: u}
		got := StandInRelevance(r)
		assert.GreaterOrEqual(t, got, 0.5)
		assert.LessOrEqual(t, got, 1.0)
		assert.Equal(t, got, StandInRelevance(r), "same url must score the same")
	}
}

func TestLexicalRelevance(t *testing.T) {
	fn := LexicalRelevance(`site:linkedin.com "Jane Doe"`)

	full := types.RawResult{URL: "https://www.linkedin.com/in/janedoe", Title: "Jane Doe - Engineer"}
	half := types.RawResult{URL: "https://example.com", Title: "Jane Smith"}
	none := types.RawResult{URL: "https://example.com", Title: "Unrelated"}

	// terms: linkedin, jane, doe
	assert.InDelta(t, 1.0, fn(full), 1e-9)
	assert.InDelta(t, 1.0/3.0, fn(half), 1e-9)
	assert.InDelta(t, 0.0, fn(none), 1e-9)
}

func TestLexicalRelevance_EmptyQueryFallsBack(t *testing.T) {
	fn := LexicalRelevance("  ")
	r := types.RawResult{URL: "https://example.com"}
	assert.Equal(t, StandInRelevance(r), fn(r))
}

func TestScorer_Score(t *testing.T) {
	r := types.RawResult{URL: "https://example.com"}

	var zero Scorer
	s := zero.Score(r)
	assert.InDelta(t, 0.6, s.Confidence, 1e-9)
	assert.Equal(t, StandInRelevance(r), s.Relevance)

	wild := New(func(types.RawResult) float64 { return 7 })
	assert.Equal(t, 1.0, wild.Score(r).Relevance)

	negative := New(func(types.RawResult) float64 { return -3 })
	assert.Equal(t, 0.0, negative.Score(r).Relevance)

	nan := New(func(types.RawResult) float64 { return math.NaN() })
	assert.Equal(t, 0.0, nan.Score(r).Relevance)
}

func TestTokenize(t *testing.T) {
	got := Tokenize(`"Jane Doe" OR "jane.doe@" site:github.com a`)
	assert.Equal(t, []string{"jane", "doe", "github"}, got)
}
