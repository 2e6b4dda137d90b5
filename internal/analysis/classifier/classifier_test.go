package classifier

import (
	"testing"

	"github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.RiskLevel
	}{
		{name: "critical keyword", text: "Confidential contract", want: types.RiskCritical},
		{name: "critical beats high", text: "internal admin panel", want: types.RiskCritical},
		{name: "high keyword", text: "Private repository", want: types.RiskHigh},
		{name: "embedded high keyword", text: "the environment", want: types.RiskHigh},
		{name: "medium keyword", text: "Contact us", want: types.RiskMedium},
		{name: "low keyword", text: "About the company", want: types.RiskLow},
		{name: "no keyword defaults to low", text: "weather forecast", want: types.RiskLow},
		{name: "empty text", text: "", want: types.RiskLow},
		{name: "case insensitive", text: "PASSWORD DUMP", want: types.RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRisk(tt.text))
		})
	}
}

func TestClassifyCategory(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want types.Category
	}{
		{name: "code", url: "https://github.com/alice/repo", want: types.CategoryCode},
		{name: "linkedin is social first", url: "https://www.linkedin.com/in/alice", want: types.CategorySocial},
		{name: "professional", url: "https://www.xing.com/profile/alice", want: types.CategoryProfessional},
		{name: "academic edu suffix", url: "https://cs.stanford.edu/~alice", want: types.CategoryAcademic},
		{name: "leak", url: "https://pastebin.com/abc123", want: types.CategoryLeak},
		{name: "news subdomain", url: "https://news.ycombinator.com/item?id=1", want: types.CategoryNews},
		{name: "government", url: "https://www.usa.gov/agencies", want: types.CategoryGovernment},
		{name: "host is lowercased", url: "https://GitHub.com/Alice", want: types.CategoryCode},
		{name: "unmatched", url: "https://example.com/docs", want: types.CategoryOther},
		{name: "malformed", url: "://not a url", want: types.CategoryOther},
		{name: "relative", url: "/just/a/path", want: types.CategoryOther},
		{name: "empty", url: "", want: types.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCategory(tt.url))
		})
	}
}

func TestClassify(t *testing.T) {
	r := types.RawResult{
		URL:   "https://example.com/docs",
		Title: "confidential contract",
	}

	got := Classify(r)
	assert.Equal(t, types.RiskCritical, got.RiskLevel)
	assert.Equal(t, types.CategoryOther, got.Category)

	// identical input classifies identically
	assert.Equal(t, got, Classify(r))
}

func TestClassify_URLContributesToRisk(t *testing.T) {
	r := types.RawResult{URL: "https://example.com/login", Title: "Welcome"}
	assert.Equal(t, types.RiskHigh, Classify(r).RiskLevel)
}

func TestHostname(t *testing.T) {
	host, ok := Hostname("https://Sub.Example.COM:8443/path")
	assert.True(t, ok)
	assert.Equal(t, "sub.example.com", host)

	_, ok = Hostname("mailto:someone")
	assert.False(t, ok)
}
