package types

import (
	"strings"
	"time"

	analysis "github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/collector"
)

// MaxHistory bounds the per-investigation search history
const MaxHistory = 50

// History entry sources
const (
	SourceSearch = "search"
	SourceIngest = "ingest"
)

// Investigation is one target under research
type Investigation struct {
	ID     string           `json:"id"`
	Target collector.Target `json:"target"`
	// Query drives lexical relevance; the target name is used when empty
	Query       string    `json:"query,omitempty"`
	ResultCount int       `json:"resultCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RelevanceQuery is the text results are scored against
func (i *Investigation) RelevanceQuery() string {
	if q := strings.TrimSpace(i.Query); q != "" {
		return q
	}
	return strings.TrimSpace(i.Target.Name)
}

// HistoryEntry records one search or ingest
type HistoryEntry struct {
	Source   string    `json:"source"`
	Query    string    `json:"query,omitempty"`
	Results  int       `json:"results"`
	Failures int       `json:"failures"`
	At       time.Time `json:"at"`
}

// View is the analyzed, filtered presentation of a result set.
// Summary covers every analyzed result; Results honours Filters.
type View struct {
	Investigation *Investigation            `json:"investigation,omitempty"`
	Summary       analysis.AggregateSummary `json:"summary"`
	Results       []analysis.AnalyzedResult `json:"results"`
	Filters       analysis.FilterState      `json:"filters"`
	Total         int                       `json:"total"`
	FilteredTotal int                       `json:"filteredTotal"`
}

// SearchReport summarises one fan-out search
type SearchReport struct {
	Queries  []string  `json:"queries"`
	Calls    int       `json:"calls"`
	Fetched  int       `json:"fetched"`
	Added    int       `json:"added"`
	Dropped  int       `json:"dropped"`
	Total    int       `json:"total"`
	Failures []Failure `json:"failures"`
}

// Failure is a skipped provider call
type Failure struct {
	Provider string `json:"provider"`
	Query    string `json:"query"`
	Error    string `json:"error"`
}

// IngestReport summarises an ingested batch
type IngestReport struct {
	Received int `json:"received"`
	Dropped  int `json:"dropped"`
	Added    int `json:"added"`
	Total    int `json:"total"`
}
