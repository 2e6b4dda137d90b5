// Package export serialises an investigation view into the dashboard's export
// document and hands it to a sink.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	analysis "github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/investigation/types"
)

// Supported sink backends
const (
	BackendLocal = "local"
	BackendMinIO = "minio"
)

// ContentType of every export document
const ContentType = "application/json"

// ErrSinkUnavailable is returned when no sink is configured
var ErrSinkUnavailable = errors.New("export: sink unavailable")

// Document is the export file layout
type Document struct {
	Investigation *types.Investigation      `json:"investigation"`
	Summary       analysis.AggregateSummary `json:"summary"`
	Results       []analysis.AnalyzedResult `json:"results"`
	Filters       analysis.FilterState      `json:"filters"`
	ExportDate    string                    `json:"exportDate"`
}

// Location tells the caller where a document ended up
type Location struct {
	Backend string `json:"backend"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	URL     string `json:"url,omitempty"`
	Size    int64  `json:"size"`
}

// Sink persists an encoded document under name
type Sink interface {
	Write(ctx context.Context, name string, data []byte) (*Location, error)
}

// NewDocument builds the export document from a view. Results are the
// filtered list the investigator is looking at.
func NewDocument(view *types.View, at time.Time) *Document {
	results := view.Results
	if results == nil {
		results = []analysis.AnalyzedResult{}
	}
	return &Document{
		Investigation: view.Investigation,
		Summary:       view.Summary,
		Results:       results,
		Filters:       view.Filters,
		ExportDate:    FormatDate(at),
	}
}

// FormatDate renders an ISO-8601 UTC timestamp with millisecond precision
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Encode marshals the document as indented JSON
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode document: %w", err)
	}
	return data, nil
}

// FileName derives a stable file name for an investigation export
func FileName(investigationID string, at time.Time) string {
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, investigationID)
	if id == "" {
		id = "adhoc"
	}
	return fmt.Sprintf("osint-investigation-%s-%s.json", id, at.UTC().Format("20060102T150405Z"))
}
