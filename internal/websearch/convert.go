package websearch

import (
	"net/url"
	"strings"
	"time"

	analysis "github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/validator"
	"github.com/lk2023060901/osint-analysis-backend/internal/websearch/types"
)

// timestampLayouts are the publish-date formats seen from providers
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// ToRawResults converts provider hits into RawResult values. Hits whose URL is
// not an absolute http(s) URL are dropped; dropped reports how many.
func ToRawResults(resp *types.SearchResponse) (results []analysis.RawResult, dropped int) {
	results = make([]analysis.RawResult, 0)
	if resp == nil {
		return results, 0
	}

	for _, hit := range resp.Results {
		if hit == nil || !ValidResultURL(hit.URL) {
			dropped++
			continue
		}
		results = append(results, analysis.RawResult{
			URL:       strings.TrimSpace(hit.URL),
			Title:     strings.TrimSpace(hit.Title),
			Snippet:   strings.TrimSpace(hit.Content),
			Engines:   dedupe(hit.Engines),
			Image:     hit.Thumbnail,
			Timestamp: ParseTimestamp(hit.PublishedAt),
		})
	}
	return results, dropped
}

// ValidResultURL reports whether raw is an absolute http or https URL with a host
func ValidResultURL(raw string) bool {
	return validator.IsHTTPURL(raw)
}

// ParseTimestamp parses a provider date, nil when absent or unrecognised
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// Merge combines batches, collapsing results with the same normalized URL.
// Engines are unioned; title, snippet, image and timestamp keep the first
// non-empty value. Output follows first-seen order.
func Merge(batches ...[]analysis.RawResult) []analysis.RawResult {
	index := make(map[string]int)
	out := make([]analysis.RawResult, 0)

	for _, batch := range batches {
		for _, r := range batch {
			key := NormalizeURL(r.URL)
			i, seen := index[key]
			if !seen {
				r.Engines = dedupe(r.Engines)
				index[key] = len(out)
				out = append(out, r)
				continue
			}

			m := &out[i]
			m.Engines = dedupe(append(append([]string{}, m.Engines...), r.Engines...))
			if m.Title == "" {
				m.Title = r.Title
			}
			if m.Snippet == "" {
				m.Snippet = r.Snippet
			}
			if m.Image == "" {
				m.Image = r.Image
			}
			if m.Timestamp == nil {
				m.Timestamp = r.Timestamp
			}
		}
	}
	return out
}

// NormalizeURL lowercases scheme and host, drops the fragment, a default port
// and a trailing slash. Unparsable input is returned trimmed.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	port := u.Port()
	if port != "" && !(u.Scheme == "http" && port == "80") && !(u.Scheme == "https" && port == "443") {
		host += ":" + port
	}
	u.Host = host
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = strings.TrimSuffix(u.RawPath, "/")
	} else {
		u.Path = ""
		u.RawPath = ""
	}
	return u.String()
}

func dedupe(vs []string) []string {
	if len(vs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(vs))
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
