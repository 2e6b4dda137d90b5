package scorer

import (
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
)

// StandInRelevance is a placeholder, not a relevance model. It returns a value in
// [0.5, 1.0] drawn from a generator seeded by the result URL, so the same URL
// always scores the same. Use LexicalRelevance when a query is available.
func StandInRelevance(r types.RawResult) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(r.URL))
	seed := h.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return 0.5 + rng.Float64()*0.5
}

// LexicalRelevance scores the share of distinct query terms that occur in the
// result's title, snippet or URL. Without usable terms it falls back to
// StandInRelevance.
func LexicalRelevance(query string) RelevanceFunc {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return StandInRelevance
	}
	return func(r types.RawResult) float64 {
		text := strings.ToLower(r.Title + " " + r.Snippet + " " + r.URL)
		matched := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				matched++
			}
		}
		return Clamp(float64(matched) / float64(len(terms)))
	}
}

// queryOperators are search syntax tokens that carry no topical meaning
var queryOperators = map[string]struct{}{
	"site": {}, "or": {}, "and": {}, "com": {}, "www": {}, "http": {}, "https": {},
}

// Tokenize splits a query into distinct lowercased terms of two or more
// characters, dropping search operators.
func Tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, op := queryOperators[f]; op {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}
