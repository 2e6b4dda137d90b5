package scorer

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/lk2023060901/osint-analysis-backend/internal/analysis/classifier"
	"github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
)

// confidence is counted in tenths so thresholds like 0.8 compare exactly
const (
	baseConfidence     = 5
	multiEngineBonus   = 2
	longTitleBonus     = 1
	longSnippetBonus   = 1
	httpsBonus         = 1
	maxConfidence      = 10
	longTitleThreshold = 20
	longSnippetMinimum = 50
)

// RelevanceFunc scores how well a result matches the investigation, within [0,1]
type RelevanceFunc func(r types.RawResult) float64

// Scores is the numeric part of an analysis
type Scores struct {
	Confidence float64
	Relevance  float64
}

// Scorer combines the fixed confidence heuristic with a pluggable relevance function.
// The zero value uses StandInRelevance.
type Scorer struct {
	relevance RelevanceFunc
}

// New returns a Scorer using fn for relevance. A nil fn selects StandInRelevance.
func New(fn RelevanceFunc) Scorer {
	return Scorer{relevance: fn}
}

// Score computes confidence and relevance for a result
func (s Scorer) Score(r types.RawResult) Scores {
	fn := s.relevance
	if fn == nil {
		fn = StandInRelevance
	}
	return Scores{
		Confidence: Confidence(r),
		Relevance:  Clamp(fn(r)),
	}
}

// Confidence is a deterministic additive heuristic: it starts at 0.5 and adds
// fixed bonuses for corroboration by several engines, a descriptive title,
// a substantial snippet and an https URL. Each step saturates at 1.
func Confidence(r types.RawResult) float64 {
	c := baseConfidence
	if len(r.Engines) > 1 {
		c = add(c, multiEngineBonus)
	}
	if utf8.RuneCountInString(r.Title) > longTitleThreshold {
		c = add(c, longTitleBonus)
	}
	if utf8.RuneCountInString(r.Snippet) > longSnippetMinimum {
		c = add(c, longSnippetBonus)
	}
	if u, ok := classifier.ParseURL(r.URL); ok && strings.EqualFold(u.Scheme, "https") {
		c = add(c, httpsBonus)
	}
	return float64(c) / maxConfidence
}

func add(c, bonus int) int {
	return min(c+bonus, maxConfidence)
}

// Clamp bounds v to [0,1]
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
