package types

import "time"

// RiskLevel is the sensitivity tier assigned to a result
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
)

// RiskLevels lists every tier in scan priority order
var RiskLevels = []RiskLevel{RiskCritical, RiskHigh, RiskMedium, RiskLow}

// Severity ranks the tier for sorting. Unknown values rank 0.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskCritical:
		return 4
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether r is one of the known tiers
func (r RiskLevel) Valid() bool {
	return r.Severity() > 0
}

// Category is the source category of a result
type Category string

const (
	CategorySocial       Category = "social"
	CategoryProfessional Category = "professional"
	CategoryAcademic     Category = "academic"
	CategoryCode         Category = "code"
	CategoryLeak         Category = "leak"
	CategoryNews         Category = "news"
	CategoryGovernment   Category = "government"
	CategoryOther        Category = "other"
)

// Categories lists every category, "other" last
var Categories = []Category{
	CategorySocial,
	CategoryProfessional,
	CategoryAcademic,
	CategoryCode,
	CategoryLeak,
	CategoryNews,
	CategoryGovernment,
	CategoryOther,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// UnknownEngine is the engine bucket for results that carry no engine list
const UnknownEngine = "unknown"

// UnknownDomain is the domain used when the URL host cannot be extracted
const UnknownDomain = "unknown"

// RawResult is one search hit as delivered by a search engine
type RawResult struct {
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	Snippet   string     `json:"snippet"`
	Engines   []string   `json:"engines,omitempty"`
	Image     string     `json:"image,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// HasEngines reports whether at least one engine reported the result
func (r RawResult) HasEngines() bool {
	return len(r.Engines) > 0
}

// Metadata holds the URL and text facts derived during analysis
type Metadata struct {
	Domain            string `json:"domain"`
	RegistrableDomain string `json:"registrableDomain,omitempty"`
	Protocol          string `json:"protocol"`
	Path              string `json:"path"`
	TitleLength       int    `json:"titleLength"`
	SnippetLength     int    `json:"snippetLength"`
	HasImage          bool   `json:"hasImage"`
}

// Analysis is the derived classification attached to a RawResult
type Analysis struct {
	RiskLevel  RiskLevel `json:"riskLevel"`
	Category   Category  `json:"category"`
	Confidence float64   `json:"confidence"`
	Relevance  float64   `json:"relevance"`
	Metadata   Metadata  `json:"metadata"`
}

// AnalyzedResult is a RawResult together with its Analysis
type AnalyzedResult struct {
	RawResult
	Analysis Analysis `json:"analysis"`
}
