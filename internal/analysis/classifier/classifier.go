package classifier

import (
	"net/url"
	"strings"

	"github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
)

// riskRule maps a tier to the keywords that trigger it
type riskRule struct {
	level    types.RiskLevel
	keywords []string
}

// riskRules is scanned in order; the first tier with any keyword hit wins.
var riskRules = []riskRule{
	{
		level:    types.RiskCritical,
		keywords: []string{"password", "secret", "confidential", "admin", "root", "database", "backup"},
	},
	{
		level:    types.RiskHigh,
		keywords: []string{"internal", "private", "restricted", "config", "env", "credentials", "login"},
	},
	{
		level:    types.RiskMedium,
		keywords: []string{"personal", "contact", "phone", "email", "address", "profile"},
	},
	{
		level:    types.RiskLow,
		keywords: []string{"public", "about", "general", "info"},
	},
}

// categoryRule maps a category to hostname substrings
type categoryRule struct {
	category types.Category
	domains  []string
}

// categoryRules is scanned in declaration order. linkedin.com appears under both
// social and professional; social is declared first and therefore wins.
var categoryRules = []categoryRule{
	{
		category: types.CategorySocial,
		domains:  []string{"facebook.com", "twitter.com", "instagram.com", "linkedin.com", "tiktok.com", "reddit.com"},
	},
	{
		category: types.CategoryProfessional,
		domains:  []string{"linkedin.com", "xing.com", "glassdoor.com", "indeed.com"},
	},
	{
		category: types.CategoryAcademic,
		domains:  []string{"scholar.google", "researchgate.net", "academia.edu", "arxiv.org", ".edu"},
	},
	{
		category: types.CategoryCode,
		domains:  []string{"github.com", "gitlab.com", "bitbucket.org", "stackoverflow.com"},
	},
	{
		category: types.CategoryLeak,
		domains:  []string{"pastebin.com", "ghostbin", "hastebin", "privatebin"},
	},
	{
		category: types.CategoryNews,
		domains:  []string{"news.", "bbc.", "cnn.", "reuters.", "nytimes.com", "theguardian.com"},
	},
	{
		category: types.CategoryGovernment,
		domains:  []string{".gov", ".mil", "europa.eu"},
	},
}

// Classification is the pair of tags assigned to a result
type Classification struct {
	RiskLevel types.RiskLevel
	Category  types.Category
}

// Classify assigns a risk tier and a source category to a result.
// It never fails: unparsable URLs fall back to the "other" category.
func Classify(r types.RawResult) Classification {
	return Classification{
		RiskLevel: ClassifyRisk(r.Title + " " + r.Snippet + " " + r.URL),
		Category:  ClassifyCategory(r.URL),
	}
}

// ClassifyRisk returns the first tier whose keyword set matches text, or low
func ClassifyRisk(text string) types.RiskLevel {
	text = strings.ToLower(text)
	for _, rule := range riskRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.level
			}
		}
	}
	return types.RiskLow
}

// ClassifyCategory returns the first category whose domain list matches the URL host
func ClassifyCategory(rawURL string) types.Category {
	host, ok := Hostname(rawURL)
	if !ok {
		return types.CategoryOther
	}
	for _, rule := range categoryRules {
		for _, d := range rule.domains {
			if strings.Contains(host, d) {
				return rule.category
			}
		}
	}
	return types.CategoryOther
}

// Hostname extracts the lowercased host of an absolute URL
func Hostname(rawURL string) (string, bool) {
	u, ok := ParseURL(rawURL)
	if !ok {
		return "", false
	}
	return strings.ToLower(u.Hostname()), true
}

// ParseURL parses an absolute URL. Relative references and URLs without a
// host are rejected.
func ParseURL(rawURL string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return nil, false
	}
	return u, true
}
