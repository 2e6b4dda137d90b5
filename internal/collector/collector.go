// Package collector generates search queries and speculative profile
// candidates for a target identity.
package collector

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxProfiles bounds GenerateProfiles output
const MaxProfiles = 20

// MethodPatternGeneration tags profiles built from username patterns
const MethodPatternGeneration = "pattern_generation"

// Target is the identity under investigation
type Target struct {
	Name       string `json:"name"`
	Location   string `json:"location,omitempty"`
	Profession string `json:"profession,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// CandidateProfile is a guessed account URL. It asserts nothing about whether
// the account exists.
type CandidateProfile struct {
	Platform   string  `json:"platform"`
	URL        string  `json:"url"`
	Username   string  `json:"username"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

type platform struct {
	name  string
	prior float64
	url   string
}

// queryPlatforms are the site: scopes, in emission order
var queryPlatforms = []string{"linkedin", "facebook", "twitter", "instagram", "github"}

// profilePlatforms carry a static prior, in emission order
var profilePlatforms = []platform{
	{"LinkedIn", 0.80, "https://www.linkedin.com/in/%s"},
	{"GitHub", 0.75, "https://github.com/%s"},
	{"Twitter", 0.70, "https://twitter.com/%s"},
	{"Instagram", 0.65, "https://www.instagram.com/%s"},
	{"Facebook", 0.60, "https://www.facebook.com/%s"},
}

// GenerateQueries returns deduplicated search queries for t: the base queries,
// then site-scoped queries per platform, then email and username pattern queries
// when the name has at least two parts.
func GenerateQueries(t Target) []string {
	name := strings.Join(strings.Fields(t.Name), " ")
	if name == "" {
		return []string{}
	}
	location := strings.TrimSpace(t.Location)
	profession := strings.TrimSpace(t.Profession)

	q := newOrderedSet()
	q.add(quote(name))
	q.add(quote(name) + " profile")
	q.add(quote(name) + " social")

	for _, p := range queryPlatforms {
		site := fmt.Sprintf("site:%s.com %s", p, quote(name))
		q.add(site)
		if location != "" {
			q.add(site + " " + quote(location))
		}
		if profession != "" {
			q.add(site + " " + quote(profession))
		}
	}

	parts := nameParts(t.Name)
	if len(parts) >= 2 {
		q.add(disjunction(suffixed(emailLocalParts(parts), "@")))
		first, last := parts[0], parts[len(parts)-1]
		q.add(disjunction([]string{first + last, first + "." + last, first + "_" + last}))
	}
	return q.items
}

// GenerateProfiles crosses username patterns with the platform table,
// platform-major, truncated to MaxProfiles.
func GenerateProfiles(t Target) []CandidateProfile {
	usernames := Usernames(t.Name)
	if len(usernames) == 0 {
		return []CandidateProfile{}
	}

	out := make([]CandidateProfile, 0, MaxProfiles)
	for _, p := range profilePlatforms {
		for _, u := range usernames {
			if len(out) == MaxProfiles {
				return out
			}
			out = append(out, CandidateProfile{
				Platform:   p.name,
				URL:        fmt.Sprintf(p.url, u),
				Username:   u,
				Confidence: p.prior,
				Method:     MethodPatternGeneration,
			})
		}
	}
	return out
}

// Usernames lists the lowercase username patterns for a name. A single-part
// name yields only itself.
func Usernames(name string) []string {
	parts := nameParts(name)
	switch len(parts) {
	case 0:
		return nil
	case 1:
		return parts
	}

	first, last := parts[0], parts[len(parts)-1]
	s := newOrderedSet()
	s.add(first + last)
	s.add(first + "." + last)
	s.add(first + "_" + last)
	s.add(first + initial(last))
	s.add(initial(first) + last)
	s.add(first)
	s.add(last)
	return s.items
}

// GenerateEmailCandidates returns common address patterns for name at each domain
func GenerateEmailCandidates(name string, domains []string) []string {
	parts := nameParts(name)
	if len(parts) == 0 {
		return []string{}
	}
	locals := emailLocalParts(parts)

	s := newOrderedSet()
	for _, d := range domains {
		d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "@"))
		if d == "" {
			continue
		}
		for _, l := range locals {
			s.add(l + "@" + d)
		}
	}
	return s.items
}

func emailLocalParts(parts []string) []string {
	if len(parts) == 1 {
		return []string{parts[0]}
	}
	first, last := parts[0], parts[len(parts)-1]
	s := newOrderedSet()
	s.add(first + "." + last)
	s.add(first + last)
	s.add(initial(first) + last)
	s.add(first)
	return s.items
}

// nameParts lowercases the name and strips every part down to letters and digits
func nameParts(name string) []string {
	var parts []string
	for _, f := range strings.Fields(name) {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, f)
		if clean != "" {
			parts = append(parts, clean)
		}
	}
	return parts
}

func initial(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func quote(s string) string {
	return `"` + s + `"`
}

func suffixed(items []string, suffix string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it + suffix
	}
	return out
}

func disjunction(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = quote(t)
	}
	return strings.Join(quoted, " OR ")
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
