package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQueries_TwoPartName(t *testing.T) {
	got := GenerateQueries(Target{Name: "Jane Doe"})

	want := []string{
		`"Jane Doe"`,
		`"Jane Doe" profile`,
		`"Jane Doe" social`,
		`site:linkedin.com "Jane Doe"`,
		`site:facebook.com "Jane Doe"`,
		`site:twitter.com "Jane Doe"`,
		`site:instagram.com "Jane Doe"`,
		`site:github.com "Jane Doe"`,
		`"jane.doe@" OR "janedoe@" OR "jdoe@" OR "jane@"`,
		`"janedoe" OR "jane.doe" OR "jane_doe"`,
	}
	assert.Equal(t, want, got)
	assert.Len(t, got, 10)
}

func TestGenerateQueries_LocationAndProfession(t *testing.T) {
	got := GenerateQueries(Target{Name: "Madonna", Location: "Detroit", Profession: "singer"})

	// 3 base + 5 platforms x 3 variants, no pattern queries for a single-part name
	require.Len(t, got, 18)
	assert.Equal(t, `site:linkedin.com "Madonna"`, got[3])
	assert.Equal(t, `site:linkedin.com "Madonna" "Detroit"`, got[4])
	assert.Equal(t, `site:linkedin.com "Madonna" "singer"`, got[5])
	assert.Equal(t, `site:github.com "Madonna" "singer"`, got[17])
}

func TestGenerateQueries_Empty(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		got := GenerateQueries(Target{Name: name})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestGenerateQueries_Deduplicated(t *testing.T) {
	got := GenerateQueries(Target{Name: "Ann Ann"})
	seen := make(map[string]bool)
	for _, q := range got {
		assert.False(t, seen[q], "duplicate query %q", q)
		seen[q] = true
	}
}

func TestGenerateProfiles(t *testing.T) {
	got := GenerateProfiles(Target{Name: "John Smith"})

	require.Len(t, got, MaxProfiles)
	priors := map[string]float64{
		"LinkedIn":  0.80,
		"GitHub":    0.75,
		"Twitter":   0.70,
		"Instagram": 0.65,
		"Facebook":  0.60,
	}
	for _, p := range got {
		assert.Equal(t, priors[p.Platform], p.Confidence)
		assert.Equal(t, MethodPatternGeneration, p.Method)
	}

	assert.Equal(t, CandidateProfile{
		Platform:   "LinkedIn",
		URL:        "https://www.linkedin.com/in/johnsmith",
		Username:   "johnsmith",
		Confidence: 0.80,
		Method:     MethodPatternGeneration,
	}, got[0])
	// 7 patterns per platform: LinkedIn 0-6, GitHub 7-13, Twitter 14-19
	assert.Equal(t, "GitHub", got[7].Platform)
	assert.Equal(t, "https://github.com/johnsmith", got[7].URL)
	assert.Equal(t, "Twitter", got[19].Platform)
	assert.Equal(t, "smith", got[19].Username)
}

func TestGenerateProfiles_SinglePart(t *testing.T) {
	got := GenerateProfiles(Target{Name: "Madonna"})
	require.Len(t, got, len(profilePlatforms))
	for _, p := range got {
		assert.Equal(t, "madonna", p.Username)
	}
}

func TestGenerateProfiles_Empty(t *testing.T) {
	got := GenerateProfiles(Target{Name: " "})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUsernames(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"John Smith", []string{"johnsmith", "john.smith", "john_smith", "johns", "jsmith", "john", "smith"}},
		{"  Zoë  O'Brien ", []string{"zoëobrien", "zoë.obrien", "zoë_obrien", "zoëo", "zobrien", "zoë", "obrien"}},
		{"Mary Ann Lee", []string{"marylee", "mary.lee", "mary_lee", "maryl", "mlee", "mary", "lee"}},
		{"Cher", []string{"cher"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Usernames(tt.name))
		})
	}
}

func TestGenerateEmailCandidates(t *testing.T) {
	got := GenerateEmailCandidates("Jane Doe", []string{"Example.com", "@corp.io", ""})

	assert.Equal(t, []string{
		"jane.doe@example.com",
		"janedoe@example.com",
		"jdoe@example.com",
		"jane@example.com",
		"jane.doe@corp.io",
		"janedoe@corp.io",
		"jdoe@corp.io",
		"jane@corp.io",
	}, got)

	assert.Empty(t, GenerateEmailCandidates("", []string{"example.com"}))
}
