package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionTable(t *testing.T) {
	names := make([]string, 0, len(Sections))
	for _, s := range Sections {
		names = append(names, s.Name)
		assert.Len(t, s.Keywords, 5, s.Name)
	}
	assert.Equal(t, []string{"education", "experience", "skills", "projects", "achievements"}, names)
}

func TestRuleTermsAreLowercase(t *testing.T) {
	var terms []string
	for _, s := range Sections {
		terms = append(terms, s.Name)
		terms = append(terms, s.Keywords...)
	}
	terms = append(terms, MetricMarkers...)
	terms = append(terms, ActionVerbs...)
	terms = append(terms, TechSkills...)
	for _, r := range TargetedRules {
		terms = append(terms, r.Trigger, r.Missing)
	}

	for _, term := range terms {
		assert.Equal(t, strings.ToLower(term), term)
		assert.NotEmpty(t, term)
	}
}

func TestMissingSectionSuggestion(t *testing.T) {
	assert.Equal(t, "Add a achievements section", MissingSectionSuggestion("achievements"))
	assert.Equal(t, "Add a education section", MissingSectionSuggestion("education"))
}

func TestMaximumReachableScore(t *testing.T) {
	ceiling := len(Sections)*SectionFound + QualityCap + FormattingBonus + ActionVerbBonus + TechSkillBonus
	// raw total overshoots, so the upper clamp is reachable
	assert.Greater(t, ceiling, MaxScore)
}
