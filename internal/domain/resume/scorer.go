package resume

import (
	"strings"
	"time"
)

// Evaluation is the deterministic part of an analysis, before it is stamped.
// It stays in process; only Analysis is serialised.
type Evaluation struct {
	Score        int
	Improvements []string
	// Sections lists the triggers found, in table order.
	Sections    []string
	BaseScore   int
	Quality     int
	Paragraphs  int
	ActionVerbs int
	TechSkills  int
}

// Analyze scores text and stamps the result with at. ResumeID stays empty.
func Analyze(text string, at time.Time) Analysis {
	ev := Evaluate(text)
	return Analysis{
		Score:        ev.Score,
		Improvements: ev.Improvements,
		CreatedAt:    at,
	}
}

// Evaluate runs every rule over text. Same input, same output.
func Evaluate(text string) Evaluation {
	lower := strings.ToLower(text)
	ev := Evaluation{Improvements: []string{}}

	hasMetrics := containsAny(lower, MetricMarkers)
	quality := 0
	for _, sec := range Sections {
		if !strings.Contains(lower, sec.Name) {
			ev.Improvements = append(ev.Improvements, MissingSectionSuggestion(sec.Name))
			continue
		}
		ev.Sections = append(ev.Sections, sec.Name)
		quality += sectionQuality(lower, sec, hasMetrics)
	}

	ev.BaseScore = len(ev.Sections) * SectionFound
	ev.Quality = min(quality, QualityCap)
	score := ev.BaseScore + ev.Quality

	ev.Paragraphs = strings.Count(text, ParagraphBreak)
	if ev.Paragraphs > MinParagraphs {
		score += FormattingBonus
	} else {
		ev.Improvements = append(ev.Improvements, SuggestFormatting)
	}

	ev.ActionVerbs = countOccurrences(lower, ActionVerbs)
	if ev.ActionVerbs > MinActionVerbs {
		score += ActionVerbBonus
	} else {
		ev.Improvements = append(ev.Improvements, SuggestActionVerbs)
	}

	ev.TechSkills = countPresent(lower, TechSkills)
	if ev.TechSkills > MinTechSkills {
		score += TechSkillBonus
	} else {
		ev.Improvements = append(ev.Improvements, SuggestTechSkills)
	}

	for _, rule := range TargetedRules {
		if strings.Contains(lower, rule.Trigger) && !strings.Contains(lower, rule.Missing) {
			ev.Improvements = append(ev.Improvements, rule.Suggestion)
		}
	}

	ev.Score = clampScore(score)
	if ev.Score < LowScoreThreshold {
		ev.Improvements = append(ev.Improvements, LowScoreSuggestions...)
	}
	return ev
}

// sectionQuality: the metric bonus looks at the whole document, so every
// present section earns it when the document has any marker.
func sectionQuality(lower string, sec Section, hasMetrics bool) int {
	points := countPresent(lower, sec.Keywords) * KeywordPoints
	if hasMetrics {
		points += MetricBonus
	}
	return points
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func countPresent(s string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(s, t) {
			n++
		}
	}
	return n
}

func countOccurrences(s string, terms []string) int {
	n := 0
	for _, t := range terms {
		n += strings.Count(s, t)
	}
	return n
}

func clampScore(score int) int {
	return max(MinScore, min(score, MaxScore))
}
