package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/bryanwahyu/resume-analyzer/internal/domain/ai"
	"github.com/bryanwahyu/resume-analyzer/internal/domain/resume"
)

// SourceLocal marks reviews built without calling a provider.
const SourceLocal = "local"

// LocalReviewer builds a review from the heuristic evaluation alone.
// Used when no API key is configured.
type LocalReviewer struct{}

func (LocalReviewer) Review(_ context.Context, in ai.ReviewInput) (ai.Review, error) {
	ev := resume.Evaluate(in.Text)

	out := ai.Review{
		Summary:     summary(in.Score, len(ev.Sections)),
		Strengths:   []string{},
		Suggestions: append([]string{}, in.Improvements...),
		Source:      SourceLocal,
	}
	if len(ev.Sections) > 0 {
		out.Strengths = append(out.Strengths, "Covers: "+strings.Join(ev.Sections, ", "))
	}
	if ev.Paragraphs > resume.MinParagraphs {
		out.Strengths = append(out.Strengths, "Clear section breaks")
	}
	if ev.ActionVerbs > resume.MinActionVerbs {
		out.Strengths = append(out.Strengths, "Strong action verbs")
	}
	if ev.TechSkills > resume.MinTechSkills {
		out.Strengths = append(out.Strengths, fmt.Sprintf("%d in-demand technical skills", ev.TechSkills))
	}
	return out, nil
}

func summary(score, sections int) string {
	switch {
	case score >= 80:
		return fmt.Sprintf("Strong resume (%d/100) covering %d of %d key sections.", score, sections, len(resume.Sections))
	case score >= resume.LowScoreThreshold:
		return fmt.Sprintf("Solid resume (%d/100); a few targeted edits will lift it further.", score)
	default:
		return fmt.Sprintf("Resume scores %d/100 and needs more structure and measurable detail.", score)
	}
}
