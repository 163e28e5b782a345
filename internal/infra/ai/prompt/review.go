package prompt

import (
	"fmt"
	"strings"
)

// maxDocumentRunes caps how much resume text is sent upstream.
const maxDocumentRunes = 12000

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are an experienced technical recruiter reviewing a candidate resume. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- summary is two or three sentences about the resume as a whole.
- strengths lists what the resume already does well; keep items short.
- suggestions lists concrete, actionable edits; do not repeat the heuristic suggestions verbatim.
- Never invent employers, dates or degrees that are not in the text.

Schema (example with empty values):
{
  "summary": "<string>",
  "strengths": ["<string>"],
  "suggestions": ["<string>"]
}`
}

// GetUserPrompt wraps the resume text together with the heuristic result.
func GetUserPrompt(text string, score int, improvements []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Heuristic score: %d/100\n", score)
	b.WriteString("Heuristic suggestions:\n")
	if len(improvements) == 0 {
		b.WriteString("- none\n")
	}
	for _, s := range improvements {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("\nResume text:\n\"\"\"\n")
	b.WriteString(clip(text, maxDocumentRunes))
	b.WriteString("\n\"\"\"")
	return b.String()
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
