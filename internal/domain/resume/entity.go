package resume

import (
	"errors"
	"time"
)

// AnalysisID tipe untuk hasil analisa
type AnalysisID string

// Analysis is the frozen result of scoring one uploaded document.
// ResumeID is assigned by the caller after the engine runs.
type Analysis struct {
	Score        int        `json:"score"`
	Improvements []string   `json:"improvements"`
	CreatedAt    time.Time  `json:"created_at"`
	ResumeID     AnalysisID `json:"resume_id"`
}

// NoAnalysisSuggestion is the only suggestion carried by a placeholder record.
const NoAnalysisSuggestion = "No analysis available"

var (
	// ErrNotFound is returned by a Store when no analysis carries the queried id.
	ErrNotFound = errors.New("analysis not found")
	// ErrInvalidInput marks requests rejected before they reach the engine.
	ErrInvalidInput = errors.New("invalid input")
)

// Placeholder builds the record served when an id is unknown.
func Placeholder(id AnalysisID, now time.Time) Analysis {
	return Analysis{
		Score:        0,
		Improvements: []string{NoAnalysisSuggestion},
		CreatedAt:    now,
		ResumeID:     id,
	}
}

// Clone returns a copy that shares no backing array with a.
func (a Analysis) Clone() Analysis {
	out := a
	out.Improvements = append([]string(nil), a.Improvements...)
	if out.Improvements == nil {
		out.Improvements = []string{}
	}
	return out
}
