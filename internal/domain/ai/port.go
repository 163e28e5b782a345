package ai

import "context"

// ReviewInput is what a reviewer sees: the text plus the deterministic result.
type ReviewInput struct {
	Text         string
	Score        int
	Improvements []string
}

// Review is the narrative feedback returned to the client.
type Review struct {
	Summary     string   `json:"summary"`
	Strengths   []string `json:"strengths"`
	Suggestions []string `json:"suggestions"`
	Source      string   `json:"source"`
}

type Client interface {
	Review(ctx context.Context, in ReviewInput) (Review, error)
}
