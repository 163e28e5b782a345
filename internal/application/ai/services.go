package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bryanwahyu/resume-analyzer/internal/domain/ai"
	"github.com/bryanwahyu/resume-analyzer/internal/domain/resume"
	"github.com/bryanwahyu/resume-analyzer/internal/logger"
)

// Service scores a document and asks the configured client for narrative feedback.
// Nothing it produces is stored.
type Service struct {
	client ai.Client
	log    *zap.Logger
}

func NewService(client ai.Client, log *zap.Logger) *Service {
	return &Service{client: client, log: logger.OrNop(log)}
}

func (s *Service) Review(ctx context.Context, text string) (ai.Review, error) {
	if strings.TrimSpace(text) == "" {
		return ai.Review{}, fmt.Errorf("%w: document is empty", resume.ErrInvalidInput)
	}
	ev := resume.Evaluate(text)
	review, err := s.client.Review(ctx, ai.ReviewInput{
		Text:         text,
		Score:        ev.Score,
		Improvements: ev.Improvements,
	})
	if err != nil {
		s.log.Warn("ai review failed", zap.Error(err), zap.Int("score", ev.Score))
		return ai.Review{}, err
	}
	s.log.Debug("ai review done", zap.String("source", review.Source), zap.Int("suggestions", len(review.Suggestions)))
	return review, nil
}
