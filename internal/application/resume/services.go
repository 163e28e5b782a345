package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/resume-analyzer/internal/application"
	domain "github.com/bryanwahyu/resume-analyzer/internal/domain/resume"
	"github.com/bryanwahyu/resume-analyzer/internal/logger"
)

// MsgMissingUpload is returned to clients that omit the file or the user id.
const MsgMissingUpload = "No file uploaded or missing user ID"

// Service implements use-cases untuk resume analysis.
// It is safe for concurrent use; all shared state lives in Store.
type Service struct {
	Store     domain.Store
	Documents domain.DocumentStore // optional
	Archive   domain.Archive       // optional
	Extractor domain.Extractor
	Clock     application.Clock
	NewID     func(now time.Time) domain.AnalysisID
	Log       *zap.Logger
	// Observe is called with every recorded analysis, e.g. for metrics.
	Observe func(domain.Analysis)
}

// NewResumeID builds resume_<unix-millis>-<8 hex>. The suffix keeps uploads
// landing in the same millisecond apart.
func NewResumeID(now time.Time) domain.AnalysisID {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return domain.AnalysisID(fmt.Sprintf("resume_%d-%s", now.UnixMilli(), suffix))
}

type LoginResult struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Login is a stub: the user id is derived from the name, nothing is stored.
func (s *Service) Login(name string) (LoginResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return LoginResult{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	s.log().Info("login", zap.String("name", name))
	return LoginResult{UserID: "user_" + name, Name: name}, nil
}

// Command untuk upload
type UploadCommand struct {
	UserID      string
	Filename    string
	ContentType string
	Content     []byte
}

type UploadResult struct {
	Message  string            `json:"message"`
	Filename string            `json:"filename"`
	ResumeID domain.AnalysisID `json:"resume_id"`
	Score    int               `json:"score"`
	FileURL  string            `json:"file_url,omitempty"`
}

// Upload stores the raw document, scores it and records the analysis under cmd.UserID.
func (s *Service) Upload(ctx context.Context, cmd UploadCommand) (UploadResult, error) {
	if len(cmd.Content) == 0 || strings.TrimSpace(cmd.UserID) == "" {
		return UploadResult{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, MsgMissingUpload)
	}

	id := s.newID(s.Clock.Now())
	log := s.log().With(logger.Analysis(cmd.UserID, string(id))...)
	filename := filepath.Base(filepath.Clean("/" + cmd.Filename))
	if filename == "/" || filename == "." {
		filename = "resume.txt"
	}

	var fileURL string
	if s.Documents != nil {
		key := fmt.Sprintf("%s/%s/%s", cmd.UserID, id, filename)
		url, err := s.Documents.Put(ctx, key, bytes.NewReader(cmd.Content), int64(len(cmd.Content)), cmd.ContentType)
		if err != nil {
			return UploadResult{}, fmt.Errorf("store document: %w", err)
		}
		fileURL = url
		log.Debug("document stored", zap.String("url", url))
	}

	text, err := s.Extractor.Extract(cmd.Content)
	if err != nil {
		return UploadResult{}, fmt.Errorf("extract text: %w", err)
	}

	analysis := domain.Analyze(text, s.Clock.Now())
	analysis.ResumeID = id

	if err := s.Store.Record(ctx, cmd.UserID, analysis); err != nil {
		return UploadResult{}, fmt.Errorf("record analysis: %w", err)
	}
	if s.Observe != nil {
		s.Observe(analysis)
	}
	if s.Archive != nil {
		if err := s.Archive.Save(ctx, cmd.UserID, analysis); err != nil {
			// arsip cuma salinan, upload tetap sukses
			log.Warn("archive save failed", zap.Error(err))
		}
	}

	log.Info("resume analyzed",
		zap.String("filename", filename),
		zap.Int("score", analysis.Score),
		zap.Int("improvements", len(analysis.Improvements)),
	)
	return UploadResult{
		Message:  "File uploaded and analyzed successfully",
		Filename: filename,
		ResumeID: id,
		Score:    analysis.Score,
		FileURL:  fileURL,
	}, nil
}

// History returns every analysis for userID, oldest first.
func (s *Service) History(ctx context.Context, userID string) ([]domain.Analysis, error) {
	list, err := s.Store.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Analysis{}
	}
	s.log().Debug("history", zap.String(logger.FieldUserID, userID), zap.Int("count", len(list)))
	return list, nil
}

// Get returns the analysis for id, or a placeholder when none exists.
func (s *Service) Get(ctx context.Context, id domain.AnalysisID) (domain.Analysis, error) {
	a, err := s.Store.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Placeholder(id, s.Clock.Now()), nil
	}
	if err != nil {
		return domain.Analysis{}, err
	}
	return a, nil
}

func (s *Service) newID(now time.Time) domain.AnalysisID {
	if s.NewID != nil {
		return s.NewID(now)
	}
	return NewResumeID(now)
}

func (s *Service) log() *zap.Logger {
	return logger.OrNop(s.Log)
}
