package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domain "github.com/bryanwahyu/resume-analyzer/internal/domain/resume"
)

var _ domain.Archive = (*ArchiveRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS resume_analyses (
  resume_id    TEXT        PRIMARY KEY,
  user_id      TEXT        NOT NULL,
  score        INTEGER     NOT NULL,
  improvements JSONB       NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resume_analyses_user ON resume_analyses (user_id, created_at);`

type ArchiveRepository struct {
	db *sql.DB
}

func NewArchiveRepository(db *sql.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create resume_analyses: %w", err)
	}
	return nil
}

// Save inserts or updates an analysis record
func (r *ArchiveRepository) Save(ctx context.Context, userID string, a domain.Analysis) error {
	const q = `
INSERT INTO resume_analyses
  (resume_id, user_id, score, improvements, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (resume_id) DO UPDATE SET
  user_id=EXCLUDED.user_id,
  score=EXCLUDED.score,
  improvements=EXCLUDED.improvements;
`
	list := a.Improvements
	if list == nil {
		list = []string{}
	}
	improvements, err := json.Marshal(list)
	if err != nil {
		return err
	}
	user := userID
	if strings.TrimSpace(user) == "" {
		user = "-"
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = r.db.ExecContext(ctx, q, string(a.ResumeID), user, a.Score, string(improvements), createdAt)
	return err
}

func (r *ArchiveRepository) Check(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
