package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/resume-analyzer/internal/domain/resume"
)

var _ domain.Archive = (*ArchiveRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS resume_analyses (
  resume_id    VARCHAR(128) NOT NULL PRIMARY KEY,
  user_id      VARCHAR(128) NOT NULL,
  score        INT          NOT NULL,
  improvements JSON         NOT NULL,
  created_at   DATETIME(3)  NOT NULL,
  INDEX idx_resume_analyses_user (user_id, created_at)
);`

type ArchiveRepository struct {
	db *sql.DB
}

func NewArchiveRepository(db *sql.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// EnsureSchema creates the archive table when missing.
func (r *ArchiveRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create resume_analyses: %w", err)
	}
	return nil
}

// Save inserts an analysis; re-saving the same id is a no-op update
func (r *ArchiveRepository) Save(ctx context.Context, userID string, a domain.Analysis) error {
	const q = `
INSERT INTO resume_analyses
  (resume_id, user_id, score, improvements, created_at)
VALUES (?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  user_id=VALUES(user_id), score=VALUES(score), improvements=VALUES(improvements);
`
	improvements, err := improvementsJSON(a.Improvements)
	if err != nil {
		return err
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx, q, string(a.ResumeID), stringOrDash(userID), a.Score, improvements, createdAt.UTC())
	return err
}

// Check implements the health checker.
func (r *ArchiveRepository) Check(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
