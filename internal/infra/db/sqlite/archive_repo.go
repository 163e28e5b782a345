// Package sqlite keeps the analysis archive in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	domain "github.com/bryanwahyu/resume-analyzer/internal/domain/resume"
)

var _ domain.Archive = (*ArchiveRepository)(nil)

const schema = `CREATE TABLE IF NOT EXISTS resume_analyses (
	resume_id    TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	score        INTEGER NOT NULL,
	improvements TEXT NOT NULL,
	created_at   TEXT NOT NULL
)`

type ArchiveRepository struct {
	db *sql.DB
}

// Open creates the file's directory, opens it and applies the schema.
// path ":memory:" keeps everything in process.
func Open(ctx context.Context, path string) (*ArchiveRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serialises writers anyway; one conn keeps :memory: a single database
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create resume_analyses: %w", err)
	}
	return &ArchiveRepository{db: db}, nil
}

func (r *ArchiveRepository) Save(ctx context.Context, userID string, a domain.Analysis) error {
	const q = `INSERT INTO resume_analyses (resume_id, user_id, score, improvements, created_at)
VALUES (?,?,?,?,?)
ON CONFLICT(resume_id) DO UPDATE SET user_id=excluded.user_id, score=excluded.score, improvements=excluded.improvements`

	list := a.Improvements
	if list == nil {
		list = []string{}
	}
	improvements, err := json.Marshal(list)
	if err != nil {
		return err
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = r.db.ExecContext(ctx, q, string(a.ResumeID), userID, a.Score, string(improvements), createdAt.UTC().Format(time.RFC3339Nano))
	return err
}

// ListByUser returns a user's archived analyses, oldest first.
func (r *ArchiveRepository) ListByUser(ctx context.Context, userID string) ([]domain.Analysis, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT resume_id, score, improvements, created_at
FROM resume_analyses WHERE user_id=? ORDER BY created_at, resume_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Analysis
	for rows.Next() {
		var (
			a            domain.Analysis
			id           string
			improvements string
			created      string
		)
		if err := rows.Scan(&id, &a.Score, &improvements, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(improvements), &a.Improvements); err != nil {
			return nil, fmt.Errorf("decode improvements for %s: %w", id, err)
		}
		if a.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("decode created_at for %s: %w", id, err)
		}
		a.ResumeID = domain.AnalysisID(id)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ArchiveRepository) Check(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *ArchiveRepository) Close() error {
	return r.db.Close()
}
