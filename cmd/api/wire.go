package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/bryanwahyu/resume-analyzer/internal/config"
	domai "github.com/bryanwahyu/resume-analyzer/internal/domain/ai"
	domain "github.com/bryanwahyu/resume-analyzer/internal/domain/resume"
	"github.com/bryanwahyu/resume-analyzer/internal/infra/ai/openai"
	"github.com/bryanwahyu/resume-analyzer/internal/infra/ai/prompt"
	mysqlp "github.com/bryanwahyu/resume-analyzer/internal/infra/db/mysql"
	"github.com/bryanwahyu/resume-analyzer/internal/infra/db/postgres"
	"github.com/bryanwahyu/resume-analyzer/internal/infra/db/sqlite"
	"github.com/bryanwahyu/resume-analyzer/internal/infra/storage"
)

type documentStore interface {
	domain.DocumentStore
	Check(ctx context.Context) error
}

type archiveStore interface {
	domain.Archive
	Check(ctx context.Context) error
}

func openDocuments(ctx context.Context, cfg *config.Config) (documentStore, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "minio":
		m := cfg.Storage.Minio
		return storage.New(ctx, m.Endpoint, m.Region, m.BucketName, m.AccessKey, m.SecretKey, m.UseSSL)
	default:
		return storage.NewLocal(cfg.Storage.LocalDir)
	}
}

// openArchive returns a nil archive for the "none" driver. The close func is
// always safe to call.
func openArchive(ctx context.Context, cfg *config.Config) (archiveStore, func(), error) {
	noop := func() {}
	switch strings.ToLower(cfg.Archive.Driver) {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, noop, fmt.Errorf("mysql connect: %w", err)
		}
		repo := mysqlp.NewArchiveRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return repo, func() { _ = db.Close() }, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, noop, fmt.Errorf("postgres connect: %w", err)
		}
		repo := postgres.NewArchiveRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return repo, func() { _ = db.Close() }, nil
	case "sqlite":
		repo, err := sqlite.Open(ctx, cfg.Archive.Path)
		if err != nil {
			return nil, noop, err
		}
		return repo, func() { _ = repo.Close() }, nil
	default:
		return nil, noop, nil
	}
}

func newReviewer(cfg *config.Config) domai.Client {
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		return openai.NewClient(cfg.AI.APIKey, cfg.AI.Model)
	}
	return prompt.LocalReviewer{}
}
