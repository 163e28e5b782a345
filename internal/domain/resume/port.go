package resume

import (
	"context"
	"io"
)

// Store port: per-user append-only history of analyses
type Store interface {
	Record(ctx context.Context, userID string, a Analysis) error
	// History returns an empty slice for unknown users.
	History(ctx context.Context, userID string) ([]Analysis, error)
	// FindByID returns ErrNotFound when no user owns the id.
	FindByID(ctx context.Context, id AnalysisID) (Analysis, error)
}

// DocumentStore port (penyimpanan file upload asli)
type DocumentStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// Archive port: append-only audit copy of every analysis. Never read by the API.
type Archive interface {
	Save(ctx context.Context, userID string, a Analysis) error
}

// Extractor turns uploaded bytes into plain text.
type Extractor interface {
	Extract(data []byte) (string, error)
}
