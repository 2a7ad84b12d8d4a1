package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type Store interface {
	CreateReading(ctx context.Context, reading *Reading) error
	GetReadingByID(ctx context.Context, userID, id string) (*Reading, error)
	GetReadingByURL(ctx context.Context, userID, url string) (*Reading, error)
	ListReadingsByUserID(ctx context.Context, userID string) ([]Reading, error)
	ToggleReadingRead(ctx context.Context, userID, id string) (*Reading, error)
	DeleteReading(ctx context.Context, userID, id string) error

	SetReadingEmbedding(ctx context.Context, id string, embedding []float32) error
	ListReadingsMissingEmbedding(ctx context.Context, limit int) ([]Reading, error)
	SearchReadings(ctx context.Context, userID string, embedding []float32, threshold float64, limit int) ([]SearchResult, error)

	Close() error
}

// supported DSN formats:
//
//	Local sqlite: "file:./data/readlater.db" or ":memory:"
//	TursoDB: "libsql://[db-name]-[org].turso.io?authToken=..."
//
// NOTE: all formats are handled by the libsql driver which supports both local and remote.
func NewStore(dsn string) (Store, error) {
	switch {
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:", strings.HasPrefix(dsn, ":memory:"), strings.HasPrefix(dsn, "libsql://"):
		return NewSQLStore(dsn)
	default:
		return nil, fmt.Errorf("unsupported database DSN: %s (expected file:, :memory:, or libsql://)", dsn)
	}
}
