// Package store provides durable storage for accepted quinian crossword
// results, keyed by content hash for deduplication.
package store

import (
	"context"
	"time"

	"quinian/internal/resultsink"
)

// Filter narrows a result listing.
type Filter struct {
	CrosswordType      string
	MaxMissingSurfaces int // -1 means unbounded
	Limit              int
	Offset             int
}

// Summary is a lightweight listing row, without the full grid payload.
type Summary struct {
	ID                  string
	Hash                uint64
	CrosswordType       string
	MissingSurfaceCount int
	CreatedAt           time.Time
}

// ResultStore persists accepted results and serves read queries over
// them.
type ResultStore interface {
	// Store persists rec if no equal-hash record is already present.
	// Returns true if rec was newly stored, false if it was a
	// duplicate no-op.
	Store(ctx context.Context, rec resultsink.Record) (bool, error)

	// Get retrieves a full record by its content hash.
	Get(ctx context.Context, hash uint64) (*resultsink.Record, error)

	// List returns summaries matching filter, most recent first.
	List(ctx context.Context, filter Filter) ([]Summary, error)

	// Migrate applies any pending schema migrations.
	Migrate(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}
