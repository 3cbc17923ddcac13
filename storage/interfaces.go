package storage

import (
	"context"

	"github.com/poiesic/lectern/core"
)

// Catalog stores the ordered sequence of item records.
type Catalog interface {
	// Load returns the full ordered sequence of item records.
	// A catalog that does not exist yet yields an empty sequence, not an
	// error. A catalog that exists but cannot be parsed is a fatal error;
	// no auto-repair is attempted.
	Load(ctx context.Context) ([]*core.ItemRecord, error)

	// Append adds one record and persists the entire updated collection
	// to stable storage before returning. Returns ErrDuplicateKey if the
	// record's id is already present.
	Append(ctx context.Context, record *core.ItemRecord) error

	// NextID derives the next identifier from the current maximum
	// existing identifier (0 if empty) + 1. Identifiers are never reused.
	NextID(ctx context.Context) (core.ID, error)

	// Close releases resources held by the catalog.
	Close() error
}

// AnswerCache stores per-item analysis answers keyed by content hash.
type AnswerCache interface {
	// Get returns the cached answer for key, or ErrNotFound on a miss.
	Get(ctx context.Context, key core.ID) (*core.CachedAnswer, error)

	// Put stores the answer under key, overwriting any previous value.
	Put(ctx context.Context, key core.ID, answer *core.CachedAnswer) error

	// Close releases resources held by the cache.
	Close() error
}
