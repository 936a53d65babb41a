package storage

import (
	"context"

	"github.com/veridoc/clausematch/core"
)

// EmbeddingRepository provides persistent storage for cached embedding entries.
// Implementations must be thread-safe and support concurrent access.
// Entries are keyed by content hash, so identical text across documents shares
// one entry; entries are never deleted individually, only by Purge.
type EmbeddingRepository interface {
	// GetEntry retrieves a cached embedding entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, id core.ID) (*core.EmbeddingEntry, error)

	// PutEntries stores one or more embedding entries.
	// Sets InsertedAt if not already set and updates UpdatedAt.
	// Existing entries with the same ID are overwritten (last write wins;
	// vectors for a given ID are deterministic for a fixed model).
	PutEntries(ctx context.Context, entries ...*core.EmbeddingEntry) ([]*core.EmbeddingEntry, error)

	// CountEntries returns the number of stored entries.
	CountEntries(ctx context.Context) (int, error)

	// Model returns the embedding model label the stored entries belong to.
	// Returns an empty string when no label has been recorded yet.
	Model(ctx context.Context) (string, error)

	// SetModel records the embedding model label for the current cache generation.
	SetModel(ctx context.Context, model string) error

	// Purge removes every stored entry and the model label.
	// Used when the configured embedding model changes: mixing vectors from
	// different models would corrupt similarity scores.
	Purge(ctx context.Context) error

	// Close closes the storage backend and releases resources.
	Close() error
}
