package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/veridoc/clausematch/core"
	"github.com/veridoc/clausematch/storage"
)

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates a new EmbeddingRepository.
func NewEmbeddingRepository(backend *Backend) (*EmbeddingRepository, error) {
	return &EmbeddingRepository{
		backend: backend,
	}, nil
}

// Close releases resources. EmbeddingRepository has no resources to release.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// GetEntry retrieves a cached embedding entry by ID.
func (r *EmbeddingRepository) GetEntry(ctx context.Context, id core.ID) (*core.EmbeddingEntry, error) {
	var result *core.EmbeddingEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbeddingEntryKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalEmbeddingEntry(val)
			return err
		})
	}, false)
	return result, err
}

// PutEntries stores one or more embedding entries, overwriting existing ones.
func (r *EmbeddingRepository) PutEntries(ctx context.Context, entries ...*core.EmbeddingEntry) ([]*core.EmbeddingEntry, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, entry := range entries {
			if entry.InsertedAt.IsZero() {
				entry.InsertedAt = now
			}
			entry.UpdatedAt = now

			key := makeEmbeddingEntryKey(entry.Id)
			if err := tx.Set(key, storage.MarshalEmbeddingEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return entries, err
}

// CountEntries returns the number of stored entries.
func (r *EmbeddingRepository) CountEntries(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingEntryPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Model returns the model label of the current cache generation.
func (r *EmbeddingRepository) Model(ctx context.Context) (string, error) {
	var model string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeModelLabelKey())
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // no label recorded yet
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			model = string(val)
			return nil
		})
	}, false)
	return model, err
}

// SetModel records the model label for the current cache generation.
func (r *EmbeddingRepository) SetModel(ctx context.Context, model string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeModelLabelKey(), []byte(model)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Purge removes every stored entry and the model label.
func (r *EmbeddingRepository) Purge(ctx context.Context) error {
	if err := r.backend.DropPrefix([]byte(embeddingEntryPrefix)); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		err := tx.Delete(makeModelLabelKey())
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return tx.Commit()
	}, true)
}
