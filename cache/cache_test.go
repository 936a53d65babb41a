package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridoc/clausematch/ai/mock"
	"github.com/veridoc/clausematch/core"
	"github.com/veridoc/clausematch/storage"
)

// memRepo is an in-memory storage.EmbeddingRepository for tests.
type memRepo struct {
	mu      sync.Mutex
	entries map[core.ID]*core.EmbeddingEntry
	model   string
	getErr  error
	putErr  error
}

var _ storage.EmbeddingRepository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{entries: make(map[core.ID]*core.EmbeddingEntry)}
}

func (r *memRepo) GetEntry(ctx context.Context, id core.ID) (*core.EmbeddingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	entry, ok := r.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return entry, nil
}

func (r *memRepo) PutEntries(ctx context.Context, entries ...*core.EmbeddingEntry) ([]*core.EmbeddingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putErr != nil {
		return nil, r.putErr
	}
	now := time.Now().UTC()
	for _, entry := range entries {
		if entry.InsertedAt.IsZero() {
			entry.InsertedAt = now
		}
		entry.UpdatedAt = now
		r.entries[entry.Id] = entry
	}
	return entries, nil
}

func (r *memRepo) CountEntries(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries), nil
}

func (r *memRepo) Model(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.model, nil
}

func (r *memRepo) SetModel(ctx context.Context, model string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model = model
	return nil
}

func (r *memRepo) Purge(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[core.ID]*core.EmbeddingEntry)
	r.model = ""
	return nil
}

func (r *memRepo) Close() error { return nil }

func TestNew(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		c, err := New(newMemRepo(), mock.NewMockEmbedder(), "embeddinggemma")
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("nil repository", func(t *testing.T) {
		_, err := New(nil, mock.NewMockEmbedder(), "embeddinggemma")
		assert.Equal(t, ErrRepositoryRequired, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := New(newMemRepo(), nil, "embeddinggemma")
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("empty model", func(t *testing.T) {
		_, err := New(newMemRepo(), mock.NewMockEmbedder(), "")
		assert.Equal(t, ErrModelRequired, err)
	})

	t.Run("invalid retry attempts", func(t *testing.T) {
		_, err := New(newMemRepo(), mock.NewMockEmbedder(), "embeddinggemma", WithRetry(0, time.Millisecond))
		assert.Equal(t, ErrInvalidMaxAttempts, err)
	})
}

func TestGetOrCompute_Idempotent(t *testing.T) {
	repo := newMemRepo()
	embedder := mock.NewMockEmbedder()
	c, err := New(repo, embedder, "embeddinggemma")
	require.NoError(t, err)

	ctx := context.Background()
	text := "The mother shall have primary custody of the minor children."

	first, err := c.GetOrCompute(ctx, text)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, 1, embedder.CallCount())

	// Second call: bit-identical vector, no model invocation
	second, err := c.GetOrCompute(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestGetOrCompute_NormalizesWhitespace(t *testing.T) {
	repo := newMemRepo()
	embedder := mock.NewMockEmbedder()
	c, err := New(repo, embedder, "embeddinggemma")
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.GetOrCompute(ctx, "custody  of the\nchildren")
	require.NoError(t, err)

	// Same content under different formatting shares the entry
	_, err = c.GetOrCompute(ctx, "custody of the children")
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.CallCount())

	count, err := repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetOrCompute_PersistedHitSkipsModel(t *testing.T) {
	repo := newMemRepo()
	embedder := mock.NewMockEmbedder()

	c, err := New(repo, embedder, "embeddinggemma")
	require.NoError(t, err)

	ctx := context.Background()
	first, err := c.GetOrCompute(ctx, "clause text")
	require.NoError(t, err)

	// New cache over the same repository simulates a process restart.
	restarted, err := New(repo, embedder, "embeddinggemma")
	require.NoError(t, err)
	embedder.Reset()

	second, err := restarted.GetOrCompute(ctx, "clause text")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 0, embedder.CallCount())
}

func TestNew_ModelChangePurgesGeneration(t *testing.T) {
	repo := newMemRepo()
	embedder := mock.NewMockEmbedder()

	c, err := New(repo, embedder, "model-a")
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.GetOrCompute(ctx, "clause text")
	require.NoError(t, err)

	count, err := repo.CountEntries(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// Opening with a different model wipes the old generation.
	_, err = New(repo, embedder, "model-b")
	require.NoError(t, err)

	count, err = repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	model, err := repo.Model(ctx)
	require.NoError(t, err)
	assert.Equal(t, "model-b", model)
}

func TestGetOrCompute_WriteFailureStillReturnsVector(t *testing.T) {
	repo := newMemRepo()
	embedder := mock.NewMockEmbedder()
	c, err := New(repo, embedder, "embeddinggemma")
	require.NoError(t, err)

	repo.putErr = errors.New("disk full")

	vector, err := c.GetOrCompute(context.Background(), "clause text")
	require.NoError(t, err)
	assert.NotEmpty(t, vector)
}

func TestGetOrCompute_EmbedderFailure(t *testing.T) {
	repo := newMemRepo()
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("model offline")
	}

	c, err := New(repo, embedder, "embeddinggemma", WithRetry(2, time.Millisecond))
	require.NoError(t, err)

	_, err = c.GetOrCompute(context.Background(), "clause text")
	assert.Error(t, err)
	// Both attempts hit the model
	assert.Equal(t, 2, embedder.CallCount())
}

func TestGetOrCompute_Concurrent(t *testing.T) {
	repo := newMemRepo()
	embedder := mock.NewMockEmbedder()
	c, err := New(repo, embedder, "embeddinggemma")
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.GetOrCompute(ctx, fmt.Sprintf("clause %d", i%4))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	count, err := repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return nil
		}, 3, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, 3, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		wantErr := errors.New("persistent")
		err := RetryWithBackoff(ctx, func() error { return wantErr }, 2, time.Millisecond)
		assert.Equal(t, wantErr, err)
	})

	t.Run("respects cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := RetryWithBackoff(cancelled, func() error { return errors.New("x") }, 3, time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid attempts", func(t *testing.T) {
		err := RetryWithBackoff(ctx, func() error { return nil }, 0, time.Millisecond)
		assert.Equal(t, ErrInvalidMaxAttempts, err)
	})
}
