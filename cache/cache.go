package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/veridoc/clausematch/ai"
	"github.com/veridoc/clausematch/core"
	"github.com/veridoc/clausematch/storage"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

// Cache is the embedding cache: a content-hash keyed store over a persistent
// repository with an in-memory hot map in front. On a hit it returns the
// stored vector with no model invocation; on a miss it computes the embedding
// once, stores it, and returns it.
//
// Concurrent requests for the same uncached text may race to compute; both
// are safe to proceed (compute-then-store, last write wins) since
// recomputation is idempotent for a fixed model.
type Cache struct {
	repo        storage.EmbeddingRepository
	embedder    ai.Embedder
	model       string
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger

	mu  sync.RWMutex
	hot map[core.ID][]float32
}

// Option configures a Cache.
type Option func(*Cache) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithRetry sets the retry policy for embedding computation on cache misses.
// Default is 3 attempts with a 500ms base delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Cache) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = maxAttempts
		c.baseDelay = baseDelay
		return nil
	}
}

// New creates an embedding cache over the given repository and embedder.
//
// The model label pins the cache generation: if the repository holds entries
// produced by a different model, the whole store is purged before use, since
// vectors from different models are not comparable.
func New(repo storage.EmbeddingRepository, embedder ai.Embedder, model string, opts ...Option) (*Cache, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if model == "" {
		return nil, ErrModelRequired
	}

	c := &Cache{
		repo:        repo,
		embedder:    embedder,
		model:       model,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default(),
		hot:         make(map[core.ID][]float32),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if err := c.checkGeneration(context.Background()); err != nil {
		return nil, err
	}

	return c, nil
}

// checkGeneration purges the store when its recorded model label differs from
// the configured model, then records the configured model.
func (c *Cache) checkGeneration(ctx context.Context) error {
	stored, err := c.repo.Model(ctx)
	if err != nil {
		return err
	}
	if stored != "" && stored != c.model {
		c.logger.Warn("embedding model changed, purging cache", "stored", stored, "configured", c.model)
		if err := c.repo.Purge(ctx); err != nil {
			return err
		}
	}
	if stored != c.model {
		if err := c.repo.SetModel(ctx, c.model); err != nil {
			return err
		}
	}
	return nil
}

// GetOrCompute returns the embedding for the given text, computing and
// caching it if necessary. The key is a content hash of the
// whitespace-normalized text, so identical text across documents shares one
// entry. A repository write failure does not fail the request; the computed
// vector is still returned.
func (c *Cache) GetOrCompute(ctx context.Context, text string) ([]float32, error) {
	id := core.IDFromContent(core.NormalizeContent(text))

	c.mu.RLock()
	vector, ok := c.hot[id]
	c.mu.RUnlock()
	if ok {
		return vector, nil
	}

	entry, err := c.repo.GetEntry(ctx, id)
	if err == nil {
		c.remember(id, entry.Vector)
		return entry.Vector, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		c.logger.Warn("embedding cache read failed, recomputing", "err", err)
	}

	var computed []float32
	err = RetryWithBackoff(ctx, func() error {
		var embedErr error
		computed, embedErr = c.embedder.EmbedText(ctx, text)
		return embedErr
	}, c.maxAttempts, c.baseDelay)
	if err != nil {
		return nil, err
	}

	if _, err := c.repo.PutEntries(ctx, &core.EmbeddingEntry{
		Id:     id,
		Model:  c.model,
		Vector: computed,
	}); err != nil {
		c.logger.Warn("embedding cache write failed", "err", err)
	}
	c.remember(id, computed)

	return computed, nil
}

// Len returns the number of vectors held in the in-memory hot map.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.hot)
}

func (c *Cache) remember(id core.ID, vector []float32) {
	c.mu.Lock()
	c.hot[id] = vector
	c.mu.Unlock()
}
