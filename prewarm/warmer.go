// Copyright 2025 Veridoc Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package prewarm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/veridoc/clausematch/ai"
	"github.com/veridoc/clausematch/cache"
	"github.com/veridoc/clausematch/core"
	"github.com/veridoc/clausematch/storage"
)

// Config holds configuration for a warming run.
type Config struct {
	// BatchSize is the number of clause texts embedded per service call.
	BatchSize int

	// ReportInterval is how often to report progress (number of clauses).
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for embedding calls.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      50,
		ReportInterval: 50,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Warmer populates the embedding store for a set of clauses ahead of
// matching, so interactive requests start from a hot cache. Texts already in
// the store are skipped.
type Warmer struct {
	repo     storage.EmbeddingRepository
	embedder ai.Embedder
	model    string
	config   *Config
	progress io.Writer
}

// NewWarmer creates a warmer.
// progress: where to write progress output (typically os.Stderr).
func NewWarmer(repo storage.EmbeddingRepository, embedder ai.Embedder, model string, config *Config, progress io.Writer) (*Warmer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if model == "" {
		return nil, ErrModelRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize <= 0 {
		return nil, ErrInvalidBatchSize
	}

	return &Warmer{
		repo:     repo,
		embedder: embedder,
		model:    model,
		config:   config,
		progress: progress,
	}, nil
}

// Run embeds every clause not yet in the store, in batches, and persists the
// results. A store holding vectors from a different model is rejected rather
// than mixed into; purge it or warm with the matching model.
func (w *Warmer) Run(ctx context.Context, clauses []core.Clause) error {
	stored, err := w.repo.Model(ctx)
	if err != nil {
		return fmt.Errorf("failed to read store model label: %w", err)
	}
	if stored != "" && stored != w.model {
		return fmt.Errorf("%w: store holds %q, warming with %q", ErrModelMismatch, stored, w.model)
	}
	if stored == "" {
		if err := w.repo.SetModel(ctx, w.model); err != nil {
			return fmt.Errorf("failed to record store model label: %w", err)
		}
	}

	ids, texts := w.pendingTexts(ctx, clauses)
	if len(texts) == 0 {
		fmt.Fprintf(w.progress, "Nothing to warm: all %d clauses already cached\n", len(clauses))
		return nil
	}

	fmt.Fprintf(w.progress, "Warming %d of %d clause embeddings (batch size: %d)\n",
		len(texts), len(clauses), w.config.BatchSize)

	tracker := NewProgressTracker(w.progress, len(texts), w.config.ReportInterval)
	tracker.Start()

	for start := 0; start < len(texts); start += w.config.BatchSize {
		end := start + w.config.BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		if err := w.processBatch(ctx, ids[start:end], texts[start:end]); err != nil {
			return err
		}
		tracker.Increment(end - start)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(w.progress, "Warming complete. Embedded %d clauses in %v (%.1f clauses/sec)\n",
		len(texts), elapsed.Round(time.Second), float64(len(texts))/elapsed.Seconds())

	return nil
}

// pendingTexts deduplicates the clause texts by content ID and drops the ones
// already stored. Order of first occurrence is preserved.
func (w *Warmer) pendingTexts(ctx context.Context, clauses []core.Clause) ([]core.ID, []string) {
	seen := make(map[core.ID]bool, len(clauses))
	var ids []core.ID
	var texts []string
	for i := range clauses {
		text := clauses[i].EmbeddingText()
		id := core.IDFromContent(core.NormalizeContent(text))
		if seen[id] {
			continue
		}
		seen[id] = true

		if _, err := w.repo.GetEntry(ctx, id); err == nil {
			continue
		} else if !errors.Is(err, storage.ErrNotFound) {
			// Unreadable entry; recompute and overwrite it.
			fmt.Fprintf(w.progress, "warning: unreadable cache entry for clause %d, recomputing: %v\n", i, err)
		}

		ids = append(ids, id)
		texts = append(texts, text)
	}
	return ids, texts
}

// processBatch embeds one batch of texts with retry and persists the vectors.
func (w *Warmer) processBatch(ctx context.Context, ids []core.ID, texts []string) error {
	var embeddings [][]float32
	err := cache.RetryWithBackoff(ctx, func() error {
		var embedErr error
		embeddings, embedErr = w.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, w.config.MaxRetries, w.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", w.config.MaxRetries, err)
	}

	if len(embeddings) != len(texts) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(embeddings))
	}

	entries := make([]*core.EmbeddingEntry, len(ids))
	for i, id := range ids {
		entries[i] = &core.EmbeddingEntry{
			Id:     id,
			Model:  w.model,
			Vector: embeddings[i],
		}
	}
	if _, err := w.repo.PutEntries(ctx, entries...); err != nil {
		return fmt.Errorf("failed to store embeddings: %w", err)
	}
	return nil
}
