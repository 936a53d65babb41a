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


package clausematch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/veridoc/clausematch/ai"
	"github.com/veridoc/clausematch/ai/openai"
	"github.com/veridoc/clausematch/cache"
	"github.com/veridoc/clausematch/core"
	"github.com/veridoc/clausematch/highlight"
	"github.com/veridoc/clausematch/lexicon"
	"github.com/veridoc/clausematch/match"
	"github.com/veridoc/clausematch/query"
	"github.com/veridoc/clausematch/storage"
	"github.com/veridoc/clausematch/storage/badger"
)

// ErrSemanticDisabled is returned by CheckHealth when the engine was built
// without an embedding provider.
var ErrSemanticDisabled = errors.New("semantic matching disabled, running keyword-only")

// Engine wires the query analyzer, embedding cache, matcher, and segment
// locator into one facade. It is safe for concurrent use; concurrent Match
// calls share only the embedding cache.
type Engine struct {
	backend  *badger.Backend
	repo     storage.EmbeddingRepository
	provider ai.Provider
	cache    *cache.Cache
	analyzer *query.Analyzer
	matcher  *match.Matcher
	locator  *highlight.Locator
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig    *ai.Config
	matchConfig *match.Config
	lexicon     *lexicon.Lexicon
	thesaurus   lexicon.Thesaurus
	provider    ai.Provider
	logger      *slog.Logger
	inMemory    bool
	keywordOnly bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithMatchConfig sets the scoring and ranking policy.
func WithMatchConfig(config match.Config) EngineOption {
	return func(o *engineOptions) {
		o.matchConfig = &config
	}
}

// WithLexicon replaces the built-in legal lexicon.
func WithLexicon(lex *lexicon.Lexicon) EngineOption {
	return func(o *engineOptions) {
		if lex != nil {
			o.lexicon = lex
		}
	}
}

// WithThesaurus sets the thesaurus used for synonym expansion.
func WithThesaurus(thesaurus lexicon.Thesaurus) EngineOption {
	return func(o *engineOptions) {
		o.thesaurus = thesaurus
	}
}

// WithProvider injects a prebuilt AI provider instead of connecting to the
// configured embedding service. The engine takes ownership and closes it.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithEngineLogger sets a custom logger for the engine and its components.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInMemoryStore keeps the embedding cache in memory only; nothing
// survives a restart. Useful for tests and one-shot runs.
func WithInMemoryStore() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithKeywordOnly disables semantic matching entirely: no store is opened, no
// embedding service is contacted, and every match runs on the lexical and
// keyword signals with renormalized weights.
func WithKeywordOnly() EngineOption {
	return func(o *engineOptions) {
		o.keywordOnly = true
	}
}

// NewEngine opens the embedding cache store at filePath and assembles the
// matching pipeline. An unreadable store is not fatal: the engine falls back
// to an in-memory store, logs the condition, and starts cold.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
		lexicon:  lexicon.Default(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	var analyzerOpts []query.Option
	analyzerOpts = append(analyzerOpts, query.WithLogger(options.logger))
	if options.thesaurus != nil {
		analyzerOpts = append(analyzerOpts, query.WithThesaurus(options.thesaurus))
	}
	analyzer, err := query.NewAnalyzer(options.lexicon, analyzerOpts...)
	if err != nil {
		return nil, err
	}

	locator, err := highlight.NewLocator(highlight.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	e := &Engine{
		analyzer: analyzer,
		locator:  locator,
		logger:   options.logger,
	}

	matcherOpts := []match.Option{match.WithLogger(options.logger)}
	if options.matchConfig != nil {
		matcherOpts = append(matcherOpts, match.WithConfig(*options.matchConfig))
	}

	if !options.keywordOnly {
		if err := e.openSemanticPipeline(filePath, options); err != nil {
			e.Close()
			return nil, err
		}
		matcherOpts = append(matcherOpts, match.WithEmbeddingSource(e.cache))
	}

	matcher, err := match.NewMatcher(analyzer, options.lexicon, matcherOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.matcher = matcher

	return e, nil
}

// openSemanticPipeline opens the store, the embedding provider, and the
// cache. Store failures degrade to an in-memory store rather than failing.
func (e *Engine) openSemanticPipeline(filePath string, options *engineOptions) error {
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil && !options.inMemory {
		e.logger.Warn("embedding cache store unreadable, starting with a cold in-memory cache",
			"path", filePath, "err", err)
		backend, err = badger.OpenBackend("", true)
	}
	if err != nil {
		return err
	}
	e.backend = backend

	repo, err := badger.NewEmbeddingRepository(backend)
	if err != nil {
		return err
	}
	e.repo = repo

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return err
		}
	}
	e.provider = provider

	c, err := cache.New(repo, provider.Embedder(), options.aiConfig.EmbeddingModel,
		cache.WithLogger(e.logger))
	if err != nil {
		return err
	}
	e.cache = c
	return nil
}

// Analyze extracts keywords, synonym expansions, intent, and legal entities
// from a raw query. It never fails; a blank query yields a neutral analysis.
func (e *Engine) Analyze(rawQuery string) core.QueryAnalysis {
	return e.analyzer.Analyze(rawQuery)
}

// Match scores the clauses against the query and returns the ranked matches.
func (e *Engine) Match(ctx context.Context, rawQuery string, clauses []core.Clause) (*core.MatchResponse, error) {
	return e.matcher.Match(ctx, rawQuery, clauses)
}

// LocateSegments returns the character spans of clauseText to highlight for
// a match, falling back to the whole clause when no literal overlap exists.
func (e *Engine) LocateSegments(clauseText string, result *core.MatchResult) []core.Segment {
	return e.locator.Locate(clauseText, result)
}

// CheckHealth probes the embedding service. Callers use it to decide between
// semantic and keyword-only matching; a failing probe does not stop Match
// from working in degraded mode.
func (e *Engine) CheckHealth(ctx context.Context) error {
	if e.provider == nil {
		return ErrSemanticDisabled
	}
	return e.provider.CheckHealth(ctx)
}

// Cache exposes the embedding cache, primarily for observability.
func (e *Engine) Cache() *cache.Cache {
	return e.cache
}

// Close releases the matcher pool and closes the provider, repository, and
// store. The engine must not be used after Close.
func (e *Engine) Close() error {
	if e.matcher != nil {
		e.matcher.Release()
	}
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
		}
	}
	if e.repo != nil {
		if err := e.repo.Close(); err != nil {
			e.logger.Error("error closing embedding repository", "err", err)
			return err
		}
	}
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			e.logger.Error("error closing cache store", "err", err)
			return err
		}
	}
	return nil
}
