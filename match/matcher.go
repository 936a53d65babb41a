package match

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/veridoc/clausematch/core"
	"github.com/veridoc/clausematch/lexicon"
	"github.com/veridoc/clausematch/query"
)

// EmbeddingSource supplies embeddings for query and clause text.
// *cache.Cache satisfies this interface; tests may inject fakes.
type EmbeddingSource interface {
	GetOrCompute(ctx context.Context, text string) ([]float32, error)
}

// Matcher scores and ranks document clauses against a natural-language query.
// A Matcher is stateless per request apart from the shared embedding source;
// concurrent Match calls are independent.
type Matcher struct {
	analyzer *query.Analyzer
	lexicon  *lexicon.Lexicon
	source   EmbeddingSource
	config   Config
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithConfig sets the scoring and ranking policy.
// Default is DefaultConfig().
func WithConfig(cfg Config) Option {
	return func(m *Matcher) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		m.config = cfg
		return nil
	}
}

// WithEmbeddingSource sets the embedding source for semantic scoring.
// Without one the matcher runs keyword-only: the semantic weight is
// redistributed across the lexical and keyword signals.
func WithEmbeddingSource(source EmbeddingSource) Option {
	return func(m *Matcher) error {
		m.source = source
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent clause embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Matcher) error {
		if size < 1 {
			size = 1
		}
		if m.pool != nil {
			m.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		m.pool = pool
		return nil
	}
}

// NewMatcher creates a matcher over the given analyzer and lexicon.
func NewMatcher(analyzer *query.Analyzer, lex *lexicon.Lexicon, opts ...Option) (*Matcher, error) {
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}
	if lex == nil {
		return nil, ErrLexiconRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	m := &Matcher{
		analyzer: analyzer,
		lexicon:  lex,
		config:   DefaultConfig(),
		pool:     pool,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			m.Release()
			return nil, err
		}
	}

	return m, nil
}

// Release releases the worker pool.
// The matcher should not be used after calling Release.
func (m *Matcher) Release() {
	if m.pool != nil {
		m.pool.Release()
	}
}

// Match analyzes the query, scores every clause, and returns the ranked
// matches. Empty queries and empty clause lists produce an empty match list
// with a valid analysis, not an error. Clauses whose embedding fails are
// excluded from scoring and counted in the response.
func (m *Matcher) Match(ctx context.Context, rawQuery string, clauses []core.Clause) (*core.MatchResponse, error) {
	return m.MatchWithMonitor(ctx, rawQuery, clauses, nil)
}

// MatchWithMonitor is Match with observation hooks.
// The monitor receives callbacks at each stage of the matching process.
func (m *Matcher) MatchWithMonitor(ctx context.Context, rawQuery string, clauses []core.Clause, monitor MatchMonitor) (*core.MatchResponse, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(rawQuery, len(clauses))

	analysis := m.analyzer.Analyze(rawQuery)
	monitor.AfterAnalysis(&analysis)

	response := &core.MatchResponse{
		Analysis: analysis,
		Matches:  []core.MatchResult{},
	}

	if strings.TrimSpace(rawQuery) == "" || len(clauses) == 0 {
		monitor.Finish(response)
		return response, nil
	}

	// 1. Embed the query. Failure here is not fatal: scoring degrades to the
	// lexical and keyword signals with renormalized weights.
	var queryVector []float32
	if m.source != nil {
		vector, err := m.source.GetOrCompute(ctx, rawQuery)
		if err != nil {
			m.logger.Warn("query embedding unavailable, degrading to keyword-only scoring", "err", err)
		} else {
			queryVector = vector
		}
	}
	degraded := queryVector == nil
	response.Degraded = degraded
	monitor.QueryEmbedded(degraded)

	weights := m.config.Weights
	if degraded {
		weights = m.config.Weights.degraded()
	}

	// 2. Embed the clauses concurrently. A failed clause embedding excludes
	// that clause rather than aborting the request.
	clauseVectors := make([][]float32, len(clauses))
	clauseErrs := make([]error, len(clauses))
	if !degraded {
		var wg sync.WaitGroup
		for i := range clauses {
			if err := core.ValidateClause(&clauses[i]); err != nil {
				clauseErrs[i] = err
				continue
			}
			i := i
			text := clauses[i].EmbeddingText()
			wg.Add(1)
			if err := m.pool.Submit(func() {
				defer wg.Done()
				clauseVectors[i], clauseErrs[i] = m.source.GetOrCompute(ctx, text)
			}); err != nil {
				wg.Done()
				clauseErrs[i] = err
			}
		}
		wg.Wait()
	} else {
		for i := range clauses {
			clauseErrs[i] = core.ValidateClause(&clauses[i])
		}
	}

	// 3. Score, threshold, and annotate.
	suggestions := buildSuggestions(&analysis, m.lexicon, m.config)
	for i := range clauses {
		if clauseErrs[i] != nil {
			m.logger.Warn("excluding clause from scoring", "clause", i, "err", clauseErrs[i])
			monitor.ClauseSkipped(i, clauseErrs[i])
			response.ClausesSkipped++
			continue
		}

		signals := scoreClause(&analysis, &clauses[i], queryVector, clauseVectors[i])
		score := compositeScore(signals, weights)
		monitor.ClauseScored(i, signals, score)

		if score < m.config.MinScore {
			monitor.ClauseDropped(i, score)
			continue
		}

		response.Matches = append(response.Matches, core.MatchResult{
			ClauseIndex:     i,
			Title:           clauses[i].Title,
			Text:            clauses[i].Text,
			Score:           score,
			Confidence:      confidenceFor(score, m.config),
			Signals:         signals,
			MatchedKeywords: termsIn(analysis.ExpandedTerms, clauses[i].Text),
			Suggestions:     suggestions,
		})
	}

	response.Matches = rankMatches(response.Matches, m.config)
	monitor.Finish(response)

	return response, nil
}
