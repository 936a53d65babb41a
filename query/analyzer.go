package query

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/veridoc/clausematch/core"
	"github.com/veridoc/clausematch/lexicon"
)

// minKeywordLength drops short tokens that carry little search signal.
const minKeywordLength = 3

// Analyzer turns a raw query into keywords, synonyms, a classified intent,
// and detected legal-entity categories. An Analyzer is stateless per call
// and safe for concurrent use.
type Analyzer struct {
	lexicon   *lexicon.Lexicon
	thesaurus lexicon.Thesaurus
	logger    *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithThesaurus sets the general-purpose thesaurus used for synonym expansion.
// Default is lexicon.DefaultThesaurus().
func WithThesaurus(thesaurus lexicon.Thesaurus) Option {
	return func(a *Analyzer) error {
		if thesaurus == nil {
			return ErrThesaurusRequired
		}
		a.thesaurus = thesaurus
		return nil
	}
}

// NewAnalyzer creates a new query analyzer over the given lexicon.
func NewAnalyzer(lex *lexicon.Lexicon, opts ...Option) (*Analyzer, error) {
	if lex == nil {
		return nil, ErrLexiconRequired
	}

	a := &Analyzer{
		lexicon:   lex,
		thesaurus: lexicon.DefaultThesaurus(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Analyze extracts keywords, synonyms, intent, and legal entities from the
// query. Empty or whitespace-only queries produce an analysis with empty
// keyword and synonym sets and intent general; Analyze never fails.
func (a *Analyzer) Analyze(rawQuery string) core.QueryAnalysis {
	analysis := core.QueryAnalysis{
		OriginalQuery: rawQuery,
		Keywords:      []string{},
		Synonyms:      []string{},
		ExpandedTerms: []string{},
		LegalEntities: []string{},
		Intent:        core.IntentGeneral,
	}

	if strings.TrimSpace(rawQuery) == "" {
		return analysis
	}

	analysis.Keywords = a.extractKeywords(rawQuery)
	analysis.Synonyms = a.expandSynonyms(analysis.Keywords)

	// Expanded terms: keywords first, synonyms after.
	analysis.ExpandedTerms = make([]string, 0, len(analysis.Keywords)+len(analysis.Synonyms))
	analysis.ExpandedTerms = append(analysis.ExpandedTerms, analysis.Keywords...)
	analysis.ExpandedTerms = append(analysis.ExpandedTerms, analysis.Synonyms...)

	analysis.Intent = a.lexicon.ClassifyIntent(rawQuery)
	analysis.LegalEntities = a.detectEntities(rawQuery, analysis.ExpandedTerms)

	a.logger.Debug("analyzed query",
		"keywords", len(analysis.Keywords),
		"synonyms", len(analysis.Synonyms),
		"intent", analysis.Intent.String())

	return analysis
}

// extractKeywords tokenizes the query, lowercases, strips stop words, and
// drops tokens shorter than minKeywordLength. Order is first occurrence in
// the query, duplicates removed.
func (a *Analyzer) extractKeywords(rawQuery string) []string {
	tokens := tokenize(rawQuery)

	seen := make(map[string]bool, len(tokens))
	keywords := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if len(token) < minKeywordLength || a.lexicon.IsStopWord(token) || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
	}
	return keywords
}

// expandSynonyms unions the domain-lexicon and thesaurus expansions of every
// keyword, capped per keyword, deduplicated, excluding the keywords themselves.
func (a *Analyzer) expandSynonyms(keywords []string) []string {
	isKeyword := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		isKeyword[kw] = true
	}

	seen := make(map[string]bool)
	synonyms := []string{}
	for _, kw := range keywords {
		candidates := a.lexicon.SynonymsFor(kw)
		candidates = append(candidates, a.thesaurus.Expand(kw)...)

		added := 0
		for _, candidate := range candidates {
			if added >= a.lexicon.SynonymCap() {
				break
			}
			candidate = strings.ToLower(candidate)
			if isKeyword[candidate] || seen[candidate] {
				continue
			}
			seen[candidate] = true
			synonyms = append(synonyms, candidate)
			added++
		}
	}
	return synonyms
}

// detectEntities collects lexicon categories hit by the expanded terms and
// legal-entity phrases found literally in the query.
func (a *Analyzer) detectEntities(rawQuery string, expandedTerms []string) []string {
	entities := a.lexicon.Categories(expandedTerms)

	seen := make(map[string]bool, len(entities))
	for _, e := range entities {
		seen[e] = true
	}
	for _, phrase := range a.lexicon.Entities(rawQuery) {
		if !seen[phrase] {
			seen[phrase] = true
			entities = append(entities, phrase)
		}
	}
	if entities == nil {
		entities = []string{}
	}
	return entities
}

// tokenize splits text into lowercased word tokens.
// Punctuation is treated as a separator, so "children?" tokenizes to "children".
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
