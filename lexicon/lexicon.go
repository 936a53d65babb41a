package lexicon

import (
	"regexp"
	"strings"

	"github.com/veridoc/clausematch/core"
)

// defaultSynonymCap limits how many synonyms a single keyword may contribute.
const defaultSynonymCap = 10

// Group is one synonym group: a category name and its related terms.
type Group struct {
	Category string
	Terms    []string
}

// intentGroup is one ordered phrase-pattern group for intent classification.
type intentGroup struct {
	intent   core.Intent
	patterns []string
}

// Lexicon is the static legal-domain vocabulary used for query expansion,
// intent classification, and entity detection. A Lexicon is immutable after
// construction and safe for concurrent use.
type Lexicon struct {
	groups         []Group
	intents        []intentGroup
	stopWords      map[string]bool
	entityPatterns []*regexp.Regexp
	synonymCap     int
}

// Option configures a Lexicon.
type Option func(*Lexicon)

// WithSynonymCap sets the per-keyword synonym cap.
// Values below 1 are ignored. Default is 10.
func WithSynonymCap(cap int) Option {
	return func(l *Lexicon) {
		if cap >= 1 {
			l.synonymCap = cap
		}
	}
}

// New creates a Lexicon from the given synonym groups.
// Intent patterns, stop words, and entity patterns use the built-in defaults.
func New(groups []Group, opts ...Option) *Lexicon {
	l := &Lexicon{
		groups:         groups,
		intents:        defaultIntentGroups,
		stopWords:      stopWords,
		entityPatterns: entityPatterns,
		synonymCap:     defaultSynonymCap,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Default returns the built-in legal-domain lexicon.
func Default() *Lexicon {
	return New(defaultGroups)
}

// SynonymCap returns the per-keyword synonym cap.
func (l *Lexicon) SynonymCap() int {
	return l.synonymCap
}

// IsStopWord reports whether the lowercased word is a stop word.
func (l *Lexicon) IsStopWord(word string) bool {
	return l.stopWords[word]
}

// SynonymsFor returns the domain synonyms for a keyword: the terms of every
// group the keyword belongs to, excluding the keyword itself. A keyword
// belongs to a group when one of the group's terms appears within it
// ("custodial" still hits the custody group). Order follows group order.
func (l *Lexicon) SynonymsFor(keyword string) []string {
	keyword = strings.ToLower(keyword)
	var synonyms []string
	for _, group := range l.groups {
		if !groupContains(group, keyword) {
			continue
		}
		for _, term := range group.Terms {
			if term != keyword {
				synonyms = append(synonyms, term)
			}
		}
	}
	return synonyms
}

// Categories returns the category names of every group that at least one of
// the given terms belongs to, in group order, deduplicated.
func (l *Lexicon) Categories(terms []string) []string {
	var categories []string
	for _, group := range l.groups {
		for _, term := range terms {
			if groupContains(group, strings.ToLower(term)) {
				categories = append(categories, group.Category)
				break
			}
		}
	}
	return categories
}

// RelatedTerms returns, per matching group, the terms not already present in
// the given keywords. Used for "also try" query suggestions.
func (l *Lexicon) RelatedTerms(keywords []string) [][]string {
	present := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		present[strings.ToLower(kw)] = true
	}

	var related [][]string
	for _, group := range l.groups {
		hit := false
		for _, term := range group.Terms {
			if present[term] {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		var others []string
		for _, term := range group.Terms {
			if !present[term] {
				others = append(others, term)
			}
		}
		if len(others) > 0 {
			related = append(related, others)
		}
	}
	return related
}

// ClassifyIntent matches the query against the ordered phrase-pattern groups
// and returns the intent of the first group with a hit. Groups are checked in
// a fixed priority order so overlapping matches are deterministic.
func (l *Lexicon) ClassifyIntent(query string) core.Intent {
	lower := strings.ToLower(query)
	for _, group := range l.intents {
		for _, pattern := range group.patterns {
			if strings.Contains(lower, pattern) {
				return group.intent
			}
		}
	}
	return core.IntentGeneral
}

// Entities returns the legal-entity phrases found in the query,
// lowercased and deduplicated, in order of first occurrence.
func (l *Lexicon) Entities(query string) []string {
	seen := make(map[string]bool)
	var entities []string
	for _, pattern := range l.entityPatterns {
		for _, m := range pattern.FindAllString(strings.ToLower(query), -1) {
			if !seen[m] {
				seen[m] = true
				entities = append(entities, m)
			}
		}
	}
	return entities
}

func groupContains(group Group, keyword string) bool {
	for _, term := range group.Terms {
		if term == keyword || strings.Contains(keyword, term) {
			return true
		}
	}
	return false
}
