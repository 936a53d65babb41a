package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for cached embedding entries.
// It is generated from content hashes so identical text shares one entry.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NormalizeContent collapses runs of whitespace so formatting differences
// don't produce distinct content IDs for the same text.
func NormalizeContent(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Clause is a single unit of document text to be searched.
// Clauses are identified by their position in the request, not by persistent IDs.
type Clause struct {
	Title string
	Text  string
}

// EmbeddingText is the text a clause is embedded over: the title and body
// concatenated, or the body alone when untitled.
func (c *Clause) EmbeddingText() string {
	if c.Title == "" {
		return c.Text
	}
	return c.Title + " " + c.Text
}

// Intent is a coarse classification of what kind of answer a query is seeking.
type Intent int

const (
	// IntentGeneral is the fallback when no intent pattern matches.
	IntentGeneral Intent = iota
	// IntentLocation asks where something appears ("where", "find", "show me").
	IntentLocation
	// IntentExplanation asks what something means ("what does", "explain").
	IntentExplanation
	// IntentResponsibility asks who is obligated ("who is", "who has", "who must").
	IntentResponsibility
	// IntentTiming asks about deadlines or durations ("when", "how long").
	IntentTiming
	// IntentProcess asks how something is done ("how to", "what steps").
	IntentProcess
)

// String returns the display name of the intent.
func (i Intent) String() string {
	switch i {
	case IntentLocation:
		return "location"
	case IntentExplanation:
		return "explanation"
	case IntentResponsibility:
		return "responsibility"
	case IntentTiming:
		return "timing"
	case IntentProcess:
		return "process"
	default:
		return "general"
	}
}

// QueryAnalysis is the immutable result of analyzing a query.
// It is derived purely from the query text and the static lexicon.
type QueryAnalysis struct {
	OriginalQuery string
	Keywords      []string // first-occurrence order, deduplicated
	Synonyms      []string
	ExpandedTerms []string // keywords followed by synonyms
	Intent        Intent
	LegalEntities []string // lexicon categories with at least one hit
}

// Confidence is a coarse bucket summarizing a match's composite score.
type Confidence int

const (
	// ConfidenceLow covers scores below the medium threshold.
	ConfidenceLow Confidence = iota
	// ConfidenceMedium covers scores in [medium, high).
	ConfidenceMedium
	// ConfidenceHigh covers scores at or above the high threshold.
	ConfidenceHigh
)

// String returns the display name of the confidence tier.
func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	default:
		return "low"
	}
}

// SignalScores carries the constituent signal values behind a composite score.
// All values are normalized to [0,1].
type SignalScores struct {
	Semantic float64 // cosine similarity of query and clause embeddings
	Lexical  float64 // edit-distance partial ratio against the clause text
	Keyword  float64 // fraction of expanded terms present in the clause text
}

// MatchResult is one ranked clause that cleared the minimum-score threshold.
type MatchResult struct {
	ClauseIndex     int
	Title           string
	Text            string
	Score           float64
	Confidence      Confidence
	Signals         SignalScores
	MatchedKeywords []string // expanded terms found in the clause, insertion order
	Suggestions     []string // query-refinement guidance, at most three
}

// MatchResponse is the full result of a match request.
type MatchResponse struct {
	Analysis       QueryAnalysis
	Matches        []MatchResult // descending score, ties by ascending clause index
	ClausesSkipped int           // clauses excluded because their embedding failed
	Degraded       bool          // true when scoring ran without the semantic signal
}

// Segment is a character span within a clause's text, for highlighting.
// Offsets are byte offsets into the clause text, with End exclusive.
type Segment struct {
	Start int
	End   int
}

// EmbeddingEntry is a persisted embedding cache record.
// The Id is a content hash of the normalized source text, so identical text
// across documents shares one entry.
type EmbeddingEntry struct {
	Id         ID
	Model      string // embedding model the vector was produced by
	Vector     []float32
	InsertedAt time.Time
	UpdatedAt  time.Time
}
