package match

import (
	"github.com/veridoc/clausematch/core"
)

// scoreClause computes the three normalized signals for one clause.
// queryVector and clauseVector may be nil when scoring runs degraded; the
// semantic signal is then 0 and the fusion weights are expected to carry no
// semantic component.
func scoreClause(
	analysis *core.QueryAnalysis,
	clause *core.Clause,
	queryVector, clauseVector []float32,
) core.SignalScores {
	signals := core.SignalScores{}

	if queryVector != nil && clauseVector != nil {
		signals.Semantic = cosineSimilarity(queryVector, clauseVector)
	}

	// Approximate string match against the clause body; expanded terms let a
	// synonym-only overlap still register.
	signals.Lexical = partialRatio(analysis.OriginalQuery, clause.Text)
	for _, term := range analysis.ExpandedTerms {
		if r := partialRatio(term, clause.Text); r > signals.Lexical {
			signals.Lexical = r
		}
	}

	if len(analysis.ExpandedTerms) > 0 {
		matched := termsIn(analysis.ExpandedTerms, clause.Text)
		signals.Keyword = float64(len(matched)) / float64(len(analysis.ExpandedTerms))
	}

	return signals
}

// compositeScore fuses signals into one score in [0,1].
func compositeScore(signals core.SignalScores, weights Weights) float64 {
	score := weights.Semantic*signals.Semantic +
		weights.Lexical*signals.Lexical +
		weights.Keyword*signals.Keyword
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
