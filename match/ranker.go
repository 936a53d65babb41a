package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/veridoc/clausematch/core"
	"github.com/veridoc/clausematch/lexicon"
)

// confidenceFor buckets a composite score into a tier. The tiers partition
// [0,1] without gaps: [high,1] is high, [medium,high) is medium, the rest low.
func confidenceFor(score float64, cfg Config) core.Confidence {
	switch {
	case score >= cfg.HighConfidence:
		return core.ConfidenceHigh
	case score >= cfg.MediumConfidence:
		return core.ConfidenceMedium
	default:
		return core.ConfidenceLow
	}
}

// buildSuggestions generates query-refinement guidance from a fixed rule
// table keyed by intent, keyword count, and related lexicon terms.
// At most cfg.MaxSuggestions are returned.
func buildSuggestions(analysis *core.QueryAnalysis, lex *lexicon.Lexicon, cfg Config) []string {
	suggestions := []string{}

	if len(analysis.Keywords) < cfg.MinKeywords {
		suggestions = append(suggestions, "Try using more specific keywords")
	}

	for _, others := range lex.RelatedTerms(analysis.Keywords) {
		if len(others) > 3 {
			others = others[:3]
		}
		suggestions = append(suggestions, fmt.Sprintf("Also try: %s", strings.Join(others, ", ")))
	}

	switch analysis.Intent {
	case core.IntentLocation:
		suggestions = append(suggestions, "Try searching for specific clause titles or section numbers")
	case core.IntentExplanation:
		suggestions = append(suggestions, "Try asking 'What does [specific term] mean?'")
	case core.IntentResponsibility:
		suggestions = append(suggestions, "Try naming the party or role you are asking about")
	case core.IntentTiming:
		suggestions = append(suggestions, "Try asking about a specific deadline or notice period")
	case core.IntentProcess:
		suggestions = append(suggestions, "Try asking about one step of the procedure at a time")
	}

	if len(suggestions) > cfg.MaxSuggestions {
		suggestions = suggestions[:cfg.MaxSuggestions]
	}
	return suggestions
}

// rankMatches orders matches by descending score with a stable tie-break by
// ascending clause index, then applies the result cap.
func rankMatches(matches []core.MatchResult, cfg Config) []core.MatchResult {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ClauseIndex < matches[j].ClauseIndex
	})
	if cfg.MaxResults > 0 && len(matches) > cfg.MaxResults {
		matches = matches[:cfg.MaxResults]
	}
	return matches
}
