package match

import (
	"strings"

	"github.com/xrash/smetrics"
)

// editRatio is the edit-distance similarity of two strings in [0,1].
// Insertions and deletions cost 1, substitutions 2, so the ratio matches the
// classic 1 - distance/(len(a)+len(b)) normalization.
func editRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	ratio := 1 - float64(dist)/float64(total)
	if ratio < 0 {
		return 0
	}
	return ratio
}

// PartialRatio reports how well a matches any part of b, in [0,1].
// It is the fuzzy-match primitive shared by scoring and highlighting.
func PartialRatio(a, b string) float64 {
	return partialRatio(a, b)
}

// partialRatio is the best edit ratio between the shorter string and any
// equally sized window of the longer one. It tolerates typos and rewards
// partial phrase overlap: a query matching one sentence of a long clause
// still scores high.
func partialRatio(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	// A literal occurrence is a perfect partial match. The window scan below
	// samples offsets, so without this check an exact substring sitting
	// between sampled windows would score under 1.
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 1
	}

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	window := len(shorter)
	needle := string(shorter)

	// Slide by half a window; exhaustive single-rune steps buy little
	// accuracy at a quadratic cost on long clauses.
	step := window / 2
	if step < 1 {
		step = 1
	}

	best := 0.0
	for i := 0; i+window <= len(longer); i += step {
		r := editRatio(needle, string(longer[i:i+window]))
		if r > best {
			best = r
		}
		if best == 1 {
			return 1
		}
	}
	// Always check the final window so the tail is never missed.
	r := editRatio(needle, string(longer[len(longer)-window:]))
	if r > best {
		best = r
	}
	return best
}
