package match

import "strings"

// termsIn returns the subset of terms found as case-insensitive substrings of
// text, deduplicated, in insertion order. This is the shared check behind the
// keyword signal and the matched-keyword metadata.
func termsIn(terms []string, text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]bool, len(terms))
	matched := []string{}
	for _, term := range terms {
		t := strings.ToLower(term)
		if t == "" || seen[t] {
			continue
		}
		if strings.Contains(lower, t) {
			seen[t] = true
			matched = append(matched, t)
		}
	}
	return matched
}
