package lexicon

import "strings"

// Thesaurus expands a word into related general-purpose terms.
// Implementations must be safe for concurrent use.
type Thesaurus interface {
	// Expand returns related words for the given lowercased word.
	// The result never includes the word itself.
	// Returns an empty slice when nothing is known about the word.
	Expand(word string) []string
}

// StaticThesaurus is a Thesaurus backed by an in-memory word map.
// The zero value is unusable; construct with NewStaticThesaurus or
// DefaultThesaurus.
type StaticThesaurus struct {
	entries map[string][]string
}

var _ Thesaurus = (*StaticThesaurus)(nil)

// NewStaticThesaurus creates a StaticThesaurus from the given word map.
// Keys are matched case-insensitively.
func NewStaticThesaurus(entries map[string][]string) *StaticThesaurus {
	normalized := make(map[string][]string, len(entries))
	for word, related := range entries {
		normalized[strings.ToLower(word)] = related
	}
	return &StaticThesaurus{entries: normalized}
}

// Expand returns the related words recorded for the given word.
func (t *StaticThesaurus) Expand(word string) []string {
	related := t.entries[strings.ToLower(word)]
	out := make([]string, 0, len(related))
	for _, r := range related {
		if !strings.EqualFold(r, word) {
			out = append(out, r)
		}
	}
	return out
}

// DefaultThesaurus returns the built-in general-purpose thesaurus.
// The word list is deliberately small; it covers vocabulary that shows up in
// document-review queries but falls outside the legal synonym groups.
func DefaultThesaurus() *StaticThesaurus {
	return NewStaticThesaurus(map[string][]string{
		"children":  {"child", "minor", "minors", "kids", "offspring"},
		"child":     {"children", "minor", "kid"},
		"mother":    {"parent", "mom"},
		"father":    {"parent", "dad"},
		"money":     {"funds", "payment", "amount"},
		"pay":       {"payment", "compensate", "remit"},
		"house":     {"home", "residence", "property", "dwelling"},
		"job":       {"employment", "work", "position", "occupation"},
		"end":       {"terminate", "conclude", "finish"},
		"ending":    {"termination", "conclusion"},
		"start":     {"begin", "commence", "commencement"},
		"sign":      {"execute", "signature"},
		"owner":     {"proprietor", "holder"},
		"rent":      {"lease", "tenancy"},
		"sell":      {"sale", "transfer", "convey"},
		"buy":       {"purchase", "acquire"},
		"rules":     {"terms", "conditions", "provisions"},
		"penalty":   {"fine", "sanction", "forfeit"},
		"notice":    {"notification", "written notice"},
		"divorce":   {"dissolution", "separation"},
		"spouse":    {"husband", "wife", "partner"},
		"deadline":  {"due date", "time limit"},
		"insurance": {"coverage", "policy"},
		"damages":   {"losses", "harm", "injury"},
		"secret":    {"confidential", "private"},
	})
}
