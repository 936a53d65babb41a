package lexicon

import (
	"regexp"

	"github.com/veridoc/clausematch/core"
)

// defaultGroups is the built-in legal synonym lexicon.
// Group order fixes the iteration order of category detection and suggestions.
var defaultGroups = []Group{
	{Category: "custody", Terms: []string{"custody", "guardianship", "care", "supervision", "parental rights"}},
	{Category: "payment", Terms: []string{"payment", "compensation", "salary", "wages", "remuneration", "fee"}},
	{Category: "termination", Terms: []string{"termination", "ending", "conclusion", "expiration", "cancellation"}},
	{Category: "liability", Terms: []string{"liability", "responsibility", "accountability", "obligation", "duty"}},
	{Category: "confidentiality", Terms: []string{"confidentiality", "privacy", "secrecy", "non-disclosure", "proprietary"}},
	{Category: "dispute", Terms: []string{"dispute", "conflict", "disagreement", "controversy", "litigation"}},
	{Category: "jurisdiction", Terms: []string{"jurisdiction", "venue", "court", "legal authority", "competent court"}},
	{Category: "force majeure", Terms: []string{"force majeure", "act of god", "unforeseen circumstances", "emergency"}},
	{Category: "intellectual property", Terms: []string{"intellectual property", "patent", "copyright", "trademark"}},
	{Category: "indemnification", Terms: []string{"indemnification", "indemnity", "protection", "reimbursement"}},
}

// defaultIntentGroups are the ordered phrase-pattern groups for intent
// classification. The first group with a matching pattern wins.
var defaultIntentGroups = []intentGroup{
	{core.IntentLocation, []string{"where", "find", "locate", "show me"}},
	{core.IntentExplanation, []string{"what does", "explain", "what means", "definition"}},
	{core.IntentResponsibility, []string{"who is", "who has", "who must", "responsible", "liable"}},
	{core.IntentTiming, []string{"when", "how long", "deadline", "expire"}},
	{core.IntentProcess, []string{"how to", "what steps", "procedure", "method"}},
}

// Stop words to filter out when extracting query keywords
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "who": true, "what": true, "where": true,
	"when": true, "how": true, "does": true, "has": true, "all": true,
}

// entityPatterns match common legal-entity phrases in queries.
var entityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:court|tribunal|judge|magistrate)\b`),
	regexp.MustCompile(`\b(?:plaintiff|defendant|respondent|appellant)\b`),
	regexp.MustCompile(`\b(?:contract|agreement|lease|deed|will)\b`),
	regexp.MustCompile(`\b(?:clause|section|paragraph|article)\b`),
	regexp.MustCompile(`\b(?:party|parties|signatory|signatories)\b`),
}
