// Copyright 2025 Veridoc Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package highlight

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/veridoc/clausematch/core"
	"github.com/veridoc/clausematch/match"
)

const (
	// minSentenceLength filters fragments too short to be worth highlighting.
	minSentenceLength = 10

	// relevanceThreshold is the minimum sentence relevance for its keyword
	// hits to produce spans.
	relevanceThreshold = 0.3

	// Sentences outside this length band get their relevance discounted.
	shortSentence = 20
	longSentence  = 200
	lengthPenalty = 0.8
)

// Locator maps a matched clause back to highlightable character spans.
type Locator struct {
	logger *slog.Logger
}

// Option configures a Locator.
type Option func(*Locator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLocator creates a segment locator.
func NewLocator(opts ...Option) (*Locator, error) {
	l := &Locator{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Locate returns the character spans of clauseText that an external renderer
// should highlight for the given match. Spans are byte offsets into
// clauseText, sorted and non-overlapping. Locating is best-effort: when the
// match shares no literal vocabulary with the clause (pure semantic match),
// the whole clause is returned as a single span rather than nothing.
func (l *Locator) Locate(clauseText string, result *core.MatchResult) []core.Segment {
	whole := []core.Segment{{Start: 0, End: len(clauseText)}}
	if strings.TrimSpace(clauseText) == "" {
		return nil
	}
	if result == nil || len(result.MatchedKeywords) == 0 {
		return whole
	}

	var segments []core.Segment
	for _, sent := range splitSentences(clauseText) {
		text := clauseText[sent.start:sent.end]
		if len(strings.TrimSpace(text)) <= minSentenceLength {
			continue
		}
		if sentenceRelevance(text, result.MatchedKeywords) <= relevanceThreshold {
			continue
		}
		segments = append(segments, keywordSpans(text, sent.start, result.MatchedKeywords)...)
	}

	if len(segments) == 0 {
		l.logger.Debug("no literal keyword hits, highlighting whole clause",
			"clause", result.ClauseIndex)
		return whole
	}
	return mergeSegments(segments)
}

type sentenceSpan struct {
	start, end int
}

// splitSentences splits on sentence-ending punctuation, preserving byte
// offsets into the original text.
func splitSentences(text string) []sentenceSpan {
	var spans []sentenceSpan
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if i > start {
				spans = append(spans, sentenceSpan{start, i})
			}
			start = i + 1
		}
	}
	if start < len(text) {
		spans = append(spans, sentenceSpan{start, len(text)})
	}
	return spans
}

// sentenceRelevance scores how strongly a sentence reflects the matched
// keywords: the fraction of keywords literally present plus the best fuzzy
// ratio of any keyword against the sentence, discounted for sentences too
// short or too long to make useful highlights.
func sentenceRelevance(sentence string, keywords []string) float64 {
	trimmed := strings.TrimSpace(sentence)
	lower := strings.ToLower(trimmed)

	present := 0
	fuzzy := 0.0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			present++
		}
		if r := match.PartialRatio(kw, trimmed); r > fuzzy {
			fuzzy = r
		}
	}

	score := float64(present)/float64(len(keywords)) + fuzzy
	if len(trimmed) < shortSentence || len(trimmed) > longSentence {
		score *= lengthPenalty
	}
	return score
}

// keywordSpans returns the case-insensitive occurrences of each keyword in
// the sentence, shifted by the sentence's offset into the clause.
func keywordSpans(sentence string, offset int, keywords []string) []core.Segment {
	lower := strings.ToLower(sentence)
	var spans []core.Segment
	for _, kw := range keywords {
		needle := strings.ToLower(kw)
		if needle == "" {
			continue
		}
		from := 0
		for {
			i := strings.Index(lower[from:], needle)
			if i < 0 {
				break
			}
			start := from + i
			spans = append(spans, core.Segment{
				Start: offset + start,
				End:   offset + start + len(needle),
			})
			from = start + len(needle)
		}
	}
	return spans
}

// mergeSegments sorts spans and coalesces overlapping or adjacent ones.
func mergeSegments(segments []core.Segment) []core.Segment {
	sort.Slice(segments, func(i, j int) bool {
		if segments[i].Start != segments[j].Start {
			return segments[i].Start < segments[j].Start
		}
		return segments[i].End < segments[j].End
	})

	merged := segments[:1]
	for _, seg := range segments[1:] {
		last := &merged[len(merged)-1]
		if seg.Start <= last.End {
			if seg.End > last.End {
				last.End = seg.End
			}
			continue
		}
		merged = append(merged, seg)
	}
	return merged
}
