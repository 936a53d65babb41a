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


package match

import (
	"errors"
	"math"
)

// Weights are the signal weights of the composite score. They must sum to 1.
//
// Changing weights changes ranking and is a behavioral change; the defaults
// are pinned by tests and bumping them requires updating those tests.
type Weights struct {
	Semantic float64
	Lexical  float64
	Keyword  float64
}

// degraded returns the weights used when the semantic signal is unavailable:
// the semantic weight is dropped and the remaining weights are renormalized
// to sum to 1.
func (w Weights) degraded() Weights {
	rest := w.Lexical + w.Keyword
	if rest <= 0 {
		return Weights{Lexical: 0.5, Keyword: 0.5}
	}
	return Weights{
		Lexical: w.Lexical / rest,
		Keyword: w.Keyword / rest,
	}
}

// Config holds the tunable scoring and ranking policy.
// All thresholds operate on composite scores in [0,1].
type Config struct {
	// Weights are the composite-score signal weights.
	Weights Weights

	// MinScore is the relevance bar: clauses scoring below it are dropped
	// before ranking.
	MinScore float64

	// HighConfidence is the minimum score of the high tier.
	HighConfidence float64

	// MediumConfidence is the minimum score of the medium tier.
	// Scores below it are low.
	MediumConfidence float64

	// MaxResults caps the ranked result list. Zero means no cap.
	MaxResults int

	// MaxSuggestions caps the query-refinement suggestions per match.
	MaxSuggestions int

	// MinKeywords is the keyword count below which a "be more specific"
	// suggestion is generated.
	MinKeywords int
}

// DefaultConfig returns the released scoring policy:
// semantic 0.50, lexical 0.25, keyword 0.25; relevance bar 0.15;
// confidence tiers at 0.75 and 0.45; top 5 results; up to 3 suggestions.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Semantic: 0.50,
			Lexical:  0.25,
			Keyword:  0.25,
		},
		MinScore:         0.15,
		HighConfidence:   0.75,
		MediumConfidence: 0.45,
		MaxResults:       5,
		MaxSuggestions:   3,
		MinKeywords:      3,
	}
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	sum := c.Weights.Semantic + c.Weights.Lexical + c.Weights.Keyword
	if math.Abs(sum-1.0) > 1e-9 {
		return errors.New("match config: weights must sum to 1")
	}
	if c.Weights.Semantic < 0 || c.Weights.Lexical < 0 || c.Weights.Keyword < 0 {
		return errors.New("match config: weights must be non-negative")
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return errors.New("match config: MinScore must be in [0,1]")
	}
	if c.HighConfidence <= c.MediumConfidence {
		return errors.New("match config: HighConfidence must exceed MediumConfidence")
	}
	if c.MediumConfidence < 0 || c.HighConfidence > 1 {
		return errors.New("match config: confidence thresholds must be in [0,1]")
	}
	if c.MaxResults < 0 {
		return errors.New("match config: MaxResults must be non-negative")
	}
	if c.MaxSuggestions < 0 {
		return errors.New("match config: MaxSuggestions must be non-negative")
	}
	return nil
}
