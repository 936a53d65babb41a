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


package core

import (
	"fmt"
	"strings"
)

// ValidateClause validates a Clause according to domain rules.
//
// Validation rules:
//   - Text must contain at least one non-whitespace character
//
// NOT validated:
//   - Title (clauses may legitimately be untitled)
func ValidateClause(clause *Clause) error {
	if clause == nil {
		return fmt.Errorf("%w: clause is nil", ErrInvalidClause)
	}

	if strings.TrimSpace(clause.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidClause, ErrEmptyClauseText)
	}

	return nil
}

// ValidateEmbeddingEntry validates an EmbeddingEntry according to domain rules.
//
// Validation rules:
//   - Id must be non-zero (content hashes of non-empty text are effectively never zero)
//   - Model must not be empty
//   - Vector must not be empty
func ValidateEmbeddingEntry(entry *EmbeddingEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEmbeddingEntry)
	}

	if entry.Id == 0 {
		return fmt.Errorf("%w: id is zero", ErrInvalidEmbeddingEntry)
	}

	if entry.Model == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEmbeddingEntry, ErrEmptyModel)
	}

	if len(entry.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEmbeddingEntry, ErrEmptyVector)
	}

	return nil
}
