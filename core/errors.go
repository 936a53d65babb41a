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

import "errors"

// Domain validation errors
var (
	// ErrInvalidClause indicates a Clause failed validation.
	ErrInvalidClause = errors.New("invalid clause")

	// ErrEmptyClauseText indicates the clause Text field is empty.
	ErrEmptyClauseText = errors.New("clause text cannot be empty")

	// ErrInvalidEmbeddingEntry indicates an EmbeddingEntry failed validation.
	ErrInvalidEmbeddingEntry = errors.New("invalid embedding entry")

	// ErrEmptyModel indicates the Model field is empty.
	ErrEmptyModel = errors.New("model cannot be empty")

	// ErrEmptyVector indicates the Vector field is empty.
	ErrEmptyVector = errors.New("vector cannot be empty")
)
