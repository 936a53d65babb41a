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


// Package query analyzes free-form natural-language queries.
//
// The Analyzer extracts keywords, expands them through the domain lexicon and
// a general-purpose thesaurus, classifies the query's intent, and detects
// legal-entity categories. The resulting QueryAnalysis is immutable and
// derived purely from the query text and the injected lexicon.
package query
