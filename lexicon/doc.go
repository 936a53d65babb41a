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


// Package lexicon provides the static legal-domain vocabulary used by the
// matching engine: synonym groups, intent phrase patterns, stop words,
// legal-entity patterns, and a pluggable general-purpose thesaurus.
//
// A Lexicon is process-wide immutable configuration data loaded once at
// startup. It is injected into the query analyzer as a read-only
// dependency so engines can be tested with alternate lexicons.
package lexicon
