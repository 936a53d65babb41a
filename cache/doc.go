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


// Package cache implements the persistent embedding cache.
//
// The Cache fronts an ai.Embedder with a content-hash keyed store: repeated
// text never triggers a second model invocation. Vectors live in an
// in-memory hot map backed by a storage.EmbeddingRepository, so the cache
// survives process restarts. The cache grows monotonically; the only
// deletion is a whole-generation purge when the configured embedding model
// changes, because vectors from different models must never mix.
package cache
