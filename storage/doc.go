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


// Package storage defines the persistence abstraction for the embedding cache.
//
// The EmbeddingRepository interface hides the concrete backend (BadgerDB in
// production, in-memory in tests) behind content-hash keyed get/put
// operations plus generation management: the repository records which
// embedding model its vectors were produced by, and Purge wipes the whole
// generation when the model changes.
//
// Serialization uses the MUS binary format; the marshal helpers wrap the
// generated serializers from the core package.
package storage
