// Copyright 2025 Poiesic Systems
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

// Package ai provides the embedding abstraction used by guidex.
//
// The Embedder interface keeps document-mode and query-mode embedding
// separate because task-prefixed models frame the two inputs
// differently. Two implementation sub-packages exist:
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//   - ai/mock: deterministic test double, no external dependencies
//
// Public constructors return the ai.Embedder interface to prevent accidental
// coupling to a concrete implementation; mock constructors return concrete
// types so tests can inject behavior and make assertions.
package ai
