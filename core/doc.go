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

// Package core defines the domain model shared by every guidex component.
//
// The central types are:
//
//   - Document: one indexed rule, immutable once parsed
//   - Category: a projection over one generation's documents
//   - Snapshot: a whole generation (documents + categories + revision),
//     published atomically and read concurrently
//   - SearchResult: an ephemeral, per-query derived row
//
// A "generation" is one internally consistent set of documents, categories
// and vector index entries, identified by the corpus revision that produced
// it. All three collections are always replaced together; no reader ever
// observes a mix of two generations.
package core
