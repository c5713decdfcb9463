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

// Package index defines the vector table abstraction guidex indexes into
// and searches against.
//
// A Store holds one active table per corpus. Replace is the generation
// cut-over point for search: the new contents become visible atomically, and
// a failed build leaves the previous generation serving. The index/badger
// sub-package provides the embedded implementation.
package index
