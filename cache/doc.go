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

// Package cache provides best-effort, namespaced caching for guidex.
//
// The Store interface models a TTL-capable key-value backend that may be
// unavailable: reads report present/absent only, writes are fire-and-forget.
// Two implementations exist — cache/redis for a real Redis server and the
// in-package Disabled store that always misses. The backend is chosen once
// at startup, so call sites never branch on availability.
//
// Rulebook layers the typed collections (documents, search results,
// categories, category membership, corpus revision) on top of a Store, all
// multiplexed under one key namespace so a single prefix scan invalidates
// everything during re-indexing.
package cache
