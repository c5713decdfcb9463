// Copyright 2025 The Guidex Authors
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

package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/poiesic/guidex/ai"
	"github.com/poiesic/guidex/cache"
	"github.com/poiesic/guidex/core"
	"github.com/poiesic/guidex/index"
)

const (
	// DefaultLimit applies when the caller passes a non-positive limit.
	DefaultLimit = 10
	// MaxLimit caps the result count for any query.
	MaxLimit = 50

	summaryRunes = 300
)

// Engine answers semantic queries over the rulebook. Query results flow
// cache-through: a fingerprint hit skips embedding entirely; a miss embeds
// the query, scans the vector index, and writes the shaped results back.
type Engine struct {
	embedder ai.Embedder
	store    index.Store
	cache    *cache.Rulebook
	snapshot *atomic.Pointer[core.Snapshot]
	table    string
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger to use.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger.With("component", "search")
	}
}

// WithTable sets the index table to query.
func WithTable(table string) Option {
	return func(e *Engine) {
		e.table = table
	}
}

// NewEngine creates a search engine. The snapshot pointer is shared with
// whatever publishes re-index results; the engine only ever loads it.
func NewEngine(embedder ai.Embedder, store index.Store, rulebook *cache.Rulebook,
	snapshot *atomic.Pointer[core.Snapshot], opts ...Option) *Engine {

	e := &Engine{
		embedder: embedder,
		store:    store,
		cache:    rulebook,
		snapshot: snapshot,
		table:    "rules",
		logger:   slog.Default().With("component", "search"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search returns the documents most similar to the query, best first.
// A blank query is rejected; limit is clamped to [1, MaxLimit] with
// DefaultLimit for non-positive values.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, core.ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if results, ok := e.cache.GetSearchResults(ctx, query, limit); ok {
		e.logger.Debug("search cache hit", "query", query, "limit", limit)
		return results, nil
	}

	vector, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := e.store.Search(ctx, e.table, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	results := make([]core.SearchResult, len(matches))
	for i, match := range matches {
		results[i] = core.SearchResult{
			ID:       match.Row.ID,
			Title:    match.Row.Title,
			Category: match.Row.Category,
			Score:    score(match.Distance),
			Summary:  summarize(match.Row.Text),
		}
	}

	e.cache.SetSearchResults(ctx, query, limit, results)
	return results, nil
}

// GetDocument returns a document by id. The cache answers exact-id lookups;
// the snapshot handles everything else, case-insensitively. The vector index
// is never consulted.
func (e *Engine) GetDocument(ctx context.Context, id string) (*core.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, core.ErrEmptyID
	}

	if doc, ok := e.cache.GetDocument(ctx, id); ok {
		return doc, nil
	}

	snapshot := e.snapshot.Load()
	if snapshot != nil {
		if doc, ok := snapshot.Document(id); ok {
			e.cache.SetDocument(ctx, doc)
			return doc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", core.ErrDocumentNotFound, id)
}

// ListCategory returns a category and its member documents sorted by id.
// Unknown keys produce an error naming the keys that do exist.
func (e *Engine) ListCategory(ctx context.Context, key string) (core.Category, []*core.Document, error) {
	snapshot := e.snapshot.Load()
	if snapshot == nil {
		return core.Category{}, nil, &core.UnknownCategoryError{Key: key}
	}

	category, ok := snapshot.Category(key)
	if !ok {
		return core.Category{}, nil, &core.UnknownCategoryError{
			Key:       key,
			Available: snapshot.CategoryKeys(),
		}
	}
	return category, snapshot.DocumentsInCategory(category.Key), nil
}

// score converts a cosine distance into a similarity in [0, 1], higher
// better. Distances past 1 clamp to zero.
func score(distance float32) float32 {
	s := 1 - distance
	if s < 0 {
		return 0
	}
	return s
}

// summarize bounds an excerpt to summaryRunes runes, marking truncation.
func summarize(text string) string {
	runes := []rune(text)
	if len(runes) <= summaryRunes {
		return text
	}
	return string(runes[:summaryRunes]) + "..."
}
