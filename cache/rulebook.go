package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/poiesic/guidex/core"
)

// Key schema (namespaced to avoid collisions):
//   - gdx:v1:document:{id}            JSON Document (no TTL, invalidated on update)
//   - gdx:v1:search:{fingerprint}     JSON []SearchResult (TTL: 1h)
//   - gdx:v1:categories               JSON []Category (no TTL)
//   - gdx:v1:category_members:{key}   JSON []string of document IDs (no TTL)
//   - gdx:v1:corpus_version           revision string (no TTL)
const (
	keyPrefix = "gdx:v1:"

	// SearchTTL is the expiry for cached search result lists.
	SearchTTL = 3600 * time.Second
)

// Rulebook is the typed, namespaced cache over one corpus's collections.
// Every getter degrades to a miss on backend failure or on a value that no
// longer deserializes; every setter is fire-and-forget.
type Rulebook struct {
	store  Store
	logger *slog.Logger
}

// RulebookOption configures a Rulebook.
type RulebookOption func(*Rulebook)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) RulebookOption {
	return func(r *Rulebook) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewRulebook creates the typed cache on top of a Store.
func NewRulebook(store Store, opts ...RulebookOption) *Rulebook {
	r := &Rulebook{
		store:  store,
		logger: slog.Default().With("component", "rulebook-cache"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// --- Documents ---

// GetDocument returns the cached document for the exact id, if present.
func (r *Rulebook) GetDocument(ctx context.Context, id string) (*core.Document, bool) {
	key := keyPrefix + "document:" + id
	raw, ok := r.store.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var doc core.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		r.logger.Warn("cache deserialization failed", "key", key, "err", err)
		return nil, false
	}
	return &doc, true
}

// SetDocument caches a document with no expiry.
func (r *Rulebook) SetDocument(ctx context.Context, doc *core.Document) {
	key := keyPrefix + "document:" + doc.ID
	data, err := json.Marshal(doc)
	if err != nil {
		r.logger.Warn("cache serialization failed", "key", key, "err", err)
		return
	}
	r.store.Set(ctx, key, string(data))
}

// --- Search results ---

// GetSearchResults returns the cached result list for (query, limit).
func (r *Rulebook) GetSearchResults(ctx context.Context, query string, limit int) ([]core.SearchResult, bool) {
	key := searchKey(query, limit)
	raw, ok := r.store.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var results []core.SearchResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		r.logger.Warn("cache deserialization failed", "key", key, "err", err)
		return nil, false
	}
	return results, true
}

// SetSearchResults caches a result list for (query, limit) with SearchTTL.
func (r *Rulebook) SetSearchResults(ctx context.Context, query string, limit int, results []core.SearchResult) {
	key := searchKey(query, limit)
	data, err := json.Marshal(results)
	if err != nil {
		r.logger.Warn("cache serialization failed", "key", key, "err", err)
		return
	}
	r.store.SetTTL(ctx, key, string(data), SearchTTL)
}

// --- Categories ---

// GetCategories returns the cached category list.
func (r *Rulebook) GetCategories(ctx context.Context) ([]core.Category, bool) {
	key := keyPrefix + "categories"
	raw, ok := r.store.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var categories []core.Category
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		r.logger.Warn("cache deserialization failed", "key", key, "err", err)
		return nil, false
	}
	return categories, true
}

// SetCategories caches the category list with no expiry.
func (r *Rulebook) SetCategories(ctx context.Context, categories []core.Category) {
	key := keyPrefix + "categories"
	data, err := json.Marshal(categories)
	if err != nil {
		r.logger.Warn("cache serialization failed", "key", key, "err", err)
		return
	}
	r.store.Set(ctx, key, string(data))
}

// GetCategoryMembers returns the cached ordered document ID list for a
// category key.
func (r *Rulebook) GetCategoryMembers(ctx context.Context, key string) ([]string, bool) {
	cacheKey := keyPrefix + "category_members:" + key
	raw, ok := r.store.Get(ctx, cacheKey)
	if !ok {
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		r.logger.Warn("cache deserialization failed", "key", cacheKey, "err", err)
		return nil, false
	}
	return ids, true
}

// SetCategoryMembers caches the ordered document ID list for a category key.
func (r *Rulebook) SetCategoryMembers(ctx context.Context, key string, ids []string) {
	cacheKey := keyPrefix + "category_members:" + key
	data, err := json.Marshal(ids)
	if err != nil {
		r.logger.Warn("cache serialization failed", "key", cacheKey, "err", err)
		return
	}
	r.store.Set(ctx, cacheKey, string(data))
}

// --- Corpus revision ---

// GetRevision returns the last-indexed corpus revision marker.
func (r *Rulebook) GetRevision(ctx context.Context) (string, bool) {
	return r.store.Get(ctx, keyPrefix+"corpus_version")
}

// SetRevision caches the corpus revision marker.
func (r *Rulebook) SetRevision(ctx context.Context, revision string) {
	r.store.Set(ctx, keyPrefix+"corpus_version", revision)
}

// --- Invalidation ---

// InvalidateAll removes every key in the namespace. It runs once per
// successful re-index, before repopulation, so a half-repopulated cache is
// only ever staler than the new generation, never inconsistent with it.
func (r *Rulebook) InvalidateAll(ctx context.Context) {
	r.store.DeletePrefix(ctx, keyPrefix)
}

// Available reports whether the underlying backend is reachable.
func (r *Rulebook) Available(ctx context.Context) bool {
	return r.store.Available(ctx)
}

// searchKey builds the cache key for a (query, limit) pair.
func searchKey(query string, limit int) string {
	return keyPrefix + "search:" + core.Fingerprint(query, limit)
}
