package search

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/poiesic/guidex/ai/mock"
	"github.com/poiesic/guidex/cache"
	"github.com/poiesic/guidex/core"
	"github.com/poiesic/guidex/index"
	badgerindex "github.com/poiesic/guidex/index/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	engine   *Engine
	embedder *mock.Embedder
	rulebook *cache.Rulebook
	snapshot *atomic.Pointer[core.Snapshot]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	embedder := mock.NewEmbedderWithDimensions(3)
	embedder.EmbedQueryFunc = func(ctx context.Context, query string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	store := badgerindex.NewMemoryStore(t)
	require.NoError(t, store.Replace(ctx, "rules", []index.Row{
		{ID: "P.1", Title: "Express ideas directly in code", Category: "P",
			Text: "Express ideas directly in code. Compilers don't read comments.",
			Embedding: []float32{1, 0, 0}},
		{ID: "P.2", Title: "Write in ISO Standard C++", Category: "P",
			Text: "Write in ISO Standard C++. Portability matters.",
			Embedding: []float32{0, 1, 0}},
		{ID: "E.1", Title: "Develop an error-handling strategy", Category: "E",
			Text: strings.Repeat("Retrofitting error handling is hard. ", 20),
			Embedding: []float32{0.6, 0.8, 0}},
	}))

	documents := []*core.Document{
		{ID: "P.1", Title: "Express ideas directly in code", Category: "P"},
		{ID: "P.2", Title: "Write in ISO Standard C++", Category: "P"},
		{ID: "E.1", Title: "Develop an error-handling strategy", Category: "E"},
	}
	categories := map[string]core.Category{
		"P": {Key: "P", Name: "Philosophy", DocumentCount: 2},
		"E": {Key: "E", Name: "Error handling", DocumentCount: 1},
	}

	var snapshot atomic.Pointer[core.Snapshot]
	snapshot.Store(core.NewSnapshot(documents, categories, "abc123"))

	rulebook := cache.NewRulebook(cache.NewMemStore())
	engine := NewEngine(embedder, store, rulebook, &snapshot)

	return &fixture{engine: engine, embedder: embedder, rulebook: rulebook, snapshot: &snapshot}
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	results, err := f.engine.Search(ctx, "how should I express ideas", 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	t.Run("ordered best first", func(t *testing.T) {
		assert.Equal(t, "P.1", results[0].ID)
		assert.Equal(t, "E.1", results[1].ID)
		assert.Equal(t, "P.2", results[2].ID)
		assert.Greater(t, results[0].Score, results[1].Score)
		assert.InDelta(t, 1.0, results[0].Score, 1e-5)
	})

	t.Run("scores stay non-negative", func(t *testing.T) {
		for _, r := range results {
			assert.GreaterOrEqual(t, r.Score, float32(0))
		}
	})

	t.Run("long text is truncated with a marker", func(t *testing.T) {
		summary := results[1].Summary
		assert.True(t, strings.HasSuffix(summary, "..."))
		assert.Len(t, []rune(summary), 300+3)
	})

	t.Run("short text passes through", func(t *testing.T) {
		assert.Equal(t, "Express ideas directly in code. Compilers don't read comments.",
			results[0].Summary)
	})
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	f := newFixture(t)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := f.engine.Search(context.Background(), query, 10)
		assert.ErrorIs(t, err, core.ErrEmptyQuery)
	}
	assert.Zero(t, f.embedder.QueryCalls())
}

func TestSearchClampsLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("non-positive becomes the default", func(t *testing.T) {
		_, err := f.engine.Search(ctx, "ideas", 0)
		require.NoError(t, err)

		// Cached under the clamped limit, not the raw one.
		_, ok := f.rulebook.GetSearchResults(ctx, "ideas", DefaultLimit)
		assert.True(t, ok)
	})

	t.Run("oversized is capped", func(t *testing.T) {
		_, err := f.engine.Search(ctx, "portability", 5000)
		require.NoError(t, err)

		_, ok := f.rulebook.GetSearchResults(ctx, "portability", MaxLimit)
		assert.True(t, ok)
	})
}

func TestSearchCacheThrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cold, err := f.engine.Search(ctx, "error handling", 5)
	require.NoError(t, err)
	require.Equal(t, 1, f.embedder.QueryCalls())

	cached, err := f.engine.Search(ctx, "error handling", 5)
	require.NoError(t, err)

	assert.Equal(t, cold, cached)
	assert.Equal(t, 1, f.embedder.QueryCalls(), "cache hit must not embed")
}

func TestGetDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("case insensitive", func(t *testing.T) {
		doc, err := f.engine.GetDocument(ctx, "p.1")
		require.NoError(t, err)
		assert.Equal(t, "P.1", doc.ID)
	})

	t.Run("cache answers exact ids", func(t *testing.T) {
		doc, err := f.engine.GetDocument(ctx, "P.2")
		require.NoError(t, err)
		assert.Equal(t, "P.2", doc.ID)

		cached, ok := f.rulebook.GetDocument(ctx, "P.2")
		require.True(t, ok, "lookup should prime the cache")
		assert.Equal(t, doc, cached)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.engine.GetDocument(ctx, "Z.99")
		assert.ErrorIs(t, err, core.ErrDocumentNotFound)
	})

	t.Run("blank id", func(t *testing.T) {
		_, err := f.engine.GetDocument(ctx, "  ")
		assert.ErrorIs(t, err, core.ErrEmptyID)
	})
}

func TestListCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("members sorted by id", func(t *testing.T) {
		category, docs, err := f.engine.ListCategory(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, "Philosophy", category.Name)
		require.Len(t, docs, 2)
		assert.Equal(t, "P.1", docs[0].ID)
		assert.Equal(t, "P.2", docs[1].ID)
	})

	t.Run("unknown key lists available", func(t *testing.T) {
		_, _, err := f.engine.ListCategory(ctx, "Z")
		var unknownErr *core.UnknownCategoryError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, "Z", unknownErr.Key)
		assert.Equal(t, []string{"E", "P"}, unknownErr.Available)
	})
}
