package badger

import (
	"context"
	"testing"

	"github.com/poiesic/guidex/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec(values ...float32) []float32 {
	return values
}

func testRows() []index.Row {
	return []index.Row{
		{ID: "P.1", Title: "Prefer early returns", Category: "P", Text: "early returns", Embedding: vec(1, 0, 0)},
		{ID: "P.2", Title: "Name booleans positively", Category: "P", Text: "boolean naming", Embedding: vec(0, 1, 0)},
		{ID: "E.1", Title: "Wrap errors with context", Category: "E", Text: "error wrapping", Embedding: vec(0.6, 0.8, 0)},
	}
}

func TestStoreReplaceAndSearch(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, "rules", testRows()))

	t.Run("orders by ascending distance", func(t *testing.T) {
		matches, err := store.Search(ctx, "rules", vec(1, 0, 0), 10)
		require.NoError(t, err)
		require.Len(t, matches, 3)

		assert.Equal(t, "P.1", matches[0].Row.ID)
		assert.InDelta(t, 0.0, matches[0].Distance, 1e-6)
		assert.Equal(t, "E.1", matches[1].Row.ID)
		assert.Equal(t, "P.2", matches[2].Row.ID)
	})

	t.Run("honors the limit", func(t *testing.T) {
		matches, err := store.Search(ctx, "rules", vec(1, 0, 0), 2)
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("rejects mismatched query dimensions", func(t *testing.T) {
		_, err := store.Search(ctx, "rules", vec(1, 0), 10)
		assert.ErrorIs(t, err, index.ErrDimensionMismatch)
	})

	t.Run("unknown table", func(t *testing.T) {
		_, err := store.Search(ctx, "nope", vec(1, 0, 0), 10)
		assert.ErrorIs(t, err, index.ErrTableNotFound)
	})
}

func TestStoreGetByID(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, "rules", testRows()))

	t.Run("present", func(t *testing.T) {
		row, err := store.GetByID(ctx, "rules", "P.2")
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, "Name booleans positively", row.Title)
		assert.Equal(t, vec(0, 1, 0), row.Embedding)
	})

	t.Run("absent id", func(t *testing.T) {
		row, err := store.GetByID(ctx, "rules", "__nonexistent__")
		require.NoError(t, err)
		assert.Nil(t, row)
	})

	t.Run("absent table", func(t *testing.T) {
		_, err := store.GetByID(ctx, "nope", "P.1")
		assert.ErrorIs(t, err, index.ErrTableNotFound)
	})
}

func TestStoreReplaceSwapsGenerations(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, "rules", testRows()))
	require.NoError(t, store.Replace(ctx, "rules", []index.Row{
		{ID: "X.1", Title: "Replacement", Category: "X", Text: "fresh", Embedding: vec(0, 0, 1)},
	}))

	matches, err := store.Search(ctx, "rules", vec(0, 0, 1), 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "X.1", matches[0].Row.ID)

	row, err := store.GetByID(ctx, "rules", "P.1")
	require.NoError(t, err)
	assert.Nil(t, row, "old generation rows must be unreachable")
}

func TestStoreReplaceRejectsInconsistentRows(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, "rules", testRows()))

	err := store.Replace(ctx, "rules", []index.Row{
		{ID: "A.1", Title: "Three dims", Category: "A", Text: "a", Embedding: vec(1, 0, 0)},
		{ID: "A.2", Title: "Two dims", Category: "A", Text: "b", Embedding: vec(1, 0)},
	})
	require.ErrorIs(t, err, index.ErrDimensionMismatch)

	// The failed replace must leave the previous generation serving.
	matches, err := store.Search(ctx, "rules", vec(1, 0, 0), 10)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestStoreEmptyReplace(t *testing.T) {
	store := NewMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, "rules", nil))

	matches, err := store.Search(ctx, "rules", vec(1, 0, 0), 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
