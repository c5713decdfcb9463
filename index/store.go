package index

import (
	"context"
	"errors"
)

var (
	// ErrTableNotFound indicates the named vector table has no active
	// generation. The staleness check treats this as "re-index needed".
	ErrTableNotFound = errors.New("vector table not found")

	// ErrDimensionMismatch indicates embedding vectors of inconsistent
	// dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Row is one entry of a vector table: the searchable columns plus the
// document's embedding. Text is the composed embedding input, not the full
// document content; point lookups for content go to the in-memory snapshot,
// never to the index.
type Row struct {
	ID        string
	Title     string
	Category  string
	Text      string
	Embedding []float32
}

// Match is a search hit: a stored row plus its distance to the query vector.
// Lower distance means more similar.
type Match struct {
	Row      Row
	Distance float32
}

// Store owns the one active vector table per corpus and answers
// nearest-neighbor queries against it. Any underlying failure propagates as
// an error; callers decide whether to retry or abort.
//
// Implementations must be thread-safe for concurrent use.
type Store interface {
	// Replace atomically swaps the table's contents for the given rows.
	// If building the new contents fails, the previous contents remain
	// queryable; no reader ever observes a half-written table.
	Replace(ctx context.Context, table string, rows []Row) error

	// Search returns up to limit rows ordered by increasing cosine distance
	// to the query vector.
	Search(ctx context.Context, table string, vector []float32, limit int) ([]Match, error)

	// GetByID returns the row with the given id, or (nil, nil) when the id
	// is absent. Returns ErrTableNotFound when the table itself is missing;
	// the staleness check uses this as a liveness probe.
	GetByID(ctx context.Context, table, id string) (*Row, error)
}
