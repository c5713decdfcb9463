package badger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/guidex/index"
)

// Store implements index.Store on an embedded BadgerDB. Rows of a table are
// written under a per-generation key prefix; a single pointer key names the
// active generation. Replace builds the new generation off-path and flips the
// pointer in one transaction, so readers always see a complete table.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ index.Store = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens a BadgerDB-backed vector store at the specified path.
// Creates the directory if it doesn't exist.
func OpenStore(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	logger := slog.Default().With("component", "vector-store")
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Replace swaps the table's contents for the given rows. The new generation
// is written off-path first; only a successful build flips the active
// generation pointer. A failed build leaves the previous generation serving
// and its partial writes are cleaned up best-effort.
func (s *Store) Replace(ctx context.Context, table string, rows []index.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateDimensions(rows); err != nil {
		return err
	}

	gen := newGeneration()

	wb := s.db.NewWriteBatch()
	for _, row := range rows {
		if err := wb.Set(makeRowKey(table, gen, row.ID), MarshalRow(row)); err != nil {
			wb.Cancel()
			s.dropGeneration(table, gen)
			return fmt.Errorf("writing table %q generation: %w", table, err)
		}
	}
	if err := wb.Flush(); err != nil {
		s.dropGeneration(table, gen)
		return fmt.Errorf("flushing table %q generation: %w", table, err)
	}

	// Generation cut-over: one transaction flips the pointer.
	var previous string
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(makeGenPointerKey(table))
		if err == nil {
			if err := item.Value(func(val []byte) error {
				previous = string(val)
				return nil
			}); err != nil {
				return err
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.Set(makeGenPointerKey(table), []byte(gen))
	})
	if err != nil {
		s.dropGeneration(table, gen)
		return fmt.Errorf("activating table %q generation: %w", table, err)
	}

	s.logger.Info("vector table replaced", "table", table, "rows", len(rows))

	if previous != "" && previous != gen {
		s.dropGeneration(table, previous)
	}
	return nil
}

// Search returns up to limit rows ordered by increasing cosine distance to
// the query vector.
func (s *Store) Search(ctx context.Context, table string, vector []float32, limit int) ([]index.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matches []index.Match
	err := s.db.View(func(txn *badger.Txn) error {
		gen, err := s.activeGeneration(txn, table)
		if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRowPrefix(table, gen)
		iter := txn.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var row index.Row
			err := iter.Item().Value(func(val []byte) error {
				var err error
				row, err = UnmarshalRow(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(row.Embedding) != len(vector) {
				return fmt.Errorf("%w: query %d, table %d",
					index.ErrDimensionMismatch, len(vector), len(row.Embedding))
			}
			matches = append(matches, index.Match{
				Row:      row,
				Distance: cosineDistance(vector, row.Embedding),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b index.Match) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// GetByID returns the row with the given id, or (nil, nil) when absent.
func (s *Store) GetByID(ctx context.Context, table, id string) (*index.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var row *index.Row
	err := s.db.View(func(txn *badger.Txn) error {
		gen, err := s.activeGeneration(txn, table)
		if err != nil {
			return err
		}

		item, err := txn.Get(makeRowKey(table, gen, id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			r, err := UnmarshalRow(val)
			if err != nil {
				return err
			}
			row = &r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// activeGeneration reads the table's generation pointer within txn.
func (s *Store) activeGeneration(txn *badger.Txn, table string) (string, error) {
	item, err := txn.Get(makeGenPointerKey(table))
	if err == badger.ErrKeyNotFound {
		return "", fmt.Errorf("%w: %s", index.ErrTableNotFound, table)
	}
	if err != nil {
		return "", err
	}
	var gen string
	if err := item.Value(func(val []byte) error {
		gen = string(val)
		return nil
	}); err != nil {
		return "", err
	}
	return gen, nil
}

// dropGeneration deletes every row of a table generation. Failures are
// logged only: leftover rows of an inactive generation waste space but are
// unreachable through the pointer.
func (s *Store) dropGeneration(table, gen string) {
	prefix := makeRowPrefix(table, gen)

	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := txn.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("listing stale generation failed", "table", table, "err", err)
		return
	}

	wb := s.db.NewWriteBatch()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			wb.Cancel()
			s.logger.Warn("deleting stale generation failed", "table", table, "err", err)
			return
		}
	}
	if err := wb.Flush(); err != nil {
		s.logger.Warn("deleting stale generation failed", "table", table, "err", err)
	}
}

// validateDimensions checks that all rows carry vectors of one
// dimensionality.
func validateDimensions(rows []index.Row) error {
	if len(rows) == 0 {
		return nil
	}
	dims := len(rows[0].Embedding)
	for _, row := range rows {
		if len(row.Embedding) != dims {
			return fmt.Errorf("%w: row %q has %d, expected %d",
				index.ErrDimensionMismatch, row.ID, len(row.Embedding), dims)
		}
	}
	return nil
}

// cosineDistance computes 1 - cos(a, b). For the unit-length vectors
// embedding models produce this lands in [0, 2], with values near 0 for
// near-identical texts.
func cosineDistance(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}
