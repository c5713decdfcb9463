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

package update

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/guidex/ai"
	"github.com/poiesic/guidex/cache"
	"github.com/poiesic/guidex/core"
	"github.com/poiesic/guidex/index"
	"github.com/poiesic/guidex/parser"
	"golang.org/x/sync/singleflight"
)

// livenessProbeID is looked up to verify the index table answers queries.
// The id never exists; only ErrTableNotFound or a store failure matters.
const livenessProbeID = "__nonexistent__"

// Revisioner reports the current revision of the rulebook corpus.
type Revisioner interface {
	CurrentRevision(ctx context.Context) (string, error)
}

// CorpusReader returns the raw rulebook markdown.
type CorpusReader func() (string, error)

// Service detects corpus staleness and runs the full re-index pipeline.
// Overlapping Update calls collapse into a single execution.
type Service struct {
	revisioner Revisioner
	readCorpus CorpusReader
	embedder   ai.Embedder
	store      index.Store
	cache      *cache.Rulebook
	table      string
	batchSize  int
	poolSize   int
	pool       *ants.Pool
	group      singleflight.Group
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger to use.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger.With("component", "update")
	}
}

// WithTable sets the index table name.
func WithTable(table string) Option {
	return func(s *Service) {
		s.table = table
	}
}

// WithBatchSize sets how many documents are embedded per request.
func WithBatchSize(size int) Option {
	return func(s *Service) {
		s.batchSize = size
	}
}

// WithPoolSize sets the number of concurrent embedding workers.
func WithPoolSize(size int) Option {
	return func(s *Service) {
		s.poolSize = size
	}
}

// NewService creates an update service over the given collaborators.
func NewService(revisioner Revisioner, readCorpus CorpusReader, embedder ai.Embedder,
	store index.Store, rulebook *cache.Rulebook, opts ...Option) (*Service, error) {

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	s := &Service{
		revisioner: revisioner,
		readCorpus: readCorpus,
		embedder:   embedder,
		store:      store,
		cache:      rulebook,
		table:      "rules",
		batchSize:  4,
		poolSize:   poolSize,
		logger:     slog.Default().With("component", "update"),
	}
	for _, opt := range opts {
		opt(s)
	}

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return nil, err
	}
	s.pool = pool
	return s, nil
}

// Close releases the embedding worker pool.
func (s *Service) Close() {
	s.pool.Release()
}

// Table returns the index table name the service maintains.
func (s *Service) Table() string {
	return s.table
}

// NeedsUpdate reports whether the index is stale. The index is stale when
// the cached revision differs from the corpus HEAD, or when the index table
// fails a liveness probe. Revision resolution failure is fatal.
func (s *Service) NeedsUpdate(ctx context.Context) (bool, error) {
	stale, _, err := s.checkStale(ctx)
	return stale, err
}

// checkStale performs the staleness check and also returns the corpus
// revision it resolved, so callers don't re-read it from the cache.
func (s *Service) checkStale(ctx context.Context) (bool, string, error) {
	rev, err := s.revisioner.CurrentRevision(ctx)
	if err != nil {
		return false, "", fmt.Errorf("resolving corpus revision: %w", err)
	}

	cached, ok := s.cache.GetRevision(ctx)
	if !ok || cached != rev {
		s.logger.Info("revision mismatch", "corpus", rev, "cached", cached)
		return true, rev, nil
	}

	if _, err := s.store.GetByID(ctx, s.table, livenessProbeID); err != nil {
		s.logger.Warn("index liveness probe failed", "err", err)
		return true, rev, nil
	}
	return false, rev, nil
}

// LoadSnapshot parses the corpus without touching the index or the cache.
// Used at startup when the index is already current.
func (s *Service) LoadSnapshot(ctx context.Context) (*core.Snapshot, error) {
	rev, err := s.revisioner.CurrentRevision(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving corpus revision: %w", err)
	}
	content, err := s.readCorpus()
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	documents, categories := parser.Parse(content)
	return core.NewSnapshot(documents, categories, rev), nil
}

// FullReindex rebuilds the index table, the cache, and the in-memory
// snapshot from the current corpus. An embedding count mismatch aborts
// before any write, leaving the previous generation intact.
func (s *Service) FullReindex(ctx context.Context) (*core.Snapshot, error) {
	rev, err := s.revisioner.CurrentRevision(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving corpus revision: %w", err)
	}

	content, err := s.readCorpus()
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	documents, categories := parser.Parse(content)
	if len(documents) == 0 {
		return nil, ErrEmptyCorpus
	}
	s.logger.Info("corpus parsed",
		"revision", rev, "documents", len(documents), "categories", len(categories))

	texts := make([]string, len(documents))
	for i, doc := range documents {
		texts[i] = parser.ComposeEmbeddingText(doc)
	}

	vectors, err := s.embedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(documents) {
		return nil, fmt.Errorf("%w: %d documents, %d vectors",
			ErrEmbeddingCountMismatch, len(documents), len(vectors))
	}

	rows := make([]index.Row, len(documents))
	for i, doc := range documents {
		rows[i] = index.Row{
			ID:        doc.ID,
			Title:     doc.Title,
			Category:  doc.Category,
			Text:      texts[i],
			Embedding: vectors[i],
		}
	}
	if err := s.store.Replace(ctx, s.table, rows); err != nil {
		return nil, fmt.Errorf("replacing index table: %w", err)
	}

	snapshot := core.NewSnapshot(documents, categories, rev)
	s.repopulateCache(ctx, snapshot)

	s.logger.Info("reindex complete", "revision", rev, "documents", len(documents))
	return snapshot, nil
}

// Update runs FullReindex when NeedsUpdate says so. Concurrent callers
// share one execution. The returned snapshot is nil when nothing changed.
func (s *Service) Update(ctx context.Context) (core.UpdateResult, *core.Snapshot, error) {
	type outcome struct {
		result   core.UpdateResult
		snapshot *core.Snapshot
	}

	v, err, _ := s.group.Do("update", func() (any, error) {
		// The execution is shared by every collapsed caller, so it must
		// outlive the first caller's cancellation.
		ctx := context.WithoutCancel(ctx)

		stale, rev, err := s.checkStale(ctx)
		if err != nil {
			return nil, err
		}
		if !stale {
			return outcome{result: core.UpdateResult{Updated: false, Revision: rev}}, nil
		}

		snapshot, err := s.FullReindex(ctx)
		if err != nil {
			return nil, err
		}
		return outcome{
			result: core.UpdateResult{
				Updated:       true,
				Revision:      snapshot.Revision(),
				DocumentCount: snapshot.Len(),
			},
			snapshot: snapshot,
		}, nil
	})
	if err != nil {
		return core.UpdateResult{}, nil, err
	}

	out := v.(outcome)
	return out.result, out.snapshot, nil
}

// repopulateCache clears the cache namespace and re-primes it from the
// snapshot. Cache writes are best-effort; the index and snapshot are already
// authoritative at this point.
func (s *Service) repopulateCache(ctx context.Context, snapshot *core.Snapshot) {
	s.cache.InvalidateAll(ctx)

	categories := snapshot.Categories()
	s.cache.SetCategories(ctx, categories)
	for _, category := range categories {
		members := snapshot.DocumentsInCategory(category.Key)
		ids := make([]string, len(members))
		for i, doc := range members {
			ids[i] = doc.ID
		}
		s.cache.SetCategoryMembers(ctx, category.Key, ids)
		for _, doc := range members {
			s.cache.SetDocument(ctx, doc)
		}
	}
	s.cache.SetRevision(ctx, snapshot.Revision())
}
