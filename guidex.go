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

package guidex

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/poiesic/guidex/ai"
	"github.com/poiesic/guidex/ai/openai"
	"github.com/poiesic/guidex/cache"
	rediscache "github.com/poiesic/guidex/cache/redis"
	"github.com/poiesic/guidex/core"
	"github.com/poiesic/guidex/gitrev"
	badgerindex "github.com/poiesic/guidex/index/badger"
	"github.com/poiesic/guidex/search"
	"github.com/poiesic/guidex/server"
	"github.com/poiesic/guidex/update"
)

// Config collects everything an App needs at startup.
type Config struct {
	// CorpusPath is the git checkout holding the rulebook.
	CorpusPath string
	// RulebookFile is the markdown file within CorpusPath.
	RulebookFile string
	// DBPath is the BadgerDB directory for the vector index.
	DBPath string
	// RedisAddr enables the Redis cache when non-empty. An empty address
	// runs with caching disabled.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// AI configures the embedding runtime.
	AI *ai.Config
}

// App wires the cache, embedder, vector index, update service, and search
// engine into one unit behind a shared corpus snapshot.
type App struct {
	config     *Config
	redisStore *rediscache.Store
	rulebook   *cache.Rulebook
	embedder   ai.Embedder
	indexStore *badgerindex.Store
	updater    *update.Service
	engine     *search.Engine
	snapshot   atomic.Pointer[core.Snapshot]
	logger     *slog.Logger
}

// NewApp assembles an App from the configuration. The corpus is not read
// until EnsureReady or Update is called.
func NewApp(config *Config) (*App, error) {
	if config.CorpusPath == "" {
		return nil, fmt.Errorf("corpus path is required")
	}
	if config.RulebookFile == "" {
		return nil, fmt.Errorf("rulebook file is required")
	}
	if config.AI == nil {
		config.AI = ai.DefaultConfig()
	}
	if err := config.AI.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		config: config,
		logger: slog.Default(),
	}

	var store cache.Store = cache.Disabled{}
	if config.RedisAddr != "" {
		app.redisStore = rediscache.New(config.RedisAddr, config.RedisPassword, config.RedisDB)
		store = app.redisStore
	} else {
		app.logger.Info("no redis address configured, caching disabled")
	}
	app.rulebook = cache.NewRulebook(store)

	embedder, err := openai.NewEmbedder(config.AI)
	if err != nil {
		app.close()
		return nil, err
	}
	app.embedder = embedder

	indexStore, err := badgerindex.OpenStore(config.DBPath, config.DBPath == "")
	if err != nil {
		app.close()
		return nil, err
	}
	app.indexStore = indexStore

	corpusFile := filepath.Join(config.CorpusPath, config.RulebookFile)
	updater, err := update.NewService(
		gitrev.New(config.CorpusPath),
		func() (string, error) {
			content, err := os.ReadFile(corpusFile)
			if err != nil {
				return "", err
			}
			return string(content), nil
		},
		embedder, indexStore, app.rulebook,
		update.WithBatchSize(config.AI.BatchSize))
	if err != nil {
		app.close()
		return nil, err
	}
	app.updater = updater

	app.engine = search.NewEngine(embedder, indexStore, app.rulebook, &app.snapshot)
	return app, nil
}

// EnsureReady brings the index and snapshot up to date. A stale index is
// rebuilt; a current one only costs a parse to load the snapshot.
func (a *App) EnsureReady(ctx context.Context) error {
	if a.redisStore != nil && !a.rulebook.Available(ctx) {
		a.logger.Warn("cache unavailable, continuing without it",
			"addr", a.config.RedisAddr)
	}

	result, err := a.Update(ctx)
	if err != nil {
		return err
	}
	if !result.Updated && a.snapshot.Load() == nil {
		snapshot, err := a.updater.LoadSnapshot(ctx)
		if err != nil {
			return err
		}
		a.snapshot.Store(snapshot)
	}
	return nil
}

// Update re-indexes if the corpus changed and publishes the new snapshot.
func (a *App) Update(ctx context.Context) (core.UpdateResult, error) {
	result, snapshot, err := a.updater.Update(ctx)
	if err != nil {
		return core.UpdateResult{}, err
	}
	if snapshot != nil {
		a.snapshot.Store(snapshot)
	}
	return result, nil
}

// Search runs one semantic query.
func (a *App) Search(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	return a.engine.Search(ctx, query, limit)
}

// Serve runs the MCP server over stdio until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	return server.New(a.engine, a.updater, &a.snapshot, a.logger).Run(ctx)
}

// Close releases the worker pool, the index store, and the cache connection.
func (a *App) Close() error {
	return a.close()
}

func (a *App) close() error {
	if a.updater != nil {
		a.updater.Close()
	}

	var firstErr error
	if a.indexStore != nil {
		if err := a.indexStore.Close(); err != nil {
			a.logger.Error("error closing vector store", "err", err)
			firstErr = err
		}
	}
	if a.redisStore != nil {
		if err := a.redisStore.Close(); err != nil {
			a.logger.Error("error closing redis connection", "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
