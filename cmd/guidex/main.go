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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/guidex"
	"github.com/poiesic/guidex/ai"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "guidex",
		Usage: "Semantic search over a versioned rulebook corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the rulebook over MCP on stdio",
				Action: serveCommand,
				Flags:  appFlags(),
			},
			{
				Name:      "search",
				Usage:     "Run a one-shot semantic query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(appFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					}),
			},
			{
				Name:   "update",
				Usage:  "Re-index the rulebook if the corpus changed",
				Action: updateCommand,
				Flags:  appFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func appFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "corpus",
			Aliases:  []string{"c"},
			Usage:    "Path to the rulebook git checkout",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "rulebook-file",
			Usage: "Rulebook markdown file within the corpus",
			Value: "CppCoreGuidelines.md",
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB index directory (empty runs in memory)",
		},
		&cli.StringFlag{
			Name:  "redis",
			Usage: "Redis address, e.g. localhost:6379 (empty disables caching)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "nomic-embed-text",
		},
		&cli.IntFlag{
			Name:  "dimensions",
			Usage: "Embedding vector dimensionality",
			Value: 768,
		},
	}
}

func buildApp(c *cli.Context) (*guidex.App, error) {
	return guidex.NewApp(&guidex.Config{
		CorpusPath:   c.String("corpus"),
		RulebookFile: c.String("rulebook-file"),
		DBPath:       c.String("db"),
		RedisAddr:    c.String("redis"),
		AI: ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithDimensions(c.Int("dimensions"))),
	})
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.EnsureReady(ctx); err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}
	return app.Serve(ctx)
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	ctx := context.Background()
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.EnsureReady(ctx); err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}

	results, err := app.Search(ctx, query, c.Int("limit"))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func updateCommand(c *cli.Context) error {
	ctx := context.Background()
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Update(ctx)
	if err != nil {
		return err
	}

	if result.Updated {
		fmt.Printf("Re-indexed %d documents at revision %s\n",
			result.DocumentCount, result.Revision)
	} else {
		fmt.Printf("Index already current at revision %s\n", result.Revision)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Stdout carries the MCP protocol; logs must go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
