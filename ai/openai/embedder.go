package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/guidex/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder       embeddings.Embedder
	dimensions     int
	documentPrefix string
	queryPrefix    string
	logger         *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	// Batch size bounds the number of texts sent per request during indexing.
	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(config.BatchSize),
	)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:       embedder,
		dimensions:     config.Dimensions,
		documentPrefix: config.DocumentPrefix,
		queryPrefix:    config.QueryPrefix,
		logger:         slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedDocuments generates embeddings for document texts in indexing mode,
// adding the configured document prefix to each input.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating document embeddings", "count", len(texts))

	prefixed := make([]string, len(texts))
	for i, t := range texts {
		prefixed[i] = e.documentPrefix + t
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, prefixed)
	if err != nil {
		e.logger.Error("failed to generate document embeddings", "count", len(texts), "err", err)
		return nil, err
	}
	return vectors, nil
}

// EmbedQuery generates an embedding for a single query in query mode,
// adding the configured query prefix to the input.
func (e *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	e.logger.Debug("generating query embedding", "length", len(query))

	vector, err := e.embedder.EmbedQuery(ctx, e.queryPrefix+query)
	if err != nil {
		e.logger.Error("failed to generate query embedding", "err", err)
		return nil, err
	}
	return vector, nil
}

// Dimensions returns the configured embedding dimensionality.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}
