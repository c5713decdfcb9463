package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Document indexing and query embedding use distinct input modes:
// many embedding models expect different task prefixes for the two, so the
// interface keeps them separate. Implementations must be thread-safe for
// concurrent use.
type Embedder interface {
	// EmbedDocuments generates embeddings for document texts in indexing
	// mode. The returned slice contains embeddings in the same order as the
	// input texts. Implementations process the input in bounded batches to
	// cap memory and request size.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single search query in query
	// mode.
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// Dimensions returns the fixed dimensionality of produced vectors.
	Dimensions() int
}
