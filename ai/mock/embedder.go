package mock

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
)

// Embedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
// Call counters are mutex-guarded: the indexing pipeline embeds batches
// concurrently, and the ai.Embedder contract requires thread safety.
type Embedder struct {
	// EmbedDocumentsFunc is called by EmbedDocuments if set.
	// If nil, uses default deterministic behavior.
	EmbedDocumentsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQueryFunc is called by EmbedQuery if set.
	// If nil, uses default deterministic behavior.
	EmbedQueryFunc func(ctx context.Context, query string) ([]float32, error)

	dimensions int

	mu            sync.Mutex
	documentCalls int
	queryCalls    int
}

// NewEmbedder creates a mock embedder with default deterministic behavior.
// Note: returns the concrete type to allow test assertions and behavior
// injection.
func NewEmbedder() *Embedder {
	return &Embedder{dimensions: 768}
}

// NewEmbedderWithDimensions creates a mock embedder producing vectors of the
// given dimensionality.
func NewEmbedderWithDimensions(dims int) *Embedder {
	return &Embedder{dimensions: dims}
}

// EmbedDocuments generates deterministic embeddings for document texts.
func (m *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.documentCalls++
	m.mu.Unlock()

	if m.EmbedDocumentsFunc != nil {
		return m.EmbedDocumentsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = generateDeterministicVector(text, m.dimensions)
	}
	return vectors, nil
}

// EmbedQuery generates a deterministic embedding based on the query hash.
func (m *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	m.mu.Lock()
	m.queryCalls++
	m.mu.Unlock()

	if m.EmbedQueryFunc != nil {
		return m.EmbedQueryFunc(ctx, query)
	}
	return generateDeterministicVector(query, m.dimensions), nil
}

// Dimensions returns the configured vector dimensionality.
func (m *Embedder) Dimensions() int {
	return m.dimensions
}

// DocumentCalls returns the number of EmbedDocuments invocations.
func (m *Embedder) DocumentCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.documentCalls
}

// QueryCalls returns the number of EmbedQuery invocations.
func (m *Embedder) QueryCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryCalls
}

// Reset clears call counts and injected behavior.
func (m *Embedder) Reset() {
	m.mu.Lock()
	m.documentCalls = 0
	m.queryCalls = 0
	m.mu.Unlock()
	m.EmbedDocumentsFunc = nil
	m.EmbedQueryFunc = nil
}

// generateDeterministicVector creates a unit-length embedding vector from
// text. It uses an FNV hash so the same text always produces the same vector;
// normalization keeps cosine-distance math in tests behaving like a real
// embedding model's output.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	var norm float64
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		v := float32(seed%1000)/1000.0 - 0.5
		vector[i] = v
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		vector[0] = 1
		return vector
	}
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
	return vector
}
