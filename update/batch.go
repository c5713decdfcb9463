package update

import (
	"context"
	"fmt"
	"sync"
)

// embedTexts embeds texts in fixed-size batches dispatched to the worker
// pool. Results land in slots indexed by input position, so the output order
// always matches the input order regardless of batch completion order. The
// first batch failure wins; remaining batches still run to completion.
func (s *Service) embedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for start := 0; start < len(texts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()

			batch, err := s.embedder.EmbedDocuments(ctx, texts[start:end])
			if err == nil && len(batch) != end-start {
				err = fmt.Errorf("%w: batch of %d texts returned %d vectors",
					ErrEmbeddingCountMismatch, end-start, len(batch))
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			copy(vectors[start:end], batch)
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submitting embedding batch: %w", err)
			}
			mu.Unlock()
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("embedding %d texts: %w", len(texts), firstErr)
	}
	return vectors, nil
}
