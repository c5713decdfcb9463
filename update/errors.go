package update

import "errors"

var (
	// ErrEmbeddingCountMismatch means the embedding runtime returned a
	// different number of vectors than texts submitted. The re-index aborts
	// before any write.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")

	// ErrEmptyCorpus means parsing produced no documents, which almost
	// always indicates a wrong corpus path rather than an empty rulebook.
	ErrEmptyCorpus = errors.New("corpus produced no documents")
)
