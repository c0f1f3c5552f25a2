package services

import "errors"

var (
	// ErrEmbeddingUnavailable means no embedding provider is configured
	ErrEmbeddingUnavailable = errors.New("semantic search unavailable: no embedding provider configured")

	// ErrVectorBackendUnavailable means the configured vector backend cannot serve searches
	ErrVectorBackendUnavailable = errors.New("semantic search unavailable: no vector backend configured")

	// ErrPageLookupUnavailable means candidates cannot be turned back into pages
	ErrPageLookupUnavailable = errors.New("semantic search unavailable: no page store for vector results")

	// ErrIndexNotPopulated means the vector backend holds no page embeddings
	ErrIndexNotPopulated = errors.New("semantic search unavailable: vector index is empty")
)
