package repository

import (
	"context"

	"github.com/maktaba-search-api/internal/models"
)

// PageStore exposes the full-text match primitive over corpus pages
type PageStore interface {
	// FullTextMatch runs an engine query string and returns at most limit hits
	FullTextMatch(ctx context.Context, engineQuery string, limit int) ([]models.SearchHit, error)
}

// PageIndexer adds pages to a full-text store
type PageIndexer interface {
	IndexPages(ctx context.Context, pages []models.Page) error
}

// CatalogStore resolves display titles of catalog works
type CatalogStore interface {
	ResolveWorkTitle(ctx context.Context, bookID int64) (models.WorkTitle, error)
	// ResolveWorkTitles resolves many works at once; unknown ids are omitted
	ResolveWorkTitles(ctx context.Context, bookIDs []int64) (map[int64]models.WorkTitle, error)
}

// PageLookup materializes pages returned by vector search
type PageLookup interface {
	GetPagesByIDs(ctx context.Context, ids []int64) ([]models.Page, error)
}

// EmbeddingSource pages through stored page embeddings
type EmbeddingSource interface {
	// GetPageEmbeddingsBatch returns up to count embedded pages starting at offset
	GetPageEmbeddingsBatch(ctx context.Context, offset, count int) ([]models.PageEmbedding, error)
	// CountEmbeddedPages returns how many pages carry an embedding
	CountEmbeddedPages(ctx context.Context) (int, error)
}

// VectorSearchRepository defines operations for vector similarity search
type VectorSearchRepository interface {
	// IsAvailable reports whether the backend is configured to serve searches
	IsAvailable() bool
	// SearchPagesByEmbedding returns the nearest pages to the embedding
	SearchPagesByEmbedding(ctx context.Context, embedding []float32, topK int) ([]models.VectorCandidate, error)
}

// IndexStatus is implemented by vector backends that can report how many
// vectors they hold
type IndexStatus interface {
	IndexedCount(ctx context.Context) (int, error)
}
