package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/repository"
	"github.com/pgvector/pgvector-go"
)

var (
	_ repository.VectorSearchRepository = (*VectorSearchRepository)(nil)
	_ repository.IndexStatus            = (*VectorSearchRepository)(nil)
)

// VectorSearchRepository implements repository.VectorSearchRepository for PostgreSQL with pgvector.
// The search runs inside the database and is exact (unindexed) unless an ivfflat/hnsw index exists
type VectorSearchRepository struct {
	db *sqlx.DB
}

// NewVectorSearchRepository creates a new PostgreSQL vector search repository
func NewVectorSearchRepository(db *sqlx.DB) *VectorSearchRepository {
	return &VectorSearchRepository{db: db}
}

// IsAvailable reports whether a database connection is configured
func (r *VectorSearchRepository) IsAvailable() bool {
	return r.db != nil
}

// IndexedCount returns how many pages carry an embedding
func (r *VectorSearchRepository) IndexedCount(ctx context.Context) (int, error) {
	return NewPageRepository(r.db).CountEmbeddedPages(ctx)
}

// SearchPagesByEmbedding performs vector similarity search on pages using pgvector
func (r *VectorSearchRepository) SearchPagesByEmbedding(ctx context.Context, embedding []float32, topK int) ([]models.VectorCandidate, error) {
	vec := pgvector.NewVector(embedding)

	rows, err := r.db.QueryxContext(ctx, `
		SELECT id, 1 - (embedding <=> $1::vector) AS score
		FROM pages
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1::vector
		LIMIT $2
	`, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search pages: %w", err)
	}
	defer rows.Close()

	var results []models.VectorCandidate
	for rows.Next() {
		var c models.VectorCandidate
		if err := rows.Scan(&c.PageID, &c.Score); err != nil {
			return nil, fmt.Errorf("scan page result: %w", err)
		}
		results = append(results, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate page results: %w", err)
	}

	if results == nil {
		results = []models.VectorCandidate{}
	}
	return results, nil
}
