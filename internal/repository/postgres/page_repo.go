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
	_ repository.PageLookup      = (*PageRepository)(nil)
	_ repository.EmbeddingSource = (*PageRepository)(nil)
)

// PageRepository reads pages and their embeddings from PostgreSQL
type PageRepository struct {
	db *sqlx.DB
}

// NewPageRepository creates a new PostgreSQL page repository
func NewPageRepository(db *sqlx.DB) *PageRepository {
	return &PageRepository{db: db}
}

// GetPagesByIDs returns the pages with the given ids in the order requested
func (r *PageRepository) GetPagesByIDs(ctx context.Context, ids []int64) ([]models.Page, error) {
	if len(ids) == 0 {
		return []models.Page{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, book_id, volume, page, text
		FROM pages
		WHERE id IN (?)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("build IN query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []models.Page
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}

	byID := make(map[int64]models.Page, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	pages := make([]models.Page, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

// GetPageEmbeddingsBatch returns up to count embedded pages starting at offset,
// ordered by page id so windows are stable between calls
func (r *PageRepository) GetPageEmbeddingsBatch(ctx context.Context, offset, count int) ([]models.PageEmbedding, error) {
	if count <= 0 {
		return []models.PageEmbedding{}, nil
	}

	rows, err := r.db.QueryxContext(ctx, `
		SELECT id, embedding
		FROM pages
		WHERE embedding IS NOT NULL
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, count, offset)
	if err != nil {
		return nil, fmt.Errorf("query page embeddings: %w", err)
	}
	defer rows.Close()

	batch := make([]models.PageEmbedding, 0, count)
	for rows.Next() {
		var (
			id  int64
			vec pgvector.Vector
		)
		if err := rows.Scan(&id, &vec); err != nil {
			return nil, fmt.Errorf("scan page embedding: %w", err)
		}
		batch = append(batch, models.PageEmbedding{PageID: id, Embedding: vec.Slice()})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate page embeddings: %w", err)
	}
	return batch, nil
}

// CountEmbeddedPages returns the number of pages that carry an embedding
func (r *PageRepository) CountEmbeddedPages(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM pages WHERE embedding IS NOT NULL`); err != nil {
		return 0, fmt.Errorf("count embedded pages: %w", err)
	}
	return n, nil
}
