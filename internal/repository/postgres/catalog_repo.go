package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/repository"
)

// ErrWorkNotFound is returned when a catalog work id is unknown
var ErrWorkNotFound = errors.New("work not found")

// CatalogRepository implements repository.CatalogStore for PostgreSQL
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new PostgreSQL catalog repository
func NewCatalogRepository(db *sqlx.DB) repository.CatalogStore {
	return &CatalogRepository{db: db}
}

// ResolveWorkTitle returns the Arabic and English titles of a work
func (r *CatalogRepository) ResolveWorkTitle(ctx context.Context, bookID int64) (models.WorkTitle, error) {
	var title models.WorkTitle
	err := r.db.GetContext(ctx, &title, `
		SELECT id, title_ar, COALESCE(title_en, '') AS title_en
		FROM books
		WHERE id = $1
	`, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WorkTitle{}, fmt.Errorf("resolve work %d: %w", bookID, ErrWorkNotFound)
	}
	if err != nil {
		return models.WorkTitle{}, fmt.Errorf("resolve work %d: %w", bookID, err)
	}
	return title, nil
}

// ResolveWorkTitles resolves the titles of several works in one query
func (r *CatalogRepository) ResolveWorkTitles(ctx context.Context, bookIDs []int64) (map[int64]models.WorkTitle, error) {
	titles := make(map[int64]models.WorkTitle, len(bookIDs))
	if len(bookIDs) == 0 {
		return titles, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, title_ar, COALESCE(title_en, '') AS title_en
		FROM books
		WHERE id IN (?)
	`, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("build IN query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []models.WorkTitle
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query work titles: %w", err)
	}
	for _, t := range rows {
		titles[t.BookID] = t
	}
	return titles, nil
}
