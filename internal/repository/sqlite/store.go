// Package sqlite stores corpus pages in a SQLite FTS5 table. Engine query
// strings are native FTS5 syntax, so they are passed to MATCH unchanged.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/maktaba-search-api/internal/arabic"
	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/repository"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// ErrWorkNotFound is returned when a catalog work id is unknown
var ErrWorkNotFound = errors.New("work not found")

var (
	_ repository.PageStore    = (*Store)(nil)
	_ repository.PageIndexer  = (*Store)(nil)
	_ repository.CatalogStore = (*Store)(nil)
)

// snippetTokens is the number of tokens in a snippet window
const snippetTokens = 24

// Store is a SQLite database holding the page FTS index and the catalog.
// Page text is indexed in normalized form
type Store struct {
	mu     sync.RWMutex
	db     *sqlx.DB
	closed bool
}

// Open opens or creates the database at path. An empty path opens an
// in-memory database
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create directory: %w", err)
		}
		dsn = path
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer; an in-memory database exists per connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	slog.Debug("page_store_opened", slog.String("path", path))
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS books (
		id       INTEGER PRIMARY KEY,
		title_ar TEXT NOT NULL,
		title_en TEXT NOT NULL DEFAULT ''
	);

	-- body holds normalized text; identity columns are stored, not indexed
	CREATE VIRTUAL TABLE IF NOT EXISTS pages_fts USING fts5(
		book_id UNINDEXED,
		volume UNINDEXED,
		page UNINDEXED,
		body,
		tokenize='unicode61 remove_diacritics 0'
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// FullTextMatch runs an FTS5 MATCH and returns hits ordered by bm25 rank
func (s *Store) FullTextMatch(ctx context.Context, engineQuery string, limit int) ([]models.SearchHit, error) {
	if limit <= 0 {
		return []models.SearchHit{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("page store is closed")
	}

	var hits []models.SearchHit
	err := s.db.SelectContext(ctx, &hits, `
		SELECT book_id, volume, page,
		       snippet(pages_fts, 3, '<mark>', '</mark>', '…', ?) AS snippet
		FROM pages_fts
		WHERE pages_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, snippetTokens, engineQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("match pages: %w", err)
	}
	if hits == nil {
		hits = []models.SearchHit{}
	}
	return hits, nil
}

// IndexPages adds pages, replacing any page with the same identity
func (s *Store) IndexPages(ctx context.Context, pages []models.Page) error {
	if len(pages) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("page store is closed")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// FTS5 has no REPLACE, so delete first
	deleteStmt, err := tx.PrepareContext(ctx,
		`DELETE FROM pages_fts WHERE book_id = ? AND volume = ? AND page = ?`)
	if err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}
	defer deleteStmt.Close()

	insertStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pages_fts(book_id, volume, page, body) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insertStmt.Close()

	for _, p := range pages {
		if _, err := deleteStmt.ExecContext(ctx, p.BookID, p.Volume, p.Page); err != nil {
			return fmt.Errorf("delete page %d/%d/%d: %w", p.BookID, p.Volume, p.Page, err)
		}
		if _, err := insertStmt.ExecContext(ctx, p.BookID, p.Volume, p.Page, arabic.Normalize(p.Text)); err != nil {
			return fmt.Errorf("insert page %d/%d/%d: %w", p.BookID, p.Volume, p.Page, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit pages: %w", err)
	}
	return nil
}

// UpsertWorks adds or replaces catalog works
func (s *Store) UpsertWorks(ctx context.Context, works []models.WorkTitle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("page store is closed")
	}

	for _, w := range works {
		_, err := s.db.NamedExecContext(ctx, `
			INSERT INTO books (id, title_ar, title_en) VALUES (:id, :title_ar, :title_en)
			ON CONFLICT(id) DO UPDATE SET title_ar = excluded.title_ar, title_en = excluded.title_en
		`, w)
		if err != nil {
			return fmt.Errorf("upsert work %d: %w", w.BookID, err)
		}
	}
	return nil
}

// ResolveWorkTitle returns the titles of one work
func (s *Store) ResolveWorkTitle(ctx context.Context, bookID int64) (models.WorkTitle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var title models.WorkTitle
	err := s.db.GetContext(ctx, &title, `SELECT id, title_ar, title_en FROM books WHERE id = ?`, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WorkTitle{}, fmt.Errorf("resolve work %d: %w", bookID, ErrWorkNotFound)
	}
	if err != nil {
		return models.WorkTitle{}, fmt.Errorf("resolve work %d: %w", bookID, err)
	}
	return title, nil
}

// ResolveWorkTitles resolves several works; unknown ids are omitted
func (s *Store) ResolveWorkTitles(ctx context.Context, bookIDs []int64) (map[int64]models.WorkTitle, error) {
	titles := make(map[int64]models.WorkTitle, len(bookIDs))
	if len(bookIDs) == 0 {
		return titles, nil
	}

	q, args, err := sqlx.In(`SELECT id, title_ar, title_en FROM books WHERE id IN (?)`, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("build IN query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []models.WorkTitle
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("query work titles: %w", err)
	}
	for _, t := range rows {
		titles[t.BookID] = t
	}
	return titles, nil
}

// Close closes the database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
