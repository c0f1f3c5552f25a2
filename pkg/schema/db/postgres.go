package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/maktaba-search-api/pkg/schema/config"
)

var (
	pgDB   *sqlx.DB
	pgOnce sync.Once
	pgMu   sync.RWMutex
)

// postgresEnabled tracks whether Postgres was initialized
var postgresEnabled bool

// ErrPostgresNotConfigured is returned when POSTGRES_URI is empty
var ErrPostgresNotConfigured = errors.New("POSTGRES_URI is not set")

// InitPostgres initializes the PostgreSQL database connection. Postgres is
// optional; ErrPostgresNotConfigured means the caller runs without it
func InitPostgres(ctx context.Context) error {
	var initErr error
	pgOnce.Do(func() {
		cfg := config.GetConfig()

		if cfg.PostgresURI == "" {
			initErr = ErrPostgresNotConfigured
			return
		}

		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.PostgresURI)
		if err != nil {
			initErr = fmt.Errorf("connect to PostgreSQL: %w", err)
			return
		}

		// Configure connection pool
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(1 * time.Minute)

		// Verify connectivity
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			initErr = fmt.Errorf("ping PostgreSQL: %w", err)
			return
		}

		pgMu.Lock()
		pgDB = db
		postgresEnabled = true
		pgMu.Unlock()
	})
	return initErr
}

// PostgresEnabled returns whether Postgres is available
func PostgresEnabled() bool {
	pgMu.RLock()
	defer pgMu.RUnlock()
	return postgresEnabled
}

// GetPostgres returns the PostgreSQL database instance, or nil when disabled
func GetPostgres() *sqlx.DB {
	pgMu.RLock()
	defer pgMu.RUnlock()
	return pgDB
}

// ClosePostgres closes the PostgreSQL database connection
func ClosePostgres() error {
	pgMu.Lock()
	defer pgMu.Unlock()
	if pgDB != nil {
		return pgDB.Close()
	}
	return nil
}
