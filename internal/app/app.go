// Package app wires configured stores, backends and services together for
// the API server and the operator CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/maktaba-search-api/internal/config"
	"github.com/maktaba-search-api/internal/references"
	"github.com/maktaba-search-api/internal/repository"
	"github.com/maktaba-search-api/internal/repository/blevestore"
	"github.com/maktaba-search-api/internal/repository/postgres"
	"github.com/maktaba-search-api/internal/repository/sqlite"
	"github.com/maktaba-search-api/internal/repository/vertex"
	"github.com/maktaba-search-api/internal/services"
	"github.com/maktaba-search-api/internal/vector"
	"github.com/maktaba-search-api/pkg/schema/db"
	pkgservices "github.com/maktaba-search-api/pkg/schema/services"
)

// Page store names accepted in PAGE_STORE
const (
	PageStoreBleve  = "bleve"
	PageStoreSQLite = "sqlite"
)

// App holds the wired components. Close releases them in reverse order
type App struct {
	Text    *services.TextSearchService
	Topic   *services.VectorSearchService
	Results *services.ResultBuilder
	Linker  *references.Linker
	Indexer repository.PageIndexer
	// Works is set when the page store also keeps work titles
	Works *sqlite.Store

	closers []func() error
}

// Build opens every configured component. Postgres and the embedding
// provider are optional; without them topic search reports itself
// unavailable
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}
	logger := slog.Default().With("component", "app")

	pgDB, err := openPostgres(ctx, logger)
	if err != nil {
		return nil, err
	}

	store, err := a.openPageStore(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	var (
		catalog repository.CatalogStore
		pages   repository.PageLookup
		deps    vector.Deps
	)
	switch {
	case pgDB != nil:
		pageRepo := postgres.NewPageRepository(pgDB)
		catalog = postgres.NewCatalogRepository(pgDB)
		pages = pageRepo
		deps = vector.Deps{DB: pgDB, Source: pageRepo}
	case a.Works != nil:
		catalog = a.Works
	}

	vectorRepo, closeVector, err := vector.NewRepository(ctx, vectorOptions(cfg), deps)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create vector backend: %w", err)
	}
	a.closers = append(a.closers, closeVector)
	logger.Info("vector_backend_ready",
		slog.String("backend", cfg.VectorBackend),
		slog.Bool("available", vectorRepo.IsAvailable()))
	if pages == nil && vectorRepo.IsAvailable() {
		logger.Warn("topic_search_without_page_lookup",
			slog.String("backend", cfg.VectorBackend),
			slog.String("reason", "POSTGRES_URI is not set"))
	}

	var embedder services.QueryEmbedder
	if svc := pkgservices.GetEmbeddingsService(); svc != nil {
		embedder = svc
		a.closers = append(a.closers, svc.Close)
	} else if err := pkgservices.GetInitError(); err != nil && !errors.Is(err, pkgservices.ErrProviderDisabled) {
		logger.Warn("embeddings_unavailable", slog.String("error", err.Error()))
	}

	text, err := services.NewTextSearchService(store, cfg.SearchPoolSize, cfg.SearchVariantTimeout)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() error { text.Release(); return nil })

	a.Text = text
	a.Topic = services.NewVectorSearchService(vectorRepo, pages, embedder, cfg.TopicSearchTimeout)
	a.Results = services.NewResultBuilder(catalog, cfg.ShareBaseURL)
	a.Linker = references.NewLinker(cfg.QuranBaseURL, cfg.ShareBaseURL)
	return a, nil
}

// Close releases every opened component and returns the first error
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func openPostgres(ctx context.Context, logger *slog.Logger) (*sqlx.DB, error) {
	err := db.InitPostgres(ctx)
	switch {
	case errors.Is(err, db.ErrPostgresNotConfigured):
		logger.Info("postgres_disabled")
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("initialize PostgreSQL: %w", err)
	}
	return db.GetPostgres(), nil
}

// openPageStore opens the full-text store selected by PAGE_STORE
func (a *App) openPageStore(cfg *config.Config) (repository.PageStore, error) {
	switch cfg.PageStore {
	case PageStoreSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite page store: %w", err)
		}
		a.closers = append(a.closers, s.Close)
		a.Indexer = s
		a.Works = s
		return s, nil
	case PageStoreBleve, "":
		s, err := blevestore.NewPageStore(cfg.BlevePath)
		if err != nil {
			return nil, fmt.Errorf("open bleve page store: %w", err)
		}
		a.closers = append(a.closers, s.Close)
		a.Indexer = s
		return s, nil
	}
	return nil, fmt.Errorf("unknown page store %q", cfg.PageStore)
}

func vectorOptions(cfg *config.Config) vector.Options {
	return vector.Options{
		Backend:          cfg.VectorBackend,
		WorkingSet:       cfg.VectorWorkingSet,
		BatchSize:        cfg.VectorBatchSize,
		SampleWindows:    cfg.VectorSampleWindows,
		SampleWindowSize: cfg.VectorSampleWindowSize,
		EstimatedCorpus:  cfg.VectorEstimatedCorpus,
		HNSWM:            cfg.HNSWM,
		HNSWEfSearch:     cfg.HNSWEfSearch,
		Vertex: vertex.Config{
			ProjectID:            cfg.VertexProjectID,
			Location:             cfg.VertexLocation,
			IndexEndpointID:      cfg.VertexIndexEndpointID,
			DeployedIndexID:      cfg.VertexDeployedIndexID,
			PublicEndpointDomain: cfg.VertexPublicEndpointDomain,
		},
	}
}
