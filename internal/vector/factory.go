package vector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/maktaba-search-api/internal/repository"
	"github.com/maktaba-search-api/internal/repository/postgres"
	"github.com/maktaba-search-api/internal/repository/vertex"
)

// Backend names accepted by NewRepository
const (
	BackendExactLocal    = "exact-local"
	BackendSampledRemote = "sampled-remote"
	BackendManagedIndex  = "managed-index"
	BackendPgvector      = "pgvector"
	BackendHNSW          = "hnsw"
	BackendNone          = "none"
)

// Options configures backend selection
type Options struct {
	Backend          string
	WorkingSet       int
	BatchSize        int
	SampleWindows    int
	SampleWindowSize int
	EstimatedCorpus  int
	HNSWM            int
	HNSWEfSearch     int
	Vertex           vertex.Config
}

// Deps are the collaborators a backend may need. Nil fields disable the
// backends that require them
type Deps struct {
	DB     *sqlx.DB
	Source repository.EmbeddingSource
}

// NewRepository builds the configured backend. The returned close function
// releases backend resources and is never nil. Unknown backend names are an
// error; a backend whose dependencies are missing degrades to None
func NewRepository(ctx context.Context, opts Options, deps Deps) (repository.VectorSearchRepository, func() error, error) {
	noop := func() error { return nil }
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))

	needsSource := backend == BackendExactLocal || backend == BackendSampledRemote || backend == BackendHNSW
	if needsSource && deps.Source == nil {
		slog.Warn("vector_backend_disabled",
			slog.String("backend", backend),
			slog.String("reason", "no embedding source"))
		return None{}, noop, nil
	}

	switch backend {
	case BackendExactLocal:
		return NewExactLocal(deps.Source, opts.WorkingSet, opts.BatchSize), noop, nil

	case BackendSampledRemote:
		return NewSampledRemote(deps.Source, opts.SampleWindows, opts.SampleWindowSize, opts.EstimatedCorpus), noop, nil

	case BackendHNSW:
		h := NewHNSW(deps.Source, HNSWOptions{
			M:          opts.HNSWM,
			EfSearch:   opts.HNSWEfSearch,
			WorkingSet: opts.WorkingSet,
			BatchSize:  opts.BatchSize,
		})
		if err := h.Build(ctx); err != nil {
			return nil, noop, fmt.Errorf("build hnsw graph: %w", err)
		}
		return h, noop, nil

	case BackendPgvector:
		if deps.DB == nil {
			slog.Warn("vector_backend_disabled",
				slog.String("backend", backend),
				slog.String("reason", "no database"))
			return None{}, noop, nil
		}
		return postgres.NewVectorSearchRepository(deps.DB), noop, nil

	case BackendManagedIndex, "vertex":
		if !opts.Vertex.Complete() {
			slog.Warn("vector_backend_disabled",
				slog.String("backend", backend),
				slog.String("reason", "vertex index not configured"))
			return None{}, noop, nil
		}
		repo, err := vertex.NewVectorSearchRepository(ctx, opts.Vertex)
		if err != nil {
			return nil, noop, fmt.Errorf("create vertex backend: %w", err)
		}
		return repo, repo.Close, nil

	case BackendNone, "":
		return None{}, noop, nil
	}

	return nil, noop, fmt.Errorf("unknown vector backend %q", opts.Backend)
}
