package vector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/repository"
)

var (
	_ repository.VectorSearchRepository = (*ExactLocal)(nil)
	_ repository.IndexStatus            = (*ExactLocal)(nil)
)

// ExactLocal scores a bounded working set of page embeddings held in memory.
// The working set is loaded on first use; pages beyond it are never returned
type ExactLocal struct {
	source     repository.EmbeddingSource
	workingSet int
	batchSize  int
	logger     *slog.Logger

	mu     sync.RWMutex
	loaded bool
	pages  []models.PageEmbedding
}

// NewExactLocal creates an exact backend over at most workingSet embeddings
func NewExactLocal(source repository.EmbeddingSource, workingSet, batchSize int) *ExactLocal {
	return &ExactLocal{
		source:     source,
		workingSet: workingSet,
		batchSize:  batchSize,
		logger:     slog.Default().With("component", "vector-exact"),
	}
}

// IsAvailable reports whether an embedding source is configured
func (e *ExactLocal) IsAvailable() bool {
	return e.source != nil && e.workingSet > 0
}

// Refresh reloads the working set from the source
func (e *ExactLocal) Refresh(ctx context.Context) error {
	start := time.Now()
	pages, err := loadRange(ctx, e.source, 0, e.workingSet, e.batchSize)
	if err != nil {
		return fmt.Errorf("load working set: %w", err)
	}

	e.mu.Lock()
	e.pages = pages
	e.loaded = true
	e.mu.Unlock()

	e.logger.Info("working_set_loaded",
		slog.Int("pages", len(pages)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (e *ExactLocal) ensureLoaded(ctx context.Context) error {
	e.mu.RLock()
	loaded := e.loaded
	e.mu.RUnlock()
	if loaded {
		return nil
	}
	return e.Refresh(ctx)
}

// IndexedCount returns the size of the loaded working set
func (e *ExactLocal) IndexedCount(ctx context.Context) (int, error) {
	if err := e.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.pages), nil
}

// SearchPagesByEmbedding scores every page in the working set and returns the top limit
func (e *ExactLocal) SearchPagesByEmbedding(ctx context.Context, embedding []float32, limit int) ([]models.VectorCandidate, error) {
	if err := e.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	e.mu.RLock()
	candidates := scoreAll(embedding, e.pages)
	e.mu.RUnlock()

	return Rank(candidates, limit), nil
}
