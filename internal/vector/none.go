package vector

import (
	"context"
	"errors"

	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/repository"
)

// ErrNoBackend is returned by the none backend
var ErrNoBackend = errors.New("no vector backend configured")

var _ repository.VectorSearchRepository = None{}

// None is the backend used when semantic search is disabled
type None struct{}

// IsAvailable always reports false
func (None) IsAvailable() bool { return false }

// SearchPagesByEmbedding always fails with ErrNoBackend
func (None) SearchPagesByEmbedding(context.Context, []float32, int) ([]models.VectorCandidate, error) {
	return nil, ErrNoBackend
}
