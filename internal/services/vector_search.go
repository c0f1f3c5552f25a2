package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/repository"
	"github.com/maktaba-search-api/internal/vector"
)

// QueryEmbedder embeds a search query
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// VectorSearchService handles semantic topic search over page embeddings
type VectorSearchService struct {
	vectorRepo repository.VectorSearchRepository
	pages      repository.PageLookup
	embedder   QueryEmbedder
	timeout    time.Duration
	logger     *slog.Logger
}

// NewVectorSearchService creates a new vector search service. A nil
// embedder makes every search fail with ErrEmbeddingUnavailable
func NewVectorSearchService(
	vectorRepo repository.VectorSearchRepository,
	pages repository.PageLookup,
	embedder QueryEmbedder,
	timeout time.Duration,
) *VectorSearchService {
	return &VectorSearchService{
		vectorRepo: vectorRepo,
		pages:      pages,
		embedder:   embedder,
		timeout:    timeout,
		logger:     slog.Default().With("component", "topic-search"),
	}
}

// Ready reports why topic search cannot run, or nil when it can. Backends
// reporting their size are asked under ctx, so callers bound it
func (s *VectorSearchService) Ready(ctx context.Context) error {
	if s.embedder == nil {
		return ErrEmbeddingUnavailable
	}
	if s.vectorRepo == nil || !s.vectorRepo.IsAvailable() {
		return ErrVectorBackendUnavailable
	}
	if s.pages == nil {
		return ErrPageLookupUnavailable
	}
	if status, ok := s.vectorRepo.(repository.IndexStatus); ok {
		n, err := status.IndexedCount(ctx)
		if err != nil {
			s.logger.Warn("index_count_failed", slog.String("error", err.Error()))
		} else if n == 0 {
			return ErrIndexNotPopulated
		}
	}
	return nil
}

// SearchCandidates embeds query and returns up to limit candidates in
// non-increasing score order
func (s *VectorSearchService) SearchCandidates(ctx context.Context, query string, limit int) ([]models.VectorCandidate, error) {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return []models.VectorCandidate{}, nil
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.Ready(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := s.vectorRepo.SearchPagesByEmbedding(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("search pages by embedding: %w", err)
	}
	candidates = vector.Rank(candidates, limit)

	s.logger.Debug("topic_search_complete",
		slog.Int("candidates", len(candidates)),
		slog.Duration("duration", time.Since(start)))
	return candidates, nil
}

// SearchPages runs SearchCandidates and hydrates the candidates into pages,
// dropping candidates whose page no longer exists
func (s *VectorSearchService) SearchPages(ctx context.Context, query string, limit int) ([]models.ScoredPage, error) {
	candidates, err := s.SearchCandidates(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []models.ScoredPage{}, nil
	}

	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.PageID
	}
	pages, err := s.pages.GetPagesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup pages: %w", err)
	}

	byID := make(map[int64]models.Page, len(pages))
	for _, p := range pages {
		byID[p.ID] = p
	}

	scored := make([]models.ScoredPage, 0, len(candidates))
	for _, c := range candidates {
		if p, ok := byID[c.PageID]; ok {
			scored = append(scored, models.ScoredPage{Page: p, Score: c.Score})
		}
	}
	return scored, nil
}
