package vector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ErrAllWindowsFailed is returned when no sample window could be fetched
var ErrAllWindowsFailed = errors.New("all sample windows failed")

var _ repository.VectorSearchRepository = (*SampledRemote)(nil)

// SampledRemote approximates a full scan by fetching several fixed-size
// windows spread across the stored embeddings and scoring only those.
// Pages outside the sampled windows are never returned, so results are an
// approximation whose recall grows with windows × windowSize
type SampledRemote struct {
	source          repository.EmbeddingSource
	windows         int
	windowSize      int
	estimatedCorpus int
	logger          *slog.Logger
}

// NewSampledRemote creates a sampled backend. When estimatedCorpus is zero
// the corpus size is counted at query time
func NewSampledRemote(source repository.EmbeddingSource, windows, windowSize, estimatedCorpus int) *SampledRemote {
	return &SampledRemote{
		source:          source,
		windows:         windows,
		windowSize:      windowSize,
		estimatedCorpus: estimatedCorpus,
		logger:          slog.Default().With("component", "vector-sampled"),
	}
}

// IsAvailable reports whether a source and a sampling plan are configured
func (s *SampledRemote) IsAvailable() bool {
	return s.source != nil && s.windows > 0 && s.windowSize > 0
}

// IndexedCount returns the number of embedded pages in the source
func (s *SampledRemote) IndexedCount(ctx context.Context) (int, error) {
	return s.source.CountEmbeddedPages(ctx)
}

// SearchPagesByEmbedding fetches the windows in parallel and ranks the union.
// A failed window is logged and skipped; the search fails only when every
// window fails
func (s *SampledRemote) SearchPagesByEmbedding(ctx context.Context, embedding []float32, limit int) ([]models.VectorCandidate, error) {
	offsets := s.windowOffsets(s.corpusSize(ctx))

	var (
		mu       sync.Mutex
		pages    []models.PageEmbedding
		failed   int
		firstErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, offset := range offsets {
		g.Go(func() error {
			batch, err := s.source.GetPageEmbeddingsBatch(gctx, offset, s.windowSize)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				if firstErr == nil {
					firstErr = err
				}
				s.logger.Warn("sample_window_failed",
					slog.Int("offset", offset),
					slog.String("error", err.Error()))
				// Absorb so sibling windows keep running
				return nil
			}
			pages = append(pages, batch...)
			return nil
		})
	}
	_ = g.Wait()

	if failed == len(offsets) {
		return nil, fmt.Errorf("%w: %v", ErrAllWindowsFailed, firstErr)
	}

	s.logger.Debug("sampled_search_complete",
		slog.Int("windows", len(offsets)),
		slog.Int("failed", failed),
		slog.Int("pages", len(pages)))

	return Rank(scoreAll(embedding, pages), limit), nil
}

func (s *SampledRemote) corpusSize(ctx context.Context) int {
	if s.estimatedCorpus > 0 {
		return s.estimatedCorpus
	}
	n, err := s.source.CountEmbeddedPages(ctx)
	if err != nil {
		s.logger.Warn("corpus_count_failed", slog.String("error", err.Error()))
		return s.windows * s.windowSize
	}
	return n
}

// windowOffsets spreads the windows evenly over [0, corpus). A corpus no
// larger than the total sample collapses into contiguous windows from zero
func (s *SampledRemote) windowOffsets(corpus int) []int {
	offsets := make([]int, 0, s.windows)
	if corpus <= s.windows*s.windowSize {
		for i := 0; i < s.windows; i++ {
			offsets = append(offsets, i*s.windowSize)
		}
		return offsets
	}

	stride := corpus / s.windows
	for i := 0; i < s.windows; i++ {
		offsets = append(offsets, i*stride)
	}
	return offsets
}
