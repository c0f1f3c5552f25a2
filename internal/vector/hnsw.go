package vector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/hnsw"
	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/repository"
)

var (
	_ repository.VectorSearchRepository = (*HNSW)(nil)
	_ repository.IndexStatus            = (*HNSW)(nil)
)

// HNSW is an in-process approximate nearest neighbour graph built from the
// embedding source. Vectors are unit-normalized on insert so cosine distance
// orders them like cosine similarity
type HNSW struct {
	source     repository.EmbeddingSource
	workingSet int
	batchSize  int
	logger     *slog.Logger

	mu    sync.RWMutex
	graph *hnsw.Graph[uint64]
	dims  int
}

// HNSWOptions tunes the graph
type HNSWOptions struct {
	M          int
	EfSearch   int
	WorkingSet int
	BatchSize  int
}

// NewHNSW creates an empty graph; call Build to populate it
func NewHNSW(source repository.EmbeddingSource, opts HNSWOptions) *HNSW {
	if opts.M == 0 {
		opts.M = 16
	}
	if opts.EfSearch == 0 {
		opts.EfSearch = 20
	}

	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = opts.M
	graph.EfSearch = opts.EfSearch
	graph.Ml = 0.25

	return &HNSW{
		source:     source,
		workingSet: opts.WorkingSet,
		batchSize:  opts.BatchSize,
		logger:     slog.Default().With("component", "vector-hnsw"),
		graph:      graph,
	}
}

// Build loads up to the working set from the source into the graph
func (h *HNSW) Build(ctx context.Context) error {
	start := time.Now()
	pages, err := loadRange(ctx, h.source, 0, h.workingSet, h.batchSize)
	if err != nil {
		return fmt.Errorf("load graph vectors: %w", err)
	}
	if err := h.Add(pages); err != nil {
		return err
	}

	h.logger.Info("hnsw_graph_built",
		slog.Int("nodes", h.Len()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Add inserts page embeddings. All vectors must share one dimension
func (h *HNSW) Add(pages []models.PageEmbedding) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, p := range pages {
		if len(p.Embedding) == 0 {
			continue
		}
		if h.dims == 0 {
			h.dims = len(p.Embedding)
		}
		if len(p.Embedding) != h.dims {
			return fmt.Errorf("page %d: dimension %d, graph has %d", p.PageID, len(p.Embedding), h.dims)
		}
		vec := make([]float32, len(p.Embedding))
		copy(vec, p.Embedding)
		normalizeInPlace(vec)
		h.graph.Add(hnsw.MakeNode(uint64(p.PageID), vec))
	}
	return nil
}

// Len returns the number of nodes in the graph
func (h *HNSW) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.graph.Len()
}

// IsAvailable reports whether an embedding source is configured
func (h *HNSW) IsAvailable() bool {
	return h.source != nil
}

// IndexedCount returns the number of nodes in the graph
func (h *HNSW) IndexedCount(_ context.Context) (int, error) {
	return h.Len(), nil
}

// SearchPagesByEmbedding returns up to limit approximate nearest pages
func (h *HNSW) SearchPagesByEmbedding(ctx context.Context, embedding []float32, limit int) ([]models.VectorCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.graph.Len() == 0 || limit <= 0 {
		return []models.VectorCandidate{}, nil
	}
	if len(embedding) != h.dims {
		return nil, fmt.Errorf("query dimension %d, graph has %d", len(embedding), h.dims)
	}

	query := make([]float32, len(embedding))
	copy(query, embedding)
	normalizeInPlace(query)

	nodes := h.graph.Search(query, limit)
	candidates := make([]models.VectorCandidate, 0, len(nodes))
	for _, n := range nodes {
		candidates = append(candidates, models.VectorCandidate{
			PageID: int64(n.Key),
			Score:  CosineSimilarity(query, n.Value),
		})
	}
	return Rank(candidates, limit), nil
}
