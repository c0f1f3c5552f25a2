package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	embedFunc func(ctx context.Context, q string) ([]float32, error)
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, q string) ([]float32, error) {
	return s.embedFunc(ctx, q)
}

type stubVectorRepo struct {
	available  bool
	count      int
	countErr   error
	countFunc  func(ctx context.Context) (int, error)
	candidates []models.VectorCandidate
	err        error
}

func (s *stubVectorRepo) IsAvailable() bool { return s.available }

func (s *stubVectorRepo) SearchPagesByEmbedding(context.Context, []float32, int) ([]models.VectorCandidate, error) {
	return s.candidates, s.err
}

func (s *stubVectorRepo) IndexedCount(ctx context.Context) (int, error) {
	if s.countFunc != nil {
		return s.countFunc(ctx)
	}
	return s.count, s.countErr
}

type stubPages struct {
	pages map[int64]models.Page
}

func (s *stubPages) GetPagesByIDs(_ context.Context, ids []int64) ([]models.Page, error) {
	out := make([]models.Page, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.pages[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func fixedEmbedder() *stubEmbedder {
	return &stubEmbedder{embedFunc: func(context.Context, string) ([]float32, error) {
		return []float32{1, 0}, nil
	}}
}

func TestVectorSearch_Unavailable(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		repo     *stubVectorRepo
		embedder QueryEmbedder
		want     error
	}{
		{"no embedder", &stubVectorRepo{available: true, count: 1}, nil, ErrEmbeddingUnavailable},
		{"no backend", &stubVectorRepo{available: false}, fixedEmbedder(), ErrVectorBackendUnavailable},
		{"empty index", &stubVectorRepo{available: true, count: 0}, fixedEmbedder(), ErrIndexNotPopulated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewVectorSearchService(tt.repo, &stubPages{}, tt.embedder, time.Second)
			_, err := svc.SearchPages(ctx, "الصبر", 10)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVectorSearch_CountErrorDoesNotBlock(t *testing.T) {
	repo := &stubVectorRepo{available: true, countErr: errors.New("timeout")}
	svc := NewVectorSearchService(repo, &stubPages{}, fixedEmbedder(), time.Second)

	assert.NoError(t, svc.Ready(context.Background()))
}

func TestVectorSearch_RanksAndHydrates(t *testing.T) {
	// Given: unordered candidates, one pointing at a deleted page
	repo := &stubVectorRepo{available: true, count: 3, candidates: []models.VectorCandidate{
		{PageID: 1, Score: 0.2},
		{PageID: 2, Score: 0.9},
		{PageID: 3, Score: 0.5},
		{PageID: 4, Score: 0.7},
	}}
	pages := &stubPages{pages: map[int64]models.Page{
		1: {ID: 1, BookID: 1, Volume: 1, Page: 1, Text: "أ"},
		2: {ID: 2, BookID: 1, Volume: 1, Page: 2, Text: "ب"},
		3: {ID: 3, BookID: 2, Volume: 1, Page: 3, Text: "ج"},
	}}
	svc := NewVectorSearchService(repo, pages, fixedEmbedder(), time.Second)

	// When: searching with limit 3
	got, err := svc.SearchPages(context.Background(), "الصبر", 3)

	// Then: top three by score, missing page dropped
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Page.ID)
	assert.Equal(t, int64(3), got[1].Page.ID)
	assert.GreaterOrEqual(t, got[0].Score, got[1].Score)
}

func TestVectorSearch_EmbeddingErrorWrapped(t *testing.T) {
	boom := errors.New("quota exceeded")
	embedder := &stubEmbedder{embedFunc: func(context.Context, string) ([]float32, error) { return nil, boom }}
	svc := NewVectorSearchService(&stubVectorRepo{available: true, count: 1}, &stubPages{}, embedder, time.Second)

	_, err := svc.SearchCandidates(context.Background(), "q", 5)

	assert.ErrorIs(t, err, boom)
}

func TestVectorSearch_BlankQuery(t *testing.T) {
	svc := NewVectorSearchService(vector.None{}, &stubPages{}, nil, time.Second)

	got, err := svc.SearchPages(context.Background(), "  ", 5)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestVectorSearch_ExactLocalBackend(t *testing.T) {
	source := &memEmbeddings{pages: []models.PageEmbedding{
		{PageID: 10, Embedding: []float32{0, 1}},
		{PageID: 11, Embedding: []float32{1, 0.1}},
	}}
	repo := vector.NewExactLocal(source, 10, 10)
	pages := &stubPages{pages: map[int64]models.Page{
		10: {ID: 10, BookID: 1, Volume: 1, Page: 10},
		11: {ID: 11, BookID: 1, Volume: 1, Page: 11},
	}}
	svc := NewVectorSearchService(repo, pages, fixedEmbedder(), time.Second)

	got, err := svc.SearchPages(context.Background(), "q", 1)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(11), got[0].Page.ID)
}

type memEmbeddings struct {
	pages []models.PageEmbedding
}

func (m *memEmbeddings) GetPageEmbeddingsBatch(_ context.Context, offset, count int) ([]models.PageEmbedding, error) {
	if offset >= len(m.pages) {
		return nil, nil
	}
	return m.pages[offset:min(offset+count, len(m.pages))], nil
}

func (m *memEmbeddings) CountEmbeddedPages(context.Context) (int, error) { return len(m.pages), nil }

func TestResultBuilder(t *testing.T) {
	catalog := &stubCatalog{titles: map[int64]models.WorkTitle{1: {BookID: 1, TitleAr: "الكافي", TitleEn: "al-Kafi"}}}
	b := NewResultBuilder(catalog, "https://example.org/")

	results := b.FromHits(context.Background(), []models.SearchHit{hit(1, 8, 151, "<mark>x</mark>"), hit(9, 1, 1, "y")})

	require.Len(t, results, 2)
	assert.Equal(t, "الكافي", results[0].BookTitleAr)
	assert.Equal(t, "https://example.org/book/1/8/151", results[0].ShareURL)
	assert.Empty(t, results[1].BookTitleAr)
	assert.Nil(t, results[0].Score)

	scored := b.FromScoredPages(context.Background(), []models.ScoredPage{{Page: models.Page{BookID: 1, Volume: 2, Page: 3, Text: "نص"}, Score: 0.8}})
	require.Len(t, scored, 1)
	require.NotNil(t, scored[0].Score)
	assert.InDelta(t, 0.8, *scored[0].Score, 1e-9)
	assert.Equal(t, "نص", scored[0].Snippet)
}

type stubCatalog struct {
	titles map[int64]models.WorkTitle
}

func (s *stubCatalog) ResolveWorkTitle(_ context.Context, id int64) (models.WorkTitle, error) {
	t, ok := s.titles[id]
	if !ok {
		return models.WorkTitle{}, errors.New("not found")
	}
	return t, nil
}

func (s *stubCatalog) ResolveWorkTitles(_ context.Context, ids []int64) (map[int64]models.WorkTitle, error) {
	out := make(map[int64]models.WorkTitle)
	for _, id := range ids {
		if t, ok := s.titles[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func TestVectorSearch_NoPageLookup(t *testing.T) {
	// Given: an available backend and embedder but nothing to hydrate pages from
	repo := &stubVectorRepo{available: true, count: 3, candidates: []models.VectorCandidate{{PageID: 1, Score: 0.9}}}
	svc := NewVectorSearchService(repo, nil, fixedEmbedder(), time.Second)

	// When: searching pages
	got, err := svc.SearchPages(context.Background(), "الصبر", 5)

	// Then: the service reports itself unavailable instead of failing later
	assert.ErrorIs(t, err, ErrPageLookupUnavailable)
	assert.Nil(t, got)
	assert.ErrorIs(t, svc.Ready(context.Background()), ErrPageLookupUnavailable)
}

func TestVectorSearch_ReadinessRunsUnderTimeout(t *testing.T) {
	// Given: a backend whose count blocks until its context ends
	var hadDeadline bool
	repo := &stubVectorRepo{
		available: true,
		countFunc: func(ctx context.Context) (int, error) {
			_, hadDeadline = ctx.Deadline()
			<-ctx.Done()
			return 0, ctx.Err()
		},
		candidates: []models.VectorCandidate{{PageID: 1, Score: 0.5}},
	}
	pages := &stubPages{pages: map[int64]models.Page{1: {ID: 1, BookID: 2}}}
	svc := NewVectorSearchService(repo, pages, fixedEmbedder(), 50*time.Millisecond)

	// When: searching with a context that never expires
	start := time.Now()
	_, err := svc.SearchCandidates(context.Background(), "الصبر", 5)

	// Then: the count was bounded by the topic timeout and the call returned promptly
	require.NoError(t, err)
	assert.True(t, hadDeadline)
	assert.Less(t, time.Since(start), 2*time.Second)
}
