package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/query"
	"github.com/maktaba-search-api/internal/references"
	"github.com/maktaba-search-api/internal/repository/blevestore"
	"github.com/maktaba-search-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubText struct {
	searchFunc func(ctx context.Context, rawQuery string, mode query.Mode, limit int) (*services.SearchOutcome, error)
}

func (s *stubText) Search(ctx context.Context, rawQuery string, mode query.Mode, limit int) (*services.SearchOutcome, error) {
	return s.searchFunc(ctx, rawQuery, mode, limit)
}

type stubTopic struct {
	searchFunc func(ctx context.Context, q string, limit int) ([]models.ScoredPage, error)
}

func (s *stubTopic) SearchPages(ctx context.Context, q string, limit int) ([]models.ScoredPage, error) {
	return s.searchFunc(ctx, q, limit)
}

type stubCatalog struct{}

func (stubCatalog) ResolveWorkTitle(_ context.Context, id int64) (models.WorkTitle, error) {
	return models.WorkTitle{BookID: id, TitleAr: "الكافي", TitleEn: "Al-Kafi"}, nil
}

func (c stubCatalog) ResolveWorkTitles(ctx context.Context, ids []int64) (map[int64]models.WorkTitle, error) {
	out := make(map[int64]models.WorkTitle, len(ids))
	for _, id := range ids {
		out[id], _ = c.ResolveWorkTitle(ctx, id)
	}
	return out, nil
}

func newServer(text TextSearcher, topic TopicSearcher) *echo.Echo {
	e := echo.New()
	g := e.Group("/api/v1")
	NewSearchHandler(text, topic, services.NewResultBuilder(stubCatalog{}, "https://maktaba.example")).RegisterRoutes(g)
	NewLinkHandler(references.NewLinker("https://quran.com", "")).RegisterRoutes(g)
	return e
}

func get(t *testing.T, e *echo.Echo, target string) (*httptest.ResponseRecorder, models.SearchResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var resp models.SearchResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func failingText(t *testing.T) *stubText {
	return &stubText{searchFunc: func(context.Context, string, query.Mode, int) (*services.SearchOutcome, error) {
		t.Fatal("search must not be called")
		return nil, nil
	}}
}

func TestSearch_BlankQuery(t *testing.T) {
	// Given: a server whose searcher must not be reached
	e := newServer(failingText(t), nil)

	// When: searching with a blank query
	rec, resp := get(t, e, "/api/v1/search?q=%20%20&mode=root")

	// Then: an empty successful response is returned
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestSearch_ModeAndLimit(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantMode  query.Mode
		wantLimit int
	}{
		{"defaults", "/api/v1/search?q=x", query.ModeExact, 20},
		{"word mode", "/api/v1/search?q=x&mode=word&limit=5", query.ModeWord, 5},
		{"unknown mode falls back to exact", "/api/v1/search?q=x&mode=fuzzy", query.ModeExact, 20},
		{"limit clamped", "/api/v1/search?q=x&limit=9999", query.ModeExact, 500},
		{"bad limit", "/api/v1/search?q=x&limit=-3", query.ModeExact, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMode query.Mode
			var gotLimit int
			text := &stubText{searchFunc: func(_ context.Context, _ string, mode query.Mode, limit int) (*services.SearchOutcome, error) {
				gotMode, gotLimit = mode, limit
				return &services.SearchOutcome{Hits: []models.SearchHit{}, Variants: []string{"x"}, Mode: mode}, nil
			}}

			rec, resp := get(t, newServer(text, nil), tt.target)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantMode, gotMode)
			assert.Equal(t, tt.wantLimit, gotLimit)
			assert.Equal(t, string(tt.wantMode), resp.Mode)
		})
	}
}

func TestSearch_HydratesHits(t *testing.T) {
	text := &stubText{searchFunc: func(_ context.Context, _ string, mode query.Mode, _ int) (*services.SearchOutcome, error) {
		return &services.SearchOutcome{
			Hits:           []models.SearchHit{{BookID: 1, Volume: 8, Page: 151, Snippet: "<mark>محمد</mark>"}},
			Variants:       []string{"محمد"},
			Transliterated: true,
			Mode:           mode,
		}, nil
	}}

	rec, resp := get(t, newServer(text, nil), "/api/v1/search?q=muhammad&mode=word")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.Total)
	assert.True(t, resp.Transliterated)
	assert.Equal(t, []string{"محمد"}, resp.SearchTerms)
	assert.Equal(t, "الكافي", resp.Results[0].BookTitleAr)
	assert.Equal(t, "https://maktaba.example/book/1/8/151", resp.Results[0].ShareURL)
	assert.Nil(t, resp.Results[0].Score)
}

func TestSearch_EndToEnd(t *testing.T) {
	// Given: an in-memory index with more matching pages than the limit
	store, err := blevestore.NewPageStore("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	var pages []models.Page
	for i := 1; i <= 8; i++ {
		pages = append(pages, models.Page{ID: int64(i), BookID: 1, Volume: 1, Page: i, Text: fmt.Sprintf("قال محمد بن يعقوب في الصفحة %d", i)})
	}
	pages = append(pages, models.Page{ID: 99, BookID: 2, Volume: 1, Page: 1, Text: "لا صلة لهذه الصفحة"})
	require.NoError(t, store.IndexPages(context.Background(), pages))

	text, err := services.NewTextSearchService(store, 4, time.Second)
	require.NoError(t, err)
	t.Cleanup(text.Release)

	// When: searching word mode with limit 5
	rec, resp := get(t, newServer(text, nil), "/api/v1/search?q="+"%D9%85%D8%AD%D9%85%D8%AF"+"&mode=word&limit=5")

	// Then: at most five results, each with a marked match
	require.Equal(t, http.StatusOK, rec.Code)
	assert.LessOrEqual(t, len(resp.Results), 5)
	require.NotEmpty(t, resp.Results)
	for _, r := range resp.Results {
		assert.Contains(t, r.Snippet, "<mark>محمد</mark>")
	}
}

func TestTopicSearch(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"no embedder", services.ErrEmbeddingUnavailable, http.StatusServiceUnavailable, services.ErrEmbeddingUnavailable.Error()},
		{"no backend", services.ErrVectorBackendUnavailable, http.StatusServiceUnavailable, services.ErrVectorBackendUnavailable.Error()},
		{"no page lookup", services.ErrPageLookupUnavailable, http.StatusServiceUnavailable, services.ErrPageLookupUnavailable.Error()},
		{"empty index", fmt.Errorf("search: %w", services.ErrIndexNotPopulated), http.StatusServiceUnavailable, "vector index is empty"},
		{"provider failure", errors.New("embed query: 500"), http.StatusBadGateway, "Topic search failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic := &stubTopic{searchFunc: func(context.Context, string, int) ([]models.ScoredPage, error) {
				return nil, tt.err
			}}

			rec, _ := get(t, newServer(nil, topic), "/api/v1/topic-search?q=patience")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body.Error, tt.wantError)
		})
	}
}

func TestTopicSearch_Results(t *testing.T) {
	var gotLimit int
	topic := &stubTopic{searchFunc: func(_ context.Context, _ string, limit int) ([]models.ScoredPage, error) {
		gotLimit = limit
		return []models.ScoredPage{
			{Page: models.Page{ID: 7, BookID: 1, Volume: 2, Page: 30, Text: strings.Repeat("ص", 300)}, Score: 0.91},
		}, nil
	}}

	rec, resp := get(t, newServer(nil, topic), "/api/v1/topic-search?q=patience&limit=1000")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, gotLimit)
	assert.Equal(t, "topic", resp.Mode)
	require.Len(t, resp.Results, 1)
	require.NotNil(t, resp.Results[0].Score)
	assert.InDelta(t, 0.91, *resp.Results[0].Score, 1e-9)
	assert.Equal(t, 201, len([]rune(resp.Results[0].Snippet)))
}

func TestTopicSearch_BlankQuery(t *testing.T) {
	topic := &stubTopic{searchFunc: func(context.Context, string, int) ([]models.ScoredPage, error) {
		t.Fatal("topic search must not be called")
		return nil, nil
	}}

	rec, resp := get(t, newServer(nil, topic), "/api/v1/topic-search?q=")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, "topic", resp.Mode)
}

func TestLink(t *testing.T) {
	// Given: footnote text with a verse and a catalog citation
	e := newServer(nil, nil)
	body := `{"text":"انظر (البقرة: 255) وراجع الكافي ج 8 ص 151"}`

	// When: posting it
	req := httptest.NewRequest(http.MethodPost, "/api/v1/link", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// Then: both citations are linked and described
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.LinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.References, 2)
	assert.Equal(t, "https://quran.com/2/255", resp.References[0].TargetURL)
	assert.Equal(t, "/book/1/8/151", resp.References[1].TargetURL)
	assert.Contains(t, resp.HTML, `class="quran-ref"`)
	assert.Contains(t, resp.HTML, `class="book-ref"`)
}

func TestLink_BadBody(t *testing.T) {
	e := newServer(nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/link", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubReady struct{ err error }

func (s stubReady) Ready(context.Context) error { return s.err }

func TestTopicHealth(t *testing.T) {
	tests := []struct {
		name   string
		topic  ReadinessChecker
		status int
	}{
		{"ready", stubReady{}, http.StatusOK},
		{"unavailable", stubReady{err: services.ErrIndexNotPopulated}, http.StatusServiceUnavailable},
		{"not configured", nil, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			NewHealthHandler(tt.topic).RegisterRoutes(e.Group(""))

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/topic-search", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 20, parseLimit("", 20, 500))
	assert.Equal(t, 20, parseLimit("abc", 20, 500))
	assert.Equal(t, 20, parseLimit("0", 20, 500))
	assert.Equal(t, 7, parseLimit(" 7 ", 20, 500))
	assert.Equal(t, 500, parseLimit("501", 20, 500))
}
