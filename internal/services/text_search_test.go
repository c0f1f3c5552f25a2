package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/maktaba-search-api/internal/arabic"
	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/query"
	"github.com/maktaba-search-api/internal/repository/blevestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore implements repository.PageStore with a function field
type stubStore struct {
	mu        sync.Mutex
	matchFunc func(ctx context.Context, engineQuery string, limit int) ([]models.SearchHit, error)
	queries   []string
}

func (s *stubStore) FullTextMatch(ctx context.Context, engineQuery string, limit int) ([]models.SearchHit, error) {
	s.mu.Lock()
	s.queries = append(s.queries, engineQuery)
	s.mu.Unlock()
	return s.matchFunc(ctx, engineQuery, limit)
}

func newService(t *testing.T, store *stubStore) *TextSearchService {
	t.Helper()
	svc, err := NewTextSearchService(store, 4, time.Second)
	require.NoError(t, err)
	t.Cleanup(svc.Release)
	return svc
}

func hit(book int64, vol, page int, snippet string) models.SearchHit {
	return models.SearchHit{BookID: book, Volume: vol, Page: page, Snippet: snippet}
}

func TestSearch_BlankQuery(t *testing.T) {
	// Given: a store that must not be called
	store := &stubStore{matchFunc: func(context.Context, string, int) ([]models.SearchHit, error) {
		t.Fatal("store called for blank query")
		return nil, nil
	}}
	svc := newService(t, store)

	for _, mode := range query.Modes {
		// When: searching a blank query
		outcome, err := svc.Search(context.Background(), "   ", mode, 20)

		// Then: the outcome is empty
		require.NoError(t, err)
		assert.Empty(t, outcome.Hits)
		assert.NotNil(t, outcome.Hits)
	}
}

func TestSearch_DedupsAcrossVariants(t *testing.T) {
	// Given: كتبوا yields two variants that both match book 7 vol 1 page 5
	store := &stubStore{matchFunc: func(_ context.Context, q string, _ int) ([]models.SearchHit, error) {
		if strings.Contains(q, "كتبوا") {
			return []models.SearchHit{hit(7, 1, 5, "first <mark>كتبوا</mark>"), hit(7, 1, 6, "x <mark>كتبوا</mark>")}, nil
		}
		return []models.SearchHit{hit(7, 1, 5, "second <mark>كتب</mark>"), hit(8, 2, 1, "y <mark>كتب</mark>")}, nil
	}}
	svc := newService(t, store)

	// When: searching in word mode
	outcome, err := svc.Search(context.Background(), "كتبوا", query.ModeWord, 20)

	// Then: the shared key appears once with the first variant's snippet
	require.NoError(t, err)
	assert.Equal(t, []string{"كتبوا", "كتب"}, outcome.Variants)
	require.Len(t, outcome.Hits, 3)
	assert.Equal(t, models.HitKey{BookID: 7, Volume: 1, Page: 5}, outcome.Hits[0].Key())
	assert.Equal(t, "first <mark>كتبوا</mark>", outcome.Hits[0].Snippet)
	assert.Equal(t, "كتبوا", outcome.Hits[0].SourceVariant)
	assert.Equal(t, "كتب", outcome.Hits[2].SourceVariant)
}

func TestSearch_VariantFailureIsSkipped(t *testing.T) {
	store := &stubStore{matchFunc: func(_ context.Context, q string, _ int) ([]models.SearchHit, error) {
		if strings.Contains(q, "كتبوا") {
			return nil, errors.New("fts5: syntax error")
		}
		return []models.SearchHit{hit(1, 1, 1, "<mark>كتب</mark>")}, nil
	}}
	svc := newService(t, store)

	outcome, err := svc.Search(context.Background(), "كتبوا", query.ModeExact, 20)

	require.NoError(t, err)
	require.Len(t, outcome.Hits, 1)
	assert.Equal(t, int64(1), outcome.Hits[0].BookID)
}

func TestSearch_TruncatesToLimit(t *testing.T) {
	store := &stubStore{matchFunc: func(_ context.Context, _ string, limit int) ([]models.SearchHit, error) {
		hits := make([]models.SearchHit, 0, limit)
		for i := 0; i < limit; i++ {
			hits = append(hits, hit(1, 1, i+1, "<mark>x</mark>"))
		}
		return hits, nil
	}}
	svc := newService(t, store)

	outcome, err := svc.Search(context.Background(), "صلاة", query.ModeRoot, 3)

	require.NoError(t, err)
	assert.Len(t, outcome.Hits, 3)
}

func TestSearch_NoVariantAfterDeadline(t *testing.T) {
	store := &stubStore{matchFunc: func(context.Context, string, int) ([]models.SearchHit, error) {
		return []models.SearchHit{hit(1, 1, 1, "")}, nil
	}}
	svc := newService(t, store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := svc.Search(ctx, "كتب", query.ModeWord, 10)

	require.NoError(t, err)
	assert.Empty(t, outcome.Hits)
	assert.Empty(t, store.queries)
}

func TestSearch_TransliteratesLatin(t *testing.T) {
	store := &stubStore{matchFunc: func(context.Context, string, int) ([]models.SearchHit, error) {
		return nil, nil
	}}
	svc := newService(t, store)

	outcome, err := svc.Search(context.Background(), "muhammad", query.ModeWord, 10)

	require.NoError(t, err)
	assert.True(t, outcome.Transliterated)
	require.NotEmpty(t, outcome.Variants)
	assert.True(t, arabic.ContainsArabic(outcome.Variants[0]))
	assert.Len(t, store.queries, len(outcome.Variants))
}

func TestBuildVariants(t *testing.T) {
	v, translit := BuildVariants("الصَّلاة", query.ModeRoot)
	assert.False(t, translit)
	assert.Equal(t, []arabic.QueryVariant{{"الصلاه"}}, v)

	v, _ = BuildVariants("ذهبوا", query.ModeExact)
	assert.Equal(t, []arabic.QueryVariant{{"ذهبوا"}, {"ذهب"}}, v)

	v, _ = BuildVariants("ـــ", query.ModeWord)
	assert.Empty(t, v)
}

func TestBuildVariants_WordModeExpandsDirectArabic(t *testing.T) {
	// Given: an inflected Arabic word
	raw := "والكتاب"

	// When: building variants for word and exact mode
	word, _ := BuildVariants(raw, query.ModeWord)
	exact, _ := BuildVariants(raw, query.ModeExact)

	// Then: word mode adds the stripped form, exact mode keeps the phrase as typed
	require.Len(t, word, 2)
	assert.Equal(t, arabic.QueryVariant{"والكتاب"}, word[0])
	assert.Equal(t, arabic.QueryVariant{"والكتاب", "الكتاب"}, word[1])
	assert.Equal(t, []arabic.QueryVariant{{"والكتاب"}}, exact)

	word, _ = BuildVariants("المسلمون", query.ModeWord)
	assert.Equal(t, arabic.QueryVariant{"المسلمون", "مسلمون", "المسلم", "مسلم"}, word[len(word)-1])
}

func TestSearch_WordModeFindsStrippedForm(t *testing.T) {
	// Given: a page that only carries the bare article form
	store, err := blevestore.NewPageStore("")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.IndexPages(context.Background(), []models.Page{
		{BookID: 4, Volume: 1, Page: 9, Text: "هذا الكتاب في الفقه"},
	}))
	svc, err := NewTextSearchService(store, 2, time.Second)
	require.NoError(t, err)
	defer svc.Release()

	// When: searching the conjunction-prefixed form in word mode
	outcome, err := svc.Search(context.Background(), "والكتاب", query.ModeWord, 10)

	// Then: the stripped variant reaches the page
	require.NoError(t, err)
	require.Len(t, outcome.Hits, 1)
	assert.Equal(t, 9, outcome.Hits[0].Page)
	assert.Equal(t, "والكتاب الكتاب", outcome.Hits[0].SourceVariant)
}

func TestEnsureMarked(t *testing.T) {
	assert.Equal(t, "a <mark>b</mark> c", ensureMarked("a <mark>b</mark> c", []string{"c"}))
	assert.Equal(t, "قال <mark>محمد</mark> ثم محمد", ensureMarked("قال محمد ثم محمد", []string{"محمد"}))
	assert.Equal(t, "لا شيء", ensureMarked("لا شيء", []string{"محمد"}))
}

func TestSearch_EndToEndWordMode(t *testing.T) {
	// Given: an in-memory page index where eight pages mention محمد
	store, err := blevestore.NewPageStore("")
	require.NoError(t, err)
	defer store.Close()

	var pages []models.Page
	for i := 1; i <= 8; i++ {
		text := fmt.Sprintf("حدثنا مُحَمَّد بن يعقوب في الباب %d", i)
		if i%2 == 0 {
			text = fmt.Sprintf("قال محمد في المجلس %d", i)
		}
		pages = append(pages, models.Page{BookID: 1, Volume: 1, Page: i, Text: text})
	}
	pages = append(pages, models.Page{BookID: 2, Volume: 1, Page: 1, Text: "باب الطهارة"})
	require.NoError(t, store.IndexPages(context.Background(), pages))

	svc, err := NewTextSearchService(store, 2, time.Second)
	require.NoError(t, err)
	defer svc.Release()

	// When: searching محمد in word mode with limit 5
	outcome, err := svc.Search(context.Background(), "محمد", query.ModeWord, 5)

	// Then: at most five results, each with a marked match
	require.NoError(t, err)
	require.NotEmpty(t, outcome.Hits)
	assert.LessOrEqual(t, len(outcome.Hits), 5)
	for _, h := range outcome.Hits {
		assert.Contains(t, h.Snippet, "<mark>")
		assert.Equal(t, int64(1), h.BookID)
	}
}

func TestSearch_EndToEndBlank(t *testing.T) {
	store, err := blevestore.NewPageStore("")
	require.NoError(t, err)
	defer store.Close()
	svc, err := NewTextSearchService(store, 1, time.Second)
	require.NoError(t, err)
	defer svc.Release()

	outcome, err := svc.Search(context.Background(), "", query.ModeExact, 20)

	require.NoError(t, err)
	assert.Empty(t, outcome.Hits)
}
