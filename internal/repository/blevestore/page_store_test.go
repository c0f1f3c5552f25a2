package blevestore

import (
	"context"
	"testing"

	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *PageStore {
	t.Helper()
	store, err := NewPageStore("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	err = store.IndexPages(context.Background(), []models.Page{
		{BookID: 1, Volume: 1, Page: 1, Text: "بِسْمِ اللَّهِ الرَّحْمَنِ الرَّحِيمِ"},
		{BookID: 1, Volume: 1, Page: 2, Text: "الله بسم"},
		{BookID: 2, Volume: 3, Page: 7, Text: "ذهبت إلى مكتبة المدينة"},
		{BookID: 3, Volume: 1, Page: 9, Text: "قال الرجل كلاما حسنا"},
	})
	require.NoError(t, err)
	return store
}

func keys(hits []models.SearchHit) []models.HitKey {
	out := make([]models.HitKey, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Key())
	}
	return out
}

func TestFullTextMatch_ExactRespectsWordOrder(t *testing.T) {
	// Given: a page with the phrase and a page with the words reversed
	store := newTestStore(t)

	// When: searching the exact phrase
	hits, err := store.FullTextMatch(context.Background(), query.Build([]string{"بسم", "الله"}, query.ModeExact), 10)

	// Then: only the ordered page matches, diacritics notwithstanding
	require.NoError(t, err)
	assert.Equal(t, []models.HitKey{{BookID: 1, Volume: 1, Page: 1}}, keys(hits))
	assert.Contains(t, hits[0].Snippet, "<mark>")
}

func TestFullTextMatch_WordMatchesEitherToken(t *testing.T) {
	store := newTestStore(t)

	hits, err := store.FullTextMatch(context.Background(), query.Build([]string{"بسم", "الله"}, query.ModeWord), 10)

	require.NoError(t, err)
	assert.ElementsMatch(t, []models.HitKey{
		{BookID: 1, Volume: 1, Page: 1},
		{BookID: 1, Volume: 1, Page: 2},
	}, keys(hits))
}

func TestFullTextMatch_RootReachesDerivedForm(t *testing.T) {
	// Given: a page containing مكتبة but not كتب
	store := newTestStore(t)

	// When: searching the root كتب in root mode
	hits, err := store.FullTextMatch(context.Background(), query.Build([]string{"كتب"}, query.ModeRoot), 10)

	// Then: the page is found
	require.NoError(t, err)
	assert.Equal(t, []models.HitKey{{BookID: 2, Volume: 3, Page: 7}}, keys(hits))
}

func TestFullTextMatch_NormalizesQueryVariants(t *testing.T) {
	store := newTestStore(t)

	// مكتبة with teh marbuta and مكتبه with heh fold to the same term
	hits, err := store.FullTextMatch(context.Background(), `"مكتبه"`, 10)

	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestFullTextMatch_Limit(t *testing.T) {
	store := newTestStore(t)

	hits, err := store.FullTextMatch(context.Background(), query.Build([]string{"بسم", "الله"}, query.ModeWord), 1)

	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestFullTextMatch_BlankAndMalformed(t *testing.T) {
	store := newTestStore(t)

	hits, err := store.FullTextMatch(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = store.FullTextMatch(context.Background(), `"بسم`, 10)
	assert.Error(t, err)
}

func TestIndexPages_ReplacesSamePage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.IndexPages(ctx, []models.Page{{BookID: 3, Volume: 1, Page: 9, Text: "نص جديد"}}))

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)

	hits, err := store.FullTextMatch(ctx, `"الرجل"`, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestParseDocID(t *testing.T) {
	b, v, p, err := parseDocID(docID(12, 3, 45))
	require.NoError(t, err)
	assert.Equal(t, int64(12), b)
	assert.Equal(t, 3, v)
	assert.Equal(t, 45, p)

	_, _, _, err = parseDocID("12-3-45")
	assert.Error(t, err)
}
