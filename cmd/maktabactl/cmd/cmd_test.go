package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maktaba-search-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestNormalizeCmd(t *testing.T) {
	out, err := run(t, "", "normalize", "مَكْتَبَةٌ", "إسلامية")

	require.NoError(t, err)
	assert.Equal(t, "مكتبه اسلاميه\n", out)
}

func TestTranslitCmd(t *testing.T) {
	out, err := run(t, "", "translit", "muhammad")
	require.NoError(t, err)
	assert.Equal(t, "محمد\n", out)

	_, err = run(t, "", "translit", "محمد")
	assert.Error(t, err)
}

func TestLinkCmd_Stdin(t *testing.T) {
	// Given: footnote text on stdin
	// When: linking with json output
	out, err := run(t, "راجع الكافي ج 8 ص 151", "link", "--format", "json")

	// Then: the reference is reported
	require.NoError(t, err)
	var resp struct {
		HTML       string `json:"html"`
		References []struct {
			Kind string `json:"kind"`
			Unit int    `json:"unit"`
		} `json:"references"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.References, 1)
	assert.Equal(t, "catalog", resp.References[0].Kind)
	assert.Equal(t, 151, resp.References[0].Unit)
	assert.Contains(t, resp.HTML, `/book/1/8/151`)
}

func TestIndexThenSearch_SQLite(t *testing.T) {
	// Given: pages and works in JSONL files
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "maktaba.db")
	pagesPath := filepath.Join(dir, "pages.jsonl")
	worksPath := filepath.Join(dir, "works.jsonl")

	var pages bytes.Buffer
	for i, text := range []string{"قال محمد بن يعقوب", "باب العقل والجهل", "حدثنا محمد بن يحيى"} {
		line, _ := json.Marshal(models.Page{ID: int64(i + 1), BookID: 1, Volume: 1, Page: i + 1, Text: text})
		pages.Write(line)
		pages.WriteByte('\n')
	}
	require.NoError(t, os.WriteFile(pagesPath, pages.Bytes(), 0o600))
	require.NoError(t, os.WriteFile(worksPath, []byte(`{"bookId":1,"titleAr":"الكافي","titleEn":"Al-Kafi"}`+"\n"), 0o600))

	store := []string{"--page-store", "sqlite", "--store-path", dbPath}

	// When: indexing
	out, err := run(t, "", append([]string{"index", pagesPath, "--works", worksPath, "--batch-size", "2"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "indexed 3 pages")

	// Then: a word search finds both pages naming the token
	out, err = run(t, "", append([]string{"search", "محمد", "--mode", "word", "--format", "json"}, store...)...)
	require.NoError(t, err)
	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.Total)
	for _, r := range resp.Results {
		assert.Equal(t, "الكافي", r.BookTitleAr)
	}
}

func TestSearchCmd_UnknownMode(t *testing.T) {
	_, err := run(t, "", "search", "x", "--mode", "fuzzy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestReadJSONL(t *testing.T) {
	input := "{\"id\":1}\n\n{\"id\":2}\n{\"id\":3}\n"
	var batches [][]models.Page
	err := readJSONL(strings.NewReader(input), 2, func(b []models.Page) error {
		batches = append(batches, b)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)
	assert.Equal(t, int64(3), batches[1][0].ID)

	err = readJSONL(strings.NewReader("{bad"), 2, func([]models.Page) error { return nil })
	assert.ErrorContains(t, err, "line 1")
}

func TestHighlight(t *testing.T) {
	st := newStyles(&bytes.Buffer{})
	assert.Equal(t, "قال محمد بن", highlight("قال <mark>محمد</mark> بن", st))
}
