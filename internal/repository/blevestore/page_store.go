// Package blevestore is a full-text page store backed by a bleve index. It folds
// Arabic orthography at index and query time with the same normalizer the
// query pipeline uses, so engine query strings built from normalized tokens
// match regardless of the page's diacritics or letter variants.
package blevestore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
	"github.com/blevesearch/bleve/v2/search/highlight/highlighter/html"
	bq "github.com/blevesearch/bleve/v2/search/query"
	"github.com/maktaba-search-api/internal/arabic"
	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/query"
	"github.com/maktaba-search-api/internal/repository"
)

const (
	// NormalizeFilterName is the token filter that applies arabic.Normalize
	NormalizeFilterName = "normalize_maktaba"

	// AnalyzerName is the analyzer used for page text
	AnalyzerName = "maktaba_arabic"

	textField = "text"

	// fallbackSnippetRunes bounds the snippet when the highlighter yields nothing
	fallbackSnippetRunes = 160
)

func init() {
	_ = registry.RegisterTokenFilter(NormalizeFilterName, normalizeFilterConstructor)
}

var (
	_ repository.PageStore   = (*PageStore)(nil)
	_ repository.PageIndexer = (*PageStore)(nil)
)

// PageStore wraps a bleve index of corpus pages
type PageStore struct {
	mu     sync.RWMutex
	index  bleve.Index
	closed bool
}

// pageDocument is the indexed form of a page. Identity lives in the doc id
type pageDocument struct {
	Text string `json:"text"`
}

// NewPageStore opens the index at path, creating it when missing.
// An empty path creates an in-memory index
func NewPageStore(path string) (*PageStore, error) {
	indexMapping, err := createIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("create index mapping: %w", err)
	}

	var idx bleve.Index
	if path == "" {
		idx, err = bleve.NewMemOnly(indexMapping)
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
		idx, err = bleve.Open(path)
		if err == bleve.ErrorIndexPathDoesNotExist {
			slog.Info("page_index_created", slog.String("path", path))
			idx, err = bleve.New(path, indexMapping)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open page index: %w", err)
	}

	return &PageStore{index: idx}, nil
}

func createIndexMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(AnalyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{NormalizeFilterName},
	})
	if err != nil {
		return nil, fmt.Errorf("add custom analyzer: %w", err)
	}

	text := bleve.NewTextFieldMapping()
	text.Analyzer = AnalyzerName
	text.Store = true
	text.IncludeTermVectors = true

	page := bleve.NewDocumentStaticMapping()
	page.AddFieldMappingsAt(textField, text)

	indexMapping.DefaultMapping = page
	indexMapping.DefaultAnalyzer = AnalyzerName
	return indexMapping, nil
}

// IndexPages adds or replaces pages in the index
func (s *PageStore) IndexPages(ctx context.Context, pages []models.Page) error {
	if len(pages) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("page index is closed")
	}

	batch := s.index.NewBatch()
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := batch.Index(docID(p.BookID, p.Volume, p.Page), pageDocument{Text: p.Text}); err != nil {
			return fmt.Errorf("index page %d/%d/%d: %w", p.BookID, p.Volume, p.Page, err)
		}
	}
	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("execute batch: %w", err)
	}
	return nil
}

// FullTextMatch translates an engine query string into bleve queries and
// returns at most limit hits in relevance order with <mark> highlighted snippets
func (s *PageStore) FullTextMatch(ctx context.Context, engineQuery string, limit int) ([]models.SearchHit, error) {
	if strings.TrimSpace(engineQuery) == "" || limit <= 0 {
		return []models.SearchHit{}, nil
	}

	q, err := translate(engineQuery)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("page index is closed")
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{textField}
	req.Highlight = bleve.NewHighlightWithStyle(html.Name)
	req.Highlight.AddField(textField)

	result, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}

	hits := make([]models.SearchHit, 0, len(result.Hits))
	for _, h := range result.Hits {
		bookID, volume, page, err := parseDocID(h.ID)
		if err != nil {
			slog.Warn("page_index_bad_doc_id", slog.String("id", h.ID))
			continue
		}
		snippet := strings.Join(h.Fragments[textField], " … ")
		if snippet == "" {
			text, _ := h.Fields[textField].(string)
			snippet = truncateRunes(text, fallbackSnippetRunes)
		}
		hits = append(hits, models.SearchHit{
			BookID:  bookID,
			Volume:  volume,
			Page:    page,
			Snippet: snippet,
		})
	}
	return hits, nil
}

// Count returns the number of indexed pages
func (s *PageStore) Count() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Close closes the index
func (s *PageStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.index.Close()
}

// translate maps each OR-joined unit onto a bleve query. Phrases keep word
// order; a prefix unit with several words requires the leading words as a
// phrase and the last word as a term prefix
func translate(engineQuery string) (bq.Query, error) {
	units, err := query.Parse(engineQuery)
	if err != nil {
		return nil, fmt.Errorf("parse engine query: %w", err)
	}
	if len(units) == 0 {
		return bleve.NewMatchNoneQuery(), nil
	}

	alternatives := make([]bq.Query, 0, len(units))
	for _, u := range units {
		alternatives = append(alternatives, unitQuery(u))
	}
	if len(alternatives) == 1 {
		return alternatives[0], nil
	}
	return bleve.NewDisjunctionQuery(alternatives...), nil
}

func unitQuery(u query.Unit) bq.Query {
	if !u.Prefix {
		mq := bleve.NewMatchPhraseQuery(u.Text)
		mq.SetField(textField)
		return mq
	}

	words := strings.Fields(u.Text)
	last := arabic.Normalize(words[len(words)-1])
	pq := bleve.NewPrefixQuery(last)
	pq.SetField(textField)
	if len(words) == 1 {
		return pq
	}

	lead := bleve.NewMatchPhraseQuery(strings.Join(words[:len(words)-1], " "))
	lead.SetField(textField)
	return bleve.NewConjunctionQuery(lead, pq)
}

func docID(bookID int64, volume, page int) string {
	return fmt.Sprintf("%d/%d/%d", bookID, volume, page)
}

func parseDocID(id string) (int64, int, int, error) {
	parts := strings.Split(id, "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("malformed doc id %q", id)
	}
	bookID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse book id: %w", err)
	}
	volume, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse volume: %w", err)
	}
	page, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse page: %w", err)
	}
	return bookID, volume, page, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

func normalizeFilterConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.TokenFilter, error) {
	return &normalizeFilter{}, nil
}

// normalizeFilter folds every token through arabic.Normalize
type normalizeFilter struct{}

// Filter implements analysis.TokenFilter
func (f *normalizeFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	result := make(analysis.TokenStream, 0, len(input))
	for _, token := range input {
		term := arabic.Normalize(string(token.Term))
		if term == "" {
			continue
		}
		token.Term = []byte(term)
		result = append(result, token)
	}
	return result
}
