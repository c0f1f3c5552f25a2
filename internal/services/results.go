package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/repository"
)

// topicSnippetRunes bounds the snippet of a topic search result
const topicSnippetRunes = 200

// ResultBuilder turns hits and scored pages into API results with work
// titles and share links
type ResultBuilder struct {
	catalog   repository.CatalogStore
	shareBase string
}

// NewResultBuilder creates a builder; a nil catalog leaves titles empty
func NewResultBuilder(catalog repository.CatalogStore, shareBase string) *ResultBuilder {
	return &ResultBuilder{catalog: catalog, shareBase: strings.TrimRight(shareBase, "/")}
}

// ShareURL returns the link to a page
func (b *ResultBuilder) ShareURL(bookID int64, volume, page int) string {
	return fmt.Sprintf("%s/book/%d/%d/%d", b.shareBase, bookID, volume, page)
}

// FromHits builds results for full-text hits in hit order
func (b *ResultBuilder) FromHits(ctx context.Context, hits []models.SearchHit) []models.SearchResult {
	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.BookID)
	}
	titles := b.titles(ctx, ids)

	results := make([]models.SearchResult, 0, len(hits))
	for _, h := range hits {
		t := titles[h.BookID]
		results = append(results, models.SearchResult{
			BookID:      h.BookID,
			BookTitleAr: t.TitleAr,
			BookTitleEn: t.TitleEn,
			Volume:      h.Volume,
			Page:        h.Page,
			Snippet:     h.Snippet,
			ShareURL:    b.ShareURL(h.BookID, h.Volume, h.Page),
		})
	}
	return results
}

// FromScoredPages builds results for topic search in score order
func (b *ResultBuilder) FromScoredPages(ctx context.Context, pages []models.ScoredPage) []models.SearchResult {
	ids := make([]int64, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, p.Page.BookID)
	}
	titles := b.titles(ctx, ids)

	results := make([]models.SearchResult, 0, len(pages))
	for _, sp := range pages {
		p := sp.Page
		t := titles[p.BookID]
		score := sp.Score
		results = append(results, models.SearchResult{
			BookID:      p.BookID,
			BookTitleAr: t.TitleAr,
			BookTitleEn: t.TitleEn,
			Volume:      p.Volume,
			Page:        p.Page,
			Snippet:     truncateRunes(p.Text, topicSnippetRunes),
			ShareURL:    b.ShareURL(p.BookID, p.Volume, p.Page),
			Score:       &score,
		})
	}
	return results
}

// titles resolves work titles; a failure leaves titles empty rather than
// failing the search
func (b *ResultBuilder) titles(ctx context.Context, ids []int64) map[int64]models.WorkTitle {
	if b.catalog == nil || len(ids) == 0 {
		return map[int64]models.WorkTitle{}
	}
	titles, err := b.catalog.ResolveWorkTitles(ctx, uniqueIDs(ids))
	if err != nil {
		slog.Warn("work_titles_unresolved", slog.String("error", err.Error()))
		return map[int64]models.WorkTitle{}
	}
	return titles
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
