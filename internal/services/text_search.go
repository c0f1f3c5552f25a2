package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/maktaba-search-api/internal/arabic"
	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/query"
	"github.com/maktaba-search-api/internal/repository"
	"github.com/panjf2000/ants/v2"
)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// SearchOutcome is the merged result of one full-text search
type SearchOutcome struct {
	Hits           []models.SearchHit
	Variants       []string
	Transliterated bool
	Mode           query.Mode
}

// TextSearchService resolves a raw query into variants, runs each variant
// against the page store and merges the hits
type TextSearchService struct {
	store          repository.PageStore
	pool           *ants.Pool
	variantTimeout time.Duration
	logger         *slog.Logger
}

// NewTextSearchService creates a service running at most poolSize variant
// queries at once, each bounded by variantTimeout
func NewTextSearchService(store repository.PageStore, poolSize int, variantTimeout time.Duration) (*TextSearchService, error) {
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("create variant pool: %w", err)
	}
	return &TextSearchService{
		store:          store,
		pool:           pool,
		variantTimeout: variantTimeout,
		logger:         slog.Default().With("component", "text-search"),
	}, nil
}

// Release stops the worker pool
func (s *TextSearchService) Release() {
	s.pool.Release()
}

// Search runs rawQuery in mode and returns at most limit unique hits. A
// blank query returns an empty outcome without touching the store. Variant
// failures are logged and skipped
func (s *TextSearchService) Search(ctx context.Context, rawQuery string, mode query.Mode, limit int) (*SearchOutcome, error) {
	outcome := &SearchOutcome{Hits: []models.SearchHit{}, Variants: []string{}, Mode: mode}
	rawQuery = strings.TrimSpace(rawQuery)
	if rawQuery == "" || limit <= 0 {
		return outcome, nil
	}

	variants, transliterated := BuildVariants(rawQuery, mode)
	outcome.Transliterated = transliterated
	for _, v := range variants {
		outcome.Variants = append(outcome.Variants, v.String())
	}
	if len(variants) == 0 {
		return outcome, nil
	}

	start := time.Now()
	perVariant := s.runVariants(ctx, variants, mode, limit)
	outcome.Hits = mergeHits(perVariant, outcome.Variants, limit)

	s.logger.Debug("text_search_complete",
		slog.String("query", rawQuery),
		slog.String("mode", string(mode)),
		slog.Int("variants", len(variants)),
		slog.Int("hits", len(outcome.Hits)),
		slog.Duration("duration", time.Since(start)))

	return outcome, nil
}

// BuildVariants turns a raw query into normalized token variants. Latin
// input is transliterated; Arabic input is normalized and, in exact and word
// modes, paired with its plural verb-ending alternation. Word mode also gains
// one variant holding every prefix/suffix-stripped form of every token
func BuildVariants(rawQuery string, mode query.Mode) ([]arabic.QueryVariant, bool) {
	if arabic.IsLatin(rawQuery) {
		return arabic.Transliterate(rawQuery), true
	}

	tokens := arabic.Tokens(rawQuery)
	if len(tokens) == 0 {
		return nil, false
	}
	variants := []arabic.QueryVariant{tokens}
	if mode == query.ModeRoot {
		return variants, false
	}

	alt := make(arabic.QueryVariant, len(tokens))
	changed := false
	for i, t := range tokens {
		alt[i] = arabic.AlternateVerbEnding(t)
		changed = changed || alt[i] != t
	}
	if changed {
		variants = append(variants, alt)
	}
	if mode == query.ModeWord {
		if expanded := expandTokens(tokens); len(expanded) > len(tokens) {
			variants = append(variants, expanded)
		}
	}
	return variants, false
}

// expandTokens returns the tokens followed by their root-expanded forms,
// each form once
func expandTokens(tokens []string) arabic.QueryVariant {
	seen := make(map[string]struct{}, len(tokens)*4)
	out := make(arabic.QueryVariant, 0, len(tokens)*4)
	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, t := range tokens {
		add(t)
	}
	for _, t := range tokens {
		for _, f := range arabic.ExpandRoot(t) {
			add(f)
		}
	}
	return out
}

// runVariants fans variants out on the pool. results[i] holds variant i's
// hits, or nil when it failed or never started
func (s *TextSearchService) runVariants(ctx context.Context, variants []arabic.QueryVariant, mode query.Mode, limit int) [][]models.SearchHit {
	results := make([][]models.SearchHit, len(variants))
	var wg sync.WaitGroup

	for i, v := range variants {
		engineQuery := query.Build(v, mode)
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			results[i] = s.runVariant(ctx, engineQuery, limit)
		})
		if err != nil {
			wg.Done()
			s.logger.Warn("variant_submit_failed",
				slog.String("engine_query", engineQuery),
				slog.String("error", err.Error()))
		}
	}

	wg.Wait()
	return results
}

func (s *TextSearchService) runVariant(ctx context.Context, engineQuery string, limit int) []models.SearchHit {
	// No new variant starts once the caller has given up
	if err := ctx.Err(); err != nil {
		s.logger.Debug("variant_skipped", slog.String("engine_query", engineQuery), slog.String("reason", err.Error()))
		return nil
	}

	vctx := ctx
	if s.variantTimeout > 0 {
		var cancel context.CancelFunc
		vctx, cancel = context.WithTimeout(ctx, s.variantTimeout)
		defer cancel()
	}

	hits, err := s.store.FullTextMatch(vctx, engineQuery, limit)
	if err != nil {
		s.logger.Warn("variant_failed",
			slog.String("engine_query", engineQuery),
			slog.String("error", err.Error()))
		return nil
	}
	return hits
}

// mergeHits concatenates per-variant hits in variant order, keeping the
// first occurrence of each (book, volume, page) and its snippet
func mergeHits(perVariant [][]models.SearchHit, variants []string, limit int) []models.SearchHit {
	seen := make(map[models.HitKey]struct{})
	merged := make([]models.SearchHit, 0, limit)

	for i, hits := range perVariant {
		for _, h := range hits {
			if _, dup := seen[h.Key()]; dup {
				continue
			}
			seen[h.Key()] = struct{}{}
			h.SourceVariant = variants[i]
			h.Snippet = ensureMarked(h.Snippet, strings.Fields(variants[i]))
			merged = append(merged, h)
			if len(merged) == limit {
				return merged
			}
		}
	}
	return merged
}

// ensureMarked wraps the first occurrence of any token in snippet when the
// store returned no highlight
func ensureMarked(snippet string, tokens []string) string {
	if strings.Contains(snippet, markOpen) {
		return snippet
	}

	best, bestTok := -1, ""
	for _, t := range tokens {
		if i := strings.Index(snippet, t); i >= 0 && (best < 0 || i < best) {
			best, bestTok = i, t
		}
	}
	if best < 0 {
		return snippet
	}
	return snippet[:best] + markOpen + bestTok + markClose + snippet[best+len(bestTok):]
}
