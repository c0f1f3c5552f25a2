package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/query"
	"github.com/maktaba-search-api/internal/services"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 500
	defaultTopicLimit  = 10
	maxTopicLimit      = 100
	topicMode          = "topic"
)

// TextSearcher runs full-text searches
type TextSearcher interface {
	Search(ctx context.Context, rawQuery string, mode query.Mode, limit int) (*services.SearchOutcome, error)
}

// TopicSearcher runs semantic searches over page embeddings
type TopicSearcher interface {
	SearchPages(ctx context.Context, query string, limit int) ([]models.ScoredPage, error)
}

// SearchHandler handles search endpoints
type SearchHandler struct {
	text    TextSearcher
	topic   TopicSearcher
	results *services.ResultBuilder
	logger  *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(text TextSearcher, topic TopicSearcher, results *services.ResultBuilder) *SearchHandler {
	return &SearchHandler{
		text:    text,
		topic:   topic,
		results: results,
		logger:  slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /search - full-text search in exact, word or root mode
func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	q := strings.TrimSpace(c.QueryParam("q"))
	limit := parseLimit(c.QueryParam("limit"), defaultSearchLimit, maxSearchLimit)

	mode, ok := query.ParseMode(c.QueryParam("mode"))
	if !ok {
		mode = query.ModeExact
	}

	if q == "" {
		return c.JSON(http.StatusOK, emptyResponse(q, string(mode)))
	}

	outcome, err := h.text.Search(ctx, q, mode, limit)
	if err != nil {
		h.logger.Error("text_search_failed", slog.String("query", q), slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
	}

	results := h.results.FromHits(ctx, outcome.Hits)
	return c.JSON(http.StatusOK, models.SearchResponse{
		Query:          q,
		Total:          len(results),
		Results:        results,
		Mode:           string(outcome.Mode),
		Transliterated: outcome.Transliterated,
		SearchTerms:    outcome.Variants,
	})
}

// TopicSearch handles GET /topic-search - semantic search over page embeddings
func (h *SearchHandler) TopicSearch(c echo.Context) error {
	ctx := c.Request().Context()
	q := strings.TrimSpace(c.QueryParam("q"))
	limit := parseLimit(c.QueryParam("limit"), defaultTopicLimit, maxTopicLimit)

	if q == "" {
		return c.JSON(http.StatusOK, emptyResponse(q, topicMode))
	}

	pages, err := h.topic.SearchPages(ctx, q, limit)
	if err != nil {
		return h.topicError(c, q, err)
	}

	results := h.results.FromScoredPages(ctx, pages)
	return c.JSON(http.StatusOK, models.SearchResponse{
		Query:   q,
		Total:   len(results),
		Results: results,
		Mode:    topicMode,
	})
}

// topicError maps unavailability to 503 with its own message and any other
// failure to 502
func (h *SearchHandler) topicError(c echo.Context, q string, err error) error {
	switch {
	case errors.Is(err, services.ErrEmbeddingUnavailable),
		errors.Is(err, services.ErrVectorBackendUnavailable),
		errors.Is(err, services.ErrPageLookupUnavailable),
		errors.Is(err, services.ErrIndexNotPopulated):
		return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: err.Error()})
	}
	h.logger.Error("topic_search_failed", slog.String("query", q), slog.String("error", err.Error()))
	return c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "Topic search failed"})
}

// RegisterRoutes registers search routes
func (h *SearchHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
	g.GET("/topic-search", h.TopicSearch)
}

func emptyResponse(q, mode string) models.SearchResponse {
	return models.SearchResponse{
		Query:   q,
		Total:   0,
		Results: []models.SearchResult{},
		Mode:    mode,
	}
}

// parseLimit returns def for a missing or non-positive limit and clamps to max
func parseLimit(raw string, def, max int) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
