package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/maktaba-search-api/pkg/schema/db"
)

// readinessTimeout bounds the store calls a readiness probe may make
const readinessTimeout = 5 * time.Second

// ReadinessChecker reports why a dependent feature cannot serve requests
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	topic ReadinessChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(topic ReadinessChecker) *HealthHandler {
	return &HealthHandler{topic: topic}
}

// HealthResponse is the response for basic health check
type HealthResponse struct {
	Status string `json:"status"`
}

// DatabaseHealthResponse is the response for database health check
type DatabaseHealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// TopicHealthResponse is the response for the topic search health check
type TopicHealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// PostgresHealth handles GET /health/postgres
func (h *HealthHandler) PostgresHealth(c echo.Context) error {
	if !db.PostgresEnabled() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_configured",
			"error":  "PostgreSQL is not configured",
		})
	}

	pgDB := db.GetPostgres()
	if pgDB == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"error":  "PostgreSQL connection not available",
		})
	}

	if err := pgDB.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, DatabaseHealthResponse{
		Status:   "connected",
		Database: "postgres",
	})
}

// TopicHealth handles GET /health/topic-search
func (h *HealthHandler) TopicHealth(c echo.Context) error {
	if h.topic == nil {
		return c.JSON(http.StatusServiceUnavailable, TopicHealthResponse{Status: "not_configured"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()
	if err := h.topic.Ready(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, TopicHealthResponse{Status: "unavailable", Error: err.Error()})
	}
	return c.JSON(http.StatusOK, TopicHealthResponse{Status: "ready"})
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Health)
	g.GET("/health/postgres", h.PostgresHealth)
	g.GET("/health/topic-search", h.TopicHealth)
}
