package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/maktaba-search-api/internal/app"
	"github.com/maktaba-search-api/internal/config"
	"github.com/maktaba-search-api/internal/handlers"
	"github.com/maktaba-search-api/internal/logging"
	"github.com/maktaba-search-api/internal/middleware"
	"github.com/maktaba-search-api/pkg/schema/db"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	// Get configuration
	cfg := config.GetConfig()
	logger := logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Wire stores, backends and services
	ctx := context.Background()
	components, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Error("startup_failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// Create API group with prefix
	api := e.Group(cfg.APIPrefix)

	// Register handlers
	handlers.NewHealthHandler(components.Topic).RegisterRoutes(api)
	handlers.NewSearchHandler(components.Text, components.Topic, components.Results).RegisterRoutes(api)
	handlers.NewLinkHandler(components.Linker).RegisterRoutes(api)

	// Root health check
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"name":    cfg.APITitle,
			"version": cfg.APIVersion,
			"status":  "running",
		})
	})

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info("server_starting",
			slog.String("name", cfg.APITitle),
			slog.String("version", cfg.APIVersion),
			slog.String("addr", addr),
			slog.String("page_store", cfg.PageStore),
			slog.String("vector_backend", cfg.VectorBackend))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server_stopped", slog.String("error", err.Error()))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server_shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", slog.String("error", err.Error()))
	}

	if err := components.Close(); err != nil {
		logger.Error("close_components_failed", slog.String("error", err.Error()))
	}

	if err := db.ClosePostgres(); err != nil {
		logger.Error("close_postgres_failed", slog.String("error", err.Error()))
	}

	logger.Info("server_stopped")
}
