// Command upsert streams page embeddings from PostgreSQL into a Vertex AI
// Vector Search index with the UpsertDatapoints API.
//
// Environment variables:
//
//	POSTGRES_URI       PostgreSQL connection string
//	GCP_PROJECT_ID     GCP project (VERTEX_PROJECT_ID is also accepted)
//	VERTEX_LOCATION    region, default us-central1
//	VERTEX_INDEX_ID    index to update
//
// Usage:
//
//	go run ./scripts/upsert
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/maktaba-search-api/internal/logging"
	"github.com/maktaba-search-api/internal/repository/postgres"
	"github.com/maktaba-search-api/internal/repository/vertex"
	"github.com/maktaba-search-api/pkg/schema/db"
)

func main() {
	batchSize := flag.Int("batch-size", 100, "Datapoints per upsert request")
	flag.Parse()

	_ = godotenv.Load()
	logger := logging.Setup(logging.Config{Level: os.Getenv("LOG_LEVEL")})

	projectID := os.Getenv("GCP_PROJECT_ID")
	if projectID == "" {
		projectID = os.Getenv("VERTEX_PROJECT_ID")
	}
	location := os.Getenv("VERTEX_LOCATION")
	if location == "" {
		location = "us-central1"
	}
	indexID := os.Getenv("VERTEX_INDEX_ID")
	if projectID == "" || indexID == "" {
		logger.Error("missing_configuration", slog.String("required", "GCP_PROJECT_ID and VERTEX_INDEX_ID"))
		os.Exit(1)
	}

	ctx := context.Background()
	if err := db.InitPostgres(ctx); err != nil {
		logger.Error("postgres_unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.ClosePostgres()

	upserter, err := vertex.NewIndexUpserter(ctx, projectID, location, indexID)
	if err != nil {
		logger.Error("index_client_failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer upserter.Close()

	logger.Info("upsert_started", slog.String("index", upserter.IndexName()))

	pages := postgres.NewPageRepository(db.GetPostgres())
	batches := 0
	count, err := vertex.WalkDataPoints(ctx, pages, pages, *batchSize, func(points []vertex.DataPoint) error {
		if err := upserter.Upsert(ctx, points); err != nil {
			return err
		}
		batches++
		logger.Info("upsert_batch_complete", slog.Int("batch", batches), slog.Int("datapoints", len(points)))
		return nil
	})
	if err != nil {
		logger.Error("upsert_failed", slog.Int("upserted", count), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("upsert_complete", slog.Int("upserted", count), slog.Int("batches", batches))
}
