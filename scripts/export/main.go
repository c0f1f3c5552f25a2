// Command export writes page embeddings from PostgreSQL to a JSONL file in
// the batch import format of Vertex AI Vector Search.
//
// Usage:
//
//	go run ./scripts/export -output embeddings.jsonl
//
// Each line looks like:
//
//	{"id": "1042", "embedding": [0.1, 0.2, ...], "restricts": [{"namespace": "book", "allow": ["7"]}]}
//
// Upload the file to Cloud Storage and point the index's contents delta URI
// at its directory.
package main

import (
	"context"
	"encoding/json"
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
	outputFile := flag.String("output", "embeddings.jsonl", "Output JSONL file path")
	batchSize := flag.Int("batch-size", 1000, "Embeddings read per query")
	flag.Parse()

	_ = godotenv.Load()
	logger := logging.Setup(logging.Config{Level: os.Getenv("LOG_LEVEL")})

	ctx := context.Background()
	if err := db.InitPostgres(ctx); err != nil {
		logger.Error("postgres_unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.ClosePostgres()

	f, err := os.Create(*outputFile)
	if err != nil {
		logger.Error("create_output_failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer f.Close()

	logger.Info("export_started", slog.String("output", *outputFile))

	pages := postgres.NewPageRepository(db.GetPostgres())
	encoder := json.NewEncoder(f)
	count, err := vertex.WalkDataPoints(ctx, pages, pages, *batchSize, func(points []vertex.DataPoint) error {
		for _, p := range points {
			if err := encoder.Encode(p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("export_failed", slog.Int("exported", count), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("export_complete", slog.Int("exported", count), slog.String("output", *outputFile))
}
