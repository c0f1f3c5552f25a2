package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maktaba-search-api/pkg/schema/config"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIEmbedder implements Embedder against any OpenAI-compatible embeddings endpoint
type OpenAIEmbedder struct {
	embedder embeddings.Embedder
	cfg      *config.Config
	logger   *slog.Logger
}

// NewOpenAIEmbedder creates an embedder for OPENAI_BASE_URL and OPENAI_EMBEDDING_MODEL
func NewOpenAIEmbedder(cfg *config.Config) (*OpenAIEmbedder, error) {
	client, err := openai.New(
		openai.WithBaseURL(cfg.OpenAIBaseURL),
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithEmbeddingModel(cfg.OpenAIEmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("create openai embedder: %w", err)
	}

	return &OpenAIEmbedder{
		embedder: embedder,
		cfg:      cfg,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// Embed generates an embedding for a single text. Queries are prefixed with
// the configured query instruction
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string, taskType TaskType) ([]float32, error) {
	if taskType == TaskTypeQuery {
		vec, err := e.embedder.EmbedQuery(ctx, e.cfg.EmbeddingQueryInstruction+text)
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		return vec, nil
	}

	vecs, err := e.EmbedBatch(ctx, []string{text}, taskType)
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for multiple texts
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string, _ TaskType) ([][]float32, error) {
	e.logger.Debug("embed_batch", slog.Int("count", len(texts)))

	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	return vecs, nil
}
