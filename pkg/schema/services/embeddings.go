package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/maktaba-search-api/pkg/schema/config"
)

// EmbeddingsService handles text embedding operations using a pluggable backend
type EmbeddingsService struct {
	embedder Embedder
	timeout  time.Duration
	closers  []func() error
}

var (
	embeddingsService *EmbeddingsService
	embeddingsOnce    sync.Once
	initErr           error
)

// NewEmbeddingsService wraps an embedder. A zero timeout disables the per-call deadline
func NewEmbeddingsService(embedder Embedder, timeout time.Duration) *EmbeddingsService {
	return &EmbeddingsService{embedder: embedder, timeout: timeout}
}

// GetEmbeddingsService returns the singleton embeddings service, or nil when
// the provider is "none" or failed to initialize (see GetInitError)
func GetEmbeddingsService() *EmbeddingsService {
	embeddingsOnce.Do(func() {
		embeddingsService, initErr = newFromConfig(context.Background(), config.GetConfig())
	})
	return embeddingsService
}

func newFromConfig(ctx context.Context, cfg *config.Config) (*EmbeddingsService, error) {
	var (
		embedder Embedder
		closers  []func() error
	)

	switch strings.ToLower(cfg.EmbeddingProvider) {
	case "vertex":
		v, err := NewVertexEmbedder(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create Vertex AI embedder: %w", err)
		}
		embedder = v
		closers = append(closers, v.Close)
	case "openai":
		o, err := NewOpenAIEmbedder(cfg)
		if err != nil {
			return nil, fmt.Errorf("create OpenAI embedder: %w", err)
		}
		embedder = o
	case "custom":
		embedder = NewCustomEmbedder(cfg)
	case "none", "":
		return nil, ErrProviderDisabled
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}

	embedder = WithRetry(embedder, cfg.EmbeddingMaxRetries, cfg.EmbeddingRetryBaseDelay)

	cached, err := NewCachedEmbedder(embedder, cfg.EmbeddingCacheSize, cfg.EmbeddingCacheDir)
	if err != nil {
		return nil, err
	}
	closers = append(closers, cached.Close)

	svc := NewEmbeddingsService(cached, cfg.EmbeddingTimeout)
	svc.closers = closers
	return svc, nil
}

// GetInitError returns any error that occurred during initialization
func GetInitError() error {
	return initErr
}

// Close releases provider clients and caches
func (s *EmbeddingsService) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// EmbedQuery embeds a query for retrieval
func (s *EmbeddingsService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.embedder.Embed(ctx, query, TaskTypeQuery)
}

// EmbedPage embeds page text as a document for retrieval
func (s *EmbeddingsService) EmbedPage(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.embedder.Embed(ctx, text, TaskTypeDocument)
}

func (s *EmbeddingsService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
