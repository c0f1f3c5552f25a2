package config

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds configuration for database and embedding operations
type Config struct {
	// PostgreSQL
	PostgresURI string

	// Embeddings
	EmbeddingProvider   string // "vertex", "custom", "openai" or "none"
	EmbeddingServiceURL string // For custom provider
	EmbeddingDimensions int
	EmbeddingTimeout    time.Duration

	// Retries for rate-limited or unavailable providers
	EmbeddingMaxRetries       int
	EmbeddingRetryBaseDelay   time.Duration
	EmbeddingCacheSize        int
	EmbeddingCacheDir         string // persistent cache; empty keeps the cache in memory only
	EmbeddingQueryInstruction string

	// Vertex AI (when EmbeddingProvider = "vertex")
	GCPProjectID string
	GCPLocation  string
	VertexModel  string

	// OpenAI-compatible endpoint (when EmbeddingProvider = "openai")
	OpenAIBaseURL        string
	OpenAIAPIKey         string
	OpenAIEmbeddingModel string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton configuration instance
func GetConfig() *Config {
	once.Do(func() {
		config = loadConfig()
	})
	return config
}

func loadConfig() *Config {
	return &Config{
		// PostgreSQL
		PostgresURI: getEnv("POSTGRES_URI", ""),

		// Embeddings
		EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "none"),
		EmbeddingServiceURL: getEnv("EMBEDDING_SERVICE_URL", "http://localhost:8001"),
		EmbeddingDimensions: getEnvInt("EMBEDDING_DIMENSIONS", 768),
		EmbeddingTimeout:    getEnvDuration("EMBEDDING_TIMEOUT", 10*time.Second),

		EmbeddingMaxRetries:       getEnvInt("EMBEDDING_MAX_RETRIES", 3),
		EmbeddingRetryBaseDelay:   getEnvDuration("EMBEDDING_RETRY_BASE_DELAY", 250*time.Millisecond),
		EmbeddingCacheSize:        getEnvInt("EMBEDDING_CACHE_SIZE", 1024),
		EmbeddingCacheDir:         getEnv("EMBEDDING_CACHE_DIR", ""),
		EmbeddingQueryInstruction: getEnv("EMBEDDING_QUERY_INSTRUCTION", "Represent the question for retrieving relevant passages: "),

		// Vertex AI
		GCPProjectID: getEnv("GCP_PROJECT_ID", ""),
		GCPLocation:  getEnv("GCP_LOCATION", "us-central1"),
		VertexModel:  getEnv("VERTEX_MODEL", "text-multilingual-embedding-002"),

		// OpenAI-compatible
		OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", "http://localhost:11434/v1"),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", "none"),
		OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "nomic-embed-text"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return i
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return d
	}
	return defaultValue
}
