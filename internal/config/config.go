package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// API Settings
	APITitle   string
	APIVersion string
	APIPrefix  string
	Port       string

	// CORS
	CORSOrigins []string

	// Full-text page store: "bleve" or "sqlite"
	PageStore  string
	SQLitePath string
	BlevePath  string // empty keeps the bleve index in memory

	// Full-text search
	SearchVariantTimeout time.Duration
	SearchPoolSize       int

	// Vector Search Backend: exact-local, sampled-remote, managed-index, pgvector, hnsw or none
	VectorBackend          string
	VectorWorkingSet       int
	VectorBatchSize        int
	VectorSampleWindows    int
	VectorSampleWindowSize int
	VectorEstimatedCorpus  int
	HNSWM                  int
	HNSWEfSearch           int
	TopicSearchTimeout     time.Duration

	// Vertex AI Vector Search settings (used when VectorBackend = "managed-index")
	VertexProjectID            string
	VertexLocation             string
	VertexIndexEndpointID      string
	VertexDeployedIndexID      string
	VertexPublicEndpointDomain string

	// Link targets
	QuranBaseURL string
	ShareBaseURL string

	// Logging
	LogLevel  string
	LogFormat string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton configuration instance. When CONFIG_FILE
// names a YAML file its keys fill in environment variables that are unset,
// so the environment always wins over the file
func GetConfig() *Config {
	once.Do(func() {
		if path := os.Getenv("CONFIG_FILE"); path != "" {
			if err := ApplyFile(path); err != nil {
				slog.Warn("config_file_ignored", slog.String("path", path), slog.String("error", err.Error()))
			}
		}
		config = loadConfig()
	})
	return config
}

// ApplyFile reads a flat YAML map of environment keys and sets every key
// that is not already present in the environment
func ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	for key, value := range values {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

func loadConfig() *Config {
	return &Config{
		APITitle:    getEnv("API_TITLE", "Maktaba Search API"),
		APIVersion:  getEnv("API_VERSION", "1.0.0"),
		APIPrefix:   getEnv("API_PREFIX", "/api/v1"),
		Port:        getEnv("PORT", "8081"),
		CORSOrigins: parseCORSOrigins(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),

		PageStore:  strings.ToLower(getEnv("PAGE_STORE", "bleve")),
		SQLitePath: getEnv("SQLITE_PATH", "data/maktaba.db"),
		BlevePath:  getEnv("BLEVE_PATH", ""),

		SearchVariantTimeout: getEnvDuration("SEARCH_VARIANT_TIMEOUT", 5*time.Second),
		SearchPoolSize:       getEnvInt("SEARCH_POOL_SIZE", 8),

		// Vector search backend configuration
		VectorBackend:          getEnv("VECTOR_BACKEND", "none"),
		VectorWorkingSet:       getEnvInt("VECTOR_WORKING_SET", 20000),
		VectorBatchSize:        getEnvInt("VECTOR_BATCH_SIZE", 1000),
		VectorSampleWindows:    getEnvInt("VECTOR_SAMPLE_WINDOWS", 3),
		VectorSampleWindowSize: getEnvInt("VECTOR_SAMPLE_WINDOW_SIZE", 2000),
		VectorEstimatedCorpus:  getEnvInt("VECTOR_ESTIMATED_CORPUS", 100000),
		HNSWM:                  getEnvInt("HNSW_M", 16),
		HNSWEfSearch:           getEnvInt("HNSW_EF_SEARCH", 20),
		TopicSearchTimeout:     getEnvDuration("TOPIC_SEARCH_TIMEOUT", 15*time.Second),

		// Vertex AI settings
		VertexProjectID:            getEnv("VERTEX_PROJECT_ID", ""),
		VertexLocation:             getEnv("VERTEX_LOCATION", "us-central1"),
		VertexIndexEndpointID:      getEnv("VERTEX_INDEX_ENDPOINT_ID", ""),
		VertexDeployedIndexID:      getEnv("VERTEX_DEPLOYED_INDEX_ID", ""),
		VertexPublicEndpointDomain: getEnv("VERTEX_PUBLIC_ENDPOINT_DOMAIN", ""),

		QuranBaseURL: getEnv("QURAN_BASE_URL", "https://quran.com"),
		ShareBaseURL: getEnv("SHARE_BASE_URL", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
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

func parseCORSOrigins(value string) []string {
	var origins []string
	if err := json.Unmarshal([]byte(value), &origins); err == nil {
		return origins
	}
	parts := strings.Split(value, ",")
	origins = make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
