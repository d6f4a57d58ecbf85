// Package config provides configuration management for the retrieval
// service. It loads settings from environment variables with the RAG_
// prefix and provides sensible defaults for all configuration options.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration settings for the retrieval service.
type Config struct {
	Storage     StorageConfig
	Graph       GraphConfig
	Vector      VectorConfig
	Mapping     MappingConfig
	Embedding   EmbeddingConfig
	Coordinator CoordinatorConfig
}

// StorageConfig selects the backing-store mode.
type StorageConfig struct {
	// Engine selects "memory" (embedded, no external services) or
	// "external" (Neo4j + Postgres + SQLite). Default: memory.
	Engine string
}

// GraphConfig contains Neo4j connection settings.
type GraphConfig struct {
	URI      string        // Bolt URI (default: bolt://localhost:7687)
	User     string        // Auth user (default: neo4j)
	Password string        // Auth password
	Database string        // Target database (default: neo4j)
	Timeout  time.Duration // Per round-trip timeout (default: 10s)
}

// VectorConfig contains Postgres/pgvector connection settings.
type VectorConfig struct {
	DSN        string // lib/pq connection string
	Collection string // Logical chunk collection (default: documents)
	Dimension  int    // Embedding dimension (default: 384)
}

// MappingConfig contains mapping-link persistence settings.
type MappingConfig struct {
	Path string // SQLite database path (default: ./data/mappings.db)
}

// EmbeddingConfig contains embedding model settings.
type EmbeddingConfig struct {
	Provider  string  // Embedding provider: local, ollama (default: local)
	OllamaURL string  // Ollama API URL (default: http://localhost:11434)
	Model     string  // Embedding model name (default: nomic-embed-text)
	Dimension int     // Local generator dimension (default: 384)
	CacheSize int     // LRU cache capacity (default: 1000)
	RateLimit float64 // Model calls per second, 0 disables (default: 0)
}

// CoordinatorConfig contains orchestration settings.
type CoordinatorConfig struct {
	MaxResults     int           // Default result cap (default: 5)
	Timeout        time.Duration // Per-request timeout (default: 30s)
	TraversalDepth int           // Graph traversal hop bound (default: 2)
	MaxPaths       int           // Traversal path cap (default: 50)
	SemanticWeight float64       // Hybrid blend weight (default: 0.7)
	MaxRetries     int           // Transient-failure retries (default: 2)
	RetryBackoff   time.Duration // Initial retry backoff (default: 200ms)
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. All environment variables use the RAG_ prefix.
func LoadConfig() (*Config, error) {
	return &Config{
		Storage: StorageConfig{
			Engine: getEnv("RAG_STORAGE_ENGINE", "memory"),
		},
		Graph: GraphConfig{
			URI:      getEnv("RAG_NEO4J_URI", "bolt://localhost:7687"),
			User:     getEnv("RAG_NEO4J_USER", "neo4j"),
			Password: getEnv("RAG_NEO4J_PASSWORD", ""),
			Database: getEnv("RAG_NEO4J_DATABASE", "neo4j"),
			Timeout:  getEnvDuration("RAG_NEO4J_TIMEOUT", 10*time.Second),
		},
		Vector: VectorConfig{
			DSN:        getEnv("RAG_POSTGRES_DSN", "postgres://localhost/rag?sslmode=disable"),
			Collection: getEnv("RAG_COLLECTION", "documents"),
			Dimension:  getEnvInt("RAG_VECTOR_DIMENSION", 384),
		},
		Mapping: MappingConfig{
			Path: getEnv("RAG_MAPPING_DB_PATH", "./data/mappings.db"),
		},
		Embedding: EmbeddingConfig{
			Provider:  getEnv("RAG_EMBEDDING_PROVIDER", "local"),
			OllamaURL: getEnv("RAG_OLLAMA_URL", "http://localhost:11434"),
			Model:     getEnv("RAG_EMBEDDING_MODEL", "nomic-embed-text"),
			Dimension: getEnvInt("RAG_EMBEDDING_DIMENSION", 384),
			CacheSize: getEnvInt("RAG_EMBEDDING_CACHE_SIZE", 1000),
			RateLimit: getEnvFloat("RAG_EMBEDDING_RATE_LIMIT", 0),
		},
		Coordinator: CoordinatorConfig{
			MaxResults:     getEnvInt("RAG_MAX_RESULTS", 5),
			Timeout:        getEnvDuration("RAG_REQUEST_TIMEOUT", 30*time.Second),
			TraversalDepth: getEnvInt("RAG_TRAVERSAL_DEPTH", 2),
			MaxPaths:       getEnvInt("RAG_MAX_PATHS", 50),
			SemanticWeight: getEnvFloat("RAG_SEMANTIC_WEIGHT", 0.7),
			MaxRetries:     getEnvInt("RAG_MAX_RETRIES", 2),
			RetryBackoff:   getEnvDuration("RAG_RETRY_BACKOFF", 200*time.Millisecond),
		},
	}, nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. If the environment variable exists but cannot be parsed as an
// integer, it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default
// value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable (Go duration
// syntax, e.g. "30s") or returns a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
