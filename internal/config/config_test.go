package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"RAG_STORAGE_ENGINE", "RAG_NEO4J_URI", "RAG_COLLECTION",
		"RAG_EMBEDDING_PROVIDER", "RAG_SEMANTIC_WEIGHT", "RAG_REQUEST_TIMEOUT",
	} {
		_ = os.Unsetenv(key)
	}

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Engine,
		"Default engine must be the embedded memory backend")
	assert.Equal(t, "bolt://localhost:7687", cfg.Graph.URI)
	assert.Equal(t, "documents", cfg.Vector.Collection)
	assert.Equal(t, "local", cfg.Embedding.Provider)
	assert.Equal(t, 1000, cfg.Embedding.CacheSize)
	assert.Equal(t, 0.7, cfg.Coordinator.SemanticWeight)
	assert.Equal(t, 30*time.Second, cfg.Coordinator.Timeout)
	assert.Equal(t, 2, cfg.Coordinator.MaxRetries)
}

func TestLoadConfig_CanOverrideEngine(t *testing.T) {
	t.Setenv("RAG_STORAGE_ENGINE", "external")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "external", cfg.Storage.Engine)
}

func TestLoadConfig_ParsesTypedValues(t *testing.T) {
	t.Setenv("RAG_EMBEDDING_CACHE_SIZE", "250")
	t.Setenv("RAG_SEMANTIC_WEIGHT", "0.9")
	t.Setenv("RAG_REQUEST_TIMEOUT", "5s")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Embedding.CacheSize)
	assert.Equal(t, 0.9, cfg.Coordinator.SemanticWeight)
	assert.Equal(t, 5*time.Second, cfg.Coordinator.Timeout)
}

func TestLoadConfig_MalformedValueFallsBackToDefault(t *testing.T) {
	t.Setenv("RAG_EMBEDDING_CACHE_SIZE", "not-a-number")
	t.Setenv("RAG_REQUEST_TIMEOUT", "soonish")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Embedding.CacheSize)
	assert.Equal(t, 30*time.Second, cfg.Coordinator.Timeout)
}
