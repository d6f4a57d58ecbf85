// Command ragd wires the retrieval core together: configuration, store
// backends, embedding service, the retrieval components, and the
// coordinator. The HTTP front end and the ingestion pipeline live in
// separate services and talk to the coordinator's interfaces.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/config"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/coordinator"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/embedding"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/graphnav"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/mapping"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/retrieval"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage/memory"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage/neo4j"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage/postgres"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage/sqlite"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	graphStore, vectorStore, mappingStore, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open stores: %v", err)
	}
	defer func() {
		_ = mappingStore.Close()
		_ = vectorStore.Close()
		_ = graphStore.Close(context.Background())
	}()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		log.Fatalf("Failed to build embedding service: %v", err)
	}

	engine := retrieval.NewEngine(vectorStore, embedder, retrieval.Options{})
	navigator := graphnav.NewNavigator(graphStore, graphnav.Options{
		MaxPaths: cfg.Coordinator.MaxPaths,
	})
	mappingSvc, err := mapping.NewService(ctx, mappingStore, graphStore, vectorStore, cfg.Vector.Collection)
	if err != nil {
		log.Fatalf("Failed to build mapping service: %v", err)
	}

	coord := coordinator.New(engine, navigator, mappingSvc, embedder, coordinator.Options{
		MaxResults:     cfg.Coordinator.MaxResults,
		Timeout:        cfg.Coordinator.Timeout,
		TraversalDepth: cfg.Coordinator.TraversalDepth,
		SemanticWeight: cfg.Coordinator.SemanticWeight,
		MaxRetries:     cfg.Coordinator.MaxRetries,
		RetryBackoff:   cfg.Coordinator.RetryBackoff,
	})

	for component, status := range coord.Health(ctx) {
		log.Printf("health: %s=%s", component, status)
	}
	log.Printf("ragd ready (engine=%s, collection=%s, model=%s)",
		cfg.Storage.Engine, cfg.Vector.Collection, embedder.Model())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()
}

// openStores builds the three store handles according to the configured
// engine: "memory" needs no external services, "external" connects to
// Neo4j, Postgres, and SQLite.
func openStores(ctx context.Context, cfg *config.Config) (storage.GraphStore, storage.VectorStore, storage.MappingStore, error) {
	if cfg.Storage.Engine == "memory" {
		return memory.NewGraphStore(), memory.NewVectorStore(), memory.NewMappingStore(), nil
	}

	graphStore, err := neo4j.NewGraphStore(ctx, neo4j.Config{
		URI:      cfg.Graph.URI,
		User:     cfg.Graph.User,
		Password: cfg.Graph.Password,
		Database: cfg.Graph.Database,
		Timeout:  cfg.Graph.Timeout,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	vectorStore, err := postgres.NewVectorStore(ctx, postgres.Config{
		DSN:        cfg.Vector.DSN,
		Collection: cfg.Vector.Collection,
	})
	if err != nil {
		_ = graphStore.Close(ctx)
		return nil, nil, nil, err
	}

	mappingStore, err := sqlite.NewMappingStore(cfg.Mapping.Path)
	if err != nil {
		_ = vectorStore.Close()
		_ = graphStore.Close(ctx)
		return nil, nil, nil, err
	}
	return graphStore, vectorStore, mappingStore, nil
}

// buildEmbedder assembles the embedding service for the configured
// provider: a deterministic local generator or an Ollama-compatible HTTP
// model behind a circuit breaker.
func buildEmbedder(cfg *config.Config) (*embedding.Service, error) {
	var gen embedding.Generator
	switch cfg.Embedding.Provider {
	case "ollama":
		gen = embedding.NewOllamaClient(embedding.OllamaConfig{
			BaseURL: cfg.Embedding.OllamaURL,
			Model:   cfg.Embedding.Model,
		})
	default:
		gen = embedding.NewLocalGenerator(cfg.Embedding.Dimension)
	}
	return embedding.NewService(gen, embedding.ServiceOptions{
		CacheSize: cfg.Embedding.CacheSize,
		RateLimit: cfg.Embedding.RateLimit,
	})
}
