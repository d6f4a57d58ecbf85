package coordinator

import (
	"context"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/embedding"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// Stats is the read-only aggregation exposed to admin tooling. Producing
// it mutates nothing.
type Stats struct {
	EntityCount       int                   `json:"entity_count"`
	DocumentCount     int                   `json:"document_count"`
	RelationshipCount int                   `json:"relationship_count"`
	VectorCount       int                   `json:"vector_count"`
	MappingCount      int                   `json:"mapping_count"`
	Integrity         types.IntegrityReport `json:"integrity"`
	EmbeddingCache    embedding.CacheStats  `json:"embedding_cache"`
}

// Stats gathers counts from every component plus a fresh mapping
// integrity report.
func (c *Coordinator) Stats(ctx context.Context) (Stats, error) {
	graphInfo, err := c.navigator.Info(ctx)
	if err != nil {
		return Stats{}, err
	}
	vectorCount, err := c.engine.GetDocumentCount(ctx)
	if err != nil {
		return Stats{}, err
	}
	integrity, err := c.mapping.ValidateMappingIntegrity(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		EntityCount:       graphInfo.EntityCount,
		DocumentCount:     graphInfo.DocumentCount,
		RelationshipCount: graphInfo.RelationshipCount,
		VectorCount:       vectorCount,
		MappingCount:      c.mapping.LinkCount(),
		Integrity:         integrity,
		EmbeddingCache:    c.embedder.Stats(),
	}, nil
}

// Health pings each backing store and reports per-component status:
// "ok" or the failure text.
func (c *Coordinator) Health(ctx context.Context) map[string]string {
	health := map[string]string{}
	if err := c.navigator.Ping(ctx); err != nil {
		health["graph"] = err.Error()
	} else {
		health["graph"] = "ok"
	}
	if err := c.engine.Ping(ctx); err != nil {
		health["vector"] = err.Error()
	} else {
		health["vector"] = "ok"
	}
	return health
}
