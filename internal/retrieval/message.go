package retrieval

import (
	"context"
	"errors"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/embedding"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// AgentInfo describes the engine for the admin surface.
type AgentInfo struct {
	AgentID       string `json:"agent_id"`
	Model         string `json:"model"`
	DocumentCount int    `json:"document_count"`
}

// Info returns the engine identity and collection size.
func (e *Engine) Info(ctx context.Context) (AgentInfo, error) {
	count, err := e.store.Count(ctx)
	if err != nil {
		return AgentInfo{}, err
	}
	return AgentInfo{
		AgentID:       e.opts.AgentID,
		Model:         e.embedder.Model(),
		DocumentCount: count,
	}, nil
}

// ProcessMessage handles one VECTOR_SEARCH request and returns exactly one
// RESPONSE or ERROR reply carrying the request's correlation id.
func (e *Engine) ProcessMessage(ctx context.Context, msg types.AgentMessage) types.AgentMessage {
	if msg.Type != types.MessageVectorSearch {
		return msg.Error(e.opts.AgentID, "invalid_input", "unsupported message type "+string(msg.Type))
	}
	payload, ok := msg.Payload.(types.VectorSearchPayload)
	if !ok {
		return msg.Error(e.opts.AgentID, "invalid_input", "payload is not a vector search")
	}

	k := payload.K
	if k <= 0 {
		k = 5
	}

	var hits []storage.VectorHit
	var err error
	if payload.SearchType == "hybrid" {
		weight := payload.SemanticWeight
		if weight == 0 {
			weight = 0.7
		}
		hits, err = e.HybridSearch(ctx, payload.Query, weight, k)
	} else {
		hits, err = e.SimilaritySearch(ctx, payload.Query, k, payload.Filters)
	}
	if err != nil {
		return msg.Error(e.opts.AgentID, errorKind(err), err.Error())
	}

	result := types.VectorResultPayload{
		Documents:    make([]types.DocumentEmbedding, 0, len(hits)),
		Similarities: make([]float64, 0, len(hits)),
	}
	for _, hit := range hits {
		result.Documents = append(result.Documents, hit.Chunk)
		result.Similarities = append(result.Similarities, hit.Similarity)
	}
	return msg.Response(e.opts.AgentID, result)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidFilter):
		return "invalid_filter"
	case errors.Is(err, storage.ErrRetrievalUnavailable):
		return "retrieval_unavailable"
	case errors.Is(err, embedding.ErrEmbedding):
		return "embedding_error"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
