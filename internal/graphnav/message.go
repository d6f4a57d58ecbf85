package graphnav

import (
	"context"
	"errors"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// AgentInfo describes the navigator for the admin surface.
type AgentInfo struct {
	AgentID           string `json:"agent_id"`
	EntityCount       int    `json:"entity_count"`
	DocumentCount     int    `json:"document_count"`
	RelationshipCount int    `json:"relationship_count"`
}

// Info returns the navigator identity and graph size counters.
func (n *Navigator) Info(ctx context.Context) (AgentInfo, error) {
	entities, documents, relationships, err := n.store.Counts(ctx)
	if err != nil {
		return AgentInfo{}, err
	}
	return AgentInfo{
		AgentID:           n.opts.AgentID,
		EntityCount:       entities,
		DocumentCount:     documents,
		RelationshipCount: relationships,
	}, nil
}

// ProcessMessage handles one GRAPH_SEARCH request: entity lookup followed
// by bounded traversal from the matches. Returns exactly one RESPONSE or
// ERROR reply carrying the request's correlation id.
func (n *Navigator) ProcessMessage(ctx context.Context, msg types.AgentMessage) types.AgentMessage {
	if msg.Type != types.MessageGraphSearch {
		return msg.Error(n.opts.AgentID, "invalid_input", "unsupported message type "+string(msg.Type))
	}
	payload, ok := msg.Payload.(types.GraphSearchPayload)
	if !ok {
		return msg.Error(n.opts.AgentID, "invalid_input", "payload is not a graph search")
	}

	depth := payload.Depth
	if depth <= 0 {
		depth = 2
	}

	entities, err := n.FindEntities(ctx, payload.Query)
	if err != nil {
		return msg.Error(n.opts.AgentID, errorKind(err), err.Error())
	}
	traversal, err := n.TraverseRelationships(ctx, entities, depth)
	if err != nil {
		return msg.Error(n.opts.AgentID, errorKind(err), err.Error())
	}

	return msg.Response(n.opts.AgentID, types.GraphResultPayload{
		Entities:      traversal.Entities,
		Relationships: traversal.Relationships,
		Paths:         traversal.Paths,
	})
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrReadOnlyViolation):
		return "read_only_violation"
	case errors.Is(err, storage.ErrGraphUnavailable):
		return "graph_unavailable"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
