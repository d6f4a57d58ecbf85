package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/embedding"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/graphnav"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/retrieval"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// dispatchVector sends a VECTOR_SEARCH message to the retrieval engine on
// its own goroutine and returns the reply channel. Transient failures are
// retried here with exponential backoff; component handlers never retry.
func (c *Coordinator) dispatchVector(ctx context.Context, query string, k int) <-chan types.AgentMessage {
	msg := types.AgentMessage{
		AgentID:       c.opts.AgentID,
		Type:          types.MessageVectorSearch,
		CorrelationID: uuid.New().String(),
		Payload: types.VectorSearchPayload{
			Query:          query,
			K:              k,
			SearchType:     "hybrid",
			SemanticWeight: c.opts.SemanticWeight,
		},
	}
	return c.dispatch(ctx, msg, func(ctx context.Context, m types.AgentMessage) types.AgentMessage {
		return c.engine.ProcessMessage(ctx, m)
	})
}

// dispatchGraph sends a GRAPH_SEARCH message to the graph navigator on
// its own goroutine and returns the reply channel.
func (c *Coordinator) dispatchGraph(ctx context.Context, query string) <-chan types.AgentMessage {
	msg := types.AgentMessage{
		AgentID:       c.opts.AgentID,
		Type:          types.MessageGraphSearch,
		CorrelationID: uuid.New().String(),
		Payload: types.GraphSearchPayload{
			Query: query,
			Depth: c.opts.TraversalDepth,
		},
	}
	return c.dispatch(ctx, msg, func(ctx context.Context, m types.AgentMessage) types.AgentMessage {
		return c.navigator.ProcessMessage(ctx, m)
	})
}

// dispatch runs one request message against a handler, retrying transient
// ERROR replies up to MaxRetries with doubling backoff. The final reply is
// delivered on the returned channel; a cancelled request delivers nothing.
func (c *Coordinator) dispatch(ctx context.Context, msg types.AgentMessage, handle func(context.Context, types.AgentMessage) types.AgentMessage) <-chan types.AgentMessage {
	replies := make(chan types.AgentMessage, 1)
	go func() {
		backoff := c.opts.RetryBackoff
		var reply types.AgentMessage
		for attempt := 0; ; attempt++ {
			reply = handle(ctx, msg)
			if !transientReply(reply) || attempt >= c.opts.MaxRetries {
				break
			}
			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		replies <- reply
	}()
	return replies
}

// transientReply reports whether an ERROR reply is worth retrying.
func transientReply(reply types.AgentMessage) bool {
	if reply.Type != types.MessageError {
		return false
	}
	payload, ok := reply.Payload.(types.ErrorPayload)
	if !ok {
		return false
	}
	return payload.ErrorKind == "retrieval_unavailable" || payload.ErrorKind == "graph_unavailable"
}

// vectorPayload unpacks a retrieval engine reply.
func vectorPayload(reply types.AgentMessage) (*types.VectorResultPayload, error) {
	if reply.Type == types.MessageError {
		return nil, payloadError(reply)
	}
	payload, ok := reply.Payload.(types.VectorResultPayload)
	if !ok {
		return nil, fmt.Errorf("unexpected vector reply payload %T", reply.Payload)
	}
	return &payload, nil
}

// graphPayload unpacks a graph navigator reply.
func graphPayload(reply types.AgentMessage) (*types.GraphResultPayload, error) {
	if reply.Type == types.MessageError {
		return nil, payloadError(reply)
	}
	payload, ok := reply.Payload.(types.GraphResultPayload)
	if !ok {
		return nil, fmt.Errorf("unexpected graph reply payload %T", reply.Payload)
	}
	return &payload, nil
}

// payloadError rebuilds a sentinel-wrapped error from an ERROR reply so
// callers can keep classifying with errors.Is across the message boundary.
func payloadError(reply types.AgentMessage) error {
	payload, ok := reply.Payload.(types.ErrorPayload)
	if !ok {
		return errors.New("malformed error reply")
	}
	switch payload.ErrorKind {
	case "retrieval_unavailable":
		return fmt.Errorf("%w: %s", storage.ErrRetrievalUnavailable, payload.Message)
	case "graph_unavailable":
		return fmt.Errorf("%w: %s", storage.ErrGraphUnavailable, payload.Message)
	case "invalid_filter":
		return fmt.Errorf("%w: %s", retrieval.ErrInvalidFilter, payload.Message)
	case "read_only_violation":
		return fmt.Errorf("%w: %s", graphnav.ErrReadOnlyViolation, payload.Message)
	case "embedding_error":
		return fmt.Errorf("%w: %s", embedding.ErrEmbedding, payload.Message)
	case "not_found":
		return fmt.Errorf("%w: %s", storage.ErrNotFound, payload.Message)
	case "invalid_input":
		return fmt.Errorf("%w: %s", storage.ErrInvalidInput, payload.Message)
	default:
		return errors.New(payload.Message)
	}
}
