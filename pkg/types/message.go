// Package types defines the core data structures shared by the retrieval
// components: graph entities and documents, vector-store chunks, cross-store
// mapping links, and the message envelope used for component dispatch.
package types

// MessageType tags an AgentMessage payload.
type MessageType string

const (
	// MessageGraphSearch requests entity lookup plus bounded traversal.
	MessageGraphSearch MessageType = "GRAPH_SEARCH"

	// MessageVectorSearch requests a similarity or hybrid vector search.
	MessageVectorSearch MessageType = "VECTOR_SEARCH"

	// MessageResponse carries the result payload for a request message.
	MessageResponse MessageType = "RESPONSE"

	// MessageError carries a failure for a request message.
	MessageError MessageType = "ERROR"
)

// MessagePayload is the closed set of payload shapes an AgentMessage can
// carry. Each message type has exactly one payload type, so a type switch
// over MessagePayload is exhaustive over message kinds.
type MessagePayload interface {
	messageType() MessageType
}

// GraphSearchPayload asks the graph navigator to resolve a query into
// entities and expand their neighborhood up to Depth hops.
type GraphSearchPayload struct {
	Query string `json:"query"`
	Depth int    `json:"depth"`
}

// VectorSearchPayload asks the retrieval engine for a vector search.
// SearchType selects "similarity" (default) or "hybrid"; SemanticWeight is
// only consulted for hybrid searches.
type VectorSearchPayload struct {
	Query          string            `json:"query"`
	K              int               `json:"k"`
	SearchType     string            `json:"search_type,omitempty"`
	SemanticWeight float64           `json:"semantic_weight,omitempty"`
	Filters        map[string]string `json:"filters,omitempty"`
}

// GraphResultPayload is the response payload for a graph search.
type GraphResultPayload struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
	Paths         [][]string     `json:"paths"`
}

// VectorResultPayload is the response payload for a vector search.
// Documents and Similarities are parallel slices ordered by descending score.
type VectorResultPayload struct {
	Documents    []DocumentEmbedding `json:"documents"`
	Similarities []float64           `json:"similarities"`
}

// ErrorPayload is the payload of a MessageError reply.
type ErrorPayload struct {
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}

func (GraphSearchPayload) messageType() MessageType  { return MessageGraphSearch }
func (VectorSearchPayload) messageType() MessageType { return MessageVectorSearch }
func (GraphResultPayload) messageType() MessageType  { return MessageResponse }
func (VectorResultPayload) messageType() MessageType { return MessageResponse }
func (ErrorPayload) messageType() MessageType        { return MessageError }

// AgentMessage is the unit of inter-component communication. The correlation
// id is propagated unchanged from request to response and is used to match
// asynchronous replies. Every accepted non-error request produces exactly
// one RESPONSE or ERROR message carrying the same correlation id.
type AgentMessage struct {
	AgentID       string         `json:"agent_id"`
	Type          MessageType    `json:"message_type"`
	Payload       MessagePayload `json:"payload"`
	CorrelationID string         `json:"correlation_id"`
}

// Response builds a RESPONSE reply to m from the given agent, preserving
// the correlation id.
func (m AgentMessage) Response(agentID string, payload MessagePayload) AgentMessage {
	return AgentMessage{
		AgentID:       agentID,
		Type:          MessageResponse,
		Payload:       payload,
		CorrelationID: m.CorrelationID,
	}
}

// Error builds an ERROR reply to m, preserving the correlation id.
func (m AgentMessage) Error(agentID, kind, message string) AgentMessage {
	return AgentMessage{
		AgentID:       agentID,
		Type:          MessageError,
		Payload:       ErrorPayload{ErrorKind: kind, Message: message},
		CorrelationID: m.CorrelationID,
	}
}
