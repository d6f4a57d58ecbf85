// Package coordinator orchestrates retrieval: it picks a strategy per
// query, dispatches asynchronous search messages to the graph navigator
// and the vector retrieval engine, merges both branches through the
// mapping service, and returns one ranked, explainable answer envelope.
package coordinator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/embedding"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/graphnav"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/mapping"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/retrieval"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// Options configures the coordinator.
type Options struct {
	// AgentID identifies the coordinator in message envelopes.
	// Default: "coordinator".
	AgentID string
	// MaxResults is the default result cap when a request leaves it unset.
	// Default: 5.
	MaxResults int
	// Timeout bounds one request end to end. Default: 30s.
	Timeout time.Duration
	// TraversalDepth is the hop bound for graph searches. Default: 2.
	TraversalDepth int
	// SemanticWeight is the hybrid blend weight. Default: 0.7.
	SemanticWeight float64
	// MaxRetries bounds retries of a transiently failing branch. Retrying
	// happens here and nowhere else. Default: 2.
	MaxRetries int
	// RetryBackoff is the initial backoff, doubled per attempt.
	// Default: 200ms.
	RetryBackoff time.Duration
}

// Normalize fills in defaults for unset options.
func (o *Options) Normalize() {
	if o.AgentID == "" {
		o.AgentID = "coordinator"
	}
	if o.MaxResults <= 0 {
		o.MaxResults = 5
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.TraversalDepth <= 0 {
		o.TraversalDepth = 2
	}
	if o.SemanticWeight <= 0 || o.SemanticWeight > 1 {
		o.SemanticWeight = 0.7
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = 2
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 200 * time.Millisecond
	}
}

// Request is one retrieval query.
type Request struct {
	Query            string `json:"query"`
	MaxResults       int    `json:"max_results,omitempty"`
	IncludeReasoning bool   `json:"include_reasoning,omitempty"`
	// Strategy forces a retrieval strategy. Empty means infer from the
	// query; any other unrecognized value is misuse.
	Strategy string `json:"strategy,omitempty"`
}

// Source is one ranked evidence record in an answer. A source coalesced
// from both branches carries both a similarity and a graph depth.
type Source struct {
	DocumentID string  `json:"document_id,omitempty"`
	ChunkID    string  `json:"chunk_id,omitempty"`
	EntityID   string  `json:"entity_id,omitempty"`
	Title      string  `json:"title"`
	Content    string  `json:"content,omitempty"`
	Origin     string  `json:"origin"`
	Confidence float64 `json:"confidence"`
	Similarity float64 `json:"similarity,omitempty"`
	GraphDepth int     `json:"graph_depth,omitempty"`
}

// Source origins.
const (
	OriginVector = "vector"
	OriginGraph  = "graph"
	OriginHybrid = "hybrid"
)

// Answer is the envelope returned for one request.
type Answer struct {
	Response        string                  `json:"response"`
	Sources         []Source                `json:"sources"`
	StrategyUsed    types.RetrievalStrategy `json:"strategy_used"`
	ConfidenceScore float64                 `json:"confidence_score"`
	ReasoningPath   []string                `json:"reasoning_path,omitempty"`
	ProcessingTime  time.Duration           `json:"processing_time"`
	Degraded        bool                    `json:"degraded,omitempty"`
	DegradedReason  string                  `json:"degraded_reason,omitempty"`
}

// Coordinator wires the retrieval components together.
type Coordinator struct {
	opts      Options
	engine    *retrieval.Engine
	navigator *graphnav.Navigator
	mapping   *mapping.Service
	embedder  *embedding.Service
}

// New creates a coordinator over the given components.
func New(engine *retrieval.Engine, navigator *graphnav.Navigator, mappingSvc *mapping.Service, embedder *embedding.Service, opts Options) *Coordinator {
	opts.Normalize()
	return &Coordinator{
		opts:      opts,
		engine:    engine,
		navigator: navigator,
		mapping:   mappingSvc,
		embedder:  embedder,
	}
}

// Answer resolves one query: strategy selection, branch dispatch, merge,
// ranking. A failed branch of a hybrid query degrades the answer instead
// of failing it; a failed sole branch propagates. Cancellation aborts the
// request without producing a response.
func (c *Coordinator) Answer(ctx context.Context, req Request) (*Answer, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("%w: empty query", storage.ErrInvalidInput)
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = c.opts.MaxResults
	}

	strategy, inferred, err := c.selectStrategy(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	start := time.Now()

	var reasoning []string
	if req.IncludeReasoning {
		how := "requested"
		if inferred {
			how = "inferred"
		}
		reasoning = append(reasoning, fmt.Sprintf("strategy %s (%s)", strategy, how))
	}

	var vectorCh, graphCh <-chan types.AgentMessage
	if strategy != types.StrategyGraphOnly {
		vectorCh = c.dispatchVector(ctx, req.Query, maxResults)
	}
	if strategy != types.StrategyVectorOnly {
		graphCh = c.dispatchGraph(ctx, req.Query)
	}

	var vectorResult *types.VectorResultPayload
	var graphResult *types.GraphResultPayload
	var vectorErr, graphErr error

	if vectorCh != nil {
		select {
		case reply := <-vectorCh:
			vectorResult, vectorErr = vectorPayload(reply)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if graphCh != nil {
		select {
		case reply := <-graphCh:
			graphResult, graphErr = graphPayload(reply)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	answer := &Answer{StrategyUsed: strategy}

	switch strategy {
	case types.StrategyVectorOnly:
		if vectorErr != nil {
			return nil, vectorErr
		}
	case types.StrategyGraphOnly:
		if graphErr != nil {
			return nil, graphErr
		}
	case types.StrategyHybrid:
		if vectorErr != nil && graphErr != nil {
			return nil, fmt.Errorf("both branches failed: %v; %w", vectorErr, graphErr)
		}
		if vectorErr != nil {
			answer.Degraded = true
			answer.DegradedReason = "vector branch failed: " + vectorErr.Error()
			log.Printf("coordinator: degrading to graph-only: %v", vectorErr)
		}
		if graphErr != nil {
			answer.Degraded = true
			answer.DegradedReason = "graph branch failed: " + graphErr.Error()
			log.Printf("coordinator: degrading to vector-only: %v", graphErr)
		}
	}

	if req.IncludeReasoning {
		if vectorResult != nil {
			reasoning = append(reasoning, fmt.Sprintf("vector branch returned %d chunks", len(vectorResult.Documents)))
		}
		if graphResult != nil {
			reasoning = append(reasoning, fmt.Sprintf("graph branch matched %d entities over %d paths",
				len(graphResult.Entities), len(graphResult.Paths)))
		}
		if answer.Degraded {
			reasoning = append(reasoning, "degraded: "+answer.DegradedReason)
		}
	}

	answer.Sources = c.mergeSources(vectorResult, graphResult, maxResults)
	for _, src := range answer.Sources {
		if src.Confidence > answer.ConfidenceScore {
			answer.ConfidenceScore = src.Confidence
		}
	}
	answer.Response = synthesizeResponse(req.Query, answer.Sources, answer.Degraded)
	if req.IncludeReasoning {
		reasoning = append(reasoning, fmt.Sprintf("merged into %d sources", len(answer.Sources)))
		answer.ReasoningPath = reasoning
	}
	answer.ProcessingTime = time.Since(start)
	return answer, nil
}

// synthesizeResponse builds the human-readable summary line for an answer.
func synthesizeResponse(query string, sources []Source, degraded bool) string {
	if len(sources) == 0 {
		return fmt.Sprintf("No relevant sources found for %q.", query)
	}
	note := ""
	if degraded {
		note = " (partial: one retrieval branch was unavailable)"
	}
	return fmt.Sprintf("Found %d relevant sources for %q%s. Top match: %s.",
		len(sources), query, note, sources[0].Title)
}
