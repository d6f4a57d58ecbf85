package types

import "fmt"

// RetrievalStrategy selects which retrieval branches a query exercises.
type RetrievalStrategy string

const (
	// StrategyVectorOnly answers from embedding similarity alone.
	StrategyVectorOnly RetrievalStrategy = "vector_only"

	// StrategyGraphOnly answers from graph traversal alone.
	StrategyGraphOnly RetrievalStrategy = "graph_only"

	// StrategyHybrid runs both branches and merges their results.
	StrategyHybrid RetrievalStrategy = "hybrid"
)

// IsValid reports whether s is one of the recognized strategies.
func (s RetrievalStrategy) IsValid() bool {
	switch s {
	case StrategyVectorOnly, StrategyGraphOnly, StrategyHybrid:
		return true
	}
	return false
}

// ParseStrategy parses a request string into a RetrievalStrategy.
// The empty string is not a strategy; callers treat it as "infer".
func ParseStrategy(s string) (RetrievalStrategy, error) {
	strategy := RetrievalStrategy(s)
	if !strategy.IsValid() {
		return "", fmt.Errorf("invalid retrieval strategy: %q", s)
	}
	return strategy, nil
}

// GraphTraversal is the result of a bounded relationship expansion.
// Entities is the deduplicated union of all visited nodes including the
// start set; Relationships is the deduplicated set of traversed edges;
// Paths lists node-id sequences realizing distinct start-to-frontier routes,
// truncated to a configured maximum.
type GraphTraversal struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
	Paths         [][]string     `json:"paths"`
}

// CypherResult is the result of an ad hoc read-only query execution.
type CypherResult struct {
	Entities    []Entity `json:"entities"`
	CypherQuery string   `json:"cypher_query"`
}
