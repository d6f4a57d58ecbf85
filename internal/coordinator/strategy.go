package coordinator

import (
	"fmt"
	"strings"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// Connective phrasing signals that the answer lives in the relationships
// between things, not in any single chunk.
var relationalMarkers = []string{
	"relate", "related", "relationship", "connection", "connected",
	"between", "link", "linked", "depend", "depends", "affect", "affects",
	"influence", "impact", "interact", "compare", "versus", " vs ",
	"lead to", "leads to", "caused by", "cause of",
}

// Markers that point at graph structure alone: the caller wants the
// neighborhood of a thing rather than text about it.
var structuralMarkers = []string{
	"who is connected", "what is connected", "neighbors of", "path from",
	"path between", "graph of", "network of",
}

// selectStrategy honors a forced strategy and otherwise infers one from
// the query. Relational or connective language selects hybrid; explicitly
// structural queries select graph_only; short factual queries default to
// vector_only.
func (c *Coordinator) selectStrategy(req Request) (types.RetrievalStrategy, bool, error) {
	if req.Strategy != "" {
		strategy, err := types.ParseStrategy(req.Strategy)
		if err != nil {
			return "", false, fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
		}
		return strategy, false, nil
	}
	return inferStrategy(req.Query), true, nil
}

func inferStrategy(query string) types.RetrievalStrategy {
	lowered := " " + strings.ToLower(query) + " "
	for _, marker := range structuralMarkers {
		if strings.Contains(lowered, marker) {
			return types.StrategyGraphOnly
		}
	}
	for _, marker := range relationalMarkers {
		if strings.Contains(lowered, marker) {
			return types.StrategyHybrid
		}
	}
	return types.StrategyVectorOnly
}
