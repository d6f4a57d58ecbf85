package graphnav

import (
	"context"
	"fmt"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// TraverseRelationships expands breadth-first from the start set up to
// depth hops. The result holds the deduplicated union of visited entities
// (start set included), the deduplicated edges traversed, and the node-id
// paths realizing each start-to-node route, capped at MaxPaths. Depth 0
// returns the start set unchanged with empty relationships and paths. A
// start set with no connections yields empty collections, not an error.
func (n *Navigator) TraverseRelationships(ctx context.Context, startEntities []types.Entity, depth int) (types.GraphTraversal, error) {
	if depth < 0 {
		return types.GraphTraversal{}, fmt.Errorf("%w: negative depth %d", storage.ErrInvalidInput, depth)
	}

	result := types.GraphTraversal{
		Entities:      append([]types.Entity(nil), startEntities...),
		Relationships: []types.Relationship{},
		Paths:         [][]string{},
	}
	if depth == 0 || len(startEntities) == 0 {
		return result, nil
	}

	visited := map[string]bool{}
	seenRel := map[string]bool{}
	pathTo := map[string][]string{}

	result.Entities = result.Entities[:0]
	var frontier []string
	for _, ent := range startEntities {
		if visited[ent.ID] {
			continue
		}
		visited[ent.ID] = true
		result.Entities = append(result.Entities, ent)
		pathTo[ent.ID] = []string{ent.ID}
		frontier = append(frontier, ent.ID)
	}

	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, nodeID := range frontier {
			rels, neighbors, err := n.store.Neighbors(ctx, nodeID)
			if err != nil {
				return types.GraphTraversal{}, err
			}
			for i, rel := range rels {
				if !seenRel[rel.ID] {
					seenRel[rel.ID] = true
					result.Relationships = append(result.Relationships, rel)
				}
				far := neighbors[i]
				if visited[far.ID] {
					continue
				}
				visited[far.ID] = true
				result.Entities = append(result.Entities, far)

				path := append(append([]string(nil), pathTo[nodeID]...), far.ID)
				pathTo[far.ID] = path
				if len(result.Paths) < n.opts.MaxPaths {
					result.Paths = append(result.Paths, path)
				}
				next = append(next, far.ID)
			}
		}
		frontier = next
	}
	return result, nil
}
