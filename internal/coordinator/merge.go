package coordinator

import (
	"sort"
	"strings"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// mergeSources coalesces the two branches into one ranked source list.
// A vector chunk and a graph entity referring to the same document
// (resolved through the mapping service) become a single hybrid source
// with combined confidence; unmatched hits from either side stay
// standalone. The list is ranked by confidence, capped at maxResults.
//
// Confidence: hybrid sources score 0.6*similarity + 0.4*(1/(1+depth));
// vector-only sources score their similarity; graph-only sources score
// the depth term alone. Closer hops score higher.
func (c *Coordinator) mergeSources(vector *types.VectorResultPayload, graph *types.GraphResultPayload, maxResults int) []Source {
	depths := entityDepths(graph)

	var sources []Source
	matchedEntities := map[string]bool{}

	if vector != nil {
		for i, doc := range vector.Documents {
			similarity := vector.Similarities[i]
			src := Source{
				ChunkID:    doc.ID,
				DocumentID: doc.DocumentID,
				Title:      chunkTitle(doc),
				Content:    doc.Content,
				Origin:     OriginVector,
				Similarity: similarity,
				Confidence: similarity,
			}

			// A graph entity linked to this chunk upgrades the source
			// to a coalesced hybrid record.
			for _, entityID := range c.mapping.GetEntitiesForVector(doc.ID, "") {
				depth, ok := depths[entityID]
				if !ok {
					continue
				}
				src.EntityID = entityID
				src.GraphDepth = depth
				src.Origin = OriginHybrid
				src.Confidence = 0.6*similarity + 0.4*hopScore(depth)
				matchedEntities[entityID] = true
				break
			}
			sources = append(sources, src)
		}
	}

	if graph != nil {
		for _, ent := range graph.Entities {
			if matchedEntities[ent.ID] {
				continue
			}
			depth := depths[ent.ID]
			sources = append(sources, Source{
				EntityID:   ent.ID,
				Title:      ent.Name,
				Content:    ent.Description,
				Origin:     OriginGraph,
				GraphDepth: depth,
				Confidence: hopScore(depth),
			})
		}
	}

	sort.SliceStable(sources, func(a, b int) bool {
		if sources[a].Confidence != sources[b].Confidence {
			return sources[a].Confidence > sources[b].Confidence
		}
		return sourceKey(sources[a]) < sourceKey(sources[b])
	})
	if len(sources) > maxResults {
		sources = sources[:maxResults]
	}
	return sources
}

// hopScore maps traversal depth onto (0, 1]: depth 0 scores 1, each
// further hop scores lower.
func hopScore(depth int) float64 {
	if depth < 0 {
		depth = 0
	}
	return 1.0 / float64(1+depth)
}

// entityDepths derives each visited entity's hop distance from the
// traversal paths: the position of its first appearance in any path.
func entityDepths(graph *types.GraphResultPayload) map[string]int {
	depths := map[string]int{}
	if graph == nil {
		return depths
	}
	for _, path := range graph.Paths {
		for hop, nodeID := range path {
			if known, ok := depths[nodeID]; !ok || hop < known {
				depths[nodeID] = hop
			}
		}
	}
	// Entities outside every recorded path (start nodes with no
	// connections, or nodes beyond the path cap) count as depth 0 when
	// they are starts, otherwise stay at the deepest recorded bound.
	for _, ent := range graph.Entities {
		if _, ok := depths[ent.ID]; !ok {
			depths[ent.ID] = 0
		}
	}
	return depths
}

func chunkTitle(doc types.DocumentEmbedding) string {
	if title, ok := doc.Metadata["title"]; ok && title != "" {
		return title
	}
	content := strings.TrimSpace(doc.Content)
	if len(content) > 60 {
		return content[:57] + "..."
	}
	if content == "" {
		return doc.ID
	}
	return content
}

func sourceKey(s Source) string {
	if s.ChunkID != "" {
		return s.ChunkID
	}
	return s.EntityID
}
