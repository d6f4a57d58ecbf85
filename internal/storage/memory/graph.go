// Package memory provides in-memory reference implementations of the
// storage interfaces. They back the embedded deployment mode and the test
// suites, and define the semantics the Neo4j and pgvector backends must
// match.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// GraphStore implements storage.GraphStore over in-process maps.
// Safe for concurrent use.
type GraphStore struct {
	mu            sync.RWMutex
	entities      map[string]types.Entity
	documents     map[string]types.Document
	relationships map[string]types.Relationship
	// adjacency maps node id to relationship ids, both directions.
	adjacency map[string][]string
}

// NewGraphStore creates an empty in-memory graph store.
func NewGraphStore() *GraphStore {
	return &GraphStore{
		entities:      make(map[string]types.Entity),
		documents:     make(map[string]types.Document),
		relationships: make(map[string]types.Relationship),
		adjacency:     make(map[string][]string),
	}
}

// PutEntity inserts or replaces an entity node. Ingestion-side helper.
func (g *GraphStore) PutEntity(e types.Entity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entities[e.ID] = e
}

// PutDocument inserts or replaces a document node. Ingestion-side helper.
func (g *GraphStore) PutDocument(d types.Document) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.documents[d.ID] = d
}

// RemoveDocument deletes a document node directly. Exists so tests can
// corrupt the graph side and exercise the mapping integrity audit.
func (g *GraphStore) RemoveDocument(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.documents, id)
}

// PutRelationship inserts an edge. Multiple edges of the same type between
// the same pair are legal and kept; they count as repeated evidence.
func (g *GraphStore) PutRelationship(r types.Relationship) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.relationships[r.ID] = r
	g.adjacency[r.FromID] = append(g.adjacency[r.FromID], r.ID)
	if r.ToID != r.FromID {
		g.adjacency[r.ToID] = append(g.adjacency[r.ToID], r.ID)
	}
}

// GetEntity retrieves an entity by id.
func (g *GraphStore) GetEntity(ctx context.Context, id string) (*types.Entity, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.entities[id]
	if !ok {
		return nil, fmt.Errorf("entity %s: %w", id, storage.ErrNotFound)
	}
	return &e, nil
}

// SearchEntities returns entities whose name or type matches term,
// case-insensitively, exact or partial.
func (g *GraphStore) SearchEntities(ctx context.Context, term string) ([]types.Entity, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	needle := strings.ToLower(term)
	var matches []types.Entity
	for _, e := range g.entities {
		name := strings.ToLower(e.Name)
		etype := strings.ToLower(e.Type)
		if name == needle || strings.Contains(name, needle) || etype == needle {
			matches = append(matches, e)
		}
	}

	// Deterministic order for callers that re-rank.
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

// Neighbors returns the edges incident to nodeID and the node on the far
// side of each edge. Far-side document nodes are surfaced as entities of
// type Document so traversal results stay homogeneous.
func (g *GraphStore) Neighbors(ctx context.Context, nodeID string) ([]types.Relationship, []types.Entity, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var rels []types.Relationship
	var nodes []types.Entity
	for _, relID := range g.adjacency[nodeID] {
		rel := g.relationships[relID]
		otherID := rel.OtherEnd(nodeID)
		if other, ok := g.entities[otherID]; ok {
			rels = append(rels, rel)
			nodes = append(nodes, other)
			continue
		}
		if doc, ok := g.documents[otherID]; ok {
			rels = append(rels, rel)
			nodes = append(nodes, documentAsEntity(doc))
		}
		// Edges to removed nodes are skipped.
	}
	return rels, nodes, nil
}

// GetDocument retrieves a document node by id.
func (g *GraphStore) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	d, ok := g.documents[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, storage.ErrNotFound)
	}
	return &d, nil
}

// ListDocumentIDs returns the ids of all document nodes in sorted order.
func (g *GraphStore) ListDocumentIDs(ctx context.Context) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]string, 0, len(g.documents))
	for id := range g.documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// RunReadQuery is a limited stand-in for ad hoc graph queries: the in-memory
// backend understands only "MATCH type=<entity type>" inspection queries and
// otherwise returns every entity. The Neo4j backend executes real Cypher.
func (g *GraphStore) RunReadQuery(ctx context.Context, query string) ([]types.Entity, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	wantType := ""
	if i := strings.Index(strings.ToLower(query), "type="); i >= 0 {
		wantType = strings.TrimSpace(query[i+len("type="):])
	}

	var out []types.Entity
	for _, e := range g.entities {
		if wantType == "" || strings.EqualFold(e.Type, wantType) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Counts returns entity, document, and relationship totals.
func (g *GraphStore) Counts(ctx context.Context) (int, int, int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entities), len(g.documents), len(g.relationships), nil
}

// Ping always succeeds for the in-memory backend.
func (g *GraphStore) Ping(ctx context.Context) error { return nil }

// Close is a no-op for the in-memory backend.
func (g *GraphStore) Close(ctx context.Context) error { return nil }

// documentAsEntity projects a document node into the entity shape used by
// traversal results.
func documentAsEntity(d types.Document) types.Entity {
	return types.Entity{
		ID:          d.ID,
		Name:        d.Title,
		Type:        types.EntityTypeDocument,
		Description: d.Content,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
