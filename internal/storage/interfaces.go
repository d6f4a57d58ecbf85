// Package storage provides the store interfaces the retrieval core is built
// on: a transactional graph store, an approximate-nearest-neighbor vector
// store, and a small persistence layer for cross-store mapping links.
//
// The interfaces are deliberately narrow so that backends can be swapped
// independently: Neo4j or the in-memory graph for GraphStore, pgvector or
// the in-memory index for VectorStore, and SQLite or a map for MappingStore.
package storage

import (
	"context"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// GraphStore is the handle to the graph database owned by the graph
// navigator and consulted by the mapping service during integrity audits.
type GraphStore interface {
	// GetEntity retrieves an entity by id.
	// Returns ErrNotFound if the entity doesn't exist.
	GetEntity(ctx context.Context, id string) (*types.Entity, error)

	// SearchEntities returns entities whose name or type matches the term,
	// case-insensitively. Exact and partial matches are both returned;
	// relevance ordering is the caller's concern.
	SearchEntities(ctx context.Context, term string) ([]types.Entity, error)

	// Neighbors returns the edges incident to the given node together with
	// the node on the far side of each edge. Both slices are parallel.
	// A node with no edges yields empty slices, not an error.
	Neighbors(ctx context.Context, nodeID string) ([]types.Relationship, []types.Entity, error)

	// GetDocument retrieves a document node by id.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id string) (*types.Document, error)

	// ListDocumentIDs returns the ids of all document nodes. Used by the
	// mapping service to detect documents with no vector-side links.
	ListDocumentIDs(ctx context.Context) ([]string, error)

	// RunReadQuery executes a caller-supplied read query verbatim and maps
	// returned node records into entities. Enforcing the read-only
	// constraint happens before this call, not inside it.
	RunReadQuery(ctx context.Context, query string) ([]types.Entity, error)

	// Counts returns the number of entity nodes, document nodes, and
	// relationships. Read-only statistics accessor.
	Counts(ctx context.Context) (entities, documents, relationships int, err error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// VectorHit pairs a retrieved chunk with its bounded similarity score.
// Similarity is in [0, 1]; higher means closer.
type VectorHit struct {
	Chunk      types.DocumentEmbedding
	Similarity float64
}

// VectorStore is the handle to one logical collection of document chunks.
type VectorStore interface {
	// Upsert inserts or replaces chunks keyed by chunk id.
	Upsert(ctx context.Context, chunks []types.DocumentEmbedding) error

	// Search performs nearest-neighbor search for the query vector,
	// restricted to chunks whose metadata matches every filter entry
	// exactly. Returns up to k hits ordered by descending similarity.
	// An empty collection yields an empty result, not an error.
	Search(ctx context.Context, vector []float32, k int, filters map[string]string) ([]VectorHit, error)

	// Get retrieves a chunk by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*types.DocumentEmbedding, error)

	// Delete removes a chunk by id. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Count returns the exact number of live chunks.
	Count(ctx context.Context) (int, error)

	// ListIDs returns the ids of all live chunks. Used by the mapping
	// service to detect chunks with no graph-side links.
	ListIDs(ctx context.Context) ([]string, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

// MappingStore persists mapping links. The mapping service keeps its own
// in-process indexes; the store is the commit boundary that makes link
// creation and removal atomic.
type MappingStore interface {
	// Insert stores a new link. Returns ErrDuplicateMapping when an active
	// link already exists for the same (entity_id, vector_id, collection).
	Insert(ctx context.Context, link types.MappingLink) error

	// Delete removes a link by id. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// List returns all active links.
	List(ctx context.Context) ([]types.MappingLink, error)

	// Close releases the underlying connection.
	Close() error
}
