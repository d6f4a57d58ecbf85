// Package retrieval implements the vector retrieval engine: chunk
// management, filtered similarity search, hybrid semantic/lexical search,
// and second-pass re-ranking over one logical collection of document
// chunks.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/google/uuid"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/embedding"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// ErrInvalidFilter indicates a malformed filter key or an out-of-range
// search parameter. Never retried.
var ErrInvalidFilter = errors.New("invalid search filter")

// Filter keys are restricted to identifier-shaped strings so that a typo'd
// or injected key fails loudly instead of matching nothing.
var filterKeyRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options configures the retrieval engine.
type Options struct {
	// AgentID identifies the engine in message envelopes.
	// Default: "vector_retrieval".
	AgentID string
	// CandidatePool is the multiple of k fetched as the hybrid-search
	// candidate pool. Default: 3.
	CandidatePool int
}

// Normalize fills in defaults for unset options.
func (o *Options) Normalize() {
	if o.AgentID == "" {
		o.AgentID = "vector_retrieval"
	}
	if o.CandidatePool <= 0 {
		o.CandidatePool = 3
	}
}

// Engine owns one vector store collection and the embedding service that
// produces query-time vectors for it.
type Engine struct {
	opts     Options
	store    storage.VectorStore
	embedder *embedding.Service
}

// NewEngine creates a retrieval engine over the given store and embedder.
func NewEngine(store storage.VectorStore, embedder *embedding.Service, opts Options) *Engine {
	opts.Normalize()
	return &Engine{opts: opts, store: store, embedder: embedder}
}

// AgentID returns the engine's message-envelope identity.
func (e *Engine) AgentID() string {
	return e.opts.AgentID
}

// AddDocuments upserts chunks by id. Chunks without an id get a generated
// one; chunks without a vector get their content embedded first.
func (e *Engine) AddDocuments(ctx context.Context, docs []types.DocumentEmbedding) error {
	prepared := make([]types.DocumentEmbedding, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			doc.ID = uuid.New().String()
		}
		if doc.Metadata == nil {
			doc.Metadata = map[string]string{}
		}
		if len(doc.Embedding) == 0 {
			emb, err := e.embedder.Generate(ctx, doc.Content)
			if err != nil {
				return fmt.Errorf("embed chunk %s: %w", doc.ID, err)
			}
			doc.Embedding = emb.Vector
			doc.EmbeddingModel = emb.ModelName
			doc.EmbeddingDimension = emb.Dimension
		}
		prepared = append(prepared, doc)
	}
	if err := e.store.Upsert(ctx, prepared); err != nil {
		return err
	}
	log.Printf("retrieval: upserted %d chunks", len(prepared))
	return nil
}

// SimilaritySearch embeds the query and returns up to k chunks ordered by
// descending similarity, restricted to chunks whose metadata matches every
// filter entry exactly. An empty collection yields an empty result.
func (e *Engine) SimilaritySearch(ctx context.Context, query string, k int, filters map[string]string) ([]storage.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidFilter, k)
	}
	for key := range filters {
		if !filterKeyRe.MatchString(key) {
			return nil, fmt.Errorf("%w: bad filter key %q", ErrInvalidFilter, key)
		}
	}

	emb, err := e.embedder.Generate(ctx, query)
	if err != nil {
		return nil, err
	}
	return e.store.Search(ctx, emb.Vector, k, filters)
}

// UpdateDocument replaces a single chunk. The chunk must carry an id; a
// missing vector is regenerated from the content.
func (e *Engine) UpdateDocument(ctx context.Context, doc types.DocumentEmbedding) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: document id required", storage.ErrInvalidInput)
	}
	if _, err := e.store.Get(ctx, doc.ID); err != nil {
		return err
	}
	return e.AddDocuments(ctx, []types.DocumentEmbedding{doc})
}

// DeleteDocument removes a chunk by id.
func (e *Engine) DeleteDocument(ctx context.Context, id string) error {
	return e.store.Delete(ctx, id)
}

// GetDocumentCount returns the exact number of live chunks.
func (e *Engine) GetDocumentCount(ctx context.Context) (int, error) {
	return e.store.Count(ctx)
}

// Ping verifies the backing store is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	return e.store.Ping(ctx)
}
