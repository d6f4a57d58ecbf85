package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// VectorStore implements storage.VectorStore with exact cosine search over
// in-process records. Similarity is mapped to [0, 1] as (1 + cos) / 2, the
// same bounded score the pgvector backend derives from cosine distance.
// Safe for concurrent use.
type VectorStore struct {
	mu     sync.RWMutex
	chunks map[string]types.DocumentEmbedding
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{chunks: make(map[string]types.DocumentEmbedding)}
}

// Upsert inserts or replaces chunks keyed by chunk id.
func (v *VectorStore) Upsert(ctx context.Context, chunks []types.DocumentEmbedding) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, c := range chunks {
		if c.ID == "" {
			return fmt.Errorf("chunk id is required: %w", storage.ErrInvalidInput)
		}
		v.chunks[c.ID] = c
	}
	return nil
}

// Search returns up to k chunks matching every filter entry, ordered by
// descending similarity with chunk id as the final tie-break.
func (v *VectorStore) Search(ctx context.Context, vector []float32, k int, filters map[string]string) ([]storage.VectorHit, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var hits []storage.VectorHit
	for _, c := range v.chunks {
		if !matchesFilters(c.Metadata, filters) {
			continue
		}
		hits = append(hits, storage.VectorHit{
			Chunk:      c,
			Similarity: boundedCosine(vector, c.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Chunk.ID < hits[j].Chunk.ID
	})

	if k >= 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Get retrieves a chunk by id.
func (v *VectorStore) Get(ctx context.Context, id string) (*types.DocumentEmbedding, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	c, ok := v.chunks[id]
	if !ok {
		return nil, fmt.Errorf("chunk %s: %w", id, storage.ErrNotFound)
	}
	return &c, nil
}

// Delete removes a chunk by id.
func (v *VectorStore) Delete(ctx context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.chunks[id]; !ok {
		return fmt.Errorf("chunk %s: %w", id, storage.ErrNotFound)
	}
	delete(v.chunks, id)
	return nil
}

// Count returns the exact number of live chunks.
func (v *VectorStore) Count(ctx context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.chunks), nil
}

// ListIDs returns all chunk ids in sorted order.
func (v *VectorStore) ListIDs(ctx context.Context) ([]string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ids := make([]string, 0, len(v.chunks))
	for id := range v.chunks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Ping always succeeds for the in-memory backend.
func (v *VectorStore) Ping(ctx context.Context) error { return nil }

// Close is a no-op for the in-memory backend.
func (v *VectorStore) Close() error { return nil }

// matchesFilters reports whether metadata satisfies every filter entry with
// exact-match, conjunctive semantics.
func matchesFilters(metadata, filters map[string]string) bool {
	for key, want := range filters {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

// boundedCosine maps cosine similarity into [0, 1]. Mismatched or empty
// vectors score zero rather than erroring; the store never invents distance
// for records it cannot compare.
func boundedCosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (1 + cos) / 2
}
