package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage/memory"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

func TestVectorStore_SearchBoundedSimilarity(t *testing.T) {
	store := memory.NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []types.DocumentEmbedding{
		{ID: "same", Embedding: []float32{1, 0}},
		{ID: "orthogonal", Embedding: []float32{0, 1}},
		{ID: "opposite", Embedding: []float32{-1, 0}},
	}))

	hits, err := store.Search(ctx, []float32{1, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "same", hits[0].Chunk.ID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
	assert.Equal(t, "orthogonal", hits[1].Chunk.ID)
	assert.InDelta(t, 0.5, hits[1].Similarity, 1e-9)
	assert.Equal(t, "opposite", hits[2].Chunk.ID)
	assert.InDelta(t, 0.0, hits[2].Similarity, 1e-9)
}

func TestVectorStore_SearchFiltersAreConjunctive(t *testing.T) {
	store := memory.NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []types.DocumentEmbedding{
		{ID: "a", Embedding: []float32{1, 0}, Metadata: map[string]string{"topic": "ml", "lang": "en"}},
		{ID: "b", Embedding: []float32{1, 0}, Metadata: map[string]string{"topic": "ml", "lang": "de"}},
	}))

	hits, err := store.Search(ctx, []float32{1, 0}, 10, map[string]string{"topic": "ml", "lang": "de"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].Chunk.ID)
}

func TestVectorStore_MismatchedDimensionScoresZero(t *testing.T) {
	store := memory.NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []types.DocumentEmbedding{
		{ID: "short", Embedding: []float32{1}},
	}))

	hits, err := store.Search(ctx, []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0.0, hits[0].Similarity)
}

func TestVectorStore_GetDeleteCount(t *testing.T) {
	store := memory.NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []types.DocumentEmbedding{
		{ID: "x", Content: "text", Embedding: []float32{1}},
	}))

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "text", got.Content)

	require.NoError(t, store.Delete(ctx, "x"))
	assert.ErrorIs(t, store.Delete(ctx, "x"), storage.ErrNotFound)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestVectorStore_UpsertRequiresID(t *testing.T) {
	store := memory.NewVectorStore()
	err := store.Upsert(context.Background(), []types.DocumentEmbedding{{Content: "no id"}})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
