package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage/sqlite"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

func openTestStore(t *testing.T) *sqlite.MappingStore {
	t.Helper()
	store, err := sqlite.NewMappingStore(filepath.Join(t.TempDir(), "links.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testLink(id, entityID, vectorID string) types.MappingLink {
	return types.MappingLink{
		ID:             id,
		EntityID:       entityID,
		EntityType:     types.EntityTypeDocument,
		VectorID:       vectorID,
		CollectionName: "documents",
		Metadata:       map[string]string{"source": "test"},
		CreatedAt:      time.Now().UTC(),
	}
}

func TestMappingStore_InsertAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testLink("l1", "doc-1", "vec-1")))
	require.NoError(t, store.Insert(ctx, testLink("l2", "doc-1", "vec-2")))

	links, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "l1", links[0].ID)
	assert.Equal(t, map[string]string{"source": "test"}, links[0].Metadata)
}

func TestMappingStore_UniqueTripleEnforced(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testLink("l1", "doc-1", "vec-1")))

	// Same triple under a different link id must still collide.
	err := store.Insert(ctx, testLink("l2", "doc-1", "vec-1"))
	assert.ErrorIs(t, err, storage.ErrDuplicateMapping)

	// A different collection is a different triple.
	other := testLink("l3", "doc-1", "vec-1")
	other.CollectionName = "archive"
	assert.NoError(t, store.Insert(ctx, other))
}

func TestMappingStore_Delete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testLink("l1", "doc-1", "vec-1")))
	require.NoError(t, store.Delete(ctx, "l1"))
	assert.ErrorIs(t, store.Delete(ctx, "l1"), storage.ErrNotFound)

	links, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestMappingStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.db")
	ctx := context.Background()

	store, err := sqlite.NewMappingStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, testLink("l1", "doc-1", "vec-1")))
	require.NoError(t, store.Close())

	reopened, err := sqlite.NewMappingStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	links, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "doc-1", links[0].EntityID)
}
