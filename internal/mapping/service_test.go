package mapping_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/mapping"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage/memory"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

type fixture struct {
	graph   *memory.GraphStore
	vector  *memory.VectorStore
	service *mapping.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	graph := memory.NewGraphStore()
	vector := memory.NewVectorStore()
	svc, err := mapping.NewService(context.Background(), memory.NewMappingStore(), graph, vector, "documents")
	require.NoError(t, err)
	return &fixture{graph: graph, vector: vector, service: svc}
}

// seedLinkedDocument stores one document with n linked chunks on both
// sides plus the mapping links between them.
func (f *fixture) seedLinkedDocument(t *testing.T, docID, title string, n int) []string {
	t.Helper()
	ctx := context.Background()
	f.graph.PutDocument(types.Document{ID: docID, Title: title, Content: title + " content"})

	chunkIDs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		chunkID := fmt.Sprintf("%s-chunk-%d", docID, i)
		chunkIDs = append(chunkIDs, chunkID)
		require.NoError(t, f.vector.Upsert(ctx, []types.DocumentEmbedding{{
			ID:         chunkID,
			DocumentID: docID,
			Content:    fmt.Sprintf("%s part %d", title, i),
			Embedding:  []float32{1, 0, 0},
		}}))
		_, err := f.service.CreateMapping(ctx, docID, types.EntityTypeDocument, chunkID, "documents", nil)
		require.NoError(t, err)
	}
	return chunkIDs
}

func TestCreateMapping_DuplicateTripleRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	link, err := f.service.CreateMapping(ctx, "doc-1", types.EntityTypeDocument, "vec-1", "documents", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, link.ID)

	_, err = f.service.CreateMapping(ctx, "doc-1", types.EntityTypeDocument, "vec-1", "documents", nil)
	assert.ErrorIs(t, err, storage.ErrDuplicateMapping)

	vectors := f.service.GetVectorsForEntity("doc-1")
	assert.Equal(t, []string{"vec-1"}, vectors, "the vector id must appear exactly once")
}

func TestCreateMapping_RequiresIDs(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateMapping(context.Background(), "", "", "vec-1", "documents", nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestLookups_ForwardAndReverseAgree(t *testing.T) {
	f := newFixture(t)
	f.seedLinkedDocument(t, "doc-a", "Topic A", 2)

	vectors := f.service.GetVectorsForEntity("doc-a")
	require.Len(t, vectors, 2)
	for _, vecID := range vectors {
		entities := f.service.GetEntitiesForVector(vecID, "documents")
		assert.Equal(t, []string{"doc-a"}, entities,
			"reverse lookup must agree with the forward index")
	}
}

func TestValidateMappingIntegrity_CleanStatePasses(t *testing.T) {
	f := newFixture(t)
	f.seedLinkedDocument(t, "doc-a", "Topic A", 3)

	report, err := f.service.ValidateMappingIntegrity(context.Background())
	require.NoError(t, err)
	assert.True(t, report.ValidationPassed)
	assert.Empty(t, report.DanglingLinks)
	assert.Empty(t, report.OrphanedVectors)
	assert.Empty(t, report.OrphanedEntities)
}

func TestValidateMappingIntegrity_RemovedDocumentDanglesItsLinks(t *testing.T) {
	f := newFixture(t)
	f.seedLinkedDocument(t, "doc-nn", "Neural Networks", 3)

	// Corrupt the graph side directly.
	f.graph.RemoveDocument("doc-nn")

	report, err := f.service.ValidateMappingIntegrity(context.Background())
	require.NoError(t, err)
	assert.False(t, report.ValidationPassed)
	assert.Len(t, report.DanglingLinks, 3, "all three chunk links must dangle")
}

func TestValidateMappingIntegrity_ReportsOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A document with no links and a chunk with no links.
	f.graph.PutDocument(types.Document{ID: "doc-lonely", Title: "Lonely"})
	require.NoError(t, f.vector.Upsert(ctx, []types.DocumentEmbedding{{
		ID: "vec-lonely", Content: "unlinked chunk", Embedding: []float32{0, 1, 0},
	}}))

	report, err := f.service.ValidateMappingIntegrity(ctx)
	require.NoError(t, err)
	assert.False(t, report.ValidationPassed)
	assert.Equal(t, []string{"doc-lonely"}, report.OrphanedEntities)
	assert.Equal(t, []string{"vec-lonely"}, report.OrphanedVectors)
}

func TestSynchronizeMappings_RepairsThenValidationPasses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedLinkedDocument(t, "doc-a", "Topic A", 2)

	// Dangle one side: remove a chunk the links still reference.
	require.NoError(t, f.vector.Delete(ctx, "doc-a-chunk-0"))

	// Orphan the other side: a chunk whose document exists but carries no
	// link yet.
	f.graph.PutDocument(types.Document{ID: "doc-b", Title: "Topic B"})
	require.NoError(t, f.vector.Upsert(ctx, []types.DocumentEmbedding{{
		ID: "vec-b", DocumentID: "doc-b", Content: "topic b chunk", Embedding: []float32{0, 0, 1},
	}}))

	report, err := f.service.SynchronizeMappings(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.MappingsRemoved)
	assert.Equal(t, 1, report.MappingsCreated)
	assert.Equal(t, 1, report.MappingsUpdated, "the surviving link is revalidated")

	integrity, err := f.service.ValidateMappingIntegrity(ctx)
	require.NoError(t, err)
	assert.True(t, integrity.ValidationPassed,
		"a freshly synchronized mapping set must validate clean")
}

func TestSynchronizeMappings_DryRunCommitsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedLinkedDocument(t, "doc-a", "Topic A", 1)
	require.NoError(t, f.vector.Delete(ctx, "doc-a-chunk-0"))

	report, err := f.service.SynchronizeMappings(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.MappingsRemoved)

	assert.Equal(t, 1, f.service.LinkCount(), "dry run must not remove the link")
	after, err := f.service.ValidateMappingIntegrity(ctx)
	require.NoError(t, err)
	assert.False(t, after.ValidationPassed, "damage remains after a dry run")
}
