package graphnav_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/graphnav"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage/memory"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// seedGraph builds a small topic graph:
//
//	Python -> WebDev -> Django
//	Python -> ML
func seedGraph(t *testing.T) *memory.GraphStore {
	t.Helper()
	store := memory.NewGraphStore()
	store.PutEntity(types.Entity{ID: "e-python", Name: "Python", Type: types.EntityTypeTechnology})
	store.PutEntity(types.Entity{ID: "e-webdev", Name: "Web Development", Type: types.EntityTypeConcept})
	store.PutEntity(types.Entity{ID: "e-django", Name: "Django", Type: types.EntityTypeTechnology})
	store.PutEntity(types.Entity{ID: "e-ml", Name: "Machine Learning", Type: types.EntityTypeConcept})
	store.PutRelationship(types.Relationship{ID: "r1", Type: types.RelUsedFor, FromID: "e-python", ToID: "e-webdev"})
	store.PutRelationship(types.Relationship{ID: "r2", Type: types.RelUsedFor, FromID: "e-django", ToID: "e-webdev"})
	store.PutRelationship(types.Relationship{ID: "r3", Type: types.RelUsedFor, FromID: "e-python", ToID: "e-ml"})
	return store
}

func newTestNavigator(t *testing.T) (*graphnav.Navigator, *memory.GraphStore) {
	t.Helper()
	store := seedGraph(t)
	return graphnav.NewNavigator(store, graphnav.Options{}), store
}

func TestFindEntities_ExactMatchRanksFirst(t *testing.T) {
	nav, _ := newTestNavigator(t)

	entities, err := nav.FindEntities(context.Background(), "How is Python used for Web Development?")
	require.NoError(t, err)
	require.NotEmpty(t, entities)

	assert.Equal(t, "Python", entities[0].Name, "exact name match must rank first")
	ids := map[string]bool{}
	for _, ent := range entities {
		assert.False(t, ids[ent.ID], "entity %s appears twice", ent.ID)
		ids[ent.ID] = true
	}
	assert.True(t, ids["e-webdev"], "capitalized phrase must resolve the multi-word entity")
}

func TestFindEntities_NoTermsYieldsNoMatches(t *testing.T) {
	nav, _ := newTestNavigator(t)

	entities, err := nav.FindEntities(context.Background(), "is it of the to")
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestTraverseRelationships_DepthZeroReturnsStartSetUnchanged(t *testing.T) {
	nav, _ := newTestNavigator(t)
	start := []types.Entity{{ID: "e-python", Name: "Python"}}

	result, err := nav.TraverseRelationships(context.Background(), start, 0)
	require.NoError(t, err)

	assert.Equal(t, start, result.Entities)
	assert.Empty(t, result.Relationships)
	assert.Empty(t, result.Paths)
}

func TestTraverseRelationships_BoundedBFS(t *testing.T) {
	nav, _ := newTestNavigator(t)
	ctx := context.Background()
	start := []types.Entity{{ID: "e-python", Name: "Python"}}

	one, err := nav.TraverseRelationships(ctx, start, 1)
	require.NoError(t, err)
	idsAtOne := entityIDs(one.Entities)
	assert.Contains(t, idsAtOne, "e-webdev")
	assert.Contains(t, idsAtOne, "e-ml")
	assert.NotContains(t, idsAtOne, "e-django", "django is two hops away")

	two, err := nav.TraverseRelationships(ctx, start, 2)
	require.NoError(t, err)
	assert.Contains(t, entityIDs(two.Entities), "e-django")

	relIDs := map[string]bool{}
	for _, rel := range two.Relationships {
		assert.False(t, relIDs[rel.ID], "relationship %s duplicated", rel.ID)
		relIDs[rel.ID] = true
	}
	for _, path := range two.Paths {
		assert.Equal(t, "e-python", path[0], "every path starts at the start set")
	}
}

func TestTraverseRelationships_NoConnectionsIsNotAnError(t *testing.T) {
	nav, store := newTestNavigator(t)
	store.PutEntity(types.Entity{ID: "e-isolated", Name: "Isolated"})

	result, err := nav.TraverseRelationships(context.Background(), []types.Entity{{ID: "e-isolated"}}, 3)
	require.NoError(t, err)
	assert.Len(t, result.Entities, 1)
	assert.Empty(t, result.Relationships)
	assert.Empty(t, result.Paths)
}

func TestTraverseRelationships_NegativeDepthIsMisuse(t *testing.T) {
	nav, _ := newTestNavigator(t)

	_, err := nav.TraverseRelationships(context.Background(), []types.Entity{{ID: "e-python"}}, -1)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestTraverseRelationships_PathCap(t *testing.T) {
	store := memory.NewGraphStore()
	store.PutEntity(types.Entity{ID: "hub", Name: "Hub"})
	for i := 0; i < 10; i++ {
		id := string(rune('a' + i))
		store.PutEntity(types.Entity{ID: id, Name: id})
		store.PutRelationship(types.Relationship{ID: "r-" + id, Type: types.RelRelatedTo, FromID: "hub", ToID: id})
	}
	nav := graphnav.NewNavigator(store, graphnav.Options{MaxPaths: 4})

	result, err := nav.TraverseRelationships(context.Background(), []types.Entity{{ID: "hub"}}, 1)
	require.NoError(t, err)
	assert.Len(t, result.Paths, 4, "paths must be truncated to the configured cap")
	assert.Len(t, result.Entities, 11, "entity collection is not truncated")
}

func TestExecuteCypherQuery_AllowsReads(t *testing.T) {
	nav, _ := newTestNavigator(t)

	result, err := nav.ExecuteCypherQuery(context.Background(), "MATCH (n:Entity) RETURN n")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Entities)
	assert.Equal(t, "MATCH (n:Entity) RETURN n", result.CypherQuery)
}

func TestExecuteCypherQuery_RejectsWriteIntent(t *testing.T) {
	nav, _ := newTestNavigator(t)
	ctx := context.Background()

	for _, query := range []string{
		"CREATE (n:Entity {id: 'x'})",
		"MATCH (n) DETACH DELETE n",
		"MERGE (n:Entity {id: 'x'})",
		"MATCH (n) SET n.name = 'pwned'",
		"match (n) remove n.name",
	} {
		_, err := nav.ExecuteCypherQuery(ctx, query)
		assert.ErrorIs(t, err, graphnav.ErrReadOnlyViolation, "query %q must be rejected", query)
	}
}

func TestExecuteCypherQuery_KeywordInsideStringLiteralIsAllowed(t *testing.T) {
	nav, _ := newTestNavigator(t)

	_, err := nav.ExecuteCypherQuery(context.Background(),
		"MATCH (n:Entity) WHERE n.name = 'DELETE ME' RETURN n")
	assert.NoError(t, err, "write keywords inside string literals carry no write intent")
}

func TestProcessMessage_GraphSearchRoundTrip(t *testing.T) {
	nav, _ := newTestNavigator(t)

	reply := nav.ProcessMessage(context.Background(), types.AgentMessage{
		AgentID:       "coordinator",
		Type:          types.MessageGraphSearch,
		CorrelationID: "corr-g1",
		Payload:       types.GraphSearchPayload{Query: "Python", Depth: 2},
	})

	require.Equal(t, types.MessageResponse, reply.Type)
	assert.Equal(t, "corr-g1", reply.CorrelationID)
	payload, ok := reply.Payload.(types.GraphResultPayload)
	require.True(t, ok)
	assert.NotEmpty(t, payload.Entities)
}

func entityIDs(entities []types.Entity) []string {
	ids := make([]string, 0, len(entities))
	for _, ent := range entities {
		ids = append(ids, ent.ID)
	}
	return ids
}
