package retrieval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/embedding"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/retrieval"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage/memory"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

func newTestEngine(t *testing.T) *retrieval.Engine {
	t.Helper()
	svc, err := embedding.NewService(embedding.NewLocalGenerator(64), embedding.ServiceOptions{CacheSize: 100})
	require.NoError(t, err)
	return retrieval.NewEngine(memory.NewVectorStore(), svc, retrieval.Options{})
}

func seedChunks(t *testing.T, engine *retrieval.Engine) {
	t.Helper()
	docs := []types.DocumentEmbedding{
		{ID: "chunk-python", DocumentID: "doc-python", Content: "Python is a programming language known for readability",
			Metadata: map[string]string{"topic": "languages"}},
		{ID: "chunk-web", DocumentID: "doc-web", Content: "Web development with Python uses frameworks like Django and Flask",
			Metadata: map[string]string{"topic": "web"}},
		{ID: "chunk-nn", DocumentID: "doc-nn", Content: "Neural networks are machine learning models inspired by the brain",
			Metadata: map[string]string{"topic": "ml"}},
	}
	require.NoError(t, engine.AddDocuments(context.Background(), docs))
}

func TestAddDocuments_AssignsIDsAndEmbeds(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	err := engine.AddDocuments(ctx, []types.DocumentEmbedding{
		{Content: "a chunk with no id and no vector"},
	})
	require.NoError(t, err)

	count, err := engine.GetDocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSimilaritySearch_RanksAndFilters(t *testing.T) {
	engine := newTestEngine(t)
	seedChunks(t, engine)
	ctx := context.Background()

	hits, err := engine.SimilaritySearch(ctx, "Python programming language", 3, nil)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Similarity, hits[i].Similarity,
			"results must be ordered by descending similarity")
	}

	filtered, err := engine.SimilaritySearch(ctx, "Python", 3, map[string]string{"topic": "web"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "chunk-web", filtered[0].Chunk.ID)
}

func TestSimilaritySearch_EmptyCollectionIsNotAnError(t *testing.T) {
	engine := newTestEngine(t)

	hits, err := engine.SimilaritySearch(context.Background(), "anything", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSimilaritySearch_RejectsMalformedFilterKey(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.SimilaritySearch(context.Background(), "query", 3, map[string]string{"bad key!": "x"})
	assert.ErrorIs(t, err, retrieval.ErrInvalidFilter)
}

func TestHybridSearch_FullSemanticWeightMatchesSimilarityRanking(t *testing.T) {
	engine := newTestEngine(t)
	seedChunks(t, engine)
	ctx := context.Background()

	similarity, err := engine.SimilaritySearch(ctx, "machine learning models", 3, nil)
	require.NoError(t, err)
	hybrid, err := engine.HybridSearch(ctx, "machine learning models", 1.0, 3)
	require.NoError(t, err)

	require.Len(t, hybrid, len(similarity))
	for i := range similarity {
		assert.Equal(t, similarity[i].Chunk.ID, hybrid[i].Chunk.ID,
			"w=1.0 hybrid ranking must equal the similarity ranking")
	}
}

func TestHybridSearch_LexicalWeightLiftsKeywordMatches(t *testing.T) {
	engine := newTestEngine(t)
	seedChunks(t, engine)

	hits, err := engine.HybridSearch(context.Background(), "Django and Flask frameworks", 0.3, 3)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "chunk-web", hits[0].Chunk.ID,
		"the chunk containing the query keywords must rank first under a lexical-heavy blend")
}

func TestHybridSearch_RejectsOutOfRangeWeight(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.HybridSearch(context.Background(), "query", 1.5, 3)
	assert.ErrorIs(t, err, retrieval.ErrInvalidFilter)
	_, err = engine.HybridSearch(context.Background(), "query", -0.1, 3)
	assert.ErrorIs(t, err, retrieval.ErrInvalidFilter)
}

func TestRerankResults_BoostsExactPhraseAndNeverDrops(t *testing.T) {
	engine := newTestEngine(t)

	docs := []types.DocumentEmbedding{
		{ID: "a", Content: "completely unrelated text about cooking"},
		{ID: "b", Content: "neural networks are trained with backpropagation"},
	}
	sims := []float64{0.8, 0.75}

	reranked, scores, err := engine.RerankResults(docs, sims, "neural networks")
	require.NoError(t, err)
	require.Len(t, reranked, 2, "rerank must never drop a document")
	require.Len(t, scores, 2)

	assert.Equal(t, "b", reranked[0].ID, "exact phrase containment must lift the document")
	assert.Greater(t, scores[0], 0.8)
	assert.LessOrEqual(t, scores[0], 1.0, "scores must be clamped to 1.0")
}

func TestRerankResults_MismatchedLengthsRejected(t *testing.T) {
	engine := newTestEngine(t)

	_, _, err := engine.RerankResults([]types.DocumentEmbedding{{ID: "a"}}, nil, "q")
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestDeleteDocument_ReducesCountAndDisappearsFromSearch(t *testing.T) {
	engine := newTestEngine(t)
	seedChunks(t, engine)
	ctx := context.Background()

	before, err := engine.GetDocumentCount(ctx)
	require.NoError(t, err)

	require.NoError(t, engine.DeleteDocument(ctx, "chunk-nn"))

	after, err := engine.GetDocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, before-1, after)

	hits, err := engine.SimilaritySearch(ctx, "neural networks machine learning", 10, nil)
	require.NoError(t, err)
	for _, hit := range hits {
		assert.NotEqual(t, "chunk-nn", hit.Chunk.ID, "deleted chunk must never be returned")
	}
}

func TestUpdateDocument_RequiresExistingID(t *testing.T) {
	engine := newTestEngine(t)

	err := engine.UpdateDocument(context.Background(), types.DocumentEmbedding{ID: "ghost", Content: "x"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProcessMessage_RoundTripsCorrelationID(t *testing.T) {
	engine := newTestEngine(t)
	seedChunks(t, engine)

	request := types.AgentMessage{
		AgentID:       "coordinator",
		Type:          types.MessageVectorSearch,
		CorrelationID: "corr-123",
		Payload:       types.VectorSearchPayload{Query: "Python", K: 2},
	}
	reply := engine.ProcessMessage(context.Background(), request)

	assert.Equal(t, types.MessageResponse, reply.Type)
	assert.Equal(t, "corr-123", reply.CorrelationID)
	payload, ok := reply.Payload.(types.VectorResultPayload)
	require.True(t, ok)
	assert.Len(t, payload.Documents, len(payload.Similarities))
}

func TestProcessMessage_ErrorReplyForBadPayload(t *testing.T) {
	engine := newTestEngine(t)

	reply := engine.ProcessMessage(context.Background(), types.AgentMessage{
		AgentID:       "coordinator",
		Type:          types.MessageVectorSearch,
		CorrelationID: "corr-999",
		Payload:       types.GraphSearchPayload{Query: "wrong payload"},
	})

	assert.Equal(t, types.MessageError, reply.Type)
	assert.Equal(t, "corr-999", reply.CorrelationID)
}
