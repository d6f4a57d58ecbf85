package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// HybridSearch blends semantic similarity with lexical overlap:
//
//	score = w*semantic + (1-w)*lexical
//
// Both components are min-max rescaled over the candidate pool before
// blending so that differently scaled first-pass scores combine on equal
// footing. The pool is the top CandidatePool*k semantic hits. Ties break
// by semantic score, then by chunk id. With w = 1.0 the ranking is
// identical to SimilaritySearch.
func (e *Engine) HybridSearch(ctx context.Context, query string, semanticWeight float64, k int) ([]storage.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidFilter, k)
	}
	if semanticWeight < 0 || semanticWeight > 1 {
		return nil, fmt.Errorf("%w: semantic weight %v outside [0, 1]", ErrInvalidFilter, semanticWeight)
	}

	pool, err := e.SimilaritySearch(ctx, query, e.opts.CandidatePool*k, nil)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return pool, nil
	}

	queryTerms := queryTokens(query)
	lexical := make([]float64, len(pool))
	semantic := make([]float64, len(pool))
	for i, hit := range pool {
		semantic[i] = hit.Similarity
		lexical[i] = lexicalOverlap(queryTerms, strings.ToLower(query), hit.Chunk.Content)
	}
	semNorm := minMaxRescale(semantic)
	lexNorm := minMaxRescale(lexical)

	scored := make([]storage.VectorHit, len(pool))
	for i, hit := range pool {
		scored[i] = storage.VectorHit{
			Chunk:      hit.Chunk,
			Similarity: semanticWeight*semNorm[i] + (1-semanticWeight)*lexNorm[i],
		}
	}
	order := make([]int, len(scored))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if scored[ia].Similarity != scored[ib].Similarity {
			return scored[ia].Similarity > scored[ib].Similarity
		}
		if semantic[ia] != semantic[ib] {
			return semantic[ia] > semantic[ib]
		}
		return scored[ia].Chunk.ID < scored[ib].Chunk.ID
	})

	if k > len(order) {
		k = len(order)
	}
	out := make([]storage.VectorHit, 0, k)
	for _, idx := range order[:k] {
		out = append(out, scored[idx])
	}
	return out, nil
}

// RerankResults re-scores an already-retrieved result list against the
// query: exact phrase containment adds 0.15 and query-term coverage adds
// up to 0.10, with the final score clamped to 1.0. The returned list is a
// stable reordering of the input; no document is ever dropped or added.
func (e *Engine) RerankResults(docs []types.DocumentEmbedding, similarities []float64, query string) ([]types.DocumentEmbedding, []float64, error) {
	if len(docs) != len(similarities) {
		return nil, nil, fmt.Errorf("%w: %d documents but %d similarities", storage.ErrInvalidInput, len(docs), len(similarities))
	}

	queryTerms := queryTokens(query)
	phrase := strings.ToLower(strings.TrimSpace(query))

	scores := make([]float64, len(docs))
	for i, doc := range docs {
		score := similarities[i]
		content := strings.ToLower(doc.Content)
		if phrase != "" && strings.Contains(content, phrase) {
			score += 0.15
		}
		score += 0.10 * termCoverage(queryTerms, content)
		if score > 1.0 {
			score = 1.0
		}
		scores[i] = score
	}

	order := make([]int, len(docs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	outDocs := make([]types.DocumentEmbedding, len(docs))
	outScores := make([]float64, len(docs))
	for i, idx := range order {
		outDocs[i] = docs[idx]
		outScores[i] = scores[idx]
	}
	return outDocs, outScores, nil
}

// queryTokens lowercases and splits text into unique terms.
func queryTokens(text string) []string {
	seen := map[string]bool{}
	var terms []string
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?\"'()[]{}")
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		terms = append(terms, tok)
	}
	return terms
}

// termCoverage returns the fraction of query terms present in content.
func termCoverage(terms []string, loweredContent string) float64 {
	if len(terms) == 0 {
		return 0
	}
	found := 0
	for _, term := range terms {
		if strings.Contains(loweredContent, term) {
			found++
		}
	}
	return float64(found) / float64(len(terms))
}

// lexicalOverlap scores keyword overlap between query and content, with a
// bonus when the whole query appears verbatim.
func lexicalOverlap(terms []string, loweredQuery, content string) float64 {
	lowered := strings.ToLower(content)
	score := termCoverage(terms, lowered)
	if loweredQuery != "" && strings.Contains(lowered, loweredQuery) {
		score += 0.5
	}
	return score
}

// minMaxRescale maps values linearly onto [0, 1]. A constant input maps
// to all zeros, which keeps the downstream ordering driven by the
// tie-break keys.
func minMaxRescale(values []float64) []float64 {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(values))
	if max == min {
		return out
	}
	for i, v := range values {
		out[i] = (v - min) / (max - min)
	}
	return out
}
