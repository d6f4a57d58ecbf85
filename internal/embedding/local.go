package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// LocalGenerator produces deterministic pseudo-embeddings derived from
// token hashes. It backs the embedded deployment mode and the test suites:
// identical texts always map to identical unit vectors, and texts sharing
// tokens land closer together than unrelated texts.
type LocalGenerator struct {
	dimension int
}

// NewLocalGenerator creates a generator with the given vector dimension
// (default: 384).
func NewLocalGenerator(dimension int) *LocalGenerator {
	if dimension <= 0 {
		dimension = 384
	}
	return &LocalGenerator{dimension: dimension}
}

// Embed hashes each whitespace token into a handful of vector positions
// and normalizes the result to unit length.
func (g *LocalGenerator) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, g.dimension)
	for _, token := range tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(token))
		seed := h.Sum64()
		// Spread each token over four positions with alternating signs.
		for i := 0; i < 4; i++ {
			pos := int((seed >> (i * 8)) % uint64(g.dimension))
			sign := float32(1)
			if (seed>>(i*8+7))&1 == 1 {
				sign = -1
			}
			vec[pos] += sign
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec, nil
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec, nil
}

// Model identifies the deterministic local backend.
func (g *LocalGenerator) Model() string { return "local-hash" }

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
