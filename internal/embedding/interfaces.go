package embedding

import (
	"context"
	"errors"
)

// ErrEmbedding indicates the underlying model call failed. The cache is
// left unmodified when this is returned.
var ErrEmbedding = errors.New("embedding generation failed")

// Generator is the interface to the underlying embedding model.
// Implementations return a vector for the given text; the Service above
// them adds caching and rate limiting.
type Generator interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}
