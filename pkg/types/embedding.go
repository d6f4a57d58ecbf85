package types

import "time"

// Embedding is the output of the embedding generation service for one text.
// CreatedAt is preserved on cache hits, so callers may compare CreatedAt
// values to detect that two calls were served from the same cache entry.
type Embedding struct {
	Vector    []float32 `json:"vector"`
	Dimension int       `json:"dimension"`
	ModelName string    `json:"model_name"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentEmbedding is a vector-store record holding one embedded slice
// (chunk) of a Document. Metadata carries exact-match filter keys such as
// topic and category. DocumentID must reference an existing Document or the
// mapping service reports the chunk as orphaned.
type DocumentEmbedding struct {
	ID                 string            `json:"id"`
	DocumentID         string            `json:"document_id,omitempty"`
	Content            string            `json:"content"`
	Embedding          []float32         `json:"embedding,omitempty"`
	EmbeddingModel     string            `json:"embedding_model,omitempty"`
	EmbeddingDimension int               `json:"embedding_dimension,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	Source             string            `json:"source,omitempty"`
}
