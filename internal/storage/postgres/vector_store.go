// Package postgres implements storage.VectorStore on PostgreSQL with the
// pgvector extension. Each store instance owns one logical collection; all
// collections share the chunks table, partitioned by the collection column.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// Schema creates the chunks table and its indexes. The cosine ivfflat index
// is created lazily by operators once the table is non-trivially populated;
// an empty-table ivfflat index has degenerate centroids.
const Schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS chunks (
	id          TEXT PRIMARY KEY,
	collection  TEXT NOT NULL,
	document_id TEXT,
	content     TEXT NOT NULL,
	embedding   vector,
	dimension   INTEGER,
	model       TEXT,
	metadata    JSONB NOT NULL DEFAULT '{}'::jsonb,
	source      TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_chunks_collection ON chunks (collection);
CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks (collection, document_id);
CREATE INDEX IF NOT EXISTS idx_chunks_metadata ON chunks USING gin (metadata);
`

// Config holds PostgreSQL vector store settings.
type Config struct {
	// DSN is the lib/pq connection string.
	DSN string

	// Collection names the logical collection this store serves.
	Collection string

	// Timeout bounds every store round-trip (default: 10s).
	Timeout time.Duration
}

// VectorStore implements storage.VectorStore on pgvector.
type VectorStore struct {
	db         *sql.DB
	collection string
	timeout    time.Duration
}

// NewVectorStore opens the database, applies the schema, and verifies
// connectivity.
func NewVectorStore(ctx context.Context, cfg Config) (*VectorStore, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("%w: collection name is required", storage.ErrInvalidInput)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", storage.ErrRetrievalUnavailable, err)
	}

	store := &VectorStore{db: db, collection: cfg.Collection, timeout: cfg.Timeout}
	if err := store.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: apply schema: %v", storage.ErrRetrievalUnavailable, err)
	}
	return store, nil
}

// Upsert inserts or replaces chunks keyed by chunk id.
func (v *VectorStore) Upsert(ctx context.Context, chunks []types.DocumentEmbedding) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", storage.ErrRetrievalUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	const upsertSQL = `
		INSERT INTO chunks (id, collection, document_id, content, embedding, dimension, model, metadata, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			document_id = excluded.document_id,
			content     = excluded.content,
			embedding   = excluded.embedding,
			dimension   = excluded.dimension,
			model       = excluded.model,
			metadata    = excluded.metadata,
			source      = excluded.source,
			updated_at  = CURRENT_TIMESTAMP
	`

	for _, c := range chunks {
		if c.ID == "" {
			return fmt.Errorf("%w: chunk id is required", storage.ErrInvalidInput)
		}
		metadata, err := json.Marshal(metadataOrEmpty(c.Metadata))
		if err != nil {
			return fmt.Errorf("%w: marshal metadata for %s", storage.ErrInvalidInput, c.ID)
		}
		_, err = tx.ExecContext(ctx, upsertSQL,
			c.ID, v.collection, nullable(c.DocumentID), c.Content,
			pgvector.NewVector(c.Embedding), c.EmbeddingDimension,
			nullable(c.EmbeddingModel), metadata, nullable(c.Source))
		if err != nil {
			return fmt.Errorf("%w: upsert %s: %v", storage.ErrRetrievalUnavailable, c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", storage.ErrRetrievalUnavailable, err)
	}
	return nil
}

// Search performs cosine nearest-neighbor search restricted to chunks whose
// metadata contains every filter entry. Cosine distance d in [0, 2] maps to
// the bounded similarity 1 - d/2.
func (v *VectorStore) Search(ctx context.Context, vector []float32, k int, filters map[string]string) ([]storage.VectorHit, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	filterJSON, err := json.Marshal(metadataOrEmpty(filters))
	if err != nil {
		return nil, fmt.Errorf("%w: marshal filters", storage.ErrInvalidInput)
	}

	const searchSQL = `
		SELECT id, document_id, content, embedding, dimension, model, metadata, source,
		       1 - (embedding <=> $1::vector) / 2 AS similarity
		FROM chunks
		WHERE collection = $2 AND embedding IS NOT NULL AND metadata @> $3::jsonb
		ORDER BY embedding <=> $1::vector, id
		LIMIT $4
	`

	rows, err := v.db.QueryContext(ctx, searchSQL, pgvector.NewVector(vector), v.collection, filterJSON, k)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", storage.ErrRetrievalUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var hits []storage.VectorHit
	for rows.Next() {
		var hit storage.VectorHit
		chunk, similarity, err := scanChunkRow(rows, true)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", storage.ErrRetrievalUnavailable, err)
		}
		hit.Chunk = chunk
		hit.Similarity = similarity
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", storage.ErrRetrievalUnavailable, err)
	}
	return hits, nil
}

// Get retrieves a chunk by id.
func (v *VectorStore) Get(ctx context.Context, id string) (*types.DocumentEmbedding, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	const getSQL = `
		SELECT id, document_id, content, embedding, dimension, model, metadata, source
		FROM chunks
		WHERE collection = $1 AND id = $2
	`
	row := v.db.QueryRowContext(ctx, getSQL, v.collection, id)
	chunk, _, err := scanChunkRow(row, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("chunk %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", storage.ErrRetrievalUnavailable, id, err)
	}
	return &chunk, nil
}

// Delete removes a chunk by id.
func (v *VectorStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	result, err := v.db.ExecContext(ctx,
		`DELETE FROM chunks WHERE collection = $1 AND id = $2`, v.collection, id)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", storage.ErrRetrievalUnavailable, id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", storage.ErrRetrievalUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("chunk %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// Count returns the exact number of live chunks in the collection.
func (v *VectorStore) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	var count int
	err := v.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chunks WHERE collection = $1`, v.collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count: %v", storage.ErrRetrievalUnavailable, err)
	}
	return count, nil
}

// ListIDs returns the ids of all live chunks in the collection.
func (v *VectorStore) ListIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	rows, err := v.db.QueryContext(ctx,
		`SELECT id FROM chunks WHERE collection = $1 ORDER BY id`, v.collection)
	if err != nil {
		return nil, fmt.Errorf("%w: list ids: %v", storage.ErrRetrievalUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scan id: %v", storage.ErrRetrievalUnavailable, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Ping verifies database connectivity.
func (v *VectorStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	if err := v.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrRetrievalUnavailable, err)
	}
	return nil
}

// Close releases the database handle.
func (v *VectorStore) Close() error {
	return v.db.Close()
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanChunkRow.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanChunkRow scans one chunk row. When withSimilarity is true the query
// included the similarity column as its final value.
func scanChunkRow(row rowScanner, withSimilarity bool) (types.DocumentEmbedding, float64, error) {
	var (
		chunk        types.DocumentEmbedding
		documentID   sql.NullString
		model        sql.NullString
		source       sql.NullString
		dimension    sql.NullInt64
		vec          pgvector.Vector
		metadataJSON []byte
		similarity   float64
	)

	dest := []any{&chunk.ID, &documentID, &chunk.Content, &vec, &dimension, &model, &metadataJSON, &source}
	if withSimilarity {
		dest = append(dest, &similarity)
	}
	if err := row.Scan(dest...); err != nil {
		return chunk, 0, err
	}

	chunk.DocumentID = documentID.String
	chunk.EmbeddingModel = model.String
	chunk.Source = source.String
	chunk.EmbeddingDimension = int(dimension.Int64)
	chunk.Embedding = vec.Slice()
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &chunk.Metadata); err != nil {
			return chunk, 0, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return chunk, similarity, nil
}

func metadataOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
