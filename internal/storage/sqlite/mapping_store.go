// Package sqlite implements storage.MappingStore on a local SQLite file.
// Mapping links belong to neither backing store, so they get their own
// durable home; SQLite keeps the deployment footprint at zero extra
// services.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// Schema creates the mapping_links table. The unique index is the commit
// boundary for the one-active-link-per-triple rule.
const Schema = `
CREATE TABLE IF NOT EXISTS mapping_links (
	id          TEXT PRIMARY KEY,
	entity_id   TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	vector_id   TEXT NOT NULL,
	collection  TEXT NOT NULL,
	metadata    TEXT NOT NULL DEFAULT '{}',
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_links_triple
	ON mapping_links (entity_id, vector_id, collection);
CREATE INDEX IF NOT EXISTS idx_links_entity ON mapping_links (entity_id);
CREATE INDEX IF NOT EXISTS idx_links_vector ON mapping_links (collection, vector_id);
`

// MappingStore implements storage.MappingStore on SQLite.
// Use ":memory:" as the DSN for an ephemeral store.
type MappingStore struct {
	db *sql.DB
}

// NewMappingStore opens the database at dsn and applies the schema.
func NewMappingStore(dsn string) (*MappingStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", dsn, err)
	}

	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent link creation.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &MappingStore{db: db}, nil
}

// Insert stores a new link, enforcing triple uniqueness via the unique
// index so concurrent writers cannot race past the check.
func (m *MappingStore) Insert(ctx context.Context, link types.MappingLink) error {
	metadata, err := json.Marshal(link.Metadata)
	if err != nil {
		return fmt.Errorf("%w: marshal metadata", storage.ErrInvalidInput)
	}

	const insertSQL = `
		INSERT INTO mapping_links (id, entity_id, entity_type, vector_id, collection, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = m.db.ExecContext(ctx, insertSQL,
		link.ID, link.EntityID, link.EntityType, link.VectorID,
		link.CollectionName, string(metadata), link.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("link %s/%s in %s: %w",
				link.EntityID, link.VectorID, link.CollectionName, storage.ErrDuplicateMapping)
		}
		return fmt.Errorf("sqlite: insert link: %w", err)
	}
	return nil
}

// Delete removes a link by id.
func (m *MappingStore) Delete(ctx context.Context, id string) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM mapping_links WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete link: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("link %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// List returns all active links ordered by id.
func (m *MappingStore) List(ctx context.Context) ([]types.MappingLink, error) {
	const listSQL = `
		SELECT id, entity_id, entity_type, vector_id, collection, metadata, created_at
		FROM mapping_links
		ORDER BY id
	`
	rows, err := m.db.QueryContext(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list links: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var links []types.MappingLink
	for rows.Next() {
		var link types.MappingLink
		var metadataJSON string
		if err := rows.Scan(&link.ID, &link.EntityID, &link.EntityType,
			&link.VectorID, &link.CollectionName, &metadataJSON, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan link: %w", err)
		}
		if metadataJSON != "" && metadataJSON != "null" {
			if err := json.Unmarshal([]byte(metadataJSON), &link.Metadata); err != nil {
				return nil, fmt.Errorf("sqlite: unmarshal metadata for %s: %w", link.ID, err)
			}
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// Close releases the database handle.
func (m *MappingStore) Close() error {
	return m.db.Close()
}

// isUniqueViolation reports whether err is a unique-constraint failure.
// The modernc driver surfaces constraint names in the error text.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "constraint failed")
}
