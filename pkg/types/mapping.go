package types

import "time"

// MappingLink asserts that a graph-side id corresponds to a vector-side id.
// It is the mapping service's own record, stored in neither backing store.
// At most one active link exists per (entity_id, vector_id, collection_name).
type MappingLink struct {
	ID             string            `json:"id"`
	EntityID       string            `json:"entity_id"`
	EntityType     string            `json:"entity_type"`
	VectorID       string            `json:"vector_id"`
	CollectionName string            `json:"collection_name"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// IntegrityReport is the result of a full cross-store mapping audit.
type IntegrityReport struct {
	// ValidationPassed is true iff all three collections below are empty.
	ValidationPassed bool `json:"validation_passed"`

	// OrphanedEntities lists graph documents that carry content but have
	// no outgoing mapping link.
	OrphanedEntities []string `json:"orphaned_entities"`

	// OrphanedVectors lists vector records with no incoming mapping link.
	OrphanedVectors []string `json:"orphaned_vectors"`

	// DanglingLinks lists link ids whose endpoint no longer exists on
	// either the graph or the vector side.
	DanglingLinks []string `json:"dangling_links"`
}

// SyncReport summarizes a synchronization pass over the mapping set.
// When the pass ran with dryRun=true the counts describe what would have
// been committed.
type SyncReport struct {
	MappingsUpdated int `json:"mappings_updated"`
	MappingsRemoved int `json:"mappings_removed"`
	MappingsCreated int `json:"mappings_created"`
}
