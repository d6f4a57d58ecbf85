package types

import "time"

// Entity represents a named, typed node in the graph store.
// Entities are created by the external extraction pipeline; this core
// only reads them and records cross-store links against them.
type Entity struct {
	// Core identification fields
	ID          string    `json:"id"`                    // Stable unique identifier
	Name        string    `json:"name"`                  // Display name
	Type        string    `json:"type"`                  // Free-form category (see EntityType constants)
	Description string    `json:"description,omitempty"` // Human-readable description
	CreatedAt   time.Time `json:"created_at"`            // Creation timestamp
	UpdatedAt   time.Time `json:"updated_at"`            // Last update timestamp

	// Properties holds arbitrary key-value attributes set at extraction time.
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// Common entity type values. Type is free-form; these cover the categories
// the ingestion pipeline emits today.
const (
	EntityTypeDocument   = "Document"
	EntityTypeConcept    = "Concept"
	EntityTypeTechnology = "Technology"
	EntityTypePerson     = "Person"
	EntityTypeOrg        = "Organization"
)

// Document represents an ingested unit of text stored as a graph node.
// One Document may be mentioned by many Entities and maps to zero or more
// vector-store chunks (chunking happens upstream).
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
