package types

// Relationship is a directed, typed edge between two graph nodes
// (entity to entity, or entity to document). There is no uniqueness
// constraint:
// multiple edges of the same type between the same pair are legal and
// count as repeated evidence.
type Relationship struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	FromID     string                 `json:"from_id"`
	ToID       string                 `json:"to_id"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// Relationship type constants used by the ingestion pipeline.
const (
	// RelMentionedIn links an Entity to a Document it appears in.
	RelMentionedIn = "MENTIONED_IN"

	// RelRelatedTo is the generic entity-to-entity association.
	RelRelatedTo = "RELATED_TO"

	// RelUsedFor marks an applicability edge (e.g. Python USED_FOR web development).
	RelUsedFor = "USED_FOR"
)

// OtherEnd returns the node id on the opposite side of the edge from id.
// If id is on neither side, the empty string is returned.
func (r Relationship) OtherEnd(id string) string {
	switch id {
	case r.FromID:
		return r.ToID
	case r.ToID:
		return r.FromID
	}
	return ""
}
