// Package neo4j implements storage.GraphStore on a Neo4j server via the
// official Bolt driver. Entity nodes carry the Entity label and document
// nodes the Document label; edges keep their ingestion-time type.
package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// Config holds Neo4j connection settings.
type Config struct {
	// URI is the bolt:// or neo4j:// address of the server.
	URI string

	// User and Password authenticate against the server.
	User     string
	Password string

	// Database selects the database within the server (default: neo4j).
	Database string

	// Timeout bounds every store round-trip (default: 10s).
	Timeout time.Duration
}

// GraphStore implements storage.GraphStore on Neo4j.
type GraphStore struct {
	driver   neo4j.DriverWithContext
	database string
	timeout  time.Duration
}

// NewGraphStore creates a driver for the given configuration and verifies
// connectivity before returning.
func NewGraphStore(ctx context.Context, cfg Config) (*GraphStore, error) {
	if cfg.Database == "" {
		cfg.Database = "neo4j"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: create driver: %v", storage.ErrGraphUnavailable, err)
	}

	store := &GraphStore{driver: driver, database: cfg.Database, timeout: cfg.Timeout}
	if err := store.Ping(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}
	return store, nil
}

// read runs a Cypher query in a read transaction with the store timeout
// applied and returns the collected records.
func (g *GraphStore) read(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: g.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return records.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrGraphUnavailable, err)
	}
	return result.([]*neo4j.Record), nil
}

// GetEntity retrieves an entity node by id.
func (g *GraphStore) GetEntity(ctx context.Context, id string) (*types.Entity, error) {
	records, err := g.read(ctx, `MATCH (e:Entity {id: $id}) RETURN e LIMIT 1`, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("entity %s: %w", id, storage.ErrNotFound)
	}
	entity := nodeToEntity(records[0].Values[0].(neo4j.Node))
	return &entity, nil
}

// SearchEntities returns entities whose name or type matches term,
// case-insensitively, exact or substring.
func (g *GraphStore) SearchEntities(ctx context.Context, term string) ([]types.Entity, error) {
	query := `
		MATCH (e:Entity)
		WHERE toLower(e.name) CONTAINS toLower($term)
		   OR toLower(e.entity_type) = toLower($term)
		RETURN e
		ORDER BY e.id
	`
	records, err := g.read(ctx, query, map[string]any{"term": term})
	if err != nil {
		return nil, err
	}

	entities := make([]types.Entity, 0, len(records))
	for _, rec := range records {
		entities = append(entities, nodeToEntity(rec.Values[0].(neo4j.Node)))
	}
	return entities, nil
}

// Neighbors returns the edges incident to nodeID with the node on the far
// side of each edge.
func (g *GraphStore) Neighbors(ctx context.Context, nodeID string) ([]types.Relationship, []types.Entity, error) {
	query := `
		MATCH (n {id: $id})-[r]-(m)
		RETURN r, m
	`
	records, err := g.read(ctx, query, map[string]any{"id": nodeID})
	if err != nil {
		return nil, nil, err
	}

	var rels []types.Relationship
	var nodes []types.Entity
	for _, rec := range records {
		rel, ok := rec.Values[0].(neo4j.Relationship)
		if !ok {
			continue
		}
		node, ok := rec.Values[1].(neo4j.Node)
		if !ok {
			continue
		}
		rels = append(rels, edgeToRelationship(rel, node, nodeID))
		nodes = append(nodes, nodeToEntity(node))
	}
	return rels, nodes, nil
}

// GetDocument retrieves a document node by id.
func (g *GraphStore) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	records, err := g.read(ctx, `MATCH (d:Document {id: $id}) RETURN d LIMIT 1`, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("document %s: %w", id, storage.ErrNotFound)
	}
	doc := nodeToDocument(records[0].Values[0].(neo4j.Node))
	return &doc, nil
}

// ListDocumentIDs returns the ids of all document nodes.
func (g *GraphStore) ListDocumentIDs(ctx context.Context) ([]string, error) {
	records, err := g.read(ctx, `MATCH (d:Document) RETURN d.id ORDER BY d.id`, nil)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if id, ok := rec.Values[0].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// RunReadQuery executes the caller's query verbatim in a read transaction
// and maps every node value in the result to an entity. The read-only
// guarantee is enforced by the graph navigator before this call; running
// inside a read transaction is a second line of defense, not the contract.
func (g *GraphStore) RunReadQuery(ctx context.Context, query string) ([]types.Entity, error) {
	records, err := g.read(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	var entities []types.Entity
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, value := range rec.Values {
			node, ok := value.(neo4j.Node)
			if !ok {
				continue
			}
			entity := nodeToEntity(node)
			if entity.ID == "" || seen[entity.ID] {
				continue
			}
			seen[entity.ID] = true
			entities = append(entities, entity)
		}
	}
	return entities, nil
}

// Counts returns entity, document, and relationship totals.
func (g *GraphStore) Counts(ctx context.Context) (int, int, int, error) {
	query := `
		RETURN count { MATCH (e:Entity) RETURN e } AS entities,
		       count { MATCH (d:Document) RETURN d } AS documents,
		       count { MATCH ()-[r]->() RETURN r } AS relationships
	`
	records, err := g.read(ctx, query, nil)
	if err != nil {
		return 0, 0, 0, err
	}
	if len(records) == 0 {
		return 0, 0, 0, nil
	}
	rec := records[0]
	return int(rec.Values[0].(int64)), int(rec.Values[1].(int64)), int(rec.Values[2].(int64)), nil
}

// Ping verifies server connectivity.
func (g *GraphStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	if err := g.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrGraphUnavailable, err)
	}
	return nil
}

// Close releases the driver.
func (g *GraphStore) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

// nodeToEntity maps a Neo4j node to an Entity. Document nodes are projected
// into the entity shape with their title as the name.
func nodeToEntity(node neo4j.Node) types.Entity {
	props := node.Props
	if hasLabel(node, "Document") {
		return types.Entity{
			ID:          stringProp(props, "id"),
			Name:        stringProp(props, "title"),
			Type:        types.EntityTypeDocument,
			Description: stringProp(props, "content"),
		}
	}

	entity := types.Entity{
		ID:          stringProp(props, "id"),
		Name:        stringProp(props, "name"),
		Type:        stringProp(props, "entity_type"),
		Description: stringProp(props, "description"),
		Properties:  make(map[string]interface{}),
	}
	for key, value := range props {
		switch key {
		case "id", "name", "entity_type", "description":
		default:
			entity.Properties[key] = value
		}
	}
	return entity
}

// nodeToDocument maps a Neo4j node to a Document.
func nodeToDocument(node neo4j.Node) types.Document {
	props := node.Props
	return types.Document{
		ID:      stringProp(props, "id"),
		Title:   stringProp(props, "title"),
		Content: stringProp(props, "content"),
		Source:  stringProp(props, "source"),
	}
}

// edgeToRelationship maps a Neo4j relationship to the domain type. The
// driver exposes internal element ids for endpoints; the domain ids live in
// node properties, so the far endpoint comes from the matched node and the
// near endpoint is the traversal origin.
func edgeToRelationship(rel neo4j.Relationship, farNode neo4j.Node, nearID string) types.Relationship {
	farID := stringProp(farNode.Props, "id")
	from, to := nearID, farID
	if rel.StartElementId == farNode.ElementId {
		from, to = farID, nearID
	}

	out := types.Relationship{
		ID:     rel.ElementId,
		Type:   rel.Type,
		FromID: from,
		ToID:   to,
	}
	if len(rel.Props) > 0 {
		out.Properties = rel.Props
	}
	return out
}

func hasLabel(node neo4j.Node, label string) bool {
	for _, l := range node.Labels {
		if l == label {
			return true
		}
	}
	return false
}

func stringProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}
