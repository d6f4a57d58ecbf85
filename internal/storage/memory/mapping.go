package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// MappingStore implements storage.MappingStore over an in-process map.
// Safe for concurrent use.
type MappingStore struct {
	mu    sync.RWMutex
	links map[string]types.MappingLink
	// triples guards the (entity_id, vector_id, collection) uniqueness rule.
	triples map[string]string
}

// NewMappingStore creates an empty in-memory mapping store.
func NewMappingStore() *MappingStore {
	return &MappingStore{
		links:   make(map[string]types.MappingLink),
		triples: make(map[string]string),
	}
}

func tripleKey(entityID, vectorID, collection string) string {
	return entityID + "\x00" + vectorID + "\x00" + collection
}

// Insert stores a new link, enforcing triple uniqueness.
func (m *MappingStore) Insert(ctx context.Context, link types.MappingLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := tripleKey(link.EntityID, link.VectorID, link.CollectionName)
	if _, exists := m.triples[key]; exists {
		return fmt.Errorf("link %s/%s in %s: %w",
			link.EntityID, link.VectorID, link.CollectionName, storage.ErrDuplicateMapping)
	}
	m.links[link.ID] = link
	m.triples[key] = link.ID
	return nil
}

// Delete removes a link by id.
func (m *MappingStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[id]
	if !ok {
		return fmt.Errorf("link %s: %w", id, storage.ErrNotFound)
	}
	delete(m.links, id)
	delete(m.triples, tripleKey(link.EntityID, link.VectorID, link.CollectionName))
	return nil
}

// List returns all active links ordered by id.
func (m *MappingStore) List(ctx context.Context) ([]types.MappingLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	links := make([]types.MappingLink, 0, len(m.links))
	for _, l := range m.links {
		links = append(links, l)
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	return links, nil
}

// Close is a no-op for the in-memory backend.
func (m *MappingStore) Close() error { return nil }
