// Package mapping implements the entity-vector mapping service: the
// registry of cross-store links between graph entities/documents and
// vector-store chunks, with validate/synchronize reconciliation.
//
// Cross-store consistency is eventually consistent by design. The two
// backing stores cannot share a transaction, so instead of a two-phase
// commit the service records links through a single commit boundary (the
// mapping store) and repairs divergence with an explicit reconciliation
// pass: ValidateMappingIntegrity finds the damage, SynchronizeMappings
// fixes it.
package mapping

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// Service keeps the persisted link set mirrored in two in-process indexes:
// forward (entity id to vector ids) and reverse (collection/vector id to
// entity ids). Both indexes mutate under one mutex so a reader never sees
// one side updated and the other stale.
type Service struct {
	store  storage.MappingStore
	graph  storage.GraphStore
	vector storage.VectorStore

	// collection names the vector collection audited by integrity checks.
	collection string

	mu      sync.RWMutex
	links   map[string]types.MappingLink
	triples map[string]string
	forward map[string][]string
	reverse map[string][]string
}

// NewService creates a mapping service over the given stores and loads
// the persisted link set into the in-process indexes.
func NewService(ctx context.Context, store storage.MappingStore, graph storage.GraphStore, vector storage.VectorStore, collection string) (*Service, error) {
	if collection == "" {
		collection = "documents"
	}
	s := &Service{
		store:      store,
		graph:      graph,
		vector:     vector,
		collection: collection,
		links:      map[string]types.MappingLink{},
		triples:    map[string]string{},
		forward:    map[string][]string{},
		reverse:    map[string][]string{},
	}

	persisted, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load mapping links: %w", err)
	}
	for _, link := range persisted {
		s.index(link)
	}
	if len(persisted) > 0 {
		log.Printf("mapping: loaded %d links", len(persisted))
	}
	return s, nil
}

// CreateMapping records a new link. Returns storage.ErrDuplicateMapping
// when an active link already exists for the same
// (entityID, vectorID, collection) triple.
func (s *Service) CreateMapping(ctx context.Context, entityID, entityType, vectorID, collection string, metadata map[string]string) (types.MappingLink, error) {
	if entityID == "" || vectorID == "" {
		return types.MappingLink{}, fmt.Errorf("%w: entity id and vector id required", storage.ErrInvalidInput)
	}
	if collection == "" {
		collection = s.collection
	}

	key := tripleKey(entityID, vectorID, collection)
	s.mu.RLock()
	_, exists := s.triples[key]
	s.mu.RUnlock()
	if exists {
		return types.MappingLink{}, fmt.Errorf("%w: %s -> %s in %s", storage.ErrDuplicateMapping, entityID, vectorID, collection)
	}

	link := types.MappingLink{
		ID:             uuid.New().String(),
		EntityID:       entityID,
		EntityType:     entityType,
		VectorID:       vectorID,
		CollectionName: collection,
		Metadata:       metadata,
		CreatedAt:      time.Now().UTC(),
	}

	// The store insert is the commit boundary. Its uniqueness constraint
	// also closes the race two concurrent creators would otherwise win
	// together.
	if err := s.store.Insert(ctx, link); err != nil {
		return types.MappingLink{}, err
	}

	s.mu.Lock()
	s.index(link)
	s.mu.Unlock()
	return link, nil
}

// GetVectorsForEntity returns the vector ids linked to an entity.
func (s *Service) GetVectorsForEntity(entityID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.forward[entityID]...)
}

// GetEntitiesForVector returns the entity ids linked to a vector record in
// the given collection.
func (s *Service) GetEntitiesForVector(vectorID, collection string) []string {
	if collection == "" {
		collection = s.collection
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.reverse[reverseKey(vectorID, collection)]...)
}

// LinkCount returns the number of active links.
func (s *Service) LinkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.links)
}

// removeLink deletes a link from the store and, on success, from both
// indexes.
func (s *Service) removeLink(ctx context.Context, link types.MappingLink) error {
	if err := s.store.Delete(ctx, link.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	s.mu.Lock()
	s.unindex(link)
	s.mu.Unlock()
	return nil
}

// index adds a link to all in-process maps. Caller holds the write lock
// (or has exclusive access during construction).
func (s *Service) index(link types.MappingLink) {
	s.links[link.ID] = link
	s.triples[tripleKey(link.EntityID, link.VectorID, link.CollectionName)] = link.ID
	s.forward[link.EntityID] = append(s.forward[link.EntityID], link.VectorID)
	rk := reverseKey(link.VectorID, link.CollectionName)
	s.reverse[rk] = append(s.reverse[rk], link.EntityID)
}

// unindex removes a link from all in-process maps. Caller holds the write
// lock.
func (s *Service) unindex(link types.MappingLink) {
	delete(s.links, link.ID)
	delete(s.triples, tripleKey(link.EntityID, link.VectorID, link.CollectionName))
	s.forward[link.EntityID] = removeString(s.forward[link.EntityID], link.VectorID)
	if len(s.forward[link.EntityID]) == 0 {
		delete(s.forward, link.EntityID)
	}
	rk := reverseKey(link.VectorID, link.CollectionName)
	s.reverse[rk] = removeString(s.reverse[rk], link.EntityID)
	if len(s.reverse[rk]) == 0 {
		delete(s.reverse, rk)
	}
}

func (s *Service) snapshot() []types.MappingLink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.MappingLink, 0, len(s.links))
	for _, link := range s.links {
		out = append(out, link)
	}
	return out
}

func tripleKey(entityID, vectorID, collection string) string {
	return entityID + "\x00" + vectorID + "\x00" + collection
}

func reverseKey(vectorID, collection string) string {
	return collection + "\x00" + vectorID
}

func removeString(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
