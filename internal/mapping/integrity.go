package mapping

import (
	"context"
	"errors"
	"log"
	"sort"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// ValidateMappingIntegrity audits every link against both stores.
//
// A link is dangling when its graph endpoint or its vector endpoint no
// longer resolves. A vector record with no incoming link is orphaned, as
// is a graph document with no outgoing link. ValidationPassed is true iff
// all three collections are empty.
func (s *Service) ValidateMappingIntegrity(ctx context.Context) (types.IntegrityReport, error) {
	report := types.IntegrityReport{
		OrphanedEntities: []string{},
		OrphanedVectors:  []string{},
		DanglingLinks:    []string{},
	}

	for _, link := range s.snapshot() {
		ok, err := s.linkResolves(ctx, link)
		if err != nil {
			return types.IntegrityReport{}, err
		}
		if !ok {
			report.DanglingLinks = append(report.DanglingLinks, link.ID)
		}
	}

	vectorIDs, err := s.vector.ListIDs(ctx)
	if err != nil {
		return types.IntegrityReport{}, err
	}
	for _, id := range vectorIDs {
		if len(s.GetEntitiesForVector(id, s.collection)) == 0 {
			report.OrphanedVectors = append(report.OrphanedVectors, id)
		}
	}

	documentIDs, err := s.graph.ListDocumentIDs(ctx)
	if err != nil {
		return types.IntegrityReport{}, err
	}
	for _, id := range documentIDs {
		if len(s.GetVectorsForEntity(id)) == 0 {
			report.OrphanedEntities = append(report.OrphanedEntities, id)
		}
	}

	sort.Strings(report.OrphanedEntities)
	sort.Strings(report.OrphanedVectors)
	sort.Strings(report.DanglingLinks)
	report.ValidationPassed = len(report.OrphanedEntities) == 0 &&
		len(report.OrphanedVectors) == 0 &&
		len(report.DanglingLinks) == 0
	return report, nil
}

// SynchronizeMappings repairs what ValidateMappingIntegrity finds: it
// removes dangling links and creates links for orphaned vectors whose
// document id resolves to an existing graph document. Links that pass
// revalidation are counted as updated. With dryRun the counts are
// computed but nothing is committed.
func (s *Service) SynchronizeMappings(ctx context.Context, dryRun bool) (types.SyncReport, error) {
	var report types.SyncReport

	for _, link := range s.snapshot() {
		ok, err := s.linkResolves(ctx, link)
		if err != nil {
			return types.SyncReport{}, err
		}
		if ok {
			report.MappingsUpdated++
			continue
		}
		report.MappingsRemoved++
		if dryRun {
			continue
		}
		if err := s.removeLink(ctx, link); err != nil {
			return types.SyncReport{}, err
		}
	}

	vectorIDs, err := s.vector.ListIDs(ctx)
	if err != nil {
		return types.SyncReport{}, err
	}
	for _, id := range vectorIDs {
		if len(s.GetEntitiesForVector(id, s.collection)) > 0 {
			continue
		}
		chunk, err := s.vector.Get(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return types.SyncReport{}, err
		}
		if chunk.DocumentID == "" {
			continue
		}
		if _, err := s.graph.GetDocument(ctx, chunk.DocumentID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return types.SyncReport{}, err
		}
		report.MappingsCreated++
		if dryRun {
			continue
		}
		if _, err := s.CreateMapping(ctx, chunk.DocumentID, types.EntityTypeDocument, id, s.collection, nil); err != nil {
			if errors.Is(err, storage.ErrDuplicateMapping) {
				continue
			}
			return types.SyncReport{}, err
		}
	}

	if !dryRun {
		log.Printf("mapping: synchronized links (updated=%d removed=%d created=%d)",
			report.MappingsUpdated, report.MappingsRemoved, report.MappingsCreated)
	}
	return report, nil
}

// linkResolves reports whether both endpoints of a link still exist. The
// graph side may be an entity node or a document node.
func (s *Service) linkResolves(ctx context.Context, link types.MappingLink) (bool, error) {
	if _, err := s.graph.GetEntity(ctx, link.EntityID); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return false, err
		}
		if _, derr := s.graph.GetDocument(ctx, link.EntityID); derr != nil {
			if errors.Is(derr, storage.ErrNotFound) {
				return false, nil
			}
			return false, derr
		}
	}
	if _, err := s.vector.Get(ctx, link.VectorID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
