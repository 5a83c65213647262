package memory

import (
	"context"
	"sync"

	"github.com/docsync-labs/docsync/internal/core/domain"
	"github.com/docsync-labs/docsync/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore for
// testing. Lookups scan linearly; fine at test sizes.
type VectorStore struct {
	mu     sync.RWMutex
	points map[string]domain.VectorPoint // keyed by point id
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		points: make(map[string]domain.VectorPoint),
	}
}

// Upsert writes the batch of points, replacing existing ids.
func (s *VectorStore) Upsert(ctx context.Context, points []domain.VectorPoint, wait bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range points {
		s.points[p.ID] = p
	}
	return nil
}

// FindByHash looks up a point by (contentHash, ownerID).
func (s *VectorStore) FindByHash(ctx context.Context, contentHash, ownerID string) (*domain.VectorPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.points {
		if p.ContentHash == contentHash && p.OwnerID == ownerID {
			copied := p
			return &copied, nil
		}
	}
	return nil, nil
}

// DeleteByDocument removes every point matching (documentID, ownerID).
func (s *VectorStore) DeleteByDocument(ctx context.Context, documentID, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.points {
		if p.DocumentID == documentID && p.OwnerID == ownerID {
			delete(s.points, id)
		}
	}
	return nil
}

// Close releases resources (no-op for memory store).
func (s *VectorStore) Close() error {
	return nil
}

// Count returns the number of stored points. Test helper.
func (s *VectorStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// All returns a copy of all stored points. Test helper.
func (s *VectorStore) All() []domain.VectorPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.VectorPoint, 0, len(s.points))
	for _, p := range s.points {
		result = append(result, p)
	}
	return result
}
