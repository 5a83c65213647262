package memory

import (
	"context"
	"sync"

	"github.com/docsync-labs/docsync/internal/core/domain"
	"github.com/docsync-labs/docsync/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore for
// testing. Rows keep insertion order so budget-distribution behaviour is
// deterministic.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]domain.IndexedDocument // keyed by connection id
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[string][]domain.IndexedDocument),
	}
}

// Upsert inserts or replaces the row for (doc.ConnectionID, doc.Name).
func (s *DocumentStore) Upsert(ctx context.Context, doc domain.IndexedDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.docs[doc.ConnectionID]
	for i, row := range rows {
		if row.Name == doc.Name {
			rows[i] = doc
			return nil
		}
	}
	s.docs[doc.ConnectionID] = append(rows, doc)
	return nil
}

// Get retrieves one document row.
func (s *DocumentStore) Get(ctx context.Context, connectionID, name string) (*domain.IndexedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.docs[connectionID] {
		if row.Name == name {
			copied := row
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListByConnection returns all document rows for a connection.
func (s *DocumentStore) ListByConnection(ctx context.Context, connectionID string) ([]domain.IndexedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.docs[connectionID]
	result := make([]domain.IndexedDocument, len(rows))
	copy(result, rows)
	return result, nil
}

// Delete removes one document row.
func (s *DocumentStore) Delete(ctx context.Context, connectionID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.docs[connectionID]
	for i, row := range rows {
		if row.Name == name {
			s.docs[connectionID] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
