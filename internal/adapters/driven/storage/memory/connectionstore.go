package memory

import (
	"context"
	"sync"
	"time"

	"github.com/docsync-labs/docsync/internal/core/domain"
	"github.com/docsync-labs/docsync/internal/core/ports/driven"
)

// Ensure ConnectionStore implements the interface.
var _ driven.ConnectionStore = (*ConnectionStore)(nil)

// ConnectionStore is an in-memory implementation of driven.ConnectionStore
// for testing.
type ConnectionStore struct {
	mu          sync.RWMutex
	connections map[string]domain.Connection
}

// NewConnectionStore creates a new in-memory connection store.
func NewConnectionStore() *ConnectionStore {
	return &ConnectionStore{
		connections: make(map[string]domain.Connection),
	}
}

// Get retrieves a connection by ID.
func (s *ConnectionStore) Get(ctx context.Context, id string) (*domain.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conn, ok := s.connections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := conn
	return &copied, nil
}

// Save stores or updates a connection.
func (s *ConnectionStore) Save(ctx context.Context, conn domain.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[conn.ID] = conn
	return nil
}

// List returns all connections for an owner.
func (s *ConnectionStore) List(ctx context.Context, ownerID string) ([]domain.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Connection
	for _, conn := range s.connections {
		if conn.OwnerID == ownerID {
			result = append(result, conn)
		}
	}
	return result, nil
}

// Delete removes a connection.
func (s *ConnectionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.connections[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.connections, id)
	return nil
}

// SetActiveJob sets the active-job marker for a connection.
func (s *ConnectionStore) SetActiveJob(ctx context.Context, id, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.connections[id]
	if !ok {
		return domain.ErrNotFound
	}
	conn.ActiveJobID = jobID
	s.connections[id] = conn
	return nil
}

// ClearActiveJob clears the active-job marker.
func (s *ConnectionStore) ClearActiveJob(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.connections[id]
	if !ok {
		return domain.ErrNotFound
	}
	conn.ActiveJobID = ""
	s.connections[id] = conn
	return nil
}

// SetLastIndexedAt records when the latest committed run started.
func (s *ConnectionStore) SetLastIndexedAt(ctx context.Context, id string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.connections[id]
	if !ok {
		return domain.ErrNotFound
	}
	conn.LastIndexedAt = &t
	s.connections[id] = conn
	return nil
}
