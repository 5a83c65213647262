package driven

import (
	"context"
	"time"

	"github.com/docsync-labs/docsync/internal/core/domain"
)

// ConnectionStore persists connection configuration and sync state.
// Backed by SQLite.
type ConnectionStore interface {
	// Get retrieves a connection by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Connection, error)

	// Save stores or updates a connection.
	Save(ctx context.Context, conn domain.Connection) error

	// List returns all connections for an owner.
	List(ctx context.Context, ownerID string) ([]domain.Connection, error)

	// Delete removes a connection and its document rows.
	Delete(ctx context.Context, id string) error

	// SetActiveJob sets the active-job marker for a connection.
	SetActiveJob(ctx context.Context, id, jobID string) error

	// ClearActiveJob clears the active-job marker.
	ClearActiveJob(ctx context.Context, id string) error

	// SetLastIndexedAt records when the latest committed run started.
	SetLastIndexedAt(ctx context.Context, id string, t time.Time) error
}
