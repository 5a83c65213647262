package driven

import (
	"context"

	"github.com/docsync-labs/docsync/internal/core/domain"
)

// DocumentStore persists the relational record of indexed documents.
// Rows are keyed by (connectionID, name); the read path trusts these rows
// as the index of truth over the vector store.
type DocumentStore interface {
	// Upsert inserts or replaces the row for (doc.ConnectionID, doc.Name).
	Upsert(ctx context.Context, doc domain.IndexedDocument) error

	// Get retrieves one document row.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, connectionID, name string) (*domain.IndexedDocument, error)

	// ListByConnection returns all document rows for a connection.
	ListByConnection(ctx context.Context, connectionID string) ([]domain.IndexedDocument, error)

	// Delete removes one document row.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, connectionID, name string) error
}
