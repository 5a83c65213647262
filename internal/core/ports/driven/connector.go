package driven

import (
	"context"

	"github.com/docsync-labs/docsync/internal/core/domain"
)

// Connector fetches the current document snapshot for one connection.
// Each service kind (Google Drive, Dropbox, ...) has one implementation;
// the orchestration loop never branches on the service itself.
type Connector interface {
	// Service returns the service kind this connector handles.
	Service() domain.ServiceType

	// Validate checks that the connector is properly configured and
	// authenticated. Returns nil if ready to fetch.
	Validate(ctx context.Context) error

	// FetchSnapshot returns the full current set of documents for the
	// connection, with pages already extracted to plain text and tables.
	// The snapshot order determines which documents win scarce page budget.
	FetchSnapshot(ctx context.Context) ([]domain.FileContent, error)

	// Close releases resources.
	Close() error
}

// ConnectorFactory creates a connector for a connection based on its
// service kind. Adding a source means adding an implementation here, not
// touching the indexing loop.
type ConnectorFactory interface {
	Create(ctx context.Context, conn domain.Connection) (Connector, error)
}

// DirectExpander turns explicitly supplied upload content (files, links,
// raw texts) into file snapshots for the direct-upload path, which bypasses
// snapshot fetching and diffing entirely.
type DirectExpander interface {
	Expand(ctx context.Context, content domain.DirectContent) ([]domain.FileContent, error)
}
