// Package driving provides interfaces exposed to callers (primary/inbound
// ports): queue workers and synchronous request handlers.
package driving

import (
	"context"

	"github.com/docsync-labs/docsync/internal/core/domain"
)

// SyncOptions carries the per-run parameters supplied by the caller.
type SyncOptions struct {
	// JobID identifies the run for the active-job marker and the
	// cancellation signal. Empty disables both.
	JobID string

	// PageLimit overrides the connection's page limit when set.
	PageLimit *int

	// FileLimit overrides the connection's file limit when set.
	FileLimit *int
}

// Indexer runs indexing for a connection. Both entry points return only a
// terminal error; progress is communicated exclusively via the progress
// event stream.
type Indexer interface {
	// SyncFromSource fetches the connection's current snapshot through its
	// connector, reconciles removals against previously indexed documents,
	// and indexes the snapshot within the page/file budget.
	SyncFromSource(ctx context.Context, connectionID string, opts SyncOptions) error

	// SyncFromDirectContent indexes explicitly supplied content for an
	// upload connection. Removals are taken from the content's
	// RemovedDocuments list instead of a snapshot diff.
	SyncFromDirectContent(ctx context.Context, connectionID string, content domain.DirectContent, opts SyncOptions) error
}
