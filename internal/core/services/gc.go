package services

import (
	"context"
	"errors"

	"github.com/docsync-labs/docsync/internal/core/domain"
	"github.com/docsync-labs/docsync/internal/logger"
)

// collectGarbage deletes the rows and vector points of documents that left
// the snapshot. Failures are logged and skipped: a half-collected document
// is picked up again on the next run, and stale points are harmless until
// then.
func (ix *Indexer) collectGarbage(ctx context.Context, conn *domain.Connection, removed []string) {
	for _, name := range removed {
		if err := ix.documents.Delete(ctx, conn.ID, name); err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.Error("delete document row %q for %s: %v", name, conn.ID, err)
			continue
		}
		if err := ix.vectors.DeleteByDocument(ctx, name, conn.OwnerID); err != nil {
			logger.Error("delete points for %q of %s: %v", name, conn.ID, err)
		}
	}
}
