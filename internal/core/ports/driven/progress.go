package driven

import (
	"context"

	"github.com/docsync-labs/docsync/internal/core/domain"
)

// ProgressPublisher pushes progress events to the external stream observers
// subscribe to. Publishing is fire-and-forget from the pipeline's point of
// view: it never reads events back.
type ProgressPublisher interface {
	Publish(ctx context.Context, event domain.ProgressEvent) error
}

// CancellationSignal is the cooperative stop flag for in-flight runs,
// keyed by job id. The pipeline polls it between pages; external actors
// (a stop request) set it.
type CancellationSignal interface {
	// IsCancelled reports whether a cancel has been requested for the job.
	IsCancelled(ctx context.Context, jobID string) (bool, error)

	// RequestCancel asks the run with the given job id to stop at the next
	// page boundary.
	RequestCancel(ctx context.Context, jobID string) error
}
