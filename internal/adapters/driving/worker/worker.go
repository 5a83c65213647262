// Package worker implements the queue-consuming indexing worker: it blocks
// on the Redis job queue and dispatches each job to the indexer.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docsync-labs/docsync/internal/adapters/driven/progress/redispub"
	"github.com/docsync-labs/docsync/internal/core/domain"
	"github.com/docsync-labs/docsync/internal/core/ports/driven"
	"github.com/docsync-labs/docsync/internal/core/ports/driving"
	"github.com/docsync-labs/docsync/internal/logger"
)

// JobSource yields queued indexing jobs. Satisfied by redispub.Queue.
type JobSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*redispub.Job, error)
}

// Worker consumes indexing jobs one at a time. Jobs for a connection that
// is already syncing are dropped; the active-job marker is the mutex.
type Worker struct {
	indexer     driving.Indexer
	queue       JobSource
	connections driven.ConnectionStore
	pollTimeout time.Duration
}

// New creates a worker.
func New(indexer driving.Indexer, queue JobSource, connections driven.ConnectionStore, pollTimeout time.Duration) *Worker {
	if pollTimeout <= 0 {
		pollTimeout = 5 * time.Second
	}
	return &Worker{
		indexer:     indexer,
		queue:       queue,
		connections: connections,
		pollTimeout: pollTimeout,
	}
}

// Run consumes jobs until the context is cancelled. Job failures are logged
// and never stop the loop.
func (w *Worker) Run(ctx context.Context) error {
	logger.Info("worker started, polling every %s", w.pollTimeout)
	for {
		if err := ctx.Err(); err != nil {
			logger.Info("worker stopping: %v", err)
			return nil
		}

		job, err := w.queue.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error("dequeue: %v", err)
			continue
		}
		if job == nil {
			continue // poll timeout, re-check shutdown
		}

		if err := w.handle(ctx, job); err != nil {
			logger.Error("job %s for connection %s: %v", job.ID, job.ConnectionID, err)
		}
	}
}

// handle dispatches one job. Direct-upload jobs carry their content; source
// jobs trigger a snapshot fetch.
func (w *Worker) handle(ctx context.Context, job *redispub.Job) error {
	conn, err := w.connections.Get(ctx, job.ConnectionID)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	if conn.IsSyncing() {
		logger.Warn("connection %s already syncing under job %s, dropping job %s",
			conn.ID, conn.ActiveJobID, job.ID)
		return domain.ErrSyncInProgress
	}

	opts := driving.SyncOptions{
		JobID:     job.ID,
		PageLimit: job.PageLimit,
		FileLimit: job.FileLimit,
	}

	if job.Content != nil {
		return w.indexer.SyncFromDirectContent(ctx, job.ConnectionID, *job.Content, opts)
	}
	return w.indexer.SyncFromSource(ctx, job.ConnectionID, opts)
}
