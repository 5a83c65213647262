package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/docsync-labs/docsync/internal/core/domain"
	"github.com/docsync-labs/docsync/internal/core/ports/driven"
	"github.com/docsync-labs/docsync/internal/core/ports/driving"
	"github.com/docsync-labs/docsync/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.Indexer = (*Indexer)(nil)

// unlimited marks a page or file budget with no cap.
const unlimited = -1

// Indexer coordinates one indexing run per invocation: it fetches a
// snapshot, reconciles removals, enforces the page/file budget, chunks and
// deduplicates content, and commits the result to both stores.
//
// Documents and pages are processed strictly sequentially. The page budget
// and the cumulative progress counter are a single total order per run;
// cancellation is observed at page boundaries.
type Indexer struct {
	connections driven.ConnectionStore
	documents   driven.DocumentStore
	vectors     driven.VectorStore
	embedder    driven.EmbeddingService
	summaries   driven.SummaryService
	progress    driven.ProgressPublisher
	cancels     driven.CancellationSignal
	factory     driven.ConnectorFactory
	uploads     driven.DirectExpander

	splitter textsplitter.TextSplitter
	now      func() time.Time
}

// NewIndexer creates an indexer wired to the given adapters.
func NewIndexer(
	connections driven.ConnectionStore,
	documents driven.DocumentStore,
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
	summaries driven.SummaryService,
	progress driven.ProgressPublisher,
	cancels driven.CancellationSignal,
	factory driven.ConnectorFactory,
	uploads driven.DirectExpander,
) *Indexer {
	return &Indexer{
		connections: connections,
		documents:   documents,
		vectors:     vectors,
		embedder:    embedder,
		summaries:   summaries,
		progress:    progress,
		cancels:     cancels,
		factory:     factory,
		uploads:     uploads,
		splitter:    newSplitter(),
		now:         time.Now,
	}
}

// runState threads the run-scoped accumulators through the loop: the shared
// page budget, the cumulative counters seeded from prior runs, and the
// batches destined for the commit.
type runState struct {
	started    time.Time
	pageBudget int // pages this run may still index; negative means unbounded
	fileLimit  int // documents this run may touch; negative means unbounded
	pagesTotal int // cumulative pages, seeded from already-indexed pages
	filesDone  int
	cancelled  bool

	points    []domain.VectorPoint
	completed []domain.IndexedDocument
}

func (st *runState) budgetExhausted() bool { return st.pageBudget == 0 }

func (st *runState) consumePage() {
	if st.pageBudget > 0 {
		st.pageBudget--
	}
}

func (st *runState) stopped() bool { return st.cancelled || st.budgetExhausted() }

func (st *runState) fileLimitReached() bool {
	return st.fileLimit >= 0 && st.filesDone >= st.fileLimit
}

// SyncFromSource fetches the connection's snapshot through its connector,
// diffs it against previously indexed documents and indexes it.
func (ix *Indexer) SyncFromSource(ctx context.Context, connectionID string, opts driving.SyncOptions) error {
	started := ix.now()

	conn, err := ix.connections.Get(ctx, connectionID)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}

	connector, err := ix.factory.Create(ctx, *conn)
	if err != nil {
		return ix.fail(ctx, conn, started, 0, 0, fmt.Errorf("create connector: %w", err))
	}
	defer connector.Close()

	files, err := connector.FetchSnapshot(ctx)
	if err != nil {
		// No per-document information exists before the fetch completes:
		// the terminal event carries zero counts.
		return ix.fail(ctx, conn, started, 0, 0, fmt.Errorf("fetch snapshot: %w", err))
	}

	stored, err := ix.documents.ListByConnection(ctx, conn.ID)
	if err != nil {
		return ix.fail(ctx, conn, started, 0, 0, fmt.Errorf("list documents: %w", err))
	}

	removed := removedDocuments(stored, files)
	return ix.run(ctx, conn, files, stored, removed, opts, started)
}

// SyncFromDirectContent indexes explicitly supplied upload content. There
// is no snapshot diff; removals come from the content's RemovedDocuments.
func (ix *Indexer) SyncFromDirectContent(ctx context.Context, connectionID string, content domain.DirectContent, opts driving.SyncOptions) error {
	started := ix.now()

	conn, err := ix.connections.Get(ctx, connectionID)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}

	files, err := ix.uploads.Expand(ctx, content)
	if err != nil {
		return ix.fail(ctx, conn, started, 0, 0, fmt.Errorf("expand direct content: %w", err))
	}

	stored, err := ix.documents.ListByConnection(ctx, conn.ID)
	if err != nil {
		return ix.fail(ctx, conn, started, 0, 0, fmt.Errorf("list documents: %w", err))
	}

	return ix.run(ctx, conn, files, stored, content.RemovedDocuments, opts, started)
}

// run executes the indexing loop over a resolved snapshot and commits the
// outcome. The loop stops on budget exhaustion, file limit or cancellation;
// all of those still reach the commit with whatever was accumulated.
func (ix *Indexer) run(
	ctx context.Context,
	conn *domain.Connection,
	files []domain.FileContent,
	stored []domain.IndexedDocument,
	removed []string,
	opts driving.SyncOptions,
	started time.Time,
) error {
	if opts.JobID != "" {
		if err := ix.connections.SetActiveJob(ctx, conn.ID, opts.JobID); err != nil {
			return ix.fail(ctx, conn, started, 0, 0, fmt.Errorf("set active job: %w", err))
		}
	}

	// GC failures are independent of indexing failures: they are logged
	// and the run proceeds.
	ix.collectGarbage(ctx, conn, removed)

	snapshotNames := make(map[string]bool, len(files))
	for _, f := range files {
		snapshotNames[f.Name] = true
	}
	removedNames := make(map[string]bool, len(removed))
	for _, name := range removed {
		removedNames[name] = true
	}

	// Pages indexed under documents that are not being replaced in this
	// run still count against the connection's page limit.
	alreadyIndexed := 0
	for _, doc := range stored {
		if !snapshotNames[doc.Name] && !removedNames[doc.Name] {
			alreadyIndexed += doc.TotalPages
		}
	}

	pageLimit := limitFor(opts.PageLimit, conn.PageLimit)
	fileLimit := limitFor(opts.FileLimit, conn.FileLimit)

	if pageLimit != unlimited && alreadyIndexed >= pageLimit {
		// Pre-flight quota exceeded: a recognised terminal state, not an
		// error. Nothing is fetched or embedded.
		if err := ix.connections.ClearActiveJob(ctx, conn.ID); err != nil {
			logger.Error("clear active job for %s: %v", conn.ID, err)
		}
		ix.publish(ctx, domain.ProgressEvent{
			ConnectionID:   conn.ID,
			ProcessedPages: alreadyIndexed,
			Timestamp:      started,
			Status:         domain.StatusFinished,
		})
		return nil
	}

	st := &runState{
		started:    started,
		pageBudget: unlimited,
		fileLimit:  fileLimit,
		pagesTotal: alreadyIndexed,
	}
	if pageLimit != unlimited {
		st.pageBudget = pageLimit - alreadyIndexed
	}

	for _, file := range files {
		if st.stopped() || st.fileLimitReached() {
			break
		}
		if err := ix.indexFile(ctx, conn, file, opts.JobID, st); err != nil {
			return ix.fail(ctx, conn, started, st.filesDone, st.pagesTotal, err)
		}
	}

	return ix.commit(ctx, conn, st)
}

// indexFile processes one document page by page, appending points and chunk
// ids to the run state. A budget or cancellation stop mid-document leaves a
// record covering only the pages processed before the stop.
func (ix *Indexer) indexFile(ctx context.Context, conn *domain.Connection, file domain.FileContent, jobID string, st *runState) error {
	doc := domain.IndexedDocument{Name: file.Name, ConnectionID: conn.ID}
	base := payloadBase{
		DocumentID: file.Name,
		OwnerID:    conn.OwnerID,
		Source:     conn.Service,
		Metadata:   conn.MergedMetadata(file.Metadata),
	}

	for pageIdx, page := range file.Pages {
		if st.budgetExhausted() {
			break
		}
		if jobID != "" {
			cancelled, err := ix.cancels.IsCancelled(ctx, jobID)
			if err != nil {
				logger.Warn("cancellation poll for job %s: %v", jobID, err)
			} else if cancelled {
				logger.Info("job %s cancelled, stopping after %d pages", jobID, st.pagesTotal)
				st.cancelled = true
				break
			}
		}

		points, err := ix.pagePoints(ctx, page, pageIdx, base)
		if err != nil {
			return fmt.Errorf("process page %d of %q: %w", pageIdx+1, file.Name, err)
		}
		for _, p := range points {
			doc.ChunkIDs = append(doc.ChunkIDs, p.ID)
		}
		st.points = append(st.points, points...)

		doc.TotalPages++
		st.pagesTotal++
		st.consumePage()

		ix.publish(ctx, domain.ProgressEvent{
			ConnectionID:   conn.ID,
			FileName:       file.Name,
			ProcessedFiles: st.filesDone + 1,
			ProcessedPages: st.pagesTotal,
			Timestamp:      st.started,
			Status:         domain.StatusProcessing,
		})
	}

	// A document the stop condition kept entirely untouched stays eligible
	// for a future run; recording it with zero pages would replace its
	// previous row.
	if doc.TotalPages > 0 || !st.stopped() {
		st.completed = append(st.completed, doc)
		st.filesDone++
	}
	return nil
}

// commit performs the consistency commit: one batched vector upsert, then
// the relational rows, then the connection's sync state, then the terminal
// event. The vector upsert goes first so that a crash between the steps
// leaves unreferenced points rather than rows pointing at missing vectors.
func (ix *Indexer) commit(ctx context.Context, conn *domain.Connection, st *runState) error {
	var commitErr error

	if len(st.points) > 0 {
		if err := ix.vectors.Upsert(ctx, st.points, true); err != nil {
			commitErr = fmt.Errorf("upsert points: %w", err)
		}
	}

	if commitErr == nil {
		for _, doc := range st.completed {
			doc.UpdatedAt = ix.now()
			if err := ix.documents.Upsert(ctx, doc); err != nil {
				commitErr = fmt.Errorf("upsert document %q: %w", doc.Name, err)
				break
			}
		}
	}

	// The marker is released on every exit path so a failed run never
	// leaves the connection stuck in a syncing state.
	if err := ix.connections.ClearActiveJob(ctx, conn.ID); err != nil {
		if commitErr == nil {
			commitErr = fmt.Errorf("clear active job: %w", err)
		} else {
			logger.Error("clear active job for %s: %v", conn.ID, err)
		}
	}
	if commitErr == nil {
		if err := ix.connections.SetLastIndexedAt(ctx, conn.ID, st.started); err != nil {
			commitErr = fmt.Errorf("set last indexed: %w", err)
		}
	}

	event := domain.ProgressEvent{
		ConnectionID:   conn.ID,
		ProcessedFiles: st.filesDone,
		ProcessedPages: st.pagesTotal,
		Timestamp:      st.started,
		Status:         domain.StatusFinished,
	}
	if commitErr != nil {
		event.ErrorMessage = commitErr.Error()
	}
	ix.publish(ctx, event)

	return commitErr
}

// fail surfaces a run-aborting error: the marker is released, observers get
// a terminal event carrying the message, and the error is returned to the
// caller for the queue layer to retry.
func (ix *Indexer) fail(ctx context.Context, conn *domain.Connection, started time.Time, files, pages int, cause error) error {
	if err := ix.connections.ClearActiveJob(ctx, conn.ID); err != nil {
		logger.Error("clear active job for %s: %v", conn.ID, err)
	}
	ix.publish(ctx, domain.ProgressEvent{
		ConnectionID:   conn.ID,
		ProcessedFiles: files,
		ProcessedPages: pages,
		Timestamp:      started,
		ErrorMessage:   cause.Error(),
		Status:         domain.StatusFinished,
	})
	return cause
}

// publish pushes a progress event. Publishing is best-effort: a broken
// stream must not fail an otherwise healthy run.
func (ix *Indexer) publish(ctx context.Context, event domain.ProgressEvent) {
	if err := ix.progress.Publish(ctx, event); err != nil {
		logger.Warn("publish progress for %s: %v", event.ConnectionID, err)
	}
}

// limitFor resolves a budget: the request override wins over the
// connection's configured limit; neither means unbounded.
func limitFor(override, configured *int) int {
	if override != nil {
		return *override
	}
	if configured != nil {
		return *configured
	}
	return unlimited
}
