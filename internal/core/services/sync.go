package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/archivist-labs/archivist/internal/chunker"
	"github.com/archivist-labs/archivist/internal/core/domain"
	"github.com/archivist-labs/archivist/internal/core/ports/driven"
	"github.com/archivist-labs/archivist/internal/core/ports/driving"
	"github.com/archivist-labs/archivist/internal/logger"
	"github.com/archivist-labs/archivist/internal/retry"
)

// DefaultConcurrency bounds simultaneous per-file pipelines during a
// crawl.
const DefaultConcurrency = 10

// Ensure SyncEngine implements the interface.
var _ driving.SyncService = (*SyncEngine)(nil)

// embedder is the slice of the batcher the sync engine needs.
type embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// SyncEngine coordinates corpus synchronisation. It exclusively owns
// the Document/Chunk/SyncJob lifecycle and the source cursor.
type SyncEngine struct {
	sourceStore driven.SourceStore
	jobStore    driven.SyncJobStore
	docStore    driven.DocumentStore
	feeds       driven.ChangeFeedFactory
	extractors  driven.ExtractorRegistry
	splitter    *chunker.Splitter
	embedder    embedder
	policy      retry.Policy
	concurrency int64

	// active maps source ID to the running job ID; one job per source.
	mu     sync.Mutex
	active map[string]string
}

// SyncConfig configures a SyncEngine.
type SyncConfig struct {
	// Concurrency bounds simultaneous file pipelines (default 10).
	Concurrency int

	// Retry is applied to transient extraction failures.
	Retry retry.Policy
}

// NewSyncEngine creates a sync engine.
func NewSyncEngine(
	sourceStore driven.SourceStore,
	jobStore driven.SyncJobStore,
	docStore driven.DocumentStore,
	feeds driven.ChangeFeedFactory,
	extractors driven.ExtractorRegistry,
	splitter *chunker.Splitter,
	embedder embedder,
	cfg SyncConfig,
) *SyncEngine {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.Default()
	}

	return &SyncEngine{
		sourceStore: sourceStore,
		jobStore:    jobStore,
		docStore:    docStore,
		feeds:       feeds,
		extractors:  extractors,
		splitter:    splitter,
		embedder:    embedder,
		policy:      cfg.Retry,
		concurrency: int64(cfg.Concurrency),
		active:      make(map[string]string),
	}
}

// Trigger starts a sync in the background and returns the job ID
// immediately. The job record is pollable via Job while the run
// proceeds.
func (e *SyncEngine) Trigger(ctx context.Context, sourceID string, full bool) (string, error) {
	source, err := e.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return "", fmt.Errorf("get source: %w", err)
	}

	job, err := e.createJob(ctx, source, full)
	if err != nil {
		return "", err
	}

	go func() {
		// Detached from the caller's request lifetime.
		e.run(context.Background(), source, job)
	}()

	return job.ID, nil
}

// Run executes a sync synchronously and returns the finished job.
func (e *SyncEngine) Run(ctx context.Context, sourceID string, full bool) (*domain.SyncJob, error) {
	source, err := e.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}

	job, err := e.createJob(ctx, source, full)
	if err != nil {
		return nil, err
	}

	e.run(ctx, source, job)
	return job, nil
}

// Job returns the stored record for a job ID.
func (e *SyncEngine) Job(ctx context.Context, jobID string) (*domain.SyncJob, error) {
	return e.jobStore.Get(ctx, jobID)
}

// Jobs lists job records for a source, newest first.
func (e *SyncEngine) Jobs(ctx context.Context, sourceID string) ([]domain.SyncJob, error) {
	return e.jobStore.List(ctx, sourceID)
}

// createJob registers the source as active and persists a pending job.
func (e *SyncEngine) createJob(ctx context.Context, source *domain.Source, full bool) (*domain.SyncJob, error) {
	e.mu.Lock()
	if jobID, busy := e.active[source.ID]; busy {
		e.mu.Unlock()
		return nil, fmt.Errorf("source %s has job %s: %w", source.ID, jobID, domain.ErrSyncInProgress)
	}

	job := &domain.SyncJob{
		ID:       uuid.New().String(),
		SourceID: source.ID,
		Full:     full || source.Cursor == "",
		State:    domain.JobPending,
	}
	e.active[source.ID] = job.ID
	e.mu.Unlock()

	if err := e.jobStore.Create(ctx, job); err != nil {
		e.clearActive(source.ID)
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

func (e *SyncEngine) clearActive(sourceID string) {
	e.mu.Lock()
	delete(e.active, sourceID)
	e.mu.Unlock()
}

// run drives one crawl to a terminal state. The cursor advances only
// when every change in the batch applied; the change feed guarantees
// no ordering, so a partial batch leaves the cursor untouched and the
// idempotent per-file replace makes the retry harmless.
func (e *SyncEngine) run(ctx context.Context, source *domain.Source, job *domain.SyncJob) {
	defer e.clearActive(source.ID)

	fail := func(err error) {
		logger.Warn("Sync %s failed: %v", job.ID, err)
		job.Error = err.Error()
		e.finish(job, domain.JobFailed)
	}

	feed, err := e.feeds.Create(ctx, *source)
	if err != nil {
		fail(fmt.Errorf("create change feed: %w", err))
		return
	}

	changes, nextCursor, full, err := e.detectChanges(ctx, feed, source, job.Full)
	if err != nil {
		fail(err)
		return
	}
	job.Full = full

	job.State = domain.JobRunning
	job.StartedAt = time.Now().UTC()
	if err := e.jobStore.Update(ctx, job); err != nil {
		fail(fmt.Errorf("mark running: %w", err))
		return
	}

	logger.Info("Sync %s: %d changes for source %s (full=%t)", job.ID, len(changes), source.ID, full)

	applied, failed := e.applyChanges(ctx, job, changes)

	switch {
	case failed == 0:
		if err := e.advanceCursor(ctx, source, nextCursor); err != nil {
			// The batch is applied; a lost CAS race or store error only
			// means the next run refetches an already-applied batch.
			logger.Warn("Sync %s: cursor not advanced: %v", job.ID, err)
			job.Error = fmt.Sprintf("cursor not advanced: %v", err)
		}
		e.finish(job, domain.JobCompleted)
	case applied > 0:
		e.finish(job, domain.JobPartial)
	default:
		job.Error = "no changes could be applied"
		e.finish(job, domain.JobFailed)
	}
}

// detectChanges produces the change list for this run. A missing or
// undecodable cursor forces a full crawl rather than guessing partial
// state.
func (e *SyncEngine) detectChanges(
	ctx context.Context,
	feed driven.ChangeFeed,
	source *domain.Source,
	full bool,
) ([]driven.Change, string, bool, error) {
	if !full {
		changes, next, err := feed.Changes(ctx, source.Cursor)
		if err == nil {
			return changes, next, false, nil
		}
		if !errors.Is(err, domain.ErrInvalidCursor) {
			return nil, "", false, fmt.Errorf("list changes: %w", err)
		}
		logger.Warn("Source %s: stored cursor rejected, falling back to full crawl", source.ID)
	}

	// Capture the feed position before enumerating so changes made
	// during the crawl are picked up by the next incremental run.
	next, err := feed.StartCursor(ctx)
	if err != nil {
		return nil, "", true, fmt.Errorf("get start cursor: %w", err)
	}

	files, err := feed.ListAll(ctx)
	if err != nil {
		return nil, "", true, fmt.Errorf("enumerate files: %w", err)
	}

	changes := make([]driven.Change, len(files))
	for i := range files {
		changes[i] = driven.Change{
			Type:   driven.ChangeCreated,
			FileID: files[i].ID,
			File:   &files[i],
		}
	}
	return changes, next, true, nil
}

// applyChanges runs the per-file pipelines under the bounded worker
// pool. Returns the number of changes applied and the number failed;
// skipped (unsupported) changes count as neither.
func (e *SyncEngine) applyChanges(ctx context.Context, job *domain.SyncJob, changes []driven.Change) (applied, failed int) {
	sem := semaphore.NewWeighted(e.concurrency)

	var (
		wg      sync.WaitGroup
		statsMu sync.Mutex
	)

	for i := range changes {
		// Cooperative cancellation: stop scheduling new files, let the
		// in-flight ones finish.
		if ctx.Err() != nil {
			statsMu.Lock()
			job.Stats.Errors++
			statsMu.Unlock()
			failed++
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			statsMu.Lock()
			job.Stats.Errors++
			statsMu.Unlock()
			failed++
			continue
		}

		change := changes[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			outcome := e.applyChange(ctx, job.SourceID, change)

			statsMu.Lock()
			defer statsMu.Unlock()

			job.Stats.DocumentsSeen++
			switch outcome.kind {
			case outcomeReplaced:
				job.Stats.DocumentsChanged++
				job.Stats.ChunksWritten += outcome.chunks
				applied++
			case outcomeDeleted:
				job.Stats.DocumentsDeleted++
				applied++
			case outcomeSkipped:
				// Counted as seen only.
			case outcomeFailed:
				job.Stats.Errors++
				job.Stats.FailedFiles = append(job.Stats.FailedFiles, change.FileID)
				failed++
				logger.Warn("File %s: %v", change.FileID, outcome.err)
			}
		}()
	}

	wg.Wait()
	return applied, failed
}

type outcomeKind int

const (
	outcomeReplaced outcomeKind = iota
	outcomeDeleted
	outcomeSkipped
	outcomeFailed
)

type changeOutcome struct {
	kind   outcomeKind
	chunks int
	err    error
}

// applyChange runs the pipeline for one change entry: tombstone for
// deletions, extract→chunk→embed→replace otherwise. The replace is
// idempotent, so reprocessing an already-applied change converges on
// the same state.
func (e *SyncEngine) applyChange(ctx context.Context, sourceID string, change driven.Change) changeOutcome {
	if change.Type == driven.ChangeDeleted {
		if err := e.docStore.MarkDeleted(ctx, change.FileID); err != nil {
			return changeOutcome{kind: outcomeFailed, err: fmt.Errorf("mark deleted: %w", err)}
		}
		return changeOutcome{kind: outcomeDeleted}
	}

	file := change.File
	if file == nil {
		return changeOutcome{kind: outcomeFailed, err: fmt.Errorf("change without file metadata: %w", domain.ErrInvalidInput)}
	}

	if !e.extractors.Supported(file.MIMEType) {
		logger.Debug("File %s: unsupported type %s, skipping", file.ID, file.MIMEType)
		return changeOutcome{kind: outcomeSkipped}
	}

	var result *driven.ExtractResult
	err := e.policy.Do(ctx, func(ctx context.Context) error {
		var extractErr error
		result, extractErr = e.extractors.Extract(ctx, file.ID, file.MIMEType)
		return extractErr
	}, domain.IsTransient)
	if err != nil {
		return changeOutcome{kind: outcomeFailed, err: fmt.Errorf("extract: %w", err)}
	}

	chunks := e.splitter.Split(file.ID, result.Text)

	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i := range chunks {
			texts[i] = chunks[i].Text
		}
		vectors, err := e.embedder.Embed(ctx, texts)
		if err != nil {
			return changeOutcome{kind: outcomeFailed, err: fmt.Errorf("embed: %w", err)}
		}
		for i := range chunks {
			chunks[i].Embedding = vectors[i]
		}
	}

	doc := &domain.Document{
		FileID:       file.ID,
		SourceID:     sourceID,
		Name:         file.Name,
		MIMEType:     file.MIMEType,
		WebViewLink:  file.WebViewLink,
		ModifiedTime: file.ModifiedTime,
		IndexedAt:    time.Now().UTC(),
	}
	if err := e.docStore.ReplaceChunks(ctx, doc, chunks); err != nil {
		return changeOutcome{kind: outcomeFailed, err: fmt.Errorf("replace chunks: %w", err)}
	}

	return changeOutcome{kind: outcomeReplaced, chunks: len(chunks)}
}

// advanceCursor persists the new cursor with a version check so a
// concurrent writer cannot be silently overwritten.
func (e *SyncEngine) advanceCursor(ctx context.Context, source *domain.Source, cursor string) error {
	if cursor == "" || cursor == source.Cursor {
		return nil
	}
	if err := e.sourceStore.AdvanceCursor(ctx, source.ID, cursor, source.CursorVersion); err != nil {
		return err
	}
	source.Cursor = cursor
	source.CursorVersion++
	return nil
}

// finish writes the terminal job record. Uses a fresh context so a
// cancelled run still records its outcome.
func (e *SyncEngine) finish(job *domain.SyncJob, state domain.JobState) {
	job.State = state
	job.FinishedAt = time.Now().UTC()
	if job.StartedAt.IsZero() {
		job.StartedAt = job.FinishedAt
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.jobStore.Update(ctx, job); err != nil {
		logger.Warn("Sync %s: recording terminal state failed: %v", job.ID, err)
	}
}
