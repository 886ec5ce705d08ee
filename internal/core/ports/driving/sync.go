package driving

import (
	"context"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

// SyncService drives crawls against configured sources.
type SyncService interface {
	// Trigger starts a sync run in the background and returns the job ID
	// immediately. full forces a full crawl regardless of cursor state.
	// Returns domain.ErrSyncInProgress if the source already has an
	// active job.
	Trigger(ctx context.Context, sourceID string, full bool) (string, error)

	// Run executes a sync synchronously and returns the finished job.
	Run(ctx context.Context, sourceID string, full bool) (*domain.SyncJob, error)

	// Job returns the current record for a job ID, pollable while the
	// job runs.
	Job(ctx context.Context, jobID string) (*domain.SyncJob, error)

	// Jobs lists job records for a source, newest first. Empty sourceID
	// lists all jobs.
	Jobs(ctx context.Context, sourceID string) ([]domain.SyncJob, error)
}
