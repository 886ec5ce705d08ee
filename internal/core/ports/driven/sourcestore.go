package driven

import (
	"context"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

// SourceStore persists configured sources and their sync cursors.
type SourceStore interface {
	// Save stores or updates a source. Cursor and CursorVersion are not
	// written here; use AdvanceCursor.
	Save(ctx context.Context, source domain.Source) error

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all configured sources.
	List(ctx context.Context) ([]domain.Source, error)

	// Delete removes a source.
	Delete(ctx context.Context, id string) error

	// AdvanceCursor writes a new cursor value if and only if the stored
	// CursorVersion still equals expectedVersion, incrementing the
	// version and stamping LastSyncAt. Returns domain.ErrCursorConflict
	// when a concurrent writer got there first.
	AdvanceCursor(ctx context.Context, sourceID, cursor string, expectedVersion int64) error
}

// SyncJobStore persists sync job records.
type SyncJobStore interface {
	// Create inserts a new job record.
	Create(ctx context.Context, job *domain.SyncJob) error

	// Update rewrites a job record. Implementations reject updates to
	// jobs already in a terminal state.
	Update(ctx context.Context, job *domain.SyncJob) error

	// Get retrieves a job by ID.
	Get(ctx context.Context, id string) (*domain.SyncJob, error)

	// List returns jobs for a source, newest first. Empty sourceID lists
	// all jobs.
	List(ctx context.Context, sourceID string) ([]domain.SyncJob, error)
}
