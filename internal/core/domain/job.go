package domain

import "time"

// JobState is the lifecycle state of a SyncJob.
type JobState string

const (
	// JobPending means the job is created but not yet running.
	JobPending JobState = "pending"

	// JobRunning means the job has read the prior cursor and is applying
	// changes.
	JobRunning JobState = "running"

	// JobCompleted means every detected change was applied and the new
	// cursor persisted.
	JobCompleted JobState = "completed"

	// JobPartial means some changes applied and others failed. The
	// cursor does not advance past a partial batch.
	JobPartial JobState = "partial"

	// JobFailed means no changes could be applied.
	JobFailed JobState = "failed"
)

// Terminal reports whether the state is final. Terminal states are
// immutable; only the sync engine writes them.
func (s JobState) Terminal() bool {
	return s == JobCompleted || s == JobPartial || s == JobFailed
}

// CanTransition reports whether a state change is legal.
func (s JobState) CanTransition(next JobState) bool {
	switch s {
	case JobPending:
		return next == JobRunning
	case JobRunning:
		return next.Terminal()
	default:
		return false
	}
}

// JobStats carries per-run counters for a sync job.
type JobStats struct {
	// DocumentsSeen is the number of change entries or enumerated files
	// the job looked at.
	DocumentsSeen int

	// DocumentsChanged is the number of files whose chunk set was
	// replaced.
	DocumentsChanged int

	// DocumentsDeleted is the number of files tombstoned.
	DocumentsDeleted int

	// ChunksWritten is the total number of chunks inserted.
	ChunksWritten int

	// Errors is the number of files that failed after retries.
	Errors int

	// FailedFiles lists the file IDs recorded as errored.
	FailedFiles []string
}

// SyncJob records one crawl attempt against a source.
type SyncJob struct {
	// ID is the unique identifier for the job.
	ID string

	// SourceID links to the Source being synced.
	SourceID string

	// Full indicates a full crawl rather than an incremental one.
	Full bool

	// State is the current lifecycle state.
	State JobState

	// Stats carries the per-run counters.
	Stats JobStats

	// Error holds the job-level failure message for failed jobs.
	Error string

	// StartedAt is when the job entered JobRunning.
	StartedAt time.Time

	// FinishedAt is when the job reached a terminal state.
	FinishedAt time.Time
}
