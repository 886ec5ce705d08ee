package domain

import "time"

// Source represents a configured corpus origin.
// Each source produces documents via a change feed and owns a durable
// sync cursor.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// Type identifies the feed type (e.g., "drive").
	Type string

	// Name is the human-readable name for this source.
	Name string

	// Config contains feed-specific configuration, such as the Drive
	// folder ID to scope enumeration to.
	Config map[string]string

	// Cursor is an opaque token marking the sync position in the change
	// feed. Empty means no incremental state: the next sync is a full
	// crawl.
	Cursor string

	// CursorVersion is incremented on every cursor write. Cursor updates
	// are compare-and-swap on this value so two concurrent sync runs
	// cannot silently clobber each other's progress.
	CursorVersion int64

	// LastSyncAt is when the last successful sync completed.
	LastSyncAt time.Time

	// CreatedAt is when the source was created.
	CreatedAt time.Time
}
