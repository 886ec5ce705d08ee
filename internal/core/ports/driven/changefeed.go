package driven

import (
	"context"
	"time"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

// ChangeType classifies a change feed entry.
type ChangeType int

const (
	// ChangeCreated indicates a new file.
	ChangeCreated ChangeType = iota

	// ChangeModified indicates an updated file.
	ChangeModified

	// ChangeDeleted indicates a removed or trashed file.
	ChangeDeleted
)

// FileMetadata describes a source file as reported by the feed.
type FileMetadata struct {
	// ID is the source-assigned stable file identifier.
	ID string

	// Name is the file display name.
	Name string

	// MIMEType is the content type tag.
	MIMEType string

	// WebViewLink is the canonical link to the file.
	WebViewLink string

	// ModifiedTime is the source's last-modified timestamp.
	ModifiedTime time.Time
}

// Change is one entry from the change feed.
type Change struct {
	// Type is the kind of change.
	Type ChangeType

	// FileID identifies the affected file. Always set, including for
	// deletions where File is nil.
	FileID string

	// File carries metadata for created/modified entries; nil for
	// deletions.
	File *FileMetadata
}

// ChangeFeed enumerates a source's files and their changes.
// One feed instance is bound to one source.
type ChangeFeed interface {
	// StartCursor returns the token marking "now" in the feed, used to
	// seed incremental sync after a full crawl.
	StartCursor(ctx context.Context) (string, error)

	// Changes lists changes since the cursor and returns the next
	// cursor. The feed does not guarantee change ordering.
	Changes(ctx context.Context, cursor string) ([]Change, string, error)

	// ListAll enumerates all live files for the source.
	ListAll(ctx context.Context) ([]FileMetadata, error)
}

// ChangeFeedFactory creates a feed for a configured source.
type ChangeFeedFactory interface {
	// Create builds a ChangeFeed bound to the source. Unknown source
	// types return domain.ErrUnsupportedType.
	Create(ctx context.Context, source domain.Source) (ChangeFeed, error)
}
