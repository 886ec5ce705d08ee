package domain

import "time"

// SearchFilters narrows search candidates before similarity ordering.
// Zero values mean "no constraint".
type SearchFilters struct {
	// SourceIDs filters to specific sources.
	SourceIDs []string

	// MIMETypes filters to specific content types.
	MIMETypes []string

	// ModifiedAfter drops documents last modified before the threshold.
	ModifiedAfter time.Time
}

// SearchResult is a single scored chunk citation.
type SearchResult struct {
	// FileID is the matched document's stable identifier.
	FileID string

	// FileName is the document display name.
	FileName string

	// ChunkText is the matched chunk content.
	ChunkText string

	// ChunkIndex is the chunk's position within the document.
	ChunkIndex int

	// Heading is the chunk's nearest-enclosing heading path.
	Heading string

	// Score is the relevance score; higher is more similar.
	Score float64

	// WebViewLink is the canonical link for citation.
	WebViewLink string

	// ModifiedTime is the document's last-modified timestamp.
	ModifiedTime time.Time
}

// ChangeEntry describes an indexed document change, derived from stored
// timestamps rather than the source's own change cursor.
type ChangeEntry struct {
	// FileID is the changed document.
	FileID string

	// FileName is the document display name.
	FileName string

	// ModifiedTime is the source's last-modified timestamp.
	ModifiedTime time.Time

	// IndexedAt is when the change landed in the replica.
	IndexedAt time.Time

	// Deleted indicates the document is tombstoned.
	Deleted bool
}
