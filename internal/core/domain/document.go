package domain

import "time"

// Document represents a replicated source file with citation metadata.
// It is keyed by the source-assigned file ID, not a generated one, so
// re-indexing the same file always lands on the same row.
type Document struct {
	// FileID is the stable identifier assigned by the source.
	FileID string

	// SourceID links to the Source that produced this document.
	SourceID string

	// Name is the human-readable file name.
	Name string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// WebViewLink is the canonical link used for citations.
	WebViewLink string

	// ModifiedTime is the source's last-modified timestamp.
	ModifiedTime time.Time

	// IndexedAt is when the document was last written to the replica.
	IndexedAt time.Time

	// Deleted marks the document as tombstoned. A tombstoned document
	// has zero chunks and is excluded from search.
	Deleted bool
}

// Chunk represents a retrieval unit within a document.
// Chunks are replaced as a whole set per file, never patched individually.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// FileID links to the parent Document.
	FileID string

	// Index is the ordinal position within the document.
	// Indices are contiguous integers starting at 0.
	Index int

	// Text is the chunk content.
	Text string

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// Heading is the nearest-enclosing heading path at the point the
	// chunk was emitted (e.g., "Install > Linux"). Empty when the chunk
	// precedes the first heading.
	Heading string
}
