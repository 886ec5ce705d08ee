package driven

import (
	"context"
	"time"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for the local replica.
type DocumentStore interface {
	// ReplaceChunks upserts the document row and atomically swaps its
	// chunk set: all old chunks gone and all new chunks present, or none
	// of the change visible. Concurrent calls for the same file ID are
	// serialized; calls for different file IDs proceed independently.
	ReplaceChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// MarkDeleted tombstones a document and empties its chunk set in one
	// transaction. Unknown file IDs are a no-op.
	MarkDeleted(ctx context.Context, fileID string) error

	// GetDocument retrieves a document by file ID.
	// Returns domain.ErrNotFound for unknown IDs; a live document with
	// zero chunks is not an error.
	GetDocument(ctx context.Context, fileID string) (*domain.Document, error)

	// GetChunks retrieves a document's chunks ordered by index.
	GetChunks(ctx context.Context, fileID string) ([]domain.Chunk, error)

	// ListDocuments returns all documents for a source, tombstoned ones
	// included.
	ListDocuments(ctx context.Context, sourceID string) ([]domain.Document, error)

	// ListChangedSince returns documents indexed at or after the
	// threshold, newest first.
	ListChangedSince(ctx context.Context, since time.Time) ([]domain.ChangeEntry, error)

	// SearchCandidates returns live chunks joined with document metadata,
	// restricted by the filters. Tombstoned documents are always
	// excluded.
	SearchCandidates(ctx context.Context, filters domain.SearchFilters) ([]Candidate, error)
}

// Candidate is a chunk hydrated with the document metadata the ranker
// needs for filtering and citation.
type Candidate struct {
	Chunk    domain.Chunk
	Document domain.Document
}
