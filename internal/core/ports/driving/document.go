package driving

import (
	"context"
	"time"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

// DocumentService exposes read access to the replica.
type DocumentService interface {
	// Get returns a document's metadata and its chunks ordered by index.
	// Not-found is signalled with domain.ErrNotFound, distinct from a
	// live document with zero chunks.
	Get(ctx context.Context, fileID string) (*domain.Document, []domain.Chunk, error)

	// ChangesSince lists documents indexed at or after the threshold,
	// derived from stored timestamps rather than the source cursor.
	ChangesSince(ctx context.Context, since time.Time) ([]domain.ChangeEntry, error)
}
