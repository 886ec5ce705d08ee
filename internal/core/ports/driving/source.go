package driving

import (
	"context"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

// SourceService manages configured corpus sources.
type SourceService interface {
	// Add registers a new source and returns it with its generated ID.
	Add(ctx context.Context, sourceType, name string, config map[string]string) (*domain.Source, error)

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all configured sources.
	List(ctx context.Context) ([]domain.Source, error)

	// Remove deletes a source. Its documents cascade away with it.
	Remove(ctx context.Context, id string) error
}
