package driving

import (
	"context"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

// SearchService answers semantic queries against the replica.
type SearchService interface {
	// Search returns up to topK scored chunk citations, score-descending,
	// at most one per document. Empty queries return
	// domain.ErrInvalidInput.
	Search(ctx context.Context, query string, filters domain.SearchFilters, topK int) ([]domain.SearchResult, error)
}
