// Package extract converts source files into normalized
// heading-annotated text for chunking. One extractor per content type;
// the registry dispatches on MIME type.
package extract

import (
	"context"
	"fmt"

	"github.com/archivist-labs/archivist/internal/core/domain"
	"github.com/archivist-labs/archivist/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction by content type.
type Registry struct {
	extractors map[string]driven.Extractor
}

// NewRegistry creates a registry over the given extractors. A later
// extractor for the same MIME type wins.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{extractors: make(map[string]driven.Extractor, len(extractors))}
	for _, e := range extractors {
		r.extractors[e.MIMEType()] = e
	}
	return r
}

// Extract looks up the extractor for mimeType and runs it.
func (r *Registry) Extract(ctx context.Context, fileID, mimeType string) (*driven.ExtractResult, error) {
	e, ok := r.extractors[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mimeType)
	}
	return e.Extract(ctx, fileID)
}

// Supported reports whether a content type has a registered extractor.
func (r *Registry) Supported(mimeType string) bool {
	_, ok := r.extractors[mimeType]
	return ok
}
