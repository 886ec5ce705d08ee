package mcp

import (
	"github.com/archivist-labs/archivist/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides search capabilities.
	Search driving.SearchService

	// Document provides document and change lookups.
	Document driving.DocumentService

	// Sync triggers corpus synchronisation.
	Sync driving.SyncService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	// Sync is optional; without it the trigger_sync tool is not
	// registered.
	return nil
}
