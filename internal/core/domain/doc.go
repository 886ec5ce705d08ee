// Package domain defines the core business entities for Archivist.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a replicated source file with citation metadata
//   - Chunk: a retrieval unit within a document
//   - Source: a configured corpus origin with a sync cursor
//   - SyncJob: one crawl attempt and its statistics
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
