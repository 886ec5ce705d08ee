// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): storage, the embedding provider, the
// change feed and per-type content extraction.
package driven
