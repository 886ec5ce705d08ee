// Package driving provides interfaces for primary/inbound ports: the
// operations callers such as the CLI and MCP adapters invoke on the
// core.
package driving
