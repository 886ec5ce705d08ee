package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query         string   `json:"query" jsonschema:"the search query to find documents"`
	Limit         int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	SourceIDs     []string `json:"source_ids,omitempty" jsonschema:"restrict results to these source IDs"`
	MIMETypes     []string `json:"mime_types,omitempty" jsonschema:"restrict results to these MIME types"`
	ModifiedAfter string   `json:"modified_after,omitempty" jsonschema:"RFC 3339 time; only documents modified after it"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	FileID       string  `json:"file_id"`
	FileName     string  `json:"file_name"`
	Heading      string  `json:"heading,omitempty"`
	Content      string  `json:"content"`
	Score        float64 `json:"score"`
	WebViewLink  string  `json:"web_view_link,omitempty"`
	ModifiedTime string  `json:"modified_time"`
}

// GetDocumentInput is the input schema for the get_document tool.
type GetDocumentInput struct {
	FileID string `json:"file_id" jsonschema:"the stable file identifier of the document"`
}

// GetDocumentOutput is the output schema for the get_document tool.
type GetDocumentOutput struct {
	FileID       string `json:"file_id"`
	Name         string `json:"name"`
	MIMEType     string `json:"mime_type"`
	WebViewLink  string `json:"web_view_link,omitempty"`
	ModifiedTime string `json:"modified_time"`
	Deleted      bool   `json:"deleted"`
	Content      string `json:"content"`
	ChunkCount   int    `json:"chunk_count"`
}

// ListChangesInput is the input schema for the list_changes tool.
type ListChangesInput struct {
	Since string `json:"since,omitempty" jsonschema:"RFC 3339 time; changes indexed at or after it (default 24h ago)"`
}

// ListChangesOutput is the output schema for the list_changes tool.
type ListChangesOutput struct {
	Changes []ChangeOutput `json:"changes"`
	Count   int            `json:"count"`
}

// ChangeOutput represents one indexed change.
type ChangeOutput struct {
	FileID       string `json:"file_id"`
	FileName     string `json:"file_name"`
	ModifiedTime string `json:"modified_time"`
	IndexedAt    string `json:"indexed_at"`
	Deleted      bool   `json:"deleted"`
}

// TriggerSyncInput is the input schema for the trigger_sync tool.
type TriggerSyncInput struct {
	SourceID string `json:"source_id" jsonschema:"the source to synchronise"`
	Full     bool   `json:"full,omitempty" jsonschema:"force a full re-crawl"`
}

// TriggerSyncOutput is the output schema for the trigger_sync tool.
type TriggerSyncOutput struct {
	JobID string `json:"job_id"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search across all indexed documents",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Fetch an indexed document's metadata and full text",
	}, s.handleGetDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_changes",
		Description: "List documents whose indexed state changed recently",
	}, s.handleListChanges)

	if s.ports.Sync != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "trigger_sync",
			Description: "Start a background sync for a source and return the job ID",
		}, s.handleTriggerSync)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	filters := domain.SearchFilters{
		SourceIDs: input.SourceIDs,
		MIMETypes: input.MIMETypes,
	}
	if input.ModifiedAfter != "" {
		after, err := time.Parse(time.RFC3339, input.ModifiedAfter)
		if err != nil {
			return nil, SearchOutput{}, err
		}
		filters.ModifiedAfter = after
	}

	results, err := s.ports.Search.Search(ctx, input.Query, filters, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			FileID:       results[i].FileID,
			FileName:     results[i].FileName,
			Heading:      results[i].Heading,
			Content:      results[i].ChunkText,
			Score:        results[i].Score,
			WebViewLink:  results[i].WebViewLink,
			ModifiedTime: results[i].ModifiedTime.Format(time.RFC3339),
		}
	}

	return nil, output, nil
}

// handleGetDocument handles the get_document tool invocation.
func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDocumentInput,
) (*mcp.CallToolResult, GetDocumentOutput, error) {
	doc, chunks, err := s.ports.Document.Get(ctx, input.FileID)
	if err != nil {
		return nil, GetDocumentOutput{}, err
	}

	return nil, GetDocumentOutput{
		FileID:       doc.FileID,
		Name:         doc.Name,
		MIMEType:     doc.MIMEType,
		WebViewLink:  doc.WebViewLink,
		ModifiedTime: doc.ModifiedTime.Format(time.RFC3339),
		Deleted:      doc.Deleted,
		Content:      joinChunks(chunks),
		ChunkCount:   len(chunks),
	}, nil
}

// handleListChanges handles the list_changes tool invocation.
func (s *Server) handleListChanges(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListChangesInput,
) (*mcp.CallToolResult, ListChangesOutput, error) {
	since := time.Now().Add(-24 * time.Hour)
	if input.Since != "" {
		parsed, err := time.Parse(time.RFC3339, input.Since)
		if err != nil {
			return nil, ListChangesOutput{}, err
		}
		since = parsed
	}

	entries, err := s.ports.Document.ChangesSince(ctx, since)
	if err != nil {
		return nil, ListChangesOutput{}, err
	}

	output := ListChangesOutput{
		Changes: make([]ChangeOutput, len(entries)),
		Count:   len(entries),
	}
	for i := range entries {
		output.Changes[i] = ChangeOutput{
			FileID:       entries[i].FileID,
			FileName:     entries[i].FileName,
			ModifiedTime: entries[i].ModifiedTime.Format(time.RFC3339),
			IndexedAt:    entries[i].IndexedAt.Format(time.RFC3339),
			Deleted:      entries[i].Deleted,
		}
	}

	return nil, output, nil
}

// handleTriggerSync handles the trigger_sync tool invocation.
func (s *Server) handleTriggerSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TriggerSyncInput,
) (*mcp.CallToolResult, TriggerSyncOutput, error) {
	jobID, err := s.ports.Sync.Trigger(ctx, input.SourceID, input.Full)
	if err != nil {
		return nil, TriggerSyncOutput{}, err
	}
	return nil, TriggerSyncOutput{JobID: jobID}, nil
}

// joinChunks reassembles the document body. Chunks overlap at their
// seams, so this is a readable rendition rather than a byte-exact
// original.
func joinChunks(chunks []domain.Chunk) string {
	switch len(chunks) {
	case 0:
		return ""
	case 1:
		return chunks[0].Text
	}

	out := chunks[0].Text
	for i := 1; i < len(chunks); i++ {
		out += "\n\n" + chunks[i].Text
	}
	return out
}
