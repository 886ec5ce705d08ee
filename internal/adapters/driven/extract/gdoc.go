package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/archivist-labs/archivist/internal/core/domain"
	"github.com/archivist-labs/archivist/internal/core/ports/driven"
)

// MimeTypeGoogleDoc is the native Google Docs content type.
const MimeTypeGoogleDoc = "application/vnd.google-apps.document"

// exportMimeMarkdown preserves the document's heading structure, which
// the chunker relies on for citation paths.
const exportMimeMarkdown = "text/markdown"

// MaxContentSize is the maximum size for fetched content (5MB).
const MaxContentSize = 5 * 1024 * 1024

// Ensure the extractors implement the interface.
var (
	_ driven.Extractor = (*GoogleDocExtractor)(nil)
	_ driven.Extractor = (*DownloadExtractor)(nil)
)

// GoogleDocExtractor exports native Google Docs to markdown via the
// Drive export endpoint.
type GoogleDocExtractor struct {
	svc *drive.Service
}

// NewGoogleDocExtractor creates a Google Docs extractor.
func NewGoogleDocExtractor(svc *drive.Service) *GoogleDocExtractor {
	return &GoogleDocExtractor{svc: svc}
}

// MIMEType returns the content type this extractor handles.
func (e *GoogleDocExtractor) MIMEType() string {
	return MimeTypeGoogleDoc
}

// Extract exports the document as markdown.
func (e *GoogleDocExtractor) Extract(ctx context.Context, fileID string) (*driven.ExtractResult, error) {
	resp, err := e.svc.Files.Export(fileID, exportMimeMarkdown).Context(ctx).Download()
	if err != nil {
		return nil, classifyAPIError(fmt.Errorf("export file: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxContentSize))
	if err != nil {
		return nil, domain.Transient(fmt.Errorf("read export: %w", err))
	}

	return &driven.ExtractResult{Text: string(data)}, nil
}

// DownloadExtractor fetches text-bearing regular files as-is. One
// instance per handled content type.
type DownloadExtractor struct {
	svc      *drive.Service
	mimeType string
}

// NewDownloadExtractor creates a download extractor for one content
// type, e.g. "text/markdown" or "text/plain".
func NewDownloadExtractor(svc *drive.Service, mimeType string) *DownloadExtractor {
	return &DownloadExtractor{svc: svc, mimeType: mimeType}
}

// MIMEType returns the content type this extractor handles.
func (e *DownloadExtractor) MIMEType() string {
	return e.mimeType
}

// Extract downloads the file body.
func (e *DownloadExtractor) Extract(ctx context.Context, fileID string) (*driven.ExtractResult, error) {
	resp, err := e.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, classifyAPIError(fmt.Errorf("download file: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxContentSize))
	if err != nil {
		return nil, domain.Transient(fmt.Errorf("read file content: %w", err))
	}

	return &driven.ExtractResult{Text: string(data)}, nil
}

// classifyAPIError marks rate limits, server errors and network
// failures as transient; everything else (404, 403, malformed request)
// is fatal.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code >= 500 {
			return domain.Transient(err)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.Transient(err)
	}
	return err
}
