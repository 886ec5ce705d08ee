package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/archivist-labs/archivist/internal/core/domain"
	"github.com/archivist-labs/archivist/internal/core/ports/driven"
	"github.com/archivist-labs/archivist/internal/core/ports/driving"
)

// Ensure DocumentReader implements the interface.
var _ driving.DocumentService = (*DocumentReader)(nil)

// DocumentReader serves document and change lookups from the replica.
type DocumentReader struct {
	docStore driven.DocumentStore
}

// NewDocumentReader creates a document read service.
func NewDocumentReader(docStore driven.DocumentStore) *DocumentReader {
	return &DocumentReader{docStore: docStore}
}

// Get returns a document's metadata and its chunks ordered by index.
func (d *DocumentReader) Get(ctx context.Context, fileID string) (*domain.Document, []domain.Chunk, error) {
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return nil, nil, fmt.Errorf("empty file ID: %w", domain.ErrInvalidInput)
	}

	doc, err := d.docStore.GetDocument(ctx, fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("get document %s: %w", fileID, err)
	}

	chunks, err := d.docStore.GetChunks(ctx, fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("get chunks for %s: %w", fileID, err)
	}
	return doc, chunks, nil
}

// ChangesSince lists documents indexed at or after the threshold,
// newest first.
func (d *DocumentReader) ChangesSince(ctx context.Context, since time.Time) ([]domain.ChangeEntry, error) {
	entries, err := d.docStore.ListChangedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list changed documents: %w", err)
	}
	return entries, nil
}
