package mcp

import (
	"context"
	"time"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

// mockSearchService implements driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	filters domain.SearchFilters
	limit   int
	err     error
}

func (m *mockSearchService) Search(_ context.Context, _ string, filters domain.SearchFilters, topK int) ([]domain.SearchResult, error) {
	m.filters = filters
	m.limit = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockDocumentService implements driving.DocumentService.
type mockDocumentService struct {
	doc     *domain.Document
	chunks  []domain.Chunk
	changes []domain.ChangeEntry
	since   time.Time
	err     error
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, []domain.Chunk, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.doc, m.chunks, nil
}

func (m *mockDocumentService) ChangesSince(_ context.Context, since time.Time) ([]domain.ChangeEntry, error) {
	m.since = since
	if m.err != nil {
		return nil, m.err
	}
	return m.changes, nil
}

// mockSyncService implements driving.SyncService.
type mockSyncService struct {
	jobID    string
	sourceID string
	full     bool
	err      error
}

func (m *mockSyncService) Trigger(_ context.Context, sourceID string, full bool) (string, error) {
	m.sourceID = sourceID
	m.full = full
	if m.err != nil {
		return "", m.err
	}
	return m.jobID, nil
}

func (m *mockSyncService) Run(_ context.Context, _ string, _ bool) (*domain.SyncJob, error) {
	return nil, m.err
}

func (m *mockSyncService) Job(_ context.Context, _ string) (*domain.SyncJob, error) {
	return nil, m.err
}

func (m *mockSyncService) Jobs(_ context.Context, _ string) ([]domain.SyncJob, error) {
	return nil, m.err
}
