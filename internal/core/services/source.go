package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/archivist-labs/archivist/internal/core/domain"
	"github.com/archivist-labs/archivist/internal/core/ports/driven"
	"github.com/archivist-labs/archivist/internal/core/ports/driving"
)

// Ensure SourceManager implements the interface.
var _ driving.SourceService = (*SourceManager)(nil)

// SourceManager handles source registration and removal.
type SourceManager struct {
	store driven.SourceStore
	feeds driven.ChangeFeedFactory
}

// NewSourceManager creates a source service. The feed factory is used
// to reject source types no feed can serve.
func NewSourceManager(store driven.SourceStore, feeds driven.ChangeFeedFactory) *SourceManager {
	return &SourceManager{store: store, feeds: feeds}
}

// Add registers a new source and returns it with its generated ID.
func (m *SourceManager) Add(ctx context.Context, sourceType, name string, config map[string]string) (*domain.Source, error) {
	sourceType = strings.TrimSpace(sourceType)
	name = strings.TrimSpace(name)
	if sourceType == "" || name == "" {
		return nil, fmt.Errorf("source type and name are required: %w", domain.ErrInvalidInput)
	}
	if config == nil {
		config = make(map[string]string)
	}

	source := domain.Source{
		ID:        uuid.New().String(),
		Type:      sourceType,
		Name:      name,
		Config:    config,
		CreatedAt: time.Now().UTC(),
	}

	// Reject types nothing can sync before persisting. Without a feed
	// factory the check is deferred to the first sync.
	if m.feeds != nil {
		if _, err := m.feeds.Create(ctx, source); err != nil {
			return nil, fmt.Errorf("validate source type: %w", err)
		}
	}

	if err := m.store.Save(ctx, source); err != nil {
		return nil, fmt.Errorf("save source: %w", err)
	}
	return &source, nil
}

// Get retrieves a source by ID.
func (m *SourceManager) Get(ctx context.Context, id string) (*domain.Source, error) {
	return m.store.Get(ctx, id)
}

// List returns all configured sources.
func (m *SourceManager) List(ctx context.Context) ([]domain.Source, error) {
	return m.store.List(ctx)
}

// Remove deletes a source.
func (m *SourceManager) Remove(ctx context.Context, id string) error {
	if _, err := m.store.Get(ctx, id); err != nil {
		return fmt.Errorf("get source: %w", err)
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	return nil
}
