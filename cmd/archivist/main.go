// Command archivist syncs a document corpus into a local replica and
// serves semantic search over it, from the command line or over MCP.
package main

import (
	"context"
	"fmt"
	"os"

	drivev3 "google.golang.org/api/drive/v3"

	"github.com/archivist-labs/archivist/internal/adapters/driven/changefeed/drive"
	configfile "github.com/archivist-labs/archivist/internal/adapters/driven/config/file"
	"github.com/archivist-labs/archivist/internal/adapters/driven/embedding/openai"
	"github.com/archivist-labs/archivist/internal/adapters/driven/extract"
	"github.com/archivist-labs/archivist/internal/adapters/driven/storage/sqlite"
	"github.com/archivist-labs/archivist/internal/adapters/driving/cli"
	"github.com/archivist-labs/archivist/internal/chunker"
	"github.com/archivist-labs/archivist/internal/core/ports/driven"
	"github.com/archivist-labs/archivist/internal/core/services"
	"github.com/archivist-labs/archivist/internal/embedding"
	"github.com/archivist-labs/archivist/internal/logger"
	"github.com/archivist-labs/archivist/internal/retry"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.Load(os.Getenv("ARCHIVIST_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	splitter := chunker.New(
		chunker.WithTargetSize(cfg.Chunking.TargetSize),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)

	policy := retry.Default()
	if cfg.Sync.MaxRetries > 0 {
		policy.MaxAttempts = cfg.Sync.MaxRetries
	}

	batcher := newBatcher(cfg, policy)

	// Drive access is optional at startup: without credentials the
	// read-side commands still work against the local replica.
	feeds, extractors := newDriveAdapters(cfg)

	documentService := services.NewDocumentReader(store.DocumentStore())
	sourceService := services.NewSourceManager(store.SourceStore(), feeds)

	s := cli.Services{
		Document: documentService,
		Source:   sourceService,
	}

	if batcher != nil {
		s.Search = services.NewRanker(store.DocumentStore(), batcher, services.SearchConfig{
			MinScore:        cfg.Search.MinScore,
			LexicalFallback: cfg.Search.LexicalFallback,
			LexicalWeight:   cfg.Search.LexicalWeight,
		})
	}

	if batcher != nil && feeds != nil {
		s.Sync = services.NewSyncEngine(
			store.SourceStore(),
			store.SyncJobStore(),
			store.DocumentStore(),
			feeds,
			extractors,
			splitter,
			batcher,
			services.SyncConfig{
				Concurrency: cfg.Sync.Concurrency,
				Retry:       policy,
			},
		)
	}

	return cli.Execute(version, s)
}

// newBatcher builds the embedding pipeline, or nil when no API key is
// available.
func newBatcher(cfg *configfile.Config, policy retry.Policy) *embedding.Batcher {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = cfg.Embedding.APIKey
	}
	if apiKey == "" {
		logger.Debug("No embedding API key configured; search and sync disabled")
		return nil
	}

	service, err := openai.NewEmbeddingService(openai.Config{
		APIKey:     apiKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	})
	if err != nil {
		logger.Warn("Embedding provider unavailable: %v", err)
		return nil
	}

	return embedding.NewBatcher(service, embedding.Config{
		BatchSize: cfg.Embedding.BatchSize,
		RateLimit: embedding.RateLimitConfig{
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
			BurstSize:         cfg.Embedding.BurstSize,
		},
		Retry: policy,
	})
}

// newDriveAdapters builds the Drive feed factory and extractor
// registry, or nils when no credentials are configured.
func newDriveAdapters(cfg *configfile.Config) (driven.ChangeFeedFactory, driven.ExtractorRegistry) {
	if cfg.Drive.CredentialsFile == "" {
		logger.Debug("No Drive credentials configured; sync disabled")
		return nil, nil
	}

	svc, err := newDriveService(cfg.Drive.CredentialsFile)
	if err != nil {
		logger.Warn("Drive unavailable: %v", err)
		return nil, nil
	}

	registry := extract.NewRegistry(
		extract.NewGoogleDocExtractor(svc),
		extract.NewDocxExtractor(svc),
		extract.NewDownloadExtractor(svc, "text/markdown"),
		extract.NewDownloadExtractor(svc, "text/plain"),
	)

	return drive.NewFactory(svc), registry
}

func newDriveService(credentialsFile string) (*drivev3.Service, error) {
	return drive.NewServiceFromCredentialsFile(context.Background(), credentialsFile)
}
