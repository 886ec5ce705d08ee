// Package file provides the TOML-backed configuration store.
// Configuration lives in a single file within the archivist config
// directory; missing files yield defaults rather than errors.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultDirName is the archivist directory under the user home.
const DefaultDirName = ".archivist"

// configFileName is the config file within the config directory.
const configFileName = "config.toml"

// Config is the full application configuration.
type Config struct {
	// DataDir overrides where the replica database lives. Empty keeps
	// the default under the config directory.
	DataDir string `toml:"data_dir,omitempty"`

	Chunking  ChunkingConfig  `toml:"chunking"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Sync      SyncConfig      `toml:"sync"`
	Search    SearchConfig    `toml:"search"`
	Drive     DriveConfig     `toml:"drive"`
}

// ChunkingConfig controls the splitter.
type ChunkingConfig struct {
	// TargetSize is the target chunk size in runes.
	TargetSize int `toml:"target_size"`
	// Overlap is the overlap between adjacent chunks in runes.
	Overlap int `toml:"overlap"`
}

// EmbeddingConfig controls the embedding provider and batcher.
type EmbeddingConfig struct {
	// APIKey is the provider API key. The OPENAI_API_KEY environment
	// variable takes precedence when set.
	APIKey string `toml:"api_key,omitempty"`
	// BaseURL overrides the provider endpoint (OpenAI-compatible).
	BaseURL string `toml:"base_url,omitempty"`
	// Model is the embedding model name.
	Model string `toml:"model"`
	// Dimensions overrides the model's vector size.
	Dimensions int `toml:"dimensions,omitempty"`
	// BatchSize caps texts per provider call.
	BatchSize int `toml:"batch_size"`
	// RequestsPerSecond is the sustained provider rate limit.
	RequestsPerSecond float64 `toml:"requests_per_second"`
	// BurstSize is the rate limiter burst.
	BurstSize int `toml:"burst_size"`
}

// SyncConfig controls the sync engine.
type SyncConfig struct {
	// Concurrency bounds simultaneous file pipelines.
	Concurrency int `toml:"concurrency"`
	// MaxRetries is the attempt budget for transient failures.
	MaxRetries int `toml:"max_retries"`
}

// SearchConfig controls the retrieval ranker.
type SearchConfig struct {
	// MinScore is the cosine similarity floor.
	MinScore float64 `toml:"min_score"`
	// LexicalFallback enables token-overlap scoring when vector search
	// comes up empty.
	LexicalFallback bool `toml:"lexical_fallback"`
	// LexicalWeight blends fallback scores.
	LexicalWeight float64 `toml:"lexical_weight"`
}

// DriveConfig controls Google Drive access.
type DriveConfig struct {
	// CredentialsFile is the path to the Google credentials JSON.
	CredentialsFile string `toml:"credentials_file,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			TargetSize: 600,
			Overlap:    100,
		},
		Embedding: EmbeddingConfig{
			Model:             "text-embedding-3-small",
			BatchSize:         100,
			RequestsPerSecond: 5.0,
			BurstSize:         10,
		},
		Sync: SyncConfig{
			Concurrency: 10,
			MaxRetries:  3,
		},
		Search: SearchConfig{
			MinScore:        0.25,
			LexicalFallback: true,
			LexicalWeight:   0.5,
		},
	}
}

// DefaultDir returns the archivist config directory (~/.archivist).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

// Load reads the config file from configDir, applying defaults for
// absent fields. If configDir is empty, ~/.archivist is used. A missing
// file is not an error.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	cfg := Default()

	data, err := os.ReadFile(filepath.Join(configDir, configFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config file, creating the directory if needed.
func Save(configDir string, cfg *Config) error {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	path := filepath.Join(configDir, configFileName)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
