package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 600, cfg.Chunking.TargetSize)
	assert.Equal(t, 100, cfg.Chunking.Overlap)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 100, cfg.Embedding.BatchSize)
	assert.Equal(t, 10, cfg.Sync.Concurrency)
	assert.InDelta(t, 0.25, cfg.Search.MinScore, 1e-9)
	assert.True(t, cfg.Search.LexicalFallback)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Chunking.TargetSize = 800
	cfg.Embedding.Model = "text-embedding-3-large"
	cfg.Search.LexicalWeight = 0.7
	cfg.Drive.CredentialsFile = "/tmp/creds.json"

	require.NoError(t, Save(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 800, loaded.Chunking.TargetSize)
	assert.Equal(t, "text-embedding-3-large", loaded.Embedding.Model)
	assert.InDelta(t, 0.7, loaded.Search.LexicalWeight, 1e-9)
	assert.Equal(t, "/tmp/creds.json", loaded.Drive.CredentialsFile)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	partial := []byte("[chunking]\ntarget_size = 400\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), partial, 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 400, cfg.Chunking.TargetSize)
	// Untouched sections fall back to defaults.
	assert.Equal(t, 100, cfg.Chunking.Overlap)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [toml"), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}
