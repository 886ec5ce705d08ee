package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivist-labs/archivist/internal/core/domain"
	"github.com/archivist-labs/archivist/internal/core/ports/driven"
)

// --- Mock implementations for search testing ---

// searchMockStore implements driven.DocumentStore; only
// SearchCandidates matters here.
type searchMockStore struct {
	candidates []driven.Candidate
	filters    domain.SearchFilters
	err        error
}

func (s *searchMockStore) SearchCandidates(_ context.Context, filters domain.SearchFilters) ([]driven.Candidate, error) {
	s.filters = filters
	if s.err != nil {
		return nil, s.err
	}
	return s.candidates, nil
}

func (s *searchMockStore) ReplaceChunks(_ context.Context, _ *domain.Document, _ []domain.Chunk) error {
	return nil
}
func (s *searchMockStore) MarkDeleted(_ context.Context, _ string) error { return nil }
func (s *searchMockStore) GetDocument(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}
func (s *searchMockStore) GetChunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, nil
}
func (s *searchMockStore) ListDocuments(_ context.Context, _ string) ([]domain.Document, error) {
	return nil, nil
}
func (s *searchMockStore) ListChangedSince(_ context.Context, _ time.Time) ([]domain.ChangeEntry, error) {
	return nil, nil
}

// searchMockEmbedder implements queryEmbedder with canned vectors.
type searchMockEmbedder struct {
	vector []float32
	calls  int
	err    error
}

func (e *searchMockEmbedder) EmbedOne(_ context.Context, _ string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.vector, nil
}

func (e *searchMockEmbedder) ModelName() string { return "test-model" }

func candidate(fileID string, chunkIndex int, text string, vec []float32) driven.Candidate {
	return driven.Candidate{
		Chunk: domain.Chunk{
			ID:        fileID + "-" + text,
			FileID:    fileID,
			Index:     chunkIndex,
			Text:      text,
			Embedding: vec,
		},
		Document: domain.Document{
			FileID:      fileID,
			Name:        "doc " + fileID,
			WebViewLink: "https://example.com/" + fileID,
		},
	}
}

// --- Tests ---

func TestRanker_RanksByCosineSimilarity(t *testing.T) {
	store := &searchMockStore{candidates: []driven.Candidate{
		candidate("far", 0, "unrelated", []float32{0, 1, 0}),
		candidate("near", 0, "on topic", []float32{1, 0, 0}),
		candidate("mid", 0, "somewhat", []float32{0.7, 0.7, 0}),
	}}
	embedder := &searchMockEmbedder{vector: []float32{1, 0, 0}}
	ranker := NewRanker(store, embedder, SearchConfig{MinScore: 0.1})

	results, err := ranker.Search(context.Background(), "query", domain.SearchFilters{}, 10)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].FileID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "mid", results[1].FileID)
	assert.Greater(t, results[0].Score, results[1].Score)

	// The below-threshold candidate is gone entirely.
	for _, r := range results {
		assert.NotEqual(t, "far", r.FileID)
	}
}

func TestRanker_DedupesToBestChunkPerFile(t *testing.T) {
	store := &searchMockStore{candidates: []driven.Candidate{
		candidate("doc", 0, "weak match", []float32{0.5, 0.87, 0}),
		candidate("doc", 3, "strong match", []float32{1, 0, 0}),
		candidate("doc", 1, "weak match too", []float32{0.5, 0.87, 0}),
	}}
	embedder := &searchMockEmbedder{vector: []float32{1, 0, 0}}
	ranker := NewRanker(store, embedder, SearchConfig{MinScore: 0.1})

	results, err := ranker.Search(context.Background(), "query", domain.SearchFilters{}, 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].ChunkIndex)
	assert.Equal(t, "strong match", results[0].ChunkText)
}

func TestRanker_TieGoesToLowerChunkIndex(t *testing.T) {
	store := &searchMockStore{candidates: []driven.Candidate{
		candidate("doc", 5, "later", []float32{1, 0, 0}),
		candidate("doc", 2, "earlier", []float32{1, 0, 0}),
	}}
	embedder := &searchMockEmbedder{vector: []float32{1, 0, 0}}
	ranker := NewRanker(store, embedder, SearchConfig{MinScore: 0.1})

	results, err := ranker.Search(context.Background(), "query", domain.SearchFilters{}, 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].ChunkIndex)
}

func TestRanker_TopKCutAndDefaults(t *testing.T) {
	var cands []driven.Candidate
	for i := 0; i < 30; i++ {
		id := string(rune('a' + i%26))
		cands = append(cands, candidate(id+"-"+string(rune('0'+i/26)), 0, "text", []float32{1, 0, 0}))
	}
	store := &searchMockStore{candidates: cands}
	embedder := &searchMockEmbedder{vector: []float32{1, 0, 0}}
	ranker := NewRanker(store, embedder, SearchConfig{MinScore: 0.1})

	results, err := ranker.Search(context.Background(), "query", domain.SearchFilters{}, 5)
	require.NoError(t, err)
	assert.Len(t, results, 5)

	// Zero topK falls back to the default.
	results, err = ranker.Search(context.Background(), "query", domain.SearchFilters{}, 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}

func TestRanker_EmptyQuery(t *testing.T) {
	ranker := NewRanker(&searchMockStore{}, &searchMockEmbedder{vector: []float32{1}}, SearchConfig{})

	_, err := ranker.Search(context.Background(), "   ", domain.SearchFilters{}, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRanker_FiltersReachStore(t *testing.T) {
	store := &searchMockStore{}
	embedder := &searchMockEmbedder{vector: []float32{1, 0, 0}}
	ranker := NewRanker(store, embedder, SearchConfig{})

	after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	filters := domain.SearchFilters{
		SourceIDs:     []string{"src-1"},
		MIMETypes:     []string{"text/markdown"},
		ModifiedAfter: after,
	}

	_, err := ranker.Search(context.Background(), "query", filters, 10)
	require.NoError(t, err)
	assert.Equal(t, filters, store.filters)
}

func TestRanker_QueryEmbeddingCached(t *testing.T) {
	store := &searchMockStore{candidates: []driven.Candidate{
		candidate("doc", 0, "text", []float32{1, 0, 0}),
	}}
	embedder := &searchMockEmbedder{vector: []float32{1, 0, 0}}
	ranker := NewRanker(store, embedder, SearchConfig{MinScore: 0.1})

	for i := 0; i < 3; i++ {
		_, err := ranker.Search(context.Background(), "same query", domain.SearchFilters{}, 10)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, embedder.calls)

	_, err := ranker.Search(context.Background(), "different query", domain.SearchFilters{}, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, embedder.calls)
}

func TestRanker_LexicalFallback(t *testing.T) {
	// Every stored vector is orthogonal to the query, so vector scoring
	// yields nothing above the threshold.
	store := &searchMockStore{candidates: []driven.Candidate{
		candidate("hit", 0, "rotate the deployment credentials weekly", []float32{0, 1, 0}),
		candidate("miss", 0, "lunch menu for tuesday", []float32{0, 1, 0}),
	}}
	embedder := &searchMockEmbedder{vector: []float32{1, 0, 0}}

	ranker := NewRanker(store, embedder, SearchConfig{
		MinScore:        0.25,
		LexicalFallback: true,
		LexicalWeight:   0.5,
	})

	results, err := ranker.Search(context.Background(), "deployment credentials", domain.SearchFilters{}, 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "hit", results[0].FileID)
	// Full token overlap, zero vector score, weight 0.5.
	assert.InDelta(t, 0.5, results[0].Score, 1e-6)
}

func TestRanker_NoFallbackWhenDisabled(t *testing.T) {
	store := &searchMockStore{candidates: []driven.Candidate{
		candidate("hit", 0, "deployment credentials", []float32{0, 1, 0}),
	}}
	embedder := &searchMockEmbedder{vector: []float32{1, 0, 0}}
	ranker := NewRanker(store, embedder, SearchConfig{MinScore: 0.25})

	results, err := ranker.Search(context.Background(), "deployment credentials", domain.SearchFilters{}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRanker_SkipsChunksWithoutEmbedding(t *testing.T) {
	store := &searchMockStore{candidates: []driven.Candidate{
		candidate("no-vec", 0, "text", nil),
		candidate("vec", 0, "text", []float32{1, 0, 0}),
	}}
	embedder := &searchMockEmbedder{vector: []float32{1, 0, 0}}
	ranker := NewRanker(store, embedder, SearchConfig{MinScore: 0.1})

	results, err := ranker.Search(context.Background(), "query", domain.SearchFilters{}, 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "vec", results[0].FileID)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Degenerate inputs score zero rather than NaN.
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Zero(t, cosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Zero(t, cosineSimilarity(nil, nil))
}
