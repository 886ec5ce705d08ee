package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/archivist-labs/archivist/internal/core/domain"
	"github.com/archivist-labs/archivist/internal/core/ports/driven"
	"github.com/archivist-labs/archivist/internal/core/ports/driving"
	"github.com/archivist-labs/archivist/internal/logger"
)

const (
	// DefaultTopK is the result count when the caller passes zero.
	DefaultTopK = 10

	// MaxTopK caps the result count.
	MaxTopK = 100

	// DefaultMinScore is the cosine similarity floor below which chunks
	// are not worth citing.
	DefaultMinScore = 0.25

	// DefaultLexicalWeight blends lexical and vector scores in the
	// fallback path.
	DefaultLexicalWeight = 0.5

	// queryCacheSize bounds the query-embedding LRU. Query text is
	// small; the entries are one vector each.
	queryCacheSize = 256
)

// Ensure Ranker implements the interface.
var _ driving.SearchService = (*Ranker)(nil)

// queryEmbedder is the slice of the batcher the ranker needs.
type queryEmbedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// SearchConfig configures a Ranker.
type SearchConfig struct {
	// MinScore is the similarity floor (default 0.25).
	MinScore float64

	// LexicalFallback enables token-overlap scoring when no chunk
	// clears the vector threshold.
	LexicalFallback bool

	// LexicalWeight blends fallback scores as
	// w*lexical + (1-w)*vector (default 0.5).
	LexicalWeight float64
}

// Ranker answers semantic queries: embed the query, score the stored
// chunk vectors by cosine similarity, and return the best chunk per
// document.
type Ranker struct {
	docStore driven.DocumentStore
	embedder queryEmbedder
	cfg      SearchConfig

	// queryCache memoizes query embeddings keyed by model+text so
	// repeated queries skip the provider round trip.
	queryCache *lru.Cache[string, []float32]
}

// NewRanker creates a search service over the store and embedder.
func NewRanker(docStore driven.DocumentStore, embedder queryEmbedder, cfg SearchConfig) *Ranker {
	if cfg.MinScore == 0 {
		cfg.MinScore = DefaultMinScore
	}
	if cfg.LexicalWeight <= 0 || cfg.LexicalWeight > 1 {
		cfg.LexicalWeight = DefaultLexicalWeight
	}

	cache, _ := lru.New[string, []float32](queryCacheSize)
	return &Ranker{
		docStore:   docStore,
		embedder:   embedder,
		cfg:        cfg,
		queryCache: cache,
	}
}

// Search returns up to topK scored chunk citations, score-descending,
// at most one per document.
func (r *Ranker) Search(ctx context.Context, query string, filters domain.SearchFilters, topK int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	queryVec, err := r.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := r.docStore.SearchCandidates(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	scored := r.scoreVector(queryVec, candidates)
	if len(scored) == 0 && r.cfg.LexicalFallback {
		logger.Debug("No chunk above threshold %.2f, trying lexical fallback", r.cfg.MinScore)
		scored = r.scoreLexical(query, queryVec, candidates)
	}
	if len(scored) == 0 {
		return nil, nil
	}

	best := dedupeByFile(scored)
	sortResults(best)

	if len(best) > topK {
		best = best[:topK]
	}
	return best, nil
}

// embedQuery returns the cached query embedding or fetches one.
func (r *Ranker) embedQuery(ctx context.Context, query string) ([]float32, error) {
	key := r.embedder.ModelName() + "\x00" + query
	if vec, ok := r.queryCache.Get(key); ok {
		return vec, nil
	}

	vec, err := r.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, err
	}
	r.queryCache.Add(key, vec)
	return vec, nil
}

// scoreVector cosine-scores every candidate against the query vector
// and keeps those at or above the threshold. Chunks without a stored
// embedding are skipped.
func (r *Ranker) scoreVector(queryVec []float32, candidates []driven.Candidate) []domain.SearchResult {
	var out []domain.SearchResult
	for i := range candidates {
		c := &candidates[i]
		if len(c.Chunk.Embedding) == 0 {
			continue
		}
		score := cosineSimilarity(queryVec, c.Chunk.Embedding)
		if score < r.cfg.MinScore {
			continue
		}
		out = append(out, toResult(c, score))
	}
	return out
}

// scoreLexical blends token-overlap scores with the vector score for
// every candidate, keeping anything with lexical overlap. Runs only
// when vector scoring alone found nothing.
func (r *Ranker) scoreLexical(query string, queryVec []float32, candidates []driven.Candidate) []domain.SearchResult {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	w := r.cfg.LexicalWeight
	var out []domain.SearchResult
	for i := range candidates {
		c := &candidates[i]
		lex := overlapScore(queryTokens, tokenize(c.Chunk.Text))
		if lex == 0 {
			continue
		}
		var vec float64
		if len(c.Chunk.Embedding) > 0 {
			vec = cosineSimilarity(queryVec, c.Chunk.Embedding)
		}
		out = append(out, toResult(c, w*lex+(1-w)*vec))
	}
	return out
}

func toResult(c *driven.Candidate, score float64) domain.SearchResult {
	return domain.SearchResult{
		FileID:       c.Document.FileID,
		FileName:     c.Document.Name,
		ChunkText:    c.Chunk.Text,
		ChunkIndex:   c.Chunk.Index,
		Heading:      c.Chunk.Heading,
		Score:        score,
		WebViewLink:  c.Document.WebViewLink,
		ModifiedTime: c.Document.ModifiedTime,
	}
}

// dedupeByFile keeps the best-scoring chunk per document. Ties go to
// the lower chunk index so results are deterministic.
func dedupeByFile(results []domain.SearchResult) []domain.SearchResult {
	bestIdx := make(map[string]int, len(results))
	for i := range results {
		j, seen := bestIdx[results[i].FileID]
		if !seen {
			bestIdx[results[i].FileID] = i
			continue
		}
		if results[i].Score > results[j].Score ||
			(results[i].Score == results[j].Score && results[i].ChunkIndex < results[j].ChunkIndex) {
			bestIdx[results[i].FileID] = i
		}
	}

	out := make([]domain.SearchResult, 0, len(bestIdx))
	for _, i := range bestIdx {
		out = append(out, results[i])
	}
	return out
}

// sortResults orders score-descending with a stable tie-break on file
// ID then chunk index.
func sortResults(results []domain.SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].FileID != results[j].FileID {
			return results[i].FileID < results[j].FileID
		}
		return results[i].ChunkIndex < results[j].ChunkIndex
	})
}

// cosineSimilarity computes cosine similarity with float64 accumulation.
// Mismatched or zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// tokenize lowercases and splits on non-alphanumeric runes.
func tokenize(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})

	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return tokens
}

// overlapScore is the fraction of query tokens present in the chunk.
func overlapScore(query, chunk map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	hits := 0
	for t := range query {
		if _, ok := chunk[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}
