// Package embedding provides the batching front of the embedding
// provider: bounded batch sizes, shared rate limiting, retry with
// backoff, and a degraded-mode signal for the sync engine.
package embedding

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/archivist-labs/archivist/internal/core/domain"
	"github.com/archivist-labs/archivist/internal/core/ports/driven"
	"github.com/archivist-labs/archivist/internal/logger"
	"github.com/archivist-labs/archivist/internal/retry"
)

// DefaultBatchSize is the maximum number of texts per provider call.
const DefaultBatchSize = 100

// DefaultRateLimit is a conservative sustained request rate shared
// across all concurrent file pipelines and query-time calls.
var DefaultRateLimit = RateLimitConfig{RequestsPerSecond: 5.0, BurstSize: 10}

// RateLimitConfig holds token-bucket settings for provider calls.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// Config configures a Batcher.
type Config struct {
	// BatchSize caps texts per provider call (default 100).
	BatchSize int

	// RateLimit throttles provider calls (default DefaultRateLimit).
	RateLimit RateLimitConfig

	// Retry is applied to transient provider failures.
	Retry retry.Policy
}

// Batcher groups texts into bounded provider calls with ordinal
// correspondence between input and output preserved.
type Batcher struct {
	service   driven.EmbeddingService
	limiter   *rate.Limiter
	policy    retry.Policy
	batchSize int
	degraded  atomic.Bool
}

// NewBatcher creates a batcher over the given provider.
func NewBatcher(service driven.EmbeddingService, cfg Config) *Batcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.RateLimit.RequestsPerSecond <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.Default()
	}

	return &Batcher{
		service:   service,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize),
		policy:    cfg.Retry,
		batchSize: cfg.BatchSize,
	}
}

// Embed generates embeddings for texts, same order as the input.
// Transient provider failures are retried per the policy; exhausting
// the budget flips the degraded signal and returns an error wrapping
// domain.ErrUnavailable so the caller can skip the affected items
// rather than abort the whole run.
func (b *Batcher) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		vectors, err := b.embedBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}
		out = append(out, vectors...)
	}

	return out, nil
}

// EmbedOne embeds a single text, the query-time path.
func (b *Batcher) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := b.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embed: provider returned no vector")
	}
	return vectors[0], nil
}

// Degraded reports whether the provider stayed unavailable beyond the
// retry budget on the most recent call.
func (b *Batcher) Degraded() bool {
	return b.degraded.Load()
}

// Dimensions returns the provider's declared vector size.
func (b *Batcher) Dimensions() int {
	return b.service.Dimensions()
}

// ModelName returns the provider's model name.
func (b *Batcher) ModelName() string {
	return b.service.ModelName()
}

func (b *Batcher) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	var vectors [][]float32

	err := b.policy.Do(ctx, func(ctx context.Context) error {
		if err := b.limiter.Wait(ctx); err != nil {
			return err
		}

		var callErr error
		vectors, callErr = b.service.EmbedBatch(ctx, batch)
		return callErr
	}, domain.IsTransient)

	if err != nil {
		if domain.IsTransient(err) {
			// Retry budget exhausted on a retryable failure.
			b.degraded.Store(true)
			logger.Warn("Embedding provider unavailable after retries: %v", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
		}
		return nil, err
	}
	b.degraded.Store(false)

	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("provider returned %d vectors for %d texts", len(vectors), len(batch))
	}
	want := b.service.Dimensions()
	for i, v := range vectors {
		if want > 0 && len(v) != want {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(v), want)
		}
	}

	return vectors, nil
}
