package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations must distinguish transient failures (rate limits,
// provider overload, network) from fatal ones by wrapping the former
// with domain.Transient, so the batcher knows what to retry.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Local models via OpenAI-compatible inference servers
type EmbeddingService interface {
	// EmbedBatch generates embeddings for multiple texts in one provider
	// call. The result has the same ordinal correspondence as the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
