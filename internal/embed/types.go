package embed

import (
	"context"
	"math"
	"time"
)

// Batch and timeout tuning. The embedder talks to an operator-supplied HTTP
// endpoint (local or remote), so these bound request shape rather than any
// specific backend's behavior.
const (
	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size (prevents memory exhaustion
	// on pathologically large worksets).
	MaxBatchSize = 256

	// DefaultBatchSize is the default batch size for embedding requests.
	DefaultBatchSize = 32

	// DefaultTimeout bounds a single HTTP embedding request.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the default number of retry attempts after a
	// failed request; every failure is retried (transport error, any
	// non-200 status, malformed response).
	DefaultMaxRetries = 3

	// DefaultDimensions is the embedding dimension assumed when the endpoint's
	// model does not otherwise announce one.
	DefaultDimensions = 768
)

// Embedder generates vector embeddings for text. A nil Embedder is a valid
// configuration: semantic and hybrid search degrade to keyword-only search
// when no embedding backend is configured.
type Embedder interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one round trip
	// where the backend supports it.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimension produced by this embedder.
	Dimensions() int

	// ModelName returns the model identifier, used as part of the cache key
	// and recorded alongside stored embeddings so a model change is detectable.
	ModelName() string

	// Available reports whether the backend is currently reachable.
	Available(ctx context.Context) bool

	// Close releases any resources (idle HTTP connections) held by the embedder.
	Close() error
}

// normalizeVector normalizes a vector to unit length so cosine similarity
// reduces to a dot product at query time.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}

	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v
	}

	normalized := make([]float32, len(v))
	for i, val := range v {
		normalized[i] = float32(float64(val) / magnitude)
	}
	return normalized
}
