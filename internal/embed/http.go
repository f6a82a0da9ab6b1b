package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/booger-dev/booger/internal/errkit"
)

// HTTPConfig configures an HTTPEmbedder.
type HTTPConfig struct {
	// Endpoint is the full URL of the embedding endpoint, e.g.
	// "http://localhost:11434/api/embed" or a remote provider's URL.
	Endpoint string

	// Model is the model identifier sent in the request body and recorded
	// alongside stored embeddings.
	Model string

	// APIKey, if set, is sent as a Bearer token.
	APIKey string

	// Dimensions is the embedding dimension the model is expected to produce.
	// Used when the response does not make it self-evident (empty batch).
	Dimensions int

	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after a failed request.
	MaxRetries int
}

func (c HTTPConfig) withDefaults() HTTPConfig {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.Dimensions <= 0 {
		c.Dimensions = DefaultDimensions
	}
	return c
}

// HTTPEmbedder calls an operator-configured HTTP embedding endpoint. It
// speaks the Ollama-style /api/embed request shape (a JSON body with "model"
// and "input"), which is also accepted by several hosted embedding gateways,
// so one client covers local and remote backends alike.
type HTTPEmbedder struct {
	cfg    HTTPConfig
	client *http.Client
}

// NewHTTPEmbedder creates an embedder backed by an HTTP endpoint.
func NewHTTPEmbedder(cfg HTTPConfig) *HTTPEmbedder {
	cfg = cfg.withDefaults()
	return &HTTPEmbedder{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed generates an embedding for a single text.
func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, errkit.New(errkit.ErrCodeEmbeddingFailed, "embedding backend returned no vectors", nil)
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request.
func (e *HTTPEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if len(texts) > MaxBatchSize {
		return nil, errkit.New(errkit.ErrCodeInvalidInput,
			fmt.Sprintf("batch of %d texts exceeds maximum of %d", len(texts), MaxBatchSize), nil)
	}

	retryCfg := DefaultRetryConfig()
	retryCfg.MaxRetries = e.cfg.MaxRetries

	var result [][]float32
	err := WithRetry(ctx, retryCfg, func() error {
		vecs, rerr := e.doEmbed(ctx, texts)
		if rerr != nil {
			return rerr
		}
		result = vecs
		return nil
	})
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeEmbeddingFailed, "embedding request failed", err)
	}
	return result, nil
}

func (e *HTTPEmbedder) doEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Model: e.cfg.Model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("encode embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("embed endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed endpoint returned %d vectors for %d inputs", len(out.Embeddings), len(texts))
	}

	for i, v := range out.Embeddings {
		out.Embeddings[i] = normalizeVector(v)
	}
	return out.Embeddings, nil
}

// Dimensions returns the configured embedding dimension.
func (e *HTTPEmbedder) Dimensions() int {
	return e.cfg.Dimensions
}

// ModelName returns the configured model identifier.
func (e *HTTPEmbedder) ModelName() string {
	return e.cfg.Model
}

// Available embeds a single probe text through EmbedBatch (with its
// retries) and reports whether that succeeded. A transport failure, a
// non-200 HTTP status, or a malformed response all count as unavailable.
func (e *HTTPEmbedder) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := e.EmbedBatch(ctx, []string{"ping"})
	return err == nil
}

// Close releases idle connections held by the underlying HTTP client.
func (e *HTTPEmbedder) Close() error {
	e.client.CloseIdleConnections()
	return nil
}
