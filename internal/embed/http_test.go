package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, dims int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		vecs := make([][]float32, len(req.Input))
		for i := range req.Input {
			v := make([]float32, dims)
			for j := range v {
				v[j] = float32(i + j)
			}
			vecs[i] = v
		}
		_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: vecs})
	}))
}

func TestHTTPEmbedder_Embed(t *testing.T) {
	// Given: a fake embedding endpoint
	srv := newTestServer(t, 8)
	defer srv.Close()

	e := NewHTTPEmbedder(HTTPConfig{Endpoint: srv.URL, Model: "test-model", Dimensions: 8})
	defer e.Close()

	// When: I embed a single text
	vec, err := e.Embed(context.Background(), "hello world")

	// Then: a normalized vector of the configured dimension comes back
	require.NoError(t, err)
	assert.Len(t, vec, 8)
}

func TestHTTPEmbedder_EmbedBatch(t *testing.T) {
	srv := newTestServer(t, 4)
	defer srv.Close()

	e := NewHTTPEmbedder(HTTPConfig{Endpoint: srv.URL, Model: "test-model", Dimensions: 4})
	defer e.Close()

	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, vecs, 3)
}

func TestHTTPEmbedder_EmbedBatch_Empty(t *testing.T) {
	e := NewHTTPEmbedder(HTTPConfig{Endpoint: "http://unused", Model: "m"})
	vecs, err := e.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestHTTPEmbedder_EmbedBatch_ExceedsMax(t *testing.T) {
	e := NewHTTPEmbedder(HTTPConfig{Endpoint: "http://unused", Model: "m"})
	texts := make([]string, MaxBatchSize+1)
	for i := range texts {
		texts[i] = "x"
	}

	_, err := e.EmbedBatch(context.Background(), texts)
	require.Error(t, err)
}

func TestHTTPEmbedder_Available(t *testing.T) {
	srv := newTestServer(t, 4)
	defer srv.Close()

	e := NewHTTPEmbedder(HTTPConfig{Endpoint: srv.URL, Model: "m", Dimensions: 4})
	defer e.Close()

	assert.True(t, e.Available(context.Background()))
}

func TestHTTPEmbedder_Available_Unreachable(t *testing.T) {
	e := NewHTTPEmbedder(HTTPConfig{Endpoint: "http://127.0.0.1:1", Model: "m", MaxRetries: 1})
	defer e.Close()

	assert.False(t, e.Available(context.Background()))
}

func TestHTTPEmbedder_DimensionsAndModelName(t *testing.T) {
	e := NewHTTPEmbedder(HTTPConfig{Endpoint: "http://unused", Model: "my-model", Dimensions: 512})
	assert.Equal(t, 512, e.Dimensions())
	assert.Equal(t, "my-model", e.ModelName())
}
