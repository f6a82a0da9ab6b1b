package embed

// Config is the subset of configuration needed to construct an Embedder.
// It mirrors the [embeddings] section of the project/user config file.
type Config struct {
	// Endpoint is the embedding HTTP endpoint. Empty disables embeddings
	// entirely: semantic and hybrid search degrade to keyword-only.
	Endpoint string

	Model      string
	APIKey     string
	Dimensions int

	// CacheSize bounds the in-memory LRU embedding cache. Zero uses the
	// default.
	CacheSize int
}

// New constructs an Embedder from configuration. It returns (nil, nil) when
// Endpoint is empty, signaling that no embedding backend is configured —
// callers must treat a nil Embedder as a valid, expected state rather than
// an error.
func New(cfg Config) (Embedder, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}

	httpCfg := HTTPConfig{
		Endpoint:   cfg.Endpoint,
		Model:      cfg.Model,
		APIKey:     cfg.APIKey,
		Dimensions: cfg.Dimensions,
	}
	base := NewHTTPEmbedder(httpCfg)
	return NewCachedEmbedder(base, cfg.CacheSize), nil
}
