package search

import (
	"context"
	"sort"
	"strings"

	"github.com/booger-dev/booger/internal/errkit"
	"github.com/booger-dev/booger/internal/store"
)

// Semantic embeds query with the configured embedder, loads every
// stored embedding for that model, and returns the top-K chunks by
// cosine similarity. Embeddings are stored pre-normalized (see
// internal/embed), so cosine similarity reduces to a dot product.
func (e *Engine) Semantic(ctx context.Context, query string, opts Options) ([]Result, error) {
	if e.embedder == nil {
		return nil, errkit.New(errkit.ErrCodeInvalidInput, "search: semantic search requires a configured embedder", nil)
	}

	queryVec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeEmbeddingFailed, "search: embed query", err)
	}

	vectors, err := e.store.AllEmbeddings(ctx, e.embedder.ModelName())
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, nil
	}

	chunks, err := e.store.AllChunks(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*store.Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
	}

	type scored struct {
		chunk *store.Chunk
		score float64
	}
	var candidates []scored
	for chunkID, vec := range vectors {
		c, ok := byID[chunkID]
		if !ok || !matchesOptionFilters(c, opts) {
			continue
		}
		candidates = append(candidates, scored{chunk: c, score: cosineSimilarity(queryVec, vec)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].chunk.FilePath < candidates[j].chunk.FilePath
	})

	limit := opts.maxResults()
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = Result{Chunk: c.chunk, Score: c.score}
	}
	return results, nil
}

func matchesOptionFilters(c *store.Chunk, opts Options) bool {
	if opts.Language != "" && c.Language != opts.Language {
		return false
	}
	if opts.Kind != "" && c.Kind != opts.Kind {
		return false
	}
	if opts.PathPrefix != "" && !strings.HasPrefix(c.FilePath, opts.PathPrefix) {
		return false
	}
	return true
}

// cosineSimilarity computes the dot product of a and b, truncating to
// the shorter vector if their lengths differ (a stale embedding from a
// previous model generation).
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
