package search

import (
	"context"

	"github.com/booger-dev/booger/internal/store"
)

// DefaultAlpha weights keyword score vs. semantic score in hybrid
// search: alpha*fts + (1-alpha)*sem.
const DefaultAlpha = 0.7

// Hybrid runs keyword and semantic search, min-max normalizes each
// score set to [0,1] over the union of chunks retrieved, and ranks by
// alpha*fts + (1-alpha)*sem. alpha<=0 uses DefaultAlpha. If no
// embedder is configured, or semantic search returns nothing, it
// degrades to keyword-only.
func (e *Engine) Hybrid(ctx context.Context, query string, opts Options, alpha float64) ([]Result, error) {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}

	fts, err := e.Keyword(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	if e.embedder == nil {
		return fts, nil
	}
	sem, err := e.Semantic(ctx, query, opts)
	if err != nil || len(sem) == 0 {
		return fts, nil
	}

	ftsNorm := minMaxByChunkID(fts)
	semNorm := minMaxByChunkID(sem)

	byChunk := make(map[int64]Result, len(fts)+len(sem))
	for _, r := range fts {
		byChunk[r.Chunk.ID] = r
	}
	for _, r := range sem {
		if existing, ok := byChunk[r.Chunk.ID]; ok {
			existing.MatchedNotes = mergeNotes(existing.MatchedNotes, r.MatchedNotes)
			byChunk[r.Chunk.ID] = existing
			continue
		}
		byChunk[r.Chunk.ID] = r
	}

	merged := make([]Result, 0, len(byChunk))
	for id, r := range byChunk {
		r.Score = alpha*ftsNorm[id] + (1-alpha)*semNorm[id]
		merged = append(merged, r)
	}

	sortResults(merged)
	limit := opts.maxResults()
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// minMaxByChunkID scales results' scores to [0,1], keyed by chunk ID.
// A single-result set maps to 1.0 (there's nothing to scale against).
func minMaxByChunkID(results []Result) map[int64]float64 {
	out := make(map[int64]float64, len(results))
	if len(results) == 0 {
		return out
	}

	min, max := results[0].Score, results[0].Score
	for _, r := range results {
		if r.Score < min {
			min = r.Score
		}
		if r.Score > max {
			max = r.Score
		}
	}

	spread := max - min
	for _, r := range results {
		if spread == 0 {
			out[r.Chunk.ID] = 1
			continue
		}
		out[r.Chunk.ID] = (r.Score - min) / spread
	}
	return out
}

func mergeNotes(a, b []*store.Annotation) []*store.Annotation {
	if len(a) == 0 {
		return b
	}
	return a
}
