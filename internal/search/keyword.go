package search

import (
	"context"
	"math"
	"sort"

	"github.com/booger-dev/booger/internal/chunk"
	"github.com/booger-dev/booger/internal/store"
)

// structuralBonus is added to a hit's static score when its kind is
// one of the structural kinds (function, method, container, type).
const structuralBonus = 3.0

// sizeThreshold (T) is the content-size point past which the static
// size penalty kicks in, roughly 4 KiB.
const sizeThreshold = 4096

// maxSizePenalty caps how much the size penalty can subtract.
const maxSizePenalty = 4.0

var structuralKinds = map[chunk.Kind]bool{
	chunk.KindFunction:  true,
	chunk.KindMethod:    true,
	chunk.KindContainer: true,
	chunk.KindType:      true,
}

// Keyword runs the full keyword-search pipeline: fetch 5x the
// requested hits from the text index (retrying with an any-term match
// if an all-terms match comes back empty on a multi-word query), apply
// static re-ranking, apply volatile re-ranking from working memory,
// sort, and truncate to opts.MaxResults.
func (e *Engine) Keyword(ctx context.Context, query string, opts Options) ([]Result, error) {
	limit := opts.maxResults()
	fetch := limit * resultMultiplier

	hits, err := e.store.KeywordSearch(ctx, query, opts.filters(), fetch)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 && hasMultipleTerms(query) {
		hits, err = e.store.KeywordSearchAny(ctx, query, opts.filters(), fetch)
		if err != nil {
			return nil, err
		}
	}
	if len(hits) == 0 {
		return nil, nil
	}

	blended, err := e.blendRankScores(ctx, query, hits)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{Chunk: h.Chunk, Score: staticRerank(h.Chunk, blended[h.Chunk.ID])}
	}

	if e.memory != nil {
		ws, err := e.memory.LoadWorkingSet(ctx, opts.Session)
		if err != nil {
			return nil, err
		}
		for i := range results {
			adj := ws.Adjustment(results[i].Chunk)
			results[i].Score += adj.Delta
			results[i].MatchedNotes = adj.MatchedNotes
		}
	}

	sortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// staticRerank adds the structural-kind bonus and subtracts the size
// penalty from a raw relevance score: +3 if c's kind is structural,
// -min(4, floor((bytes-T)/T)) once content exceeds sizeThreshold
// bytes.
func staticRerank(c *store.Chunk, base float64) float64 {
	score := base
	if structuralKinds[c.Kind] {
		score += structuralBonus
	}
	if bytes := len(c.Content); bytes > sizeThreshold {
		penalty := math.Floor(float64(bytes-sizeThreshold) / sizeThreshold)
		if penalty > maxSizePenalty {
			penalty = maxSizePenalty
		}
		score -= penalty
	}
	return score
}

func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Chunk.FilePath != b.Chunk.FilePath {
			return a.Chunk.FilePath < b.Chunk.FilePath
		}
		return a.Chunk.StartLine < b.Chunk.StartLine
	})
}

// blendRankScores folds store.RankIndex, a second bleve-backed
// BM25-family signal with a code-aware tokenizer, into the raw sqlite
// FTS5 scores already carried by hits: both score sets are min-max
// normalized over their own set and averaged. The rank index is
// rebuilt from every stored chunk at the start of this call rather
// than kept warm, since nothing here runs as a long-lived daemon. Any
// failure to build or query it degrades to the sqlite scores alone
// rather than failing the search.
func (e *Engine) blendRankScores(ctx context.Context, query string, hits []store.SearchResult) (map[int64]float64, error) {
	sqlScores := make(map[int64]float64, len(hits))
	for _, h := range hits {
		sqlScores[h.Chunk.ID] = h.Score
	}
	sqlNorm := minMaxFloat(sqlScores)

	allChunks, err := e.store.AllChunks(ctx)
	if err != nil {
		return nil, err
	}

	rankIdx, err := store.NewRankIndex()
	if err != nil {
		return sqlNorm, nil
	}
	defer func() { _ = rankIdx.Close() }()

	docs := make([]store.RankDocument, len(allChunks))
	for i, c := range allChunks {
		docs[i] = store.RankDocument{ChunkID: c.ID, Content: c.Content}
	}
	if err := rankIdx.Index(ctx, docs); err != nil {
		return sqlNorm, nil
	}

	rankHits, err := rankIdx.Search(ctx, query, len(hits)*resultMultiplier)
	if err != nil {
		return sqlNorm, nil
	}

	rankScores := make(map[int64]float64, len(rankHits))
	for _, r := range rankHits {
		rankScores[r.ChunkID] = r.Score
	}
	rankNorm := minMaxFloat(rankScores)

	blended := make(map[int64]float64, len(sqlNorm))
	for id, s := range sqlNorm {
		if r, ok := rankNorm[id]; ok {
			blended[id] = (s + r) / 2
			continue
		}
		blended[id] = s / 2
	}
	return blended, nil
}

// minMaxFloat scales a score map to [0,1]. A single-entry map (or an
// empty one) maps every present entry to 1.0, since there's nothing to
// scale against.
func minMaxFloat(scores map[int64]float64) map[int64]float64 {
	out := make(map[int64]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range scores {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	spread := max - min
	for id, v := range scores {
		if spread == 0 {
			out[id] = 1
			continue
		}
		out[id] = (v - min) / spread
	}
	return out
}

func hasMultipleTerms(query string) bool {
	count := 0
	inTerm := false
	for _, r := range query {
		if r == ' ' || r == '\t' || r == '\n' {
			inTerm = false
			continue
		}
		if !inTerm {
			count++
			inTerm = true
		}
	}
	return count > 1
}
