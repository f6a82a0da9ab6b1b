package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
)

const (
	codeTokenizerName = "code_tokenizer"
	codeStopFilterName = "code_stop"
	codeAnalyzerName   = "code_analyzer"
)

func init() {
	_ = registry.RegisterTokenizer(codeTokenizerName, codeTokenizerConstructor)
	_ = registry.RegisterTokenFilter(codeStopFilterName, codeStopFilterConstructor)
}

// RankDocument is one chunk's indexable text, keyed by chunk id.
type RankDocument struct {
	ChunkID int64
	Content string
}

// RankResult is a scored hit from RankIndex.Search.
type RankResult struct {
	ChunkID int64
	Score   float64
}

type rankDoc struct {
	Content string `json:"content"`
}

// RankIndex is a secondary in-memory ranking engine layered over the
// sqlite FTS5 index: it gives keyword search a second BM25-family
// signal to blend with the FTS5 bm25 scores, using the code-aware
// tokenizer (camelCase and snake_case splitting) rather than the
// unicode61 tokenizer of the sqlite path. It holds no state on disk and is
// rebuilt from store.AllChunks at the start of every process that needs
// it — there is no daemon to keep it warm across invocations.
type RankIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	closed bool
}

// NewRankIndex builds an empty in-memory ranking index.
func NewRankIndex() (*RankIndex, error) {
	im, err := newCodeIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("rank: build index mapping: %w", err)
	}
	idx, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("rank: create in-memory index: %w", err)
	}
	return &RankIndex{index: idx}, nil
}

func newCodeIndexMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()
	err := im.AddCustomAnalyzer(codeAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": codeTokenizerName,
		"token_filters": []string{
			lowercase.Name,
			codeStopFilterName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("add custom analyzer: %w", err)
	}
	im.DefaultAnalyzer = codeAnalyzerName
	return im, nil
}

// Index adds or replaces documents in the ranking index.
func (r *RankIndex) Index(ctx context.Context, docs []RankDocument) error {
	if len(docs) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("rank: index is closed")
	}

	batch := r.index.NewBatch()
	for _, d := range docs {
		if err := batch.Index(chunkDocID(d.ChunkID), rankDoc{Content: d.Content}); err != nil {
			return fmt.Errorf("rank: index document %d: %w", d.ChunkID, err)
		}
	}
	return r.index.Batch(batch)
}

// Search runs a BM25 match query against the ranking index.
func (r *RankIndex) Search(ctx context.Context, query string, limit int) ([]RankResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, fmt.Errorf("rank: index is closed")
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	mq := bleve.NewMatchQuery(query)
	mq.SetField("content")
	req := bleve.NewSearchRequest(mq)
	req.Size = limit

	result, err := r.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("rank: search: %w", err)
	}

	out := make([]RankResult, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := chunkIDFromDocID(hit.ID)
		if err != nil {
			continue
		}
		out = append(out, RankResult{ChunkID: id, Score: hit.Score})
	}
	return out, nil
}

// Close releases the index's in-memory resources.
func (r *RankIndex) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.index.Close()
}

func chunkDocID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func chunkIDFromDocID(docID string) (int64, error) {
	return strconv.ParseInt(docID, 10, 64)
}

func codeTokenizerConstructor(_ map[string]interface{}, _ *registry.Cache) (analysis.Tokenizer, error) {
	return &codeTokenizer{}, nil
}

type codeTokenizer struct{}

func (t *codeTokenizer) Tokenize(input []byte) analysis.TokenStream {
	text := string(input)
	tokens := TokenizeCode(text)

	result := make(analysis.TokenStream, 0, len(tokens))
	pos := 1
	offset := 0
	for _, token := range tokens {
		start := strings.Index(strings.ToLower(text[offset:]), strings.ToLower(token))
		if start == -1 {
			start = offset
		} else {
			start += offset
		}
		end := start + len(token)

		result = append(result, &analysis.Token{
			Term:     []byte(token),
			Start:    start,
			End:      end,
			Position: pos,
			Type:     analysis.AlphaNumeric,
		})
		pos++
		if end <= len(text) {
			offset = end
		}
	}
	return result
}

func codeStopFilterConstructor(_ map[string]interface{}, _ *registry.Cache) (analysis.TokenFilter, error) {
	return &codeStopFilter{stopWords: BuildStopWordMap(defaultCodeStopWords)}, nil
}

type codeStopFilter struct {
	stopWords map[string]struct{}
}

func (f *codeStopFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	result := make(analysis.TokenStream, 0, len(input))
	for _, token := range input {
		if _, isStop := f.stopWords[strings.ToLower(string(token.Term))]; !isStop {
			result = append(result, token)
		}
	}
	return result
}

// defaultCodeStopWords are filtered out of ranking-index tokens; sqlite
// FTS5 unicode61 tokenization has no stop-word concept, so this signal
// is what actually differentiates the bleve pass.
var defaultCodeStopWords = []string{
	"the", "a", "an", "is", "are", "was", "were", "be", "been", "being",
	"and", "or", "if", "then", "else", "for", "while", "do", "return",
}
