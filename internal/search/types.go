// Package search implements the query-time engines: keyword, regex
// grep, reference classification, semantic, hybrid, and workspace
// fan-out search, plus the static and volatile reranking stages that
// sit between a raw hit and a ranked result.
package search

import (
	"github.com/booger-dev/booger/internal/chunk"
	"github.com/booger-dev/booger/internal/embed"
	"github.com/booger-dev/booger/internal/memory"
	"github.com/booger-dev/booger/internal/store"
)

// Embedder generates the query vector for semantic and hybrid search.
type Embedder = embed.Embedder

// Options narrows and bounds a search call across every engine.
type Options struct {
	Language   string
	PathPrefix string
	Kind       chunk.Kind
	MaxResults int
	Session    string // working-memory scope for volatile rerank
}

// DefaultMaxResults applies when Options.MaxResults is unset.
const DefaultMaxResults = 20

// resultMultiplier is how many more hits than MaxResults are requested
// from the backing text index before re-ranking and truncation.
const resultMultiplier = 5

func (o Options) filters() store.SearchFilters {
	return store.SearchFilters{Language: o.Language, PathPrefix: o.PathPrefix, Kind: o.Kind}
}

func (o Options) maxResults() int {
	if o.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return o.MaxResults
}

// Result is one ranked hit, carrying the data the output shaper needs
// to render any of the content/signatures/files_with_matches/count
// modes.
type Result struct {
	Chunk        *store.Chunk
	Score        float64
	MatchedNotes []*store.Annotation
}

// ReferenceKind classifies why a symbol occurrence matched.
type ReferenceKind string

const (
	RefDefinition ReferenceKind = "definition"
	RefCall       ReferenceKind = "call"
	RefType       ReferenceKind = "type"
	RefImport     ReferenceKind = "import"
	RefReference  ReferenceKind = "reference"
)

// referenceSpecificity ranks categories from most to least specific;
// lower is more specific. Used when a single chunk qualifies for more
// than one category.
var referenceSpecificity = map[ReferenceKind]int{
	RefDefinition: 0,
	RefCall:       1,
	RefType:       2,
	RefImport:     3,
	RefReference:  4,
}

// ReferenceHit is one symbol occurrence, classified.
type ReferenceHit struct {
	Chunk             *store.Chunk
	Kind              ReferenceKind
	Line              int
	Text              string
	EnclosingFunction string
}

// GrepMatch is one regex hit against indexed chunk content.
type GrepMatch struct {
	Path    string
	Line    int
	Text    string
	Context []string
}

// WorkspaceResult is one project's contribution to a workspace search.
type WorkspaceResult struct {
	Project string
	Results []Result
	Err     error
}

// Engine runs every search pipeline against one project's store.
type Engine struct {
	store    *store.Store
	memory   *memory.Memory
	embedder Embedder
}

// New builds an Engine over s. mem and embedder are optional: a nil
// mem disables volatile reranking, and a nil embedder degrades
// semantic/hybrid search to keyword-only.
func New(s *store.Store, mem *memory.Memory, embedder Embedder) *Engine {
	return &Engine{store: s, memory: mem, embedder: embedder}
}
