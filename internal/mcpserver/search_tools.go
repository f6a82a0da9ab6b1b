package mcpserver

import (
	"context"
	"time"

	"github.com/booger-dev/booger/internal/dispatch"
	"github.com/booger-dev/booger/internal/errkit"
	"github.com/booger-dev/booger/internal/search"
	"github.com/booger-dev/booger/internal/telemetry"
)

func optionsFromArgs(args map[string]any) search.Options {
	return search.Options{
		Language:   argString(args, "language"),
		PathPrefix: argString(args, "path_prefix"),
		Kind:       argKind(args, "kind"),
		MaxResults: argInt(args, "max_results", search.DefaultMaxResults),
		Session:    argString(args, "session"),
	}
}

func pageFromArgs(args map[string]any) dispatch.Page {
	return dispatch.Page{HeadLimit: argInt(args, "head_limit", 0), Offset: argInt(args, "offset", 0)}
}

// runSearch is the "search" tool: hybrid keyword+semantic ranking with
// working-memory reranking, degrading to keyword-only without an
// embedder.
func (s *Server) runSearch(ctx context.Context, args map[string]any) (string, error) {
	query := argString(args, "query")
	if query == "" {
		return "", errkit.New(errkit.ErrCodeInvalidInput, "query is required", nil)
	}

	opts := optionsFromArgs(args)
	alpha := search.DefaultAlpha
	if a, ok := args["alpha"].(float64); ok {
		alpha = a
	}

	start := time.Now()
	results, err := s.engine.Hybrid(ctx, query, opts, alpha)
	if err != nil {
		return "", mapToolError(err)
	}
	s.recordQuery(telemetry.QueryTypeMixed, query, len(results), time.Since(start))
	return s.renderOrExplain(ctx, results, args, opts.PathPrefix)
}

// runSemantic is the "semantic" tool: pure embedding-cosine ranking.
func (s *Server) runSemantic(ctx context.Context, args map[string]any) (string, error) {
	query := argString(args, "query")
	if query == "" {
		return "", errkit.New(errkit.ErrCodeInvalidInput, "query is required", nil)
	}

	opts := optionsFromArgs(args)
	start := time.Now()
	results, err := s.engine.Semantic(ctx, query, opts)
	if err != nil {
		return "", mapToolError(err)
	}
	s.recordQuery(telemetry.QueryTypeSemantic, query, len(results), time.Since(start))
	return s.renderOrExplain(ctx, results, args, opts.PathPrefix)
}

// runGrep is the "grep" tool: regex match over indexed chunk content.
func (s *Server) runGrep(ctx context.Context, args map[string]any) (string, error) {
	pattern := argString(args, "pattern")
	if pattern == "" {
		return "", errkit.New(errkit.ErrCodeInvalidInput, "pattern is required", nil)
	}

	opts := optionsFromArgs(args)
	start := time.Now()
	matches, err := s.engine.Grep(ctx, pattern, opts)
	if err != nil {
		return "", mapToolError(err)
	}
	s.recordQuery(telemetry.QueryTypeLexical, pattern, len(matches), time.Since(start))
	if len(matches) == 0 {
		return dispatch.Message(dispatch.ReasonNoMatches, s.root, ""), nil
	}

	page := pageFromArgs(args)
	matches = dispatch.Apply(matches, page)
	return renderGrep(matches), nil
}

// runSymbols is the "symbols" tool: every declared symbol under a path
// prefix, optionally filtered by kind.
func (s *Server) runSymbols(ctx context.Context, args map[string]any) (string, error) {
	pathPrefix := argString(args, "path")
	kind := argKind(args, "kind")

	chunks, err := s.store.ListSymbols(ctx, pathPrefix, kind)
	if err != nil {
		return "", mapToolError(err)
	}
	if len(chunks) == 0 {
		reason, derr := dispatch.DiagnoseEmpty(ctx, s.store, s.store.Path(), pathPrefix)
		if derr != nil {
			return "", mapToolError(derr)
		}
		return dispatch.Message(reason, s.root, ""), nil
	}

	page := pageFromArgs(args)
	chunks = dispatch.Apply(chunks, page)

	results := make([]search.Result, len(chunks))
	for i, c := range chunks {
		results[i] = search.Result{Chunk: c}
	}

	mode := dispatch.ParseMode(argString(args, "mode"))
	return dispatch.Render(mode, dispatch.FromSearchResults(results), argInt(args, "max_lines", 0)), nil
}

// runReferences is the "references" tool: classified occurrences of a symbol.
func (s *Server) runReferences(ctx context.Context, args map[string]any) (string, error) {
	symbol := argString(args, "symbol")
	if symbol == "" {
		return "", errkit.New(errkit.ErrCodeInvalidInput, "symbol is required", nil)
	}

	scope := search.ReferenceKind(argString(args, "scope"))
	opts := optionsFromArgs(args)

	hits, err := s.engine.References(ctx, symbol, opts, scope)
	if err != nil {
		return "", mapToolError(err)
	}
	if len(hits) == 0 {
		return dispatch.Message(dispatch.ReasonNoSymbolMatches, s.root, symbol), nil
	}

	page := pageFromArgs(args)
	hits = dispatch.Apply(hits, page)
	return renderReferences(hits), nil
}

// recordQuery feeds one query's outcome into the server's in-process
// telemetry counters, reported later by the "status" tool.
func (s *Server) recordQuery(qt telemetry.QueryType, query string, resultCount int, latency time.Duration) {
	s.metrics.Record(telemetry.QueryEvent{
		Query:       query,
		QueryType:   qt,
		ResultCount: resultCount,
		Latency:     latency,
		Timestamp:   time.Now(),
	})
}

// renderOrExplain shapes a non-empty result set or returns the
// canonical empty-result explanation for the zero case.
func (s *Server) renderOrExplain(ctx context.Context, results []search.Result, args map[string]any, pathPrefix string) (string, error) {
	if len(results) == 0 {
		reason, err := dispatch.DiagnoseEmpty(ctx, s.store, s.store.Path(), pathPrefix)
		if err != nil {
			return "", mapToolError(err)
		}
		return dispatch.Message(reason, s.root, ""), nil
	}

	page := pageFromArgs(args)
	results = dispatch.Apply(results, page)

	mode := dispatch.ParseMode(argString(args, "mode"))
	return dispatch.Render(mode, dispatch.FromSearchResults(results), argInt(args, "max_lines", 0)), nil
}
