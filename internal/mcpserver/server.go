// Package mcpserver implements the protocol surface: a stdio JSON-RPC
// server wrapping github.com/modelcontextprotocol/go-sdk/mcp, plus the
// tool table that routes each call into internal/search,
// internal/memory, and internal/diff and shapes the result through
// internal/dispatch.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/booger-dev/booger/internal/chunk"
	"github.com/booger-dev/booger/internal/diffvcs"
	"github.com/booger-dev/booger/internal/memory"
	"github.com/booger-dev/booger/internal/search"
	"github.com/booger-dev/booger/internal/store"
	"github.com/booger-dev/booger/internal/telemetry"
	"github.com/booger-dev/booger/pkg/version"
)

// Server wraps one project's store, search engine, and working memory
// behind the MCP tool surface.
type Server struct {
	mcp *mcp.Server

	store    *store.Store
	engine   *search.Engine
	memory   *memory.Memory
	registry *chunk.LanguageRegistry
	vcs      *diffvcs.Repo // nil when root isn't a git repository
	embedder search.Embedder // nil degrades semantic/hybrid search to keyword-only
	metrics  *telemetry.QueryMetrics // in-memory only, reset every process start

	root   string
	logger *slog.Logger

	tools map[string]toolFunc
}

// toolFunc is the shape every registered tool's logic takes: decode
// args, do the work, shape the result as text.
type toolFunc func(ctx context.Context, args map[string]any) (string, error)

// New builds a Server rooted at root. embedder may be nil, degrading
// semantic/hybrid search to keyword-only per internal/search's contract.
func New(root string, st *store.Store, embedder search.Embedder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mem := memory.New(st)
	registry := chunk.DefaultRegistry()
	engine := search.New(st, mem, embedder)

	vcs, err := diffvcs.Open(root)
	if err != nil {
		vcs = nil
		logger.Debug("no git repository detected; branch_diff/draft_commit/changelog disabled", slog.String("root", root))
	}

	s := &Server{
		store:    st,
		engine:   engine,
		memory:   mem,
		registry: registry,
		vcs:      vcs,
		embedder: embedder,
		metrics:  telemetry.NewQueryMetrics(), // in-memory only: counters never outlive this process
		root:     root,
		logger:   logger,
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{Name: "booger", Version: version.Version}, nil)
	s.registerTools()
	return s
}

// Serve runs the stdio JSON-RPC loop until the context is canceled or
// the client closes stdin.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server starting", slog.String("root", s.root))
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && err != context.Canceled {
		s.logger.Error("mcp server stopped with error", slog.String("error", err.Error()))
		return fmt.Errorf("mcpserver: serve: %w", err)
	}
	s.logger.Info("mcp server stopped")
	return nil
}

// dispatch routes one (name, arguments) call to its handler. It is the
// single path both a direct tools/call and a batched call go through,
// per spec.md's requirement that batch runs each entry "through the
// same dispatch sequentially."
func (s *Server) dispatch(ctx context.Context, name string, args map[string]any) (string, error) {
	fn, ok := s.tools[name]
	if !ok {
		return "", &ToolError{Code: "ERR_UNKNOWN_TOOL", Message: fmt.Sprintf("unknown tool %q", name)}
	}
	return fn(ctx, args)
}

// Call runs one tool by name against this server's store/engine/memory,
// the same path a JSON-RPC tools/call request takes. cmd/booger uses
// this directly so CLI subcommands and MCP tools never diverge in
// behavior.
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	return s.dispatch(ctx, name, args)
}
