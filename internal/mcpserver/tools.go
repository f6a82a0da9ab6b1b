package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/booger-dev/booger/internal/dispatch"
)

const batchToolName = "batch"

// toolSpec binds a tool's name and description to its handler for both
// the internal dispatch table (used by batch) and SDK registration.
type toolSpec struct {
	name        string
	description string
	handler     toolFunc
}

// registerTools builds the internal dispatch table and registers every
// tool, plus the reserved "batch" tool, with the MCP SDK.
func (s *Server) registerTools() {
	specs := []toolSpec{
		{"search", "Hybrid keyword and semantic search over the indexed codebase, reranked by working memory. Prefer this over grep for anything beyond a literal pattern.", s.runSearch},
		{"semantic", "Pure embedding-similarity search; best for conceptual queries with no obvious keyword.", s.runSemantic},
		{"grep", "Regex match over indexed file content, returning matches with surrounding context.", s.runGrep},
		{"symbols", "List every declared symbol under a path prefix, optionally filtered by kind.", s.runSymbols},
		{"references", "Find classified occurrences of a symbol: definitions, calls, type uses, imports.", s.runReferences},
		{"annotate", "Attach a volatile note to a path prefix, path:line, or symbol name.", s.runAnnotate},
		{"annotations", "List notes matching a target and/or session.", s.runAnnotations},
		{"focus", "Boost search rank for one or more path prefixes for the rest of the session.", s.runFocus},
		{"visit", "Record paths as already seen, penalizing their rank in subsequent searches.", s.runVisit},
		{"forget", "Clear working memory, optionally scoped to one session.", s.runForget},
		{"status", "Report index state: file/chunk counts, embedder availability, git repository status.", s.runStatus},
		{"branch_diff", "Structural diff of every changed file between two revisions (or a revision and the working tree), as JSON.", s.runBranchDiff},
		{"draft_commit", "Draft a commit message grouped Added/Modified/Removed from the working tree's uncommitted changes.", s.runDraftCommit},
		{"changelog", "Markdown summary of structural changes between a base revision and HEAD.", s.runChangelog},
	}

	s.tools = make(map[string]toolFunc, len(specs)+1)
	for _, spec := range specs {
		s.tools[spec.name] = spec.handler
		mcp.AddTool(s.mcp, &mcp.Tool{Name: spec.name, Description: spec.description}, wrapTool(spec.handler))
		s.logger.Debug("registered tool", slog.String("name", spec.name))
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        batchToolName,
		Description: "Run up to 20 of the above tool calls sequentially in one round trip, in the order given. Nested batch calls are rejected.",
	}, s.handleBatch)
	s.logger.Debug("registered tool", slog.String("name", batchToolName))

	s.logger.Info("mcp tools registered", slog.Int("count", len(specs)+1))
}

// wrapTool adapts the shared (ctx, args) -> (string, error) handler
// shape into the SDK's typed CallToolRequest handler, decoding
// arguments as a plain map and returning the result as text content.
func wrapTool(fn toolFunc) func(context.Context, *mcp.CallToolRequest, map[string]any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
		text, err := fn(ctx, args)
		if err != nil {
			return nil, nil, mapToolError(err)
		}
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}, nil, nil
	}
}

// BatchCallInput is one call within a "batch" tool invocation.
type BatchCallInput struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// BatchInput is the "batch" tool's argument shape.
type BatchInput struct {
	Calls []BatchCallInput `json:"calls"`
}

// handleBatch is the SDK handler for the reserved "batch" tool. It
// converts to dispatch.Call and routes every entry back through
// s.dispatch, the same path a direct tools/call uses.
func (s *Server) handleBatch(ctx context.Context, _ *mcp.CallToolRequest, input BatchInput) (*mcp.CallToolResult, any, error) {
	calls := make([]dispatch.Call, len(input.Calls))
	for i, c := range input.Calls {
		calls[i] = dispatch.Call{Name: c.Name, Arguments: c.Arguments}
	}

	results, err := dispatch.RunBatch(ctx, calls, func(ctx context.Context, c dispatch.Call) (string, error) {
		return s.dispatch(ctx, c.Name, c.Arguments)
	})
	if err != nil {
		return nil, nil, mapToolError(err)
	}

	content := make([]mcp.Content, len(results))
	for i, r := range results {
		content[i] = &mcp.TextContent{Text: r}
	}
	return &mcp.CallToolResult{Content: content}, nil, nil
}
