package mcpserver

import (
	"context"
	"encoding/json"
	"os"

	"github.com/booger-dev/booger/internal/errkit"
)

// StatusOutput is the JSON body of the "status" tool.
type StatusOutput struct {
	Root        string `json:"root"`
	IndexPath   string `json:"index_path"`
	IndexExists bool   `json:"index_exists"`
	FileCount   int    `json:"file_count"`
	ChunkCount  int    `json:"chunk_count"`
	GitRepo     bool   `json:"git_repo"`
	Embedder    string `json:"embedder"`

	// QueriesThisSession, ZeroResultRate, and TopQueryTerms summarize
	// this process's own query telemetry; they reset every time the
	// server restarts.
	QueriesThisSession int      `json:"queries_this_session"`
	ZeroResultRate     float64  `json:"zero_result_rate_pct"`
	TopQueryTerms      []string `json:"top_query_terms,omitempty"`
}

// runStatus is the "status" tool: a read-only diagnostic snapshot,
// never creating storage (it reads what Open already created for this
// request, it never calls Open itself for a missing project).
func (s *Server) runStatus(ctx context.Context, args map[string]any) (string, error) {
	out := StatusOutput{
		Root:      s.root,
		IndexPath: s.store.Path(),
		GitRepo:   s.vcs != nil,
		Embedder:  "none",
	}

	if _, err := os.Stat(out.IndexPath); err == nil {
		out.IndexExists = true
	}

	files, err := s.store.AllFiles(ctx)
	if err != nil {
		return "", mapToolError(err)
	}
	out.FileCount = len(files)

	chunks, err := s.store.AllChunks(ctx)
	if err != nil {
		return "", mapToolError(err)
	}
	out.ChunkCount = len(chunks)

	if s.embedder != nil {
		out.Embedder = s.embedder.ModelName()
	}

	snap := s.metrics.Snapshot()
	out.QueriesThisSession = int(snap.TotalQueries)
	out.ZeroResultRate = snap.ZeroResultPercentage()
	for i, tc := range snap.TopTerms {
		if i >= 5 {
			break
		}
		out.TopQueryTerms = append(out.TopQueryTerms, tc.Term)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", errkit.New(errkit.ErrCodeInternal, "status: marshal output", err)
	}
	return string(data), nil
}
