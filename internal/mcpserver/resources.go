package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/booger-dev/booger/internal/errkit"
)

// maxResourceBytes bounds a single resources/read response.
const maxResourceBytes = 1024 * 1024

// RegisterResources lists every indexed file and registers it as an
// exact-URI MCP resource. Call once after New, before Serve.
func (s *Server) RegisterResources(ctx context.Context) error {
	files, err := s.store.AllFiles(ctx)
	if err != nil {
		return fmt.Errorf("mcpserver: register resources: %w", err)
	}
	for _, f := range files {
		s.registerFileResource(f.Path, f.Size)
	}
	s.logger.Info("registered resources", "count", len(files))
	return nil
}

func (s *Server) registerFileResource(path string, size int64) {
	uri := fmt.Sprintf("file://%s", path)
	s.mcp.AddResource(&mcp.Resource{
		Name:        filepath.Base(path),
		URI:         uri,
		Description: fmt.Sprintf("%s (%d bytes)", path, size),
		MIMEType:    mimeTypeForPath(path),
	}, s.makeFileHandler(path))
}

func (s *Server) makeFileHandler(path string) mcp.ResourceHandler {
	return func(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return s.readFileResource(path)
	}
}

// readFileResource reads path's content under root, rejecting any
// path that isn't a clean, relative path contained within root. Only
// the exact URI registered for an indexed file is ever read — there
// is no templated or glob resource lookup.
func (s *Server) readFileResource(path string) (*mcp.ReadResourceResult, error) {
	if !isValidResourcePath(path) {
		return nil, errkit.New(errkit.ErrCodeInvalidPath, fmt.Sprintf("invalid resource path: %s", path), nil)
	}

	full := filepath.Join(s.root, path)
	info, err := os.Stat(full)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeFileNotFound, fmt.Sprintf("resource not found: %s", path), err)
	}
	if info.Size() > maxResourceBytes {
		return nil, errkit.New(errkit.ErrCodeInvalidInput, fmt.Sprintf("resource too large: %d bytes (max %d)", info.Size(), maxResourceBytes), nil)
	}

	content, err := os.ReadFile(full)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeInternal, fmt.Sprintf("read resource: %s", path), err)
	}

	uri := fmt.Sprintf("file://%s", path)
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: mimeTypeForPath(path), Text: string(content)},
		},
	}, nil
}

// isValidResourcePath rejects absolute paths and any path that climbs
// out of root via "..".
func isValidResourcePath(path string) bool {
	if path == "" || filepath.IsAbs(path) {
		return false
	}
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return false
	}
	for _, part := range strings.Split(cleaned, string(filepath.Separator)) {
		if part == ".." {
			return false
		}
	}
	return true
}

var extMIMETypes = map[string]string{
	".go":   "text/x-go",
	".py":   "text/x-python",
	".rs":   "text/x-rust",
	".js":   "text/javascript",
	".jsx":  "text/jsx",
	".ts":   "text/typescript",
	".tsx":  "text/tsx",
	".java": "text/x-java",
	".c":    "text/x-c",
	".h":    "text/x-c",
	".cpp":  "text/x-c++",
	".md":   "text/markdown",
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
}

func mimeTypeForPath(path string) string {
	if mt, ok := extMIMETypes[filepath.Ext(path)]; ok {
		return mt
	}
	return "text/plain"
}
