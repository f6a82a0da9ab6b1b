package mcpserver

import (
	"fmt"
	"strings"

	"github.com/booger-dev/booger/internal/search"
)

// renderGrep renders grep matches as "path:line: text" with surrounding
// context lines indented, mirroring the shape RenderContent gives
// keyword results.
func renderGrep(matches []search.GrepMatch) string {
	var sb strings.Builder
	for _, m := range matches {
		fmt.Fprintf(&sb, "%s:%d: %s\n", m.Path, m.Line, m.Text)
		for _, ctx := range m.Context {
			fmt.Fprintf(&sb, "  %s\n", ctx)
		}
	}
	return sb.String()
}

// renderReferences renders classified reference hits: one line per
// occurrence naming its category and enclosing function.
func renderReferences(hits []search.ReferenceHit) string {
	var sb strings.Builder
	for _, h := range hits {
		path := ""
		if h.Chunk != nil {
			path = h.Chunk.FilePath
		}
		fmt.Fprintf(&sb, "%s:%d [%s]", path, h.Line, h.Kind)
		if h.EnclosingFunction != "" {
			fmt.Fprintf(&sb, " in %s", h.EnclosingFunction)
		}
		fmt.Fprintf(&sb, ": %s\n", h.Text)
	}
	return sb.String()
}
