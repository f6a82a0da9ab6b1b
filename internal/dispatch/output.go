package dispatch

import (
	"fmt"
	"strings"
)

// overflowIndicator marks content truncated at DefaultMaxLines.
const overflowIndicator = "... (truncated, use head_limit/offset to page further)"

// RenderContent renders results in content mode: each result's chunk
// content prefixed by line numbers, with any matched annotation notes
// injected as "[note] ..." lines immediately above the content, and the
// whole render truncated at maxLines.
func RenderContent(results []Annotated, maxLines int) string {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	var sb strings.Builder
	lines := 0
	truncated := false

	for i, r := range results {
		if r.Chunk == nil {
			continue
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s:%d-%d [%s] %s\n", r.Chunk.FilePath, r.Chunk.StartLine, r.Chunk.EndLine, r.Chunk.Kind, r.Chunk.Name)
		lines++

		for _, note := range r.MatchedNotes {
			if lines >= maxLines {
				truncated = true
				break
			}
			fmt.Fprintf(&sb, "[note] %s\n", note.Note)
			lines++
		}
		if truncated {
			break
		}

		contentLines := strings.Split(r.Chunk.Content, "\n")
		lineNo := r.Chunk.StartLine
		for _, cl := range contentLines {
			if lines >= maxLines {
				truncated = true
				break
			}
			fmt.Fprintf(&sb, "%5d| %s\n", lineNo, cl)
			lines++
			lineNo++
		}
		if truncated {
			break
		}
	}

	if truncated {
		sb.WriteString(overflowIndicator + "\n")
	}
	return sb.String()
}

// RenderSignatures renders one line per result: the chunk's signature,
// falling back to the first line of its content when it has none.
func RenderSignatures(results []Annotated) string {
	var sb strings.Builder
	for _, r := range results {
		if r.Chunk == nil {
			continue
		}
		sig := r.Chunk.Signature
		if sig == "" {
			if idx := strings.IndexByte(r.Chunk.Content, '\n'); idx >= 0 {
				sig = r.Chunk.Content[:idx]
			} else {
				sig = r.Chunk.Content
			}
		}
		fmt.Fprintf(&sb, "%s:%d: %s\n", r.Chunk.FilePath, r.Chunk.StartLine, sig)
	}
	return sb.String()
}

// RenderFilesWithMatches renders "path:start:end [kind] name" per
// result. When dedupe is true, only the first result for a given path
// is kept.
func RenderFilesWithMatches(results []Annotated, dedupe bool) string {
	var sb strings.Builder
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		if r.Chunk == nil {
			continue
		}
		if dedupe {
			if seen[r.Chunk.FilePath] {
				continue
			}
			seen[r.Chunk.FilePath] = true
		}
		fmt.Fprintf(&sb, "%s:%d:%d [%s] %s\n", r.Chunk.FilePath, r.Chunk.StartLine, r.Chunk.EndLine, r.Chunk.Kind, r.Chunk.Name)
	}
	return sb.String()
}

// RenderCount renders a single integer: the result count.
func RenderCount(results []Annotated) string {
	return fmt.Sprintf("%d", len(results))
}

// Render dispatches to the renderer for mode.
func Render(mode OutputMode, results []Annotated, maxLines int) string {
	switch mode {
	case ModeSignatures:
		return RenderSignatures(results)
	case ModeFilesWithMatches:
		return RenderFilesWithMatches(results, true)
	case ModeCount:
		return RenderCount(results)
	default:
		return RenderContent(results, maxLines)
	}
}
