package memory

import (
	"strconv"
	"strings"

	"github.com/booger-dev/booger/internal/store"
)

// Volatile re-ranking adjustments, applied on top of a hit's static
// score by WorkingSet.Adjustment.
const (
	focusBonus      = 5.0
	visitedPenalty  = -3.0
	annotationBonus = 2.0
)

// WorkingSet is a snapshot of one session's (or the unscoped) focus
// entries, visited entries, and annotations, loaded once per search so
// reranking a batch of hits touches the store exactly once regardless
// of hit count. It holds no reference to the store and is pure and
// independently testable.
type WorkingSet struct {
	Focus       []*store.WorksetEntry
	Visited     []*store.WorksetEntry
	Annotations []*store.Annotation
}

// Adjustment is the volatile-rerank contribution for one chunk, plus
// the annotations that matched it (for [note] injection).
type Adjustment struct {
	Delta        float64
	MatchedNotes []*store.Annotation
}

// Adjustment computes the volatile re-rank delta for c: +5 if its path
// has any prefix match in focus entries, -3 if it has any prefix match
// in visited entries, +2 per matching annotation target.
func (ws *WorkingSet) Adjustment(c *store.Chunk) Adjustment {
	var adj Adjustment

	for _, f := range ws.Focus {
		if hasPathPrefix(c.FilePath, f.PathPrefix) {
			adj.Delta += focusBonus
			break
		}
	}
	for _, v := range ws.Visited {
		if hasPathPrefix(c.FilePath, v.PathPrefix) {
			adj.Delta += visitedPenalty
			break
		}
	}

	for _, a := range ws.Annotations {
		if matchesAnnotation(a, c) {
			adj.Delta += annotationBonus
			adj.MatchedNotes = append(adj.MatchedNotes, a)
		}
	}

	return adj
}

// MatchingNotes returns the annotations whose target matches c,
// without computing a score delta. Used by the output shaper to
// inject [note] lines in front of matching chunk content.
func (ws *WorkingSet) MatchingNotes(c *store.Chunk) []*store.Annotation {
	var out []*store.Annotation
	for _, a := range ws.Annotations {
		if matchesAnnotation(a, c) {
			out = append(out, a)
		}
	}
	return out
}

// hasPathPrefix reports whether path has prefix as a path-component
// prefix: equal, or prefix followed by '/'.
func hasPathPrefix(path, prefix string) bool {
	if prefix == "" {
		return false
	}
	if path == prefix {
		return true
	}
	trimmed := strings.TrimSuffix(prefix, "/")
	return strings.HasPrefix(path, trimmed+"/")
}

// matchesAnnotation reports whether ann's target resolves to c: a bare
// path (exact or directory-prefix match against c's file), a
// "path:line" target whose line falls inside c's line range, or a
// symbol name equal to c's name.
func matchesAnnotation(ann *store.Annotation, c *store.Chunk) bool {
	target := ann.PathPrefix

	if idx := strings.LastIndex(target, ":"); idx > 0 {
		pathPart, linePart := target[:idx], target[idx+1:]
		if line, err := strconv.Atoi(linePart); err == nil {
			if hasPathPrefix(c.FilePath, pathPart) || c.FilePath == pathPart {
				if line >= c.StartLine && line <= c.EndLine {
					return true
				}
			}
			return false
		}
	}

	if c.Name != "" && target == c.Name {
		return true
	}

	return hasPathPrefix(c.FilePath, target) || c.FilePath == target
}
