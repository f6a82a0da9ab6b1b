package search

import (
	"context"
	"regexp"
	"strings"

	"github.com/booger-dev/booger/internal/chunk"
	"github.com/booger-dev/booger/internal/store"
)

var declarationKinds = map[chunk.Kind]bool{
	chunk.KindFunction:  true,
	chunk.KindMethod:    true,
	chunk.KindType:      true,
	chunk.KindContainer: true,
	chunk.KindConstant:  true,
}

// References finds every word-boundary occurrence of symbol across
// indexed chunks under opts' filters, classifies each occurrence, and
// — if scope is non-empty — keeps only the occurrences matching that
// category.
func (e *Engine) References(ctx context.Context, symbol string, opts Options, scope ReferenceKind) ([]ReferenceHit, error) {
	chunks, err := e.store.AllChunks(ctx)
	if err != nil {
		return nil, err
	}

	boundary := regexp.MustCompile(`\b` + regexp.QuoteMeta(symbol) + `\b`)

	var hits []ReferenceHit
	for _, c := range chunks {
		if opts.Language != "" && c.Language != opts.Language {
			continue
		}
		if opts.PathPrefix != "" && !strings.HasPrefix(c.FilePath, opts.PathPrefix) {
			continue
		}
		if opts.Kind != "" && c.Kind != opts.Kind {
			continue
		}

		locs := boundary.FindAllStringIndex(c.Content, -1)
		if locs == nil {
			continue
		}

		kind := classifyOccurrences(c, symbol, locs)
		if scope != "" && kind != scope {
			continue
		}

		line := lineAtOffset(c.Content, locs[0][0]) + c.StartLine
		hits = append(hits, ReferenceHit{
			Chunk:             c,
			Kind:              kind,
			Line:              line,
			Text:              lineText(c.Content, locs[0][0]),
			EnclosingFunction: enclosingFunction(c),
		})

		if len(hits) >= opts.maxResults()*resultMultiplier {
			break
		}
	}

	if len(hits) > opts.maxResults() {
		hits = hits[:opts.maxResults()]
	}
	return hits, nil
}

// classifyOccurrences picks the most specific category (definition >
// call > type > import > reference) that applies to any occurrence of
// symbol within c.
func classifyOccurrences(c *store.Chunk, symbol string, locs [][]int) ReferenceKind {
	best := RefReference

	if declarationKinds[c.Kind] && c.Name == symbol {
		best = RefDefinition
	}
	if c.Kind == chunk.KindImport {
		best = betterOf(best, RefImport)
	}

	for _, loc := range locs {
		if isCall(c.Content, loc[1]) {
			best = betterOf(best, RefCall)
		}
		if isTypePosition(c.Content, loc[0]) {
			best = betterOf(best, RefType)
		}
	}

	return best
}

func betterOf(a, b ReferenceKind) ReferenceKind {
	if referenceSpecificity[b] < referenceSpecificity[a] {
		return b
	}
	return a
}

// isCall reports whether the symbol occurrence ending at end is
// immediately followed by an opening parenthesis (ignoring spaces).
func isCall(content string, end int) bool {
	for i := end; i < len(content); i++ {
		switch content[i] {
		case ' ', '\t':
			continue
		case '(':
			return true
		default:
			return false
		}
	}
	return false
}

// isTypePosition reports whether the symbol occurrence starting at
// start is preceded by a colon, "->", or "<" (generics), skipping
// spaces.
func isTypePosition(content string, start int) bool {
	i := start - 1
	for i >= 0 && (content[i] == ' ' || content[i] == '\t') {
		i--
	}
	if i < 0 {
		return false
	}
	switch content[i] {
	case ':', '<':
		return true
	case '>':
		return i > 0 && content[i-1] == '-'
	}
	return false
}

func lineAtOffset(content string, offset int) int {
	return strings.Count(content[:offset], "\n")
}

func lineText(content string, offset int) string {
	start := strings.LastIndexByte(content[:offset], '\n') + 1
	end := strings.IndexByte(content[offset:], '\n')
	if end == -1 {
		return content[start:]
	}
	return content[start : offset+end]
}

// enclosingFunction returns c's own name when c is itself a
// function/method chunk; the structural chunker already scopes each
// function/method to its own chunk, so the lexically innermost
// enclosing function for any line within c is c itself.
func enclosingFunction(c *store.Chunk) string {
	if c.Kind == chunk.KindFunction || c.Kind == chunk.KindMethod {
		return c.Name
	}
	return ""
}
