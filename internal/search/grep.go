package search

import (
	"context"
	"regexp"
	"strings"

	"github.com/booger-dev/booger/internal/errkit"
)

// grepContextLines is how many lines of surrounding context accompany
// each match.
const grepContextLines = 2

// Grep runs pattern as a regular expression over every indexed
// chunk's content under opts' filters, returning each matching line
// with surrounding context. An invalid pattern is a typed error, not a
// panic.
func (e *Engine) Grep(ctx context.Context, pattern string, opts Options) ([]GrepMatch, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeInvalidQuery, "search: invalid grep pattern", err)
	}

	chunks, err := e.store.ListSymbols(ctx, opts.PathPrefix, opts.Kind)
	if err != nil {
		return nil, err
	}

	limit := opts.maxResults()
	var matches []GrepMatch
	for _, c := range chunks {
		if opts.Language != "" && c.Language != opts.Language {
			continue
		}
		lines := strings.Split(c.Content, "\n")
		for i, line := range lines {
			if !re.MatchString(line) {
				continue
			}
			matches = append(matches, GrepMatch{
				Path:    c.FilePath,
				Line:    c.StartLine + i,
				Text:    line,
				Context: surroundingLines(lines, i, grepContextLines),
			})
			if len(matches) >= limit {
				return matches, nil
			}
		}
	}
	return matches, nil
}

func surroundingLines(lines []string, i, radius int) []string {
	start := i - radius
	if start < 0 {
		start = 0
	}
	end := i + radius + 1
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end]
}
