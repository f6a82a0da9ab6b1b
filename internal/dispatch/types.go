// Package dispatch shapes the results the protocol layer returns and
// checks batched tool calls before handing each to a caller-supplied
// Handler; it does not call the search, memory, or diff engines itself.
// It owns the request-level limits spec.md ties to the
// protocol boundary rather than to any one engine: output mode,
// pagination, empty-result diagnostics, and the batch cap.
package dispatch

import "github.com/booger-dev/booger/internal/store"

// OutputMode selects how a result-producing tool renders its matches.
type OutputMode string

const (
	// ModeContent renders chunk content with line numbers and inline
	// annotation notes. It is the default for every result-producing tool.
	ModeContent OutputMode = "content"
	// ModeSignatures renders one line per result: the chunk's signature,
	// falling back to its first content line when it has none.
	ModeSignatures OutputMode = "signatures"
	// ModeFilesWithMatches renders "path:start:end [kind] name" per
	// result, deduplicated by path.
	ModeFilesWithMatches OutputMode = "files_with_matches"
	// ModeCount renders a single integer: the result count.
	ModeCount OutputMode = "count"
)

// ParseMode maps a tool argument string to an OutputMode, defaulting to
// ModeContent for an empty or unrecognized value.
func ParseMode(s string) OutputMode {
	switch OutputMode(s) {
	case ModeSignatures, ModeFilesWithMatches, ModeCount:
		return OutputMode(s)
	default:
		return ModeContent
	}
}

const (
	// DefaultMaxLines bounds content-mode output before an overflow
	// indicator is emitted in place of the remaining lines.
	DefaultMaxLines = 200
	// BatchLimit is the maximum number of calls one batch request may
	// bundle. The 21st call, or any nested batch, is rejected before
	// any inner call runs.
	BatchLimit = 20
)

// Page carries the pagination arguments every listing tool accepts.
type Page struct {
	HeadLimit int
	Offset    int
}

// Apply slices items according to the page, preserving the caller's
// ordering. An Offset past the end yields an empty slice; a zero or
// negative HeadLimit means "no limit" and only Offset is applied.
func Apply[T any](items []T, p Page) []T {
	if p.Offset > 0 {
		if p.Offset >= len(items) {
			return nil
		}
		items = items[p.Offset:]
	}
	if p.HeadLimit > 0 && p.HeadLimit < len(items) {
		items = items[:p.HeadLimit]
	}
	return items
}

// Annotated is the minimal shape output shaping needs from a search
// result: the underlying chunk plus any working-memory notes matched
// against it. internal/search.Result has the identical field set, so
// FromSearchResults below is a plain conversion, not a projection.
type Annotated struct {
	Chunk        *store.Chunk
	Score        float64
	MatchedNotes []*store.Annotation
}
