package dispatch

import "github.com/booger-dev/booger/internal/search"

// FromSearchResults converts engine results into the shape the output
// renderers consume.
func FromSearchResults(results []search.Result) []Annotated {
	out := make([]Annotated, len(results))
	for i, r := range results {
		out[i] = Annotated{Chunk: r.Chunk, Score: r.Score, MatchedNotes: r.MatchedNotes}
	}
	return out
}
