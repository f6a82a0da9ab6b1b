package search

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// WorkspaceConcurrency bounds how many registered projects are
// searched in parallel.
const WorkspaceConcurrency = 10

// Workspace fans a keyword search out across every engine in engines
// (keyed by project identifier), capped at WorkspaceConcurrency
// concurrent searches. Each project's error, if any, is attached to
// its own WorkspaceResult rather than aborting the others. Results are
// not merged here: the slice holds one WorkspaceResult per project,
// each with that project's own ranking.
func Workspace(ctx context.Context, engines map[string]*Engine, query string, opts Options) ([]WorkspaceResult, error) {
	perProject := make([]WorkspaceResult, 0, len(engines))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(WorkspaceConcurrency)

	for project, engine := range engines {
		project, engine := project, engine
		g.Go(func() error {
			results, err := engine.Keyword(gctx, query, opts)

			mu.Lock()
			defer mu.Unlock()
			perProject = append(perProject, WorkspaceResult{Project: project, Results: results, Err: err})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return perProject, nil
}

// Merge flattens a workspace fan-out's per-project results into one
// ranking, sorted by score and truncated to opts.MaxResults. Projects
// that errored contribute nothing.
func Merge(perProject []WorkspaceResult, opts Options) []Result {
	var merged []Result
	for _, p := range perProject {
		if p.Err != nil {
			continue
		}
		merged = append(merged, p.Results...)
	}
	sortResults(merged)

	limit := opts.maxResults()
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
