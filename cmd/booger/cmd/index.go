package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/booger-dev/booger/internal/config"
	"github.com/booger-dev/booger/internal/indexer"
	"github.com/booger-dev/booger/internal/store"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Walk a project and (re)index changed files",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIndex,
	}
	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	root, err := rootArgOrResolve(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("loading config for %s: %w", root, err)
	}

	st, err := store.Open(cmd.Context(), dataDir(root))
	if err != nil {
		return fmt.Errorf("opening index for %s: %w", root, err)
	}
	defer func() { _ = st.Close() }()

	out := newOutput(cmd)
	out.Status("", fmt.Sprintf("indexing %s", root))

	result, err := indexer.Run(cmd.Context(), st, indexer.Options{
		Root:          root,
		Workers:       cfg.Performance.IndexWorkers,
		ExtraExcludes: cfg.Paths.Exclude,
		MaxFileSize:   cfg.Performance.MaxFileSize,
	})
	if err != nil {
		return fmt.Errorf("indexing %s: %w", root, err)
	}

	for _, fe := range result.FileErrors {
		out.Warningf("%s: %v", fe.Path, fe.Err)
	}
	out.Successf(
		"scanned %d, indexed %d, unchanged %d, removed %d, skipped %d, %d chunks in %s",
		result.Scanned, result.Indexed, result.Unchanged, result.Removed, result.Skipped,
		result.Chunks, result.Duration.Round(time.Millisecond),
	)
	return nil
}

// rootArgOrResolve uses args[0] as the project root when given,
// otherwise falls back to the usual --project/cwd resolution.
func rootArgOrResolve(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return resolveRoot()
}
