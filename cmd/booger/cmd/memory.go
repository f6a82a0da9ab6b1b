package cmd

import "github.com/spf13/cobra"

func newAnnotateCmd() *cobra.Command {
	var session string
	var ttlSeconds int
	cmd := &cobra.Command{
		Use:   "annotate <target> <note>",
		Short: "Attach a volatile note to a path prefix, path:line, or symbol name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, "annotate", map[string]any{
				"target":      args[0],
				"note":        args[1],
				"session":     session,
				"ttl_seconds": ttlSeconds,
			}, false)
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "scope this note to one session")
	cmd.Flags().IntVar(&ttlSeconds, "ttl", 0, "seconds until the note expires (0 = never)")
	return cmd
}

func newAnnotationsCmd() *cobra.Command {
	var target, session string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "annotations",
		Short: "List notes matching a target and/or session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, "annotations", map[string]any{
				"target":  target,
				"session": session,
			}, asJSON)
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "filter by target prefix")
	cmd.Flags().StringVar(&session, "session", "", "filter by session")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON instead of text")
	return cmd
}

func newFocusCmd() *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "focus <path> [paths...]",
		Short: "Boost search rank for one or more path prefixes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, "focus", map[string]any{
				"paths":   toAnySlice(args),
				"session": session,
			}, false)
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "scope this boost to one session")
	return cmd
}

func newVisitCmd() *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "visit <path> [paths...]",
		Short: "Record paths as already seen, penalizing their rank in later searches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, "visit", map[string]any{
				"paths":   toAnySlice(args),
				"session": session,
			}, false)
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "scope this penalty to one session")
	return cmd
}

func newForgetCmd() *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "forget",
		Short: "Clear working memory, optionally scoped to one session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, "forget", map[string]any{"session": session}, false)
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "only clear this session's entries")
	return cmd
}

func toAnySlice(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
