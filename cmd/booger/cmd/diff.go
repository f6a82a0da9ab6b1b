package cmd

import "github.com/spf13/cobra"

func newBranchDiffCmd() *cobra.Command {
	var head string
	cmd := &cobra.Command{
		Use:   "branch-diff [base]",
		Short: "Structural diff of every changed file between base and head (or the working tree)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var base string
			if len(args) > 0 {
				base = args[0]
			}
			return runTool(cmd, "branch_diff", map[string]any{"base": base, "head": head}, false)
		},
	}
	cmd.Flags().StringVar(&head, "head", "", "revision to diff against base (empty = working tree)")
	return cmd
}

func newDraftCommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft-commit",
		Short: "Draft a commit message grouped Added/Modified/Removed from uncommitted changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, "draft_commit", map[string]any{}, false)
		},
	}
	return cmd
}

func newChangelogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog [base]",
		Short: "Markdown summary of structural changes between a base revision and HEAD",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var base string
			if len(args) > 0 {
				base = args[0]
			}
			return runTool(cmd, "changelog", map[string]any{"base": base}, false)
		},
	}
	return cmd
}
