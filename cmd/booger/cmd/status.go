package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/booger-dev/booger/internal/preflight"
)

func newStatusCmd() *cobra.Command {
	var asJSON bool
	var skipChecks bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report index state, embedder availability, and a preflight diagnostic summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runTool(cmd, "status", map[string]any{}, false); err != nil {
				return err
			}
			if asJSON || skipChecks {
				return nil
			}

			root, err := resolveRoot()
			if err != nil {
				return err
			}

			checker := preflight.New(preflight.WithOutput(cmd.OutOrStdout()))
			results := checker.RunAll(cmd.Context(), root)
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			checker.PrintResults(results)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON instead of text")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "skip the preflight diagnostic section")
	return cmd
}
