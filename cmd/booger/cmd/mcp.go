package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp [root]",
		Short: "Start the stdio MCP server for a project",
		Long: `Starts the JSON-RPC stdio server AI coding agents connect to.

stdout is reserved exclusively for JSON-RPC messages once this starts;
use --debug for diagnostics, which go to ~/.booger/logs/ instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMCP,
	}
	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	root, err := rootArgOrResolve(args)
	if err != nil {
		return err
	}

	srv, closeFn, err := openServer(cmd.Context(), root)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	slog.Info("starting mcp server", slog.String("root", root))
	if err := srv.Serve(cmd.Context()); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
