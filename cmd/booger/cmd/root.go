// Package cmd provides the CLI commands for booger.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/booger-dev/booger/internal/cliui"
	"github.com/booger-dev/booger/internal/config"
	"github.com/booger-dev/booger/internal/embed"
	"github.com/booger-dev/booger/internal/logging"
	"github.com/booger-dev/booger/internal/mcpserver"
	"github.com/booger-dev/booger/internal/output"
	"github.com/booger-dev/booger/internal/store"
	"github.com/booger-dev/booger/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
	projectFlag    string
)

// NewRootCmd creates the root command for the booger CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booger",
		Short: "Local-first code search and working memory for AI coding agents",
		Long: `booger indexes a codebase into chunks (functions, methods, types) with
hybrid keyword and semantic search, plus a thin working-memory layer
(focus/visit/forget/annotate) that reranks results by what an agent
has already looked at this session.

Every search/grep/symbols/references/memory tool exposed to MCP
clients is also available as a CLI subcommand, so scripts and humans
get the exact same behavior an agent does.`,
		Version:      version.Version,
		SilenceUsage: true,
	}

	cmd.SetVersionTemplate("booger version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging to ~/.booger/logs/")
	cmd.PersistentFlags().StringVar(&projectFlag, "project", "", "registered project name to resolve instead of the current directory (see 'booger project')")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newEmbedCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSemanticCmd())
	cmd.AddCommand(newGrepCmd())
	cmd.AddCommand(newSymbolsCmd())
	cmd.AddCommand(newReferencesCmd())
	cmd.AddCommand(newAnnotateCmd())
	cmd.AddCommand(newAnnotationsCmd())
	cmd.AddCommand(newFocusCmd())
	cmd.AddCommand(newVisitCmd())
	cmd.AddCommand(newForgetCmd())
	cmd.AddCommand(newBranchDiffCmd())
	cmd.AddCommand(newDraftCommitCmd())
	cmd.AddCommand(newChangelogCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newProjectCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to set up debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// resolveRoot decides which project directory a command runs against:
// --project <name> resolves through the registry, otherwise the
// nearest project root above the current directory (falling back to
// the current directory itself if no markers are found).
func resolveRoot() (string, error) {
	if projectFlag != "" {
		path, ok, err := config.ResolveProject(projectFlag)
		if err != nil {
			return "", fmt.Errorf("resolving project %q: %w", projectFlag, err)
		}
		if !ok {
			return "", fmt.Errorf("no project registered as %q (see 'booger project list')", projectFlag)
		}
		return path, nil
	}

	root, err := config.FindProjectRoot(".")
	if err != nil {
		return os.Getwd()
	}
	return root, nil
}

// newOutput builds an output.Writer for cmd's stdout, enabling color
// only when that stream is an interactive terminal (internal/cliui),
// so piped and CI output stays plain.
func newOutput(cmd *cobra.Command) *output.Writer {
	w := cmd.OutOrStdout()
	return output.NewWithColor(w, cliui.UseColor(w))
}

// dataDir is where a project's index, lock file, and preflight marker
// live, mirroring the .booger/config.yaml convention internal/config
// already uses for project-level settings.
func dataDir(root string) string {
	return filepath.Join(root, ".booger")
}

// buildEmbedder constructs an Embedder from a project's configuration,
// returning (nil, nil) when no embedding endpoint is configured —
// callers must treat that as a valid state, not an error.
func buildEmbedder(cfg *config.Config) (embed.Embedder, error) {
	return embed.New(embed.Config{
		Endpoint: cfg.Embeddings.Endpoint,
		Model:    cfg.Embeddings.Model,
		// No project config field carries a credential; providers that
		// need one (e.g. a hosted embeddings API) take it from the
		// environment rather than a file that might get committed.
		APIKey:     os.Getenv("BOOGER_EMBEDDINGS_API_KEY"),
		Dimensions: cfg.Embeddings.Dimensions,
	})
}

// openServer loads root's configuration, opens its store (creating it
// if absent), and builds an mcpserver.Server against it. The returned
// close func releases the store; callers must defer it.
func openServer(ctx context.Context, root string) (*mcpserver.Server, func() error, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config for %s: %w", root, err)
	}

	st, err := store.Open(ctx, dataDir(root))
	if err != nil {
		return nil, nil, fmt.Errorf("opening index for %s: %w", root, err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("constructing embedder: %w", err)
	}

	srv := mcpserver.New(root, st, embedder, slog.Default())
	return srv, st.Close, nil
}

