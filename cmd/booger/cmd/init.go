package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/booger-dev/booger/internal/config"
	"github.com/booger-dev/booger/internal/indexer"
	"github.com/booger-dev/booger/internal/store"
)

func newInitCmd() *cobra.Command {
	var force bool
	var configOnly bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up booger for the current project",
		Long: `Writes .booger/config.yaml with the default settings (the same for
every project type; the detected type is only reported), then indexes
the project (unless --config-only).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, force, configOnly)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing .booger/config.yaml")
	cmd.Flags().BoolVar(&configOnly, "config-only", false, "write configuration without indexing")
	return cmd
}

func runInit(cmd *cobra.Command, force, configOnly bool) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving current directory: %w", err)
	}

	out := newOutput(cmd)

	configPath := filepath.Join(root, ".booger", "config.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		out.Warningf("%s already exists, not overwriting (use --force)", configPath)
	} else {
		projectType := config.DetectProjectType(root)
		cfg := config.NewConfig()
		if err := cfg.WriteYAML(configPath); err != nil {
			return fmt.Errorf("writing %s: %w", configPath, err)
		}
		out.Successf("wrote %s (detected project type: %s)", configPath, projectType)
	}

	if configOnly {
		return nil
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := store.Open(cmd.Context(), dataDir(root))
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer func() { _ = st.Close() }()

	out.Status("", "indexing project")
	result, err := indexer.Run(cmd.Context(), st, indexer.Options{
		Root:          root,
		Workers:       cfg.Performance.IndexWorkers,
		ExtraExcludes: cfg.Paths.Exclude,
		MaxFileSize:   cfg.Performance.MaxFileSize,
	})
	if err != nil {
		return fmt.Errorf("indexing %s: %w", root, err)
	}
	out.Successf("indexed %d files, %d chunks", result.Indexed, result.Chunks)

	out.Newline()
	out.Status("", "run 'booger mcp' to start the MCP server, or 'booger status' for diagnostics")
	return nil
}
