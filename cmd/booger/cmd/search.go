package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// resultFlags are the options every search/semantic/grep/symbols/
// references subcommand shares, mirroring internal/mcpserver's
// map[string]any argument contract one-for-one.
type resultFlags struct {
	language   string
	pathPrefix string
	kind       string
	maxResults int
	session    string
	mode       string
	maxLines   int
	headLimit  int
	offset     int
	asJSON     bool
}

func addResultFlags(cmd *cobra.Command, f *resultFlags, withMaxResults bool) {
	cmd.Flags().StringVar(&f.language, "language", "", "filter by language")
	cmd.Flags().StringVar(&f.pathPrefix, "path-prefix", "", "filter by path prefix")
	cmd.Flags().StringVar(&f.kind, "kind", "", "filter by chunk kind (function, method, type, ...)")
	cmd.Flags().StringVar(&f.session, "session", "", "working-memory session to rerank against")
	cmd.Flags().StringVar(&f.mode, "mode", "content", "output mode: content, signatures, files_with_matches, count")
	cmd.Flags().IntVar(&f.maxLines, "max-lines", 0, "max content lines per result (0 = default)")
	cmd.Flags().IntVar(&f.headLimit, "head-limit", 0, "max results to return (0 = no limit)")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "results to skip before applying head-limit")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "emit machine-readable JSON instead of text")
	if withMaxResults {
		cmd.Flags().IntVar(&f.maxResults, "max-results", 0, "max results before pagination (0 = default)")
	}
}

func (f resultFlags) toArgs() map[string]any {
	args := map[string]any{
		"language":    f.language,
		"path_prefix": f.pathPrefix,
		"kind":        f.kind,
		"session":     f.session,
		"mode":        f.mode,
		"max_lines":   f.maxLines,
		"head_limit":  f.headLimit,
		"offset":      f.offset,
	}
	if f.maxResults > 0 {
		args["max_results"] = f.maxResults
	}
	return args
}

func newSearchCmd() *cobra.Command {
	var f resultFlags
	var alpha float64
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Hybrid keyword and semantic search, reranked by working memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := f.toArgs()
			toolArgs["query"] = args[0]
			if alpha > 0 {
				toolArgs["alpha"] = alpha
			}
			return runTool(cmd, "search", toolArgs, f.asJSON)
		},
	}
	addResultFlags(cmd, &f, true)
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "keyword vs. semantic weight in [0,1] (0 = tool default)")
	return cmd
}

func newSemanticCmd() *cobra.Command {
	var f resultFlags
	cmd := &cobra.Command{
		Use:     "semantic <query>",
		Aliases: []string{"semantic-search"},
		Short:   "Pure embedding-similarity search",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := f.toArgs()
			toolArgs["query"] = args[0]
			return runTool(cmd, "semantic", toolArgs, f.asJSON)
		},
	}
	addResultFlags(cmd, &f, true)
	return cmd
}

func newGrepCmd() *cobra.Command {
	var f resultFlags
	cmd := &cobra.Command{
		Use:   "grep <pattern>",
		Short: "Regex match over indexed file content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := f.toArgs()
			toolArgs["pattern"] = args[0]
			return runTool(cmd, "grep", toolArgs, f.asJSON)
		},
	}
	addResultFlags(cmd, &f, false)
	return cmd
}

func newSymbolsCmd() *cobra.Command {
	var f resultFlags
	cmd := &cobra.Command{
		Use:   "symbols [path]",
		Short: "List every declared symbol under a path prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := f.toArgs()
			if len(args) > 0 {
				toolArgs["path"] = args[0]
			}
			return runTool(cmd, "symbols", toolArgs, f.asJSON)
		},
	}
	addResultFlags(cmd, &f, false)
	return cmd
}

func newReferencesCmd() *cobra.Command {
	var f resultFlags
	var scope string
	cmd := &cobra.Command{
		Use:   "references <symbol>",
		Short: "Find classified occurrences of a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := f.toArgs()
			toolArgs["symbol"] = args[0]
			if scope != "" {
				toolArgs["scope"] = scope
			}
			return runTool(cmd, "references", toolArgs, f.asJSON)
		},
	}
	addResultFlags(cmd, &f, false)
	cmd.Flags().StringVar(&scope, "scope", "", "restrict to one reference kind: definition, call, type, import, reference")
	return cmd
}

// runTool runs one tool through the shared dispatch path and prints
// its result, either as plain text or wrapped as JSON.
func runTool(cmd *cobra.Command, name string, args map[string]any, asJSON bool) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	srv, closeFn, err := openServer(cmd.Context(), root)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	text, err := srv.Call(cmd.Context(), name, args)
	if err != nil {
		return err
	}

	if !asJSON {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}

	data, err := json.MarshalIndent(map[string]string{"result": text}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result as JSON: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
