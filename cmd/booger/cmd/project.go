package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/cobra"

	"github.com/booger-dev/booger/internal/config"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage the registry of named projects for --project",
	}
	cmd.AddCommand(newProjectAddCmd())
	cmd.AddCommand(newProjectAddAllCmd())
	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectRemoveCmd())
	return cmd
}

func newProjectAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> [path]",
		Short: "Register a project under a short name",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			path := "."
			if len(args) > 1 {
				path = args[1]
			}
			if err := config.AddProject(name, path); err != nil {
				return fmt.Errorf("registering %s: %w", name, err)
			}
			abs, _ := filepath.Abs(path)
			newOutput(cmd).Successf("registered %q -> %s", name, abs)
			return nil
		},
	}
	return cmd
}

func newProjectRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Deregister a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.RemoveProject(args[0]); err != nil {
				return fmt.Errorf("removing %s: %w", args[0], err)
			}
			newOutput(cmd).Successf("removed %q", args[0])
			return nil
		},
	}
	return cmd
}

func newProjectListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := config.LoadRegistry()
			if err != nil {
				return err
			}
			out := newOutput(cmd)
			if len(projects) == 0 {
				out.Status("", "no projects registered (see 'booger project add')")
				return nil
			}
			for _, p := range projects {
				out.Status("", fmt.Sprintf("%-20s %s", p.Name, p.Path))
			}
			return nil
		},
	}
	return cmd
}

// newProjectAddAllCmd registers every git repository found one level
// below a parent directory, naming each entry after its directory
// basename. Existing registrations with the same name are overwritten.
func newProjectAddAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-all [parent-dir]",
		Short: "Register every git repository found directly under parent-dir",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := "."
			if len(args) > 0 {
				parent = args[0]
			}
			absParent, err := filepath.Abs(parent)
			if err != nil {
				return fmt.Errorf("resolving %s: %w", parent, err)
			}

			entries, err := os.ReadDir(absParent)
			if err != nil {
				return fmt.Errorf("reading %s: %w", absParent, err)
			}

			out := newOutput(cmd)
			added := 0
			for _, e := range entries {
				if !e.IsDir() {
					continue
				}
				candidate := filepath.Join(absParent, e.Name())
				if _, err := git.PlainOpen(candidate); err != nil {
					continue
				}
				if err := config.AddProject(e.Name(), candidate); err != nil {
					out.Warningf("%s: %v", e.Name(), err)
					continue
				}
				out.Successf("registered %q -> %s", e.Name(), candidate)
				added++
			}
			if added == 0 {
				out.Status("", fmt.Sprintf("no git repositories found directly under %s", absParent))
			}
			return nil
		},
	}
	return cmd
}
