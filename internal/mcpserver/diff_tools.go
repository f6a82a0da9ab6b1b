package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/booger-dev/booger/internal/diff"
	"github.com/booger-dev/booger/internal/errkit"
)

// changedFileDiff pairs a changed path with its structural diff.Result.
type changedFileDiff struct {
	Path   string       `json:"path"`
	Result *diff.Result `json:"result"`
}

// diffChangedPaths resolves paths changed between two revisions (or,
// when head is empty, the working tree's uncommitted changes as git
// status reports them, whatever base is; base, default HEAD, then only
// supplies the old content) and runs the structural differ over each one. Binary/unreadable files are skipped
// rather than failing the whole request.
func (s *Server) diffChangedPaths(ctx context.Context, base, head string) ([]changedFileDiff, error) {
	if s.vcs == nil {
		return nil, errkit.New(errkit.ErrCodeInvalidInput, "root is not a git repository", nil)
	}

	var paths []string
	var err error
	if head == "" {
		paths, err = s.vcs.ChangedPathsWorkingTree()
	} else {
		paths, err = s.vcs.ChangedPaths(base, head)
	}
	if err != nil {
		return nil, err
	}

	out := make([]changedFileDiff, 0, len(paths))
	for _, p := range paths {
		oldRevision := base
		if oldRevision == "" {
			oldRevision = "HEAD"
		}
		oldBytes, oldErr := s.vcs.OldBytes(oldRevision, p)
		if oldErr != nil {
			oldBytes = nil // file is new in this revision range
		}

		var newBytes []byte
		if head == "" {
			newBytes, err = os.ReadFile(filepath.Join(s.root, p))
			if err != nil {
				newBytes = nil // file was deleted in the working tree
			}
		} else {
			newBytes, err = s.vcs.OldBytes(head, p)
			if err != nil {
				newBytes = nil
			}
		}

		language := ""
		if cfg, ok := s.registry.GetByExtension(filepath.Ext(p)); ok {
			language = cfg.Name
		} else {
			continue // no structural chunker for this file type
		}

		result, derr := diff.File(ctx, s.registry, p, oldBytes, newBytes, language)
		if derr != nil {
			continue
		}
		out = append(out, changedFileDiff{Path: p, Result: result})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// runBranchDiff is the "branch_diff" tool: structural diff of every
// changed file between base and head (head defaults to the working
// tree when omitted), rendered as JSON.
func (s *Server) runBranchDiff(ctx context.Context, args map[string]any) (string, error) {
	base := argString(args, "base")
	if base == "" {
		base = "HEAD"
	}
	head := argString(args, "head")

	diffs, err := s.diffChangedPaths(ctx, base, head)
	if err != nil {
		return "", mapToolError(err)
	}
	data, err := json.MarshalIndent(diffs, "", "  ")
	if err != nil {
		return "", errkit.New(errkit.ErrCodeInternal, "branch_diff: marshal output", err)
	}
	return string(data), nil
}

// runDraftCommit is the "draft_commit" tool: a commit-message draft
// grouped Added/Modified/Removed from the working tree's uncommitted
// changes against HEAD.
func (s *Server) runDraftCommit(ctx context.Context, args map[string]any) (string, error) {
	diffs, err := s.diffChangedPaths(ctx, "HEAD", "")
	if err != nil {
		return "", mapToolError(err)
	}
	if len(diffs) == 0 {
		return "No changes to commit.", nil
	}

	var added, modified, removed []string
	for _, d := range diffs {
		for _, c := range d.Result.Added {
			added = append(added, fmt.Sprintf("%s: %s", d.Path, c.Name))
		}
		for _, m := range d.Result.Modified {
			modified = append(modified, fmt.Sprintf("%s: %s", d.Path, m.New.Name))
		}
		for _, c := range d.Result.Removed {
			removed = append(removed, fmt.Sprintf("%s: %s", d.Path, c.Name))
		}
	}

	var sb strings.Builder
	sb.WriteString(draftSummaryLine(len(added), len(modified), len(removed)))
	sb.WriteString("\n\n")
	writeDraftSection(&sb, "Added", added)
	writeDraftSection(&sb, "Modified", modified)
	writeDraftSection(&sb, "Removed", removed)
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

func draftSummaryLine(added, modified, removed int) string {
	parts := make([]string, 0, 3)
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", added))
	}
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", modified))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", removed))
	}
	return strings.Join(parts, ", ")
}

func writeDraftSection(sb *strings.Builder, title string, entries []string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", title)
	for _, e := range entries {
		fmt.Fprintf(sb, "- %s\n", e)
	}
	sb.WriteString("\n")
}

// runChangelog is the "changelog" tool: a markdown summary of
// structural changes between base and HEAD, one section per file.
func (s *Server) runChangelog(ctx context.Context, args map[string]any) (string, error) {
	base := argString(args, "base")
	if base == "" {
		base = "HEAD~1"
	}

	diffs, err := s.diffChangedPaths(ctx, base, "HEAD")
	if err != nil {
		return "", mapToolError(err)
	}
	if len(diffs) == 0 {
		return fmt.Sprintf("No structural changes between %s and HEAD.", base), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Changes since %s\n\n", base)
	for _, d := range diffs {
		r := d.Result
		if len(r.Added) == 0 && len(r.Modified) == 0 && len(r.Removed) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n", d.Path)
		for _, c := range r.Added {
			fmt.Fprintf(&sb, "- **added** %s `%s`\n", c.Kind, c.Name)
		}
		for _, m := range r.Modified {
			fmt.Fprintf(&sb, "- **modified** %s `%s`\n", m.New.Kind, m.New.Name)
		}
		for _, c := range r.Removed {
			fmt.Fprintf(&sb, "- **removed** %s `%s`\n", c.Kind, c.Name)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}
