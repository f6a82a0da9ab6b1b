// Package diffvcs enumerates changed paths between two revisions (or
// between the index and the working tree) and fetches a file's bytes
// at a given revision. It is the thin, external collaborator
// internal/diff's pure contract calls for; internal/diff never imports
// it back.
package diffvcs

import (
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/booger-dev/booger/internal/errkit"
)

// Repo wraps a go-git repository rooted at one working directory.
type Repo struct {
	repo *git.Repository
}

// Open opens the git repository containing root.
func Open(root string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeFileNotFound, "diffvcs: open repository", err)
	}
	return &Repo{repo: repo}, nil
}

// ChangedPaths enumerates paths that differ between base and head
// (branch names, tags, or commit hashes), with rename detection
// disabled — a renamed file is reported as a delete plus an add,
// mirroring `git diff --name-only --no-renames`.
func (r *Repo) ChangedPaths(base, head string) ([]string, error) {
	baseTree, err := r.treeAt(base)
	if err != nil {
		return nil, err
	}
	headTree, err := r.treeAt(head)
	if err != nil {
		return nil, err
	}

	changes, err := baseTree.Diff(headTree)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeInternal, "diffvcs: diff trees", err)
	}

	paths := make([]string, 0, len(changes))
	for _, c := range changes {
		paths = append(paths, changePath(c))
	}
	return paths, nil
}

// ChangedPathsWorkingTree enumerates paths that differ between the
// index and the working tree (uncommitted changes).
func (r *Repo) ChangedPathsWorkingTree() ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeInternal, "diffvcs: open worktree", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeInternal, "diffvcs: worktree status", err)
	}

	paths := make([]string, 0, len(status))
	for path := range status {
		paths = append(paths, path)
	}
	return paths, nil
}

// OldBytes returns path's content as of revision.
func (r *Repo) OldBytes(revision, path string) ([]byte, error) {
	tree, err := r.treeAt(revision)
	if err != nil {
		return nil, err
	}
	f, err := tree.File(path)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeFileNotFound, "diffvcs: file not found at revision", err)
	}
	reader, err := f.Reader()
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeInternal, "diffvcs: open blob reader", err)
	}
	defer func() { _ = reader.Close() }()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeInternal, "diffvcs: read blob", err)
	}
	return content, nil
}

func (r *Repo) treeAt(revision string) (*object.Tree, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeInvalidInput, fmt.Sprintf("diffvcs: resolve revision %q", revision), err)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeInternal, "diffvcs: load commit", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeInternal, "diffvcs: load tree", err)
	}
	return tree, nil
}

// changePath returns the path a Change applies to, preferring the new
// path so an add/modify reports the current location; a pure delete
// reports the old location.
func changePath(c *object.Change) string {
	if c.To.Name != "" {
		return c.To.Name
	}
	return c.From.Name
}
