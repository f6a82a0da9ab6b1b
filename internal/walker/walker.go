package walker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/booger-dev/booger/internal/chunk"
)

var builtinMatcher = mustCompileBuiltin()

func mustCompileBuiltin() *ignore.GitIgnore {
	lines := make([]string, 0, len(builtinExcludeDirs)+len(builtinExcludeFiles)+len(sensitiveFilePatterns))
	lines = append(lines, builtinExcludeDirs...)
	lines = append(lines, builtinExcludeFiles...)
	lines = append(lines, sensitiveFilePatterns...)

	m, err := ignore.CompileIgnoreLines(lines...)
	if err != nil {
		panic(fmt.Sprintf("walker: invalid built-in ignore patterns: %v", err))
	}
	return m
}

// Walk discovers indexable files under opts.Root, applying the built-in
// exclusion list, layered .gitignore files, and opts.ExtraExcludes, then
// the size cap and binary sniff. A missing or non-directory root is a
// fatal error; unreadable entries are counted and skipped.
func Walk(ctx context.Context, opts Options) (*Result, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("walker: root not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walker: root is not a directory: %s", absRoot)
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var extraMatcher *ignore.GitIgnore
	if len(opts.ExtraExcludes) > 0 {
		extraMatcher, err = ignore.CompileIgnoreLines(opts.ExtraExcludes...)
		if err != nil {
			return nil, fmt.Errorf("walker: invalid exclude patterns: %w", err)
		}
	}

	w := &walk{
		absRoot:      absRoot,
		extraMatcher: extraMatcher,
		gitignores:   make(map[string]*ignore.GitIgnore),
		registry:     chunk.DefaultRegistry(),
	}

	result := &Result{}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			result.SkippedCount++
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, relErr := filepath.Rel(absRoot, path)
		if relErr != nil || relPath == "." {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if w.isIgnored(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if w.isIgnored(relPath) {
			return nil
		}

		fileInfo, infoErr := d.Info()
		if infoErr != nil {
			result.SkippedCount++
			return nil
		}
		if fileInfo.Size() > maxSize {
			return nil
		}

		binary, readErr := isBinaryFile(path)
		if readErr != nil {
			result.SkippedCount++
			return nil
		}
		if binary {
			return nil
		}

		var language string
		if ext := filepath.Ext(relPath); ext != "" {
			if config, ok := w.registry.GetByExtension(ext); ok {
				language = config.Name
			}
		}

		result.Entries = append(result.Entries, Entry{
			AbsPath:  path,
			RelPath:  relPath,
			Language: language,
		})
		return nil
	})

	return result, walkErr
}

type walk struct {
	absRoot      string
	extraMatcher *ignore.GitIgnore
	gitignores   map[string]*ignore.GitIgnore // abs dir -> compiled .gitignore, nil if none
	registry     *chunk.LanguageRegistry
}

func (w *walk) isIgnored(relPath string) bool {
	if builtinMatcher.MatchesPath(relPath) {
		return true
	}
	if w.extraMatcher != nil && w.extraMatcher.MatchesPath(relPath) {
		return true
	}
	return w.isIgnoredByGitignore(relPath)
}

// isIgnoredByGitignore checks relPath against every .gitignore from the
// project root down to (and including) its own directory, matching each
// against the portion of the path relative to that .gitignore's location.
func (w *walk) isIgnoredByGitignore(relPath string) bool {
	parts := strings.Split(relPath, "/")
	dirRel := ""

	for i := 0; i < len(parts); i++ {
		absDir := w.absRoot
		if dirRel != "" {
			absDir = filepath.Join(w.absRoot, dirRel)
		}

		if matcher := w.getGitignoreMatcher(absDir); matcher != nil {
			sub := relPath
			if dirRel != "" {
				sub = strings.TrimPrefix(relPath, dirRel+"/")
			}
			if matcher.MatchesPath(sub) {
				return true
			}
		}

		if i < len(parts)-1 {
			if dirRel == "" {
				dirRel = parts[i]
			} else {
				dirRel = dirRel + "/" + parts[i]
			}
		}
	}

	return false
}

func (w *walk) getGitignoreMatcher(absDir string) *ignore.GitIgnore {
	if m, ok := w.gitignores[absDir]; ok {
		return m
	}

	path := filepath.Join(absDir, ".gitignore")
	m, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		w.gitignores[absDir] = nil
		return nil
	}

	w.gitignores[absDir] = m
	return m
}

func isBinaryFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, binaryProbeWindow)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, err
	}

	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}
