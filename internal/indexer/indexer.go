// Package indexer reconciles a project root against its chunk store:
// walk, hash, and replace the chunks of every file whose content
// changed since the last run.
package indexer

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/booger-dev/booger/internal/chunk"
	"github.com/booger-dev/booger/internal/hashutil"
	"github.com/booger-dev/booger/internal/store"
	"github.com/booger-dev/booger/internal/walker"
)

// Options configures a Run.
type Options struct {
	// Root is the project directory to index. Required.
	Root string

	// Workers bounds the number of files processed concurrently. 0 means
	// runtime.NumCPU().
	Workers int

	// ExtraExcludes are additional gitignore-style patterns layered on
	// top of the walker's built-in exclusion list.
	ExtraExcludes []string

	// MaxFileSize caps how large a file may be before the walker skips
	// it. 0 means walker.DefaultMaxFileSize.
	MaxFileSize int64
}

// Result tallies what a Run did.
type Result struct {
	Scanned    int // files discovered by the walker
	Indexed    int // files (re-)chunked because their fingerprint changed
	Unchanged  int // files whose fingerprint matched the stored one
	Skipped    int // files the walker couldn't read
	Removed    int // tracked files no longer present on disk
	Chunks     int // chunks produced across all indexed files
	Duration   time.Duration
	FileErrors []FileError
}

// FileError records a per-file failure that didn't abort the run.
type FileError struct {
	Path string
	Err  error
}

// Run walks Options.Root, hashes every discovered file, and reconciles
// the store: unchanged files are left alone, changed or new files are
// rechunked and their old chunks replaced in one transaction, and
// tracked files no longer present on disk are removed along with their
// chunks and embeddings.
func Run(ctx context.Context, s *store.Store, opts Options) (*Result, error) {
	start := time.Now()

	walked, err := walker.Walk(ctx, walker.Options{
		Root:          opts.Root,
		MaxFileSize:   opts.MaxFileSize,
		ExtraExcludes: opts.ExtraExcludes,
	})
	if err != nil {
		return nil, fmt.Errorf("indexer: walk: %w", err)
	}

	result := &Result{
		Scanned: len(walked.Entries),
		Skipped: walked.SkippedCount,
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	registry := chunk.DefaultRegistry()
	seen := make(map[string]struct{}, len(walked.Entries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, entry := range walked.Entries {
		entry := entry
		g.Go(func() error {
			changed, chunkCount, err := indexOne(gctx, s, registry, entry)

			mu.Lock()
			defer mu.Unlock()
			seen[entry.RelPath] = struct{}{}
			if err != nil {
				result.FileErrors = append(result.FileErrors, FileError{Path: entry.RelPath, Err: err})
				return nil
			}
			if changed {
				result.Indexed++
				result.Chunks += chunkCount
			} else {
				result.Unchanged++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("indexer: %w", err)
	}

	removed, err := reconcileDeletions(ctx, s, seen)
	if err != nil {
		return nil, fmt.Errorf("indexer: reconcile deletions: %w", err)
	}
	result.Removed = removed

	result.Duration = time.Since(start)
	return result, nil
}

// indexOne hashes one file and, if its fingerprint changed, re-chunks
// it and replaces its stored chunks in a single pass. It returns
// whether the file's chunks were (re)written and how many chunks were
// produced.
func indexOne(ctx context.Context, s *store.Store, registry *chunk.LanguageRegistry, entry walker.Entry) (bool, int, error) {
	content, err := os.ReadFile(entry.AbsPath)
	if err != nil {
		return false, 0, fmt.Errorf("read: %w", err)
	}

	fingerprint := hashutil.Fingerprint(content)

	existing, err := s.GetFile(ctx, entry.RelPath)
	if err != nil {
		return false, 0, fmt.Errorf("lookup: %w", err)
	}
	if existing != nil && existing.Fingerprint == fingerprint {
		return false, 0, nil
	}

	chunker := chunk.NewStructuralChunkerWithRegistry(registry)
	defer chunker.Close()
	chunks, err := chunker.Chunk(ctx, &chunk.FileInput{
		Path:     entry.RelPath,
		Content:  content,
		Language: entry.Language,
	})
	if err != nil {
		return false, 0, fmt.Errorf("chunk: %w", err)
	}

	info, err := os.Stat(entry.AbsPath)
	if err != nil {
		return false, 0, fmt.Errorf("stat: %w", err)
	}

	fileID, err := s.UpsertFile(ctx, entry.RelPath, fingerprint, info.Size(), entry.Language)
	if err != nil {
		return false, 0, fmt.Errorf("upsert file: %w", err)
	}
	if err := s.DeleteChunksForFile(ctx, fileID); err != nil {
		return false, 0, fmt.Errorf("delete old chunks: %w", err)
	}
	if err := s.InsertChunks(ctx, fileID, entry.Language, chunks); err != nil {
		return false, 0, fmt.Errorf("insert chunks: %w", err)
	}

	return true, len(chunks), nil
}

// reconcileDeletions removes every tracked file whose relative path
// wasn't seen on this walk.
func reconcileDeletions(ctx context.Context, s *store.Store, seen map[string]struct{}) (int, error) {
	tracked, err := s.AllFiles(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, f := range tracked {
		if _, ok := seen[f.Path]; ok {
			continue
		}
		if err := s.RemoveFile(ctx, f.Path); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
