// Package diff implements the structural differ: given two revisions
// of the same file, chunk both sides and classify every chunk as
// added, removed, or modified. The differ is pure — it never invokes
// a version-control system; internal/diffvcs supplies the old/new
// bytes.
package diff

import (
	"context"
	"fmt"

	"github.com/booger-dev/booger/internal/chunk"
)

// Key identifies a chunk across two revisions: the structural chunker
// preserves duplicate symbol names within a file by occurrence index,
// and the differ reuses that same key so renamed occurrences of the
// same name don't get silently conflated.
type Key struct {
	Kind       chunk.Kind
	Name       string
	Occurrence int
}

func keyOf(c *chunk.Chunk) Key {
	return Key{Kind: c.Kind, Name: c.Name, Occurrence: c.Occurrence}
}

// Modified pairs the old and new chunk for a key present on both
// sides with different content.
type Modified struct {
	Old *chunk.Chunk
	New *chunk.Chunk
}

// Result is the three-way classification of one file's chunks between
// two revisions.
type Result struct {
	Added    []*chunk.Chunk
	Removed  []*chunk.Chunk
	Modified []Modified
}

// File chunks oldBytes and newBytes with registry under language and
// classifies every chunk key as added (new only), removed (old only),
// or modified (both, differing content).
func File(ctx context.Context, registry *chunk.LanguageRegistry, path string, oldBytes, newBytes []byte, language string) (*Result, error) {
	chunker := chunk.NewStructuralChunkerWithRegistry(registry)
	defer chunker.Close()

	oldChunks, err := chunker.Chunk(ctx, &chunk.FileInput{Path: path, Content: oldBytes, Language: language})
	if err != nil {
		return nil, fmt.Errorf("diff: chunk old revision: %w", err)
	}
	newChunks, err := chunker.Chunk(ctx, &chunk.FileInput{Path: path, Content: newBytes, Language: language})
	if err != nil {
		return nil, fmt.Errorf("diff: chunk new revision: %w", err)
	}

	oldByKey := make(map[Key]*chunk.Chunk, len(oldChunks))
	for _, c := range oldChunks {
		oldByKey[keyOf(c)] = c
	}
	newByKey := make(map[Key]*chunk.Chunk, len(newChunks))
	for _, c := range newChunks {
		newByKey[keyOf(c)] = c
	}

	result := &Result{}
	for key, newChunk := range newByKey {
		oldChunk, ok := oldByKey[key]
		if !ok {
			result.Added = append(result.Added, newChunk)
			continue
		}
		if oldChunk.Content != newChunk.Content {
			result.Modified = append(result.Modified, Modified{Old: oldChunk, New: newChunk})
		}
	}
	for key, oldChunk := range oldByKey {
		if _, ok := newByKey[key]; !ok {
			result.Removed = append(result.Removed, oldChunk)
		}
	}

	return result, nil
}
