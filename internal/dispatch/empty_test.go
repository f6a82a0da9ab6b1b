package dispatch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booger-dev/booger/internal/chunk"
	"github.com/booger-dev/booger/internal/store"
)

func TestDiagnoseEmpty_NoIndex(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := store.Open(ctx, dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	reason, err := DiagnoseEmpty(ctx, s, filepath.Join(dir, "does-not-exist.db"), "")
	require.NoError(t, err)
	assert.Equal(t, ReasonNoIndex, reason)
}

func TestDiagnoseEmpty_NoIndexedFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := store.Open(ctx, dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	reason, err := DiagnoseEmpty(ctx, s, s.Path(), "")
	require.NoError(t, err)
	assert.Equal(t, ReasonNoIndexedFiles, reason)
}

func TestDiagnoseEmpty_PathPrefixEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := store.Open(ctx, dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	fileID, err := s.UpsertFile(ctx, "src/a.go", "fp1", 10, "go")
	require.NoError(t, err)
	require.NoError(t, s.InsertChunks(ctx, fileID, "go", []*chunk.Chunk{
		{Kind: chunk.KindFunction, Name: "f", Content: "func f() {}", StartLine: 1, EndLine: 1},
	}))

	reason, err := DiagnoseEmpty(ctx, s, s.Path(), "other/")
	require.NoError(t, err)
	assert.Equal(t, ReasonPathPrefixEmpty, reason)
}

func TestDiagnoseEmpty_NoMatchesWhenIndexNonEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := store.Open(ctx, dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	fileID, err := s.UpsertFile(ctx, "src/a.go", "fp1", 10, "go")
	require.NoError(t, err)
	require.NoError(t, s.InsertChunks(ctx, fileID, "go", []*chunk.Chunk{
		{Kind: chunk.KindFunction, Name: "f", Content: "func f() {}", StartLine: 1, EndLine: 1},
	}))

	reason, err := DiagnoseEmpty(ctx, s, s.Path(), "")
	require.NoError(t, err)
	assert.Equal(t, ReasonNoMatches, reason)
}

func TestMessage_CanonicalWording(t *testing.T) {
	assert.Equal(t, "No matches.", Message(ReasonNoMatches, "/p", ""))
	assert.Contains(t, Message(ReasonNoIndex, "/p", ""), "No index found. Run:")
	assert.Contains(t, Message(ReasonNoIndexedFiles, "/p", ""), "No indexed files. Run:")
	assert.Contains(t, Message(ReasonPathPrefixEmpty, "/p", ""), "Path prefix has no indexed files. Run:")
	assert.Equal(t, "No matches for symbol 'dispatch'.", Message(ReasonNoSymbolMatches, "/p", "dispatch"))
}
