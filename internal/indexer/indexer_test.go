package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booger-dev/booger/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRun_IndexesNewFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n")
	writeFile(t, filepath.Join(root, "util.go"), "package main\n\nfunc helper() int {\n\treturn 1\n}\n")

	s := newTestStore(t)
	result, err := Run(context.Background(), s, Options{Root: root})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 2, result.Indexed)
	assert.Equal(t, 0, result.Unchanged)
	assert.Greater(t, result.Chunks, 0)
	assert.Empty(t, result.FileErrors)

	chunks, err := s.AllChunks(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, chunks)
}

func TestRun_SecondRunLeavesUnchangedFilesAlone(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n\nfunc main() {}\n")

	s := newTestStore(t)
	ctx := context.Background()

	_, err := Run(ctx, s, Options{Root: root})
	require.NoError(t, err)

	result, err := Run(ctx, s, Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Unchanged)
	assert.Equal(t, 0, result.Indexed)
}

func TestRun_ReindexesChangedFiles(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	writeFile(t, path, "package main\n\nfunc main() {}\n")

	s := newTestStore(t)
	ctx := context.Background()

	_, err := Run(ctx, s, Options{Root: root})
	require.NoError(t, err)

	writeFile(t, path, "package main\n\nfunc main() {}\n\nfunc extra() {}\n")

	result, err := Run(ctx, s, Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Indexed)
	assert.Equal(t, 0, result.Unchanged)

	chunks, err := s.ListSymbols(ctx, "main.go", "")
	require.NoError(t, err)
	var names []string
	for _, c := range chunks {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "extra")
}

func TestRun_RemovesDeletedFiles(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "gone.go")
	writeFile(t, path, "package main\n\nfunc main() {}\n")

	s := newTestStore(t)
	ctx := context.Background()

	_, err := Run(ctx, s, Options{Root: root})
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	result, err := Run(ctx, s, Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Removed)

	f, err := s.GetFile(ctx, "gone.go")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestRun_EmptyRootProducesZeroResult(t *testing.T) {
	root := t.TempDir()
	s := newTestStore(t)

	result, err := Run(context.Background(), s, Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scanned)
	assert.Equal(t, 0, result.Indexed)
}

func TestRun_ConcurrentWorkersProduceSameResultAsSingleWorker(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		writeFile(t, filepath.Join(root, "pkg", "file"+string(rune('a'+i))+".go"),
			"package pkg\n\nfunc f() {}\n")
	}

	s1 := newTestStore(t)
	r1, err := Run(context.Background(), s1, Options{Root: root, Workers: 1})
	require.NoError(t, err)

	s2 := newTestStore(t)
	r2, err := Run(context.Background(), s2, Options{Root: root, Workers: 8})
	require.NoError(t, err)

	assert.Equal(t, r1.Indexed, r2.Indexed)
	assert.Equal(t, r1.Chunks, r2.Chunks)
}
