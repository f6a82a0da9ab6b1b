package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRegistryDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestLoadRegistry_MissingFileReturnsEmpty(t *testing.T) {
	withRegistryDir(t)
	projects, err := LoadRegistry()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestAddProject_ThenLoadRegistryListsIt(t *testing.T) {
	withRegistryDir(t)
	root := t.TempDir()

	require.NoError(t, AddProject("demo", root))

	projects, err := LoadRegistry()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "demo", projects[0].Name)

	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, absRoot, projects[0].Path)
}

func TestAddProject_OverwritesExistingName(t *testing.T) {
	withRegistryDir(t)
	first := t.TempDir()
	second := t.TempDir()

	require.NoError(t, AddProject("demo", first))
	require.NoError(t, AddProject("demo", second))

	projects, err := LoadRegistry()
	require.NoError(t, err)
	require.Len(t, projects, 1)

	absSecond, err := filepath.Abs(second)
	require.NoError(t, err)
	assert.Equal(t, absSecond, projects[0].Path)
}

func TestRemoveProject_DropsEntry(t *testing.T) {
	withRegistryDir(t)
	require.NoError(t, AddProject("demo", t.TempDir()))
	require.NoError(t, RemoveProject("demo"))

	projects, err := LoadRegistry()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestRemoveProject_UnknownNameIsNotAnError(t *testing.T) {
	withRegistryDir(t)
	assert.NoError(t, RemoveProject("does-not-exist"))
}

func TestResolveProject_FindsRegisteredPath(t *testing.T) {
	withRegistryDir(t)
	root := t.TempDir()
	require.NoError(t, AddProject("demo", root))

	path, ok, err := ResolveProject("demo")
	require.NoError(t, err)
	require.True(t, ok)

	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, absRoot, path)
}

func TestResolveProject_UnknownNameReportsNotFound(t *testing.T) {
	withRegistryDir(t)
	_, ok, err := ResolveProject("ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}
