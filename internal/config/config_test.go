package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 0.65, cfg.Search.BM25Weight)
	assert.Equal(t, 0.35, cfg.Search.SemanticWeight)
	assert.Equal(t, 3, cfg.Search.ResultMultiplier)
	assert.Equal(t, 20, cfg.Search.MaxResults)

	assert.Equal(t, "", cfg.Embeddings.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embeddings.Model)
	assert.Equal(t, 32, cfg.Embeddings.BatchSize)
	assert.Equal(t, 30*time.Second, cfg.Embeddings.Timeout)
	assert.Equal(t, 0, cfg.Embeddings.Dimensions)

	assert.Equal(t, runtime.NumCPU(), cfg.Performance.IndexWorkers)
	assert.Equal(t, int64(5*1024*1024), cfg.Performance.MaxFileSize)
	assert.Equal(t, 64, cfg.Performance.SQLiteCacheMB)

	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, "info", cfg.Server.LogLevel)

	assert.Contains(t, cfg.Paths.Exclude, "**/node_modules/**")
	assert.Contains(t, cfg.Paths.Exclude, "**/.git/**")
}

func TestConfig_Validate_RejectsWeightsNotSummingToOne(t *testing.T) {
	cfg := NewConfig()
	cfg.Search.BM25Weight = 0.9
	cfg.Search.SemanticWeight = 0.5
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must equal 1.0")
}

func TestConfig_Validate_RejectsOutOfRangeWeight(t *testing.T) {
	cfg := NewConfig()
	cfg.Search.BM25Weight = 1.5
	cfg.Search.SemanticWeight = -0.5
	err := cfg.Validate()
	require.Error(t, err)
}

func TestConfig_Validate_RejectsUnknownEmbeddingsProvider(t *testing.T) {
	cfg := NewConfig()
	cfg.Embeddings.Provider = "yzma"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embeddings.provider")
}

func TestConfig_Validate_RejectsUnknownTransport(t *testing.T) {
	cfg := NewConfig()
	cfg.Server.Transport = "sse"
	err := cfg.Validate()
	require.Error(t, err)
}

func TestConfig_Validate_RejectsUnknownLogLevel(t *testing.T) {
	cfg := NewConfig()
	cfg.Server.LogLevel = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
}

func TestConfig_Validate_AcceptsDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoad_AppliesProjectConfigOverDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".booger"), 0755))
	yaml := "search:\n  max_results: 50\nserver:\n  log_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".booger", "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Search.MaxResults)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
}

func TestLoad_AppliesEnvOverridesOverProjectConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".booger"), 0755))
	yaml := "search:\n  max_results: 50\nserver:\n  log_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".booger", "config.yaml"), []byte(yaml), 0644))
	t.Setenv("BOOGER_LOG_LEVEL", "error")
	t.Setenv("BOOGER_MAX_RESULTS", "7")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Server.LogLevel)
	assert.Equal(t, 7, cfg.Search.MaxResults)
}

func TestLoad_NoProjectConfigUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, NewConfig().Search.MaxResults, cfg.Search.MaxResults)
}

func TestWriteYAML_ThenLoadFromFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	cfg := NewConfig()
	cfg.Search.MaxResults = 42

	path := filepath.Join(dir, ".booger", "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.Search.MaxResults)
}

func TestDetectProjectType_Go(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0644))
	assert.Equal(t, ProjectTypeGo, DetectProjectType(dir))
}

func TestDetectProjectType_Unknown(t *testing.T) {
	assert.Equal(t, ProjectTypeUnknown, DetectProjectType(t.TempDir()))
}

func TestProjectType_IsKnown(t *testing.T) {
	assert.True(t, ProjectTypeGo.IsKnown())
	assert.False(t, ProjectTypeUnknown.IsKnown())
}

func TestFindProjectRoot_FindsGitDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	found, err := FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}
