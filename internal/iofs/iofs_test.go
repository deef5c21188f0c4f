package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()

	// second call must be a no-op
	for range 2 {
		err := EnsureDirs(tmpDir)
		require.NoError(t, err)
	}

	dirs := []string{
		filepath.Join(tmpDir, ".config", "gnspecies"),
		filepath.Join(tmpDir, ".cache", "gnspecies"),
		filepath.Join(tmpDir, ".local", "share", "gnspecies", "logs"),
	}
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), dir)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	}
}

func TestTouchDirExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "existing")
	require.NoError(t, os.MkdirAll(dir, 0700))

	err := touchDir(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestEnsureConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))

	err := EnsureConfigFile(tmpDir)
	require.NoError(t, err)

	configPath := filepath.Join(tmpDir, ".config", "gnspecies", "config.yaml")
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(content))

	custom := "store:\n  backend: sqlite\n"
	require.NoError(t, os.WriteFile(configPath, []byte(custom), 0644))

	err = EnsureConfigFile(tmpDir)
	require.NoError(t, err)
	content, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, custom, string(content), "existing file is kept")
}

func TestEnsureConfigFileNoDir(t *testing.T) {
	err := EnsureConfigFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestConfigYAMLIsValid(t *testing.T) {
	var data map[string]any
	err := yaml.Unmarshal([]byte(ConfigYAML), &data)
	require.NoError(t, err)

	for _, key := range []string{
		"store", "database", "providers", "search", "cache", "server", "log",
	} {
		assert.Contains(t, data, key)
	}
}

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	content := "panthera leo\n\n  # comment\n  red fox  \nquercus\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"panthera leo", "red fox", "quercus"}, lines)

	_, err = ReadLines(filepath.Join(t.TempDir(), "none.txt"))
	assert.Error(t, err)
}
