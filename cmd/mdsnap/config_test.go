package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.True(cfg.UseGitignore())
	assert.Nil(cfg.Output)

	content := `
exclude = ["*.log", "vendor/**"]
gitignore = false
token_estimator = "cl100k_base"
output = "context.md"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0644))

	cfg, err = LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal([]string{"*.log", "vendor/**"}, cfg.Exclude)
	assert.False(cfg.UseGitignore())
	assert.Equal("cl100k_base", cfg.TokenEstimator)
	require.NotNil(t, cfg.Output)
	assert.Equal("context.md", *cfg.Output)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("exlude = [\"x\"]\n"), 0644))

	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "unknown keys: exlude")
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("exclude = [\n"), 0644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestParseManifest(t *testing.T) {
	assert := assert.New(t)

	paths, err := ParseManifest(strings.NewReader(`
[[file]]
path = "src/main.go"

[[file]]
path = " docs "
`))
	require.NoError(t, err)
	assert.Equal([]string{"src/main.go", "docs"}, paths)

	_, err = ParseManifest(strings.NewReader("[[file]]\npath = \"\"\n"))
	assert.ErrorContains(err, "has no path")

	_, err = ParseManifest(strings.NewReader("[[file]]\npath = \"a.go#L1-10\"\n"))
	assert.ErrorContains(err, "line ranges")

	_, err = ParseManifest(strings.NewReader("[[file]\n"))
	assert.ErrorContains(err, "failed to parse TOML")
}

func TestLoadManifest(t *testing.T) {
	p := filepath.Join(t.TempDir(), "files.toml")
	require.NoError(t, os.WriteFile(p, []byte("[[file]]\npath = \"a.txt\"\n"), 0644))

	paths, err := LoadManifest(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, paths)

	_, err = LoadManifest(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
