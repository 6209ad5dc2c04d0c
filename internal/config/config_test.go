package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Exclude)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.CountTokens)
	assert.Equal(t, "plain", cfg.Format)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `exclude:
  - "target/**"
  - "*.log"
log_level: debug
count_tokens: false
format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"target/**", "*.log"}, cfg.Exclude)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.CountTokens)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.CountTokens)
	assert.Equal(t, "plain", cfg.Format)
}

func TestLoadConfigExplicitFalseBool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("count_tokens: false\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.CountTokens)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exclude: [unclosed\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestFindConfigPathWalksUpward(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".prompt"), 0o755))
	cfgPath := filepath.Join(root, ".prompt", "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: debug\n"), 0o644))

	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok := FindConfigPath(nested)
	require.True(t, ok)
	assert.Equal(t, cfgPath, found)
}

func TestFindConfigPathFromFileStart(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".prompt"), 0o755))
	cfgPath := filepath.Join(root, ".prompt", "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(""), 0o644))

	file := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o644))

	found, ok := FindConfigPath(file)
	require.True(t, ok)
	assert.Equal(t, cfgPath, found)
}

func TestFindConfigPathAbsent(t *testing.T) {
	_, ok := FindConfigPath(t.TempDir())
	assert.False(t, ok)
}

func TestLoadUsesNearestConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".prompt"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".prompt", "config.yaml"), []byte("format: yaml\n"), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)
}

func TestLoadWithoutConfigReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
