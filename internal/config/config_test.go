package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "clang-format", cfg.Binary)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 30*time.Second, cfg.InvokeTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
binary: clang-format-13
workers: 8
invoke_timeout: 2m
exclude:
  - ColumnLimit
  - UseTab
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "clang-format-13", cfg.Binary)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 10, cfg.BatchSize, "unset fields keep their defaults")
	assert.Equal(t, 2*time.Minute, cfg.InvokeTimeout)
	assert.Equal(t, []string{"ColumnLimit", "UseTab"}, cfg.Exclude)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "invoke_timeout: soon\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "invoke_timeout")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "workers: -1\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "workers")
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "workers: [\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadDefaultMissingFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("STYLETUNE_BINARY", "/opt/llvm/bin/clang-format")
	t.Setenv("STYLETUNE_WORKERS", "3")
	t.Setenv("STYLETUNE_TIMEOUT", "45s")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "/opt/llvm/bin/clang-format", cfg.Binary)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 45*time.Second, cfg.InvokeTimeout)
	assert.Equal(t, 10, cfg.BatchSize)
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	t.Setenv("STYLETUNE_WORKERS", "many")
	cfg := Default()
	assert.ErrorContains(t, cfg.ApplyEnv(), "STYLETUNE_WORKERS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty binary", func(c *Config) { c.Binary = "" }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"negative batch size", func(c *Config) { c.BatchSize = -1 }},
		{"zero timeout", func(c *Config) { c.InvokeTimeout = 0 }},
		{"negative launch rate", func(c *Config) { c.LaunchRate = -0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
