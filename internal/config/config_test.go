package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup location at empty temp directories so the
// developer's own config cannot leak into a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvGit, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AppData", t.TempDir())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, path, err := Load(t.TempDir(), "")
	require.NoError(t, err)

	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
}

// TestLoadRepoFile verifies that a .worktree-agent.yaml in a parent
// directory is found and merged over the defaults.
func TestLoadRepoFile(t *testing.T) {
	isolate(t)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
branch_prefix: agent/
ref_lookup: go-git
command_timeout: 45s
log:
  level: debug
  file: /tmp/agent.log
`)
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))

	cfg, path, err := Load(sub, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, FileName), path)
	assert.Equal(t, "agent/", cfg.BranchPrefix)
	assert.Equal(t, RefLookupGoGit, cfg.RefLookup)
	assert.Equal(t, 45*time.Second, cfg.CommandTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/agent.log", cfg.Log.File)

	// Untouched keys keep their defaults.
	assert.Equal(t, "git", cfg.GitBinary)
	assert.Equal(t, "HEAD", cfg.DefaultBase)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
}

func TestLoadExplicitAndEnvPath(t *testing.T) {
	isolate(t)

	file := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, file, "default_base: develop\n")

	cfg, path, err := Load(t.TempDir(), file)
	require.NoError(t, err)
	assert.Equal(t, file, path)
	assert.Equal(t, "develop", cfg.DefaultBase)

	t.Setenv(EnvConfig, file)
	cfg, path, err = Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, file, path)
	assert.Equal(t, "develop", cfg.DefaultBase)
}

func TestLoadUserConfigDir(t *testing.T) {
	isolate(t)

	base, err := os.UserConfigDir()
	require.NoError(t, err)
	writeFile(t, filepath.Join(base, "worktree-agent", "config.yaml"), "git_binary: /usr/local/bin/git\n")

	cfg, _, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/git", cfg.GitBinary)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvGit, "/opt/git")
	t.Setenv(EnvLogLevel, "info")

	cfg, _, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "/opt/git", cfg.GitBinary)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEmptyFile(t *testing.T) {
	isolate(t)

	file := filepath.Join(t.TempDir(), "empty.yaml")
	writeFile(t, file, "")

	cfg, _, err := Load(t.TempDir(), file)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "git_bin: git\n", "git_bin"},
		{"bad ref lookup", "ref_lookup: libgit2\n", "ref_lookup"},
		{"empty prefix", "branch_prefix: \"\"\n", "branch_prefix"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"negative timeout", "command_timeout: -1s\n", "command_timeout"},
		{"bad duration", "command_timeout: soon\n", "parsing config"},
		{"not yaml", "::: [\n", "parsing config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			file := filepath.Join(t.TempDir(), "c.yaml")
			writeFile(t, file, tt.content)

			_, _, err := Load(t.TempDir(), file)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, _, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
