package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearOverrides blanks every environment override for the duration of a
// test so host settings cannot leak in.
func clearOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PYENV_ROOT", "PYTHON_VERSION", "POETRY_VERSION", "CLI_REGION", "CLI_TOKEN", "CLI_FORCE_LATEST"} {
		t.Setenv(key, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearOverrides(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	def := Defaults()
	assert.Equal(t, def.Packages, cfg.Packages)
	assert.Equal(t, def.Python.Version, cfg.Python.Version)
	assert.Equal(t, def.CLI.Command, cfg.CLI.Command)
	assert.Len(t, cfg.Profiles, 2)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearOverrides(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("python:\n  version: \"3.12.1\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "3.12.1", cfg.Python.Version, "file value wins")
	assert.Equal(t, Defaults().Python.PoetryVersion, cfg.Python.PoetryVersion, "untouched fields keep defaults")
	assert.Equal(t, Defaults().Packages, cfg.Packages)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("packages: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearOverrides(t)
	t.Setenv("PYTHON_VERSION", "3.10.14")
	t.Setenv("POETRY_VERSION", "1.7.1")
	t.Setenv("CLI_REGION", "eu-west-1")
	t.Setenv("CLI_TOKEN", "tok-123")
	t.Setenv("CLI_FORCE_LATEST", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "3.10.14", cfg.Python.Version)
	assert.Equal(t, "1.7.1", cfg.Python.PoetryVersion)
	assert.Equal(t, "eu-west-1", cfg.CLI.Region)
	assert.Equal(t, "tok-123", cfg.CLI.Token)
	assert.True(t, cfg.CLI.ForceLatest)
}

func TestForceLatestParsing(t *testing.T) {
	for value, want := range map[string]bool{"1": true, "true": true, "TRUE": true, "0": false, "no": false} {
		clearOverrides(t)
		t.Setenv("CLI_FORCE_LATEST", value)

		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, want, cfg.CLI.ForceLatest, "value %q", value)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".pyenv"), ExpandHome("~/.pyenv"))
	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, "/opt/pyenv", ExpandHome("/opt/pyenv"))
	assert.Equal(t, "relative/path", ExpandHome("relative/path"))
}

func TestLoadExpandsPaths(t *testing.T) {
	clearOverrides(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"profiles: [\"~/.bashrc\"]\npython:\n  projects: [\"~/work/api\"]\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(home, ".bashrc")}, cfg.Profiles)
	assert.Equal(t, []string{filepath.Join(home, "work", "api")}, cfg.Python.Projects)
	assert.Equal(t, filepath.Join(home, ".pyenv"), cfg.Python.PyenvRoot)
}
