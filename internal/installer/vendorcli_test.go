package installer

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev-bootstrap/internal/config"
)

func TestVendorCLISettingsPayload(t *testing.T) {
	v := &VendorCLI{CLI: config.CLIConfig{
		Region:    "eu-west-1",
		RegionKey: "ACME_REGION",
		Token:     "tok-123",
		TokenKey:  "ACME_TOKEN",
		Env:       map[string]string{"ACME_TELEMETRY": "0"},
	}}

	assert.Equal(t, map[string]string{
		"ACME_REGION":    "eu-west-1",
		"ACME_TOKEN":     "tok-123",
		"ACME_TELEMETRY": "0",
	}, v.settingsPayload())
}

func TestVendorCLISettingsPayloadSkipsEmptyCredentials(t *testing.T) {
	v := &VendorCLI{CLI: config.CLIConfig{RegionKey: "ACME_REGION", TokenKey: "ACME_TOKEN"}}
	assert.Empty(t, v.settingsPayload())
}

func TestVendorCLIConfigure(t *testing.T) {
	dir := t.TempDir()
	settingsFile := filepath.Join(dir, "settings.json")
	profile := filepath.Join(dir, ".bashrc")

	run := &fakeRunner{
		onPath:   map[string]string{"acme": "/home/u/.local/bin/acme"},
		failures: map[string]error{"acme doctor": errors.New("exit 1")},
	}
	v := &VendorCLI{
		CLI: config.CLIConfig{
			Command:      "acme",
			DoctorArgs:   []string{"doctor"},
			SettingsFile: settingsFile,
			Region:       "eu-west-1",
			RegionKey:    "ACME_REGION",
		},
		Profiles: []string{profile},
		Run:      run,
	}

	// A failing self-check must not fail the step.
	require.NoError(t, v.Configure())

	raw, err := os.ReadFile(settingsFile)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, map[string]any{"ACME_REGION": "eu-west-1"}, doc["env"])

	rc, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Contains(t, string(rc), `export PATH="$HOME/.local/bin:$PATH"`)

	assert.True(t, run.called("acme doctor"))
}

func TestVendorCLIForceLatestRunsUpdate(t *testing.T) {
	run := &fakeRunner{onPath: map[string]string{"acme": "/usr/bin/acme"}}
	v := &VendorCLI{
		CLI:      config.CLIConfig{Command: "acme", UpdateArgs: []string{"update"}, ForceLatest: true},
		Profiles: []string{filepath.Join(t.TempDir(), ".bashrc")},
		Run:      run,
	}

	require.NoError(t, v.Configure())
	assert.True(t, run.called("acme update"))

	// Without the flag the update never runs.
	run2 := &fakeRunner{onPath: map[string]string{"acme": "/usr/bin/acme"}}
	v2 := &VendorCLI{
		CLI:      config.CLIConfig{Command: "acme", UpdateArgs: []string{"update"}},
		Profiles: []string{filepath.Join(t.TempDir(), ".bashrc")},
		Run:      run2,
	}
	require.NoError(t, v2.Configure())
	assert.False(t, run2.called("acme update"))
}

func TestVendorCLIInstallRejectsUnknownSource(t *testing.T) {
	v := &VendorCLI{CLI: config.CLIConfig{Command: "acme", Source: "carrier-pigeon"}, Run: &fakeRunner{}}
	assert.Error(t, v.Install())
}
