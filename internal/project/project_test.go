package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev-bootstrap/internal/state"
)

// fakeRunner records poetry invocations per directory and fails the ones
// whose command line starts with a scripted prefix.
type fakeRunner struct {
	failures map[string]error
	calls    []string // "dir: cmdline"
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, error) {
	return f.RunIn("", name, args...)
}

func (f *fakeRunner) RunIn(dir, name string, args ...string) ([]byte, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, dir+": "+cmdline)
	for prefix, err := range f.failures {
		if strings.HasPrefix(cmdline, prefix) {
			return []byte("boom"), err
		}
	}
	return nil, nil
}

func (f *fakeRunner) LookPath(name string) (string, error) { return name, nil }

func newState() *state.State {
	return &state.State{
		Tools:    make(map[string]state.ToolState),
		Projects: make(map[string]state.ProjectState),
	}
}

// writeManifest creates a project directory with a pyproject.toml and
// returns its path.
func writeManifest(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte("[tool.poetry]\n"), 0644))
	return dir
}

// fakeInterpreter creates an executable file standing in for a pyenv python.
func fakeInterpreter(t *testing.T, root string) string {
	t.Helper()
	bin := filepath.Join(root, "python")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755))
	return bin
}

func TestSyncSkipsMissingDirectory(t *testing.T) {
	run := &fakeRunner{}
	st := newState()

	Configurator{Run: run}.Sync([]string{filepath.Join(t.TempDir(), "nope")}, st)

	assert.Empty(t, run.calls, "nothing runs for a missing directory")
	assert.Empty(t, st.Projects)
}

func TestSyncSkipsDirectoryWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	run := &fakeRunner{}
	st := newState()

	Configurator{Run: run}.Sync([]string{dir}, st)

	assert.Empty(t, run.calls)
	assert.Empty(t, st.Projects)
}

func TestSyncProvisionsProjectWithManifest(t *testing.T) {
	root := t.TempDir()
	dir := writeManifest(t, root, "api")
	python := fakeInterpreter(t, root)
	run := &fakeRunner{}
	st := newState()

	Configurator{Interpreter: python, Run: run}.Sync([]string{dir}, st)

	require.Len(t, run.calls, 3)
	assert.Equal(t, dir+": poetry config virtualenvs.in-project true --local", run.calls[0])
	assert.Equal(t, dir+": poetry env use "+python, run.calls[1])
	assert.Equal(t, dir+": poetry install --no-interaction --no-root", run.calls[2])

	entry, ok := st.Projects[dir]
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "pyproject.toml"), entry.Manifest)
	assert.Equal(t, python, entry.Python)
}

func TestSyncSkipsBindingForMissingInterpreter(t *testing.T) {
	root := t.TempDir()
	dir := writeManifest(t, root, "api")
	run := &fakeRunner{}
	st := newState()

	Configurator{Interpreter: filepath.Join(root, "absent-python"), Run: run}.Sync([]string{dir}, st)

	require.Len(t, run.calls, 2, "env use is skipped silently")
	assert.Contains(t, run.calls[0], "virtualenvs.in-project")
	assert.Contains(t, run.calls[1], "poetry install")
	assert.Equal(t, "", st.Projects[dir].Python)
}

func TestSyncInstallFailureDoesNotStopNextProject(t *testing.T) {
	root := t.TempDir()
	first := writeManifest(t, root, "api")
	second := writeManifest(t, root, "pipelines")
	run := &fakeRunner{failures: map[string]error{"poetry install": errors.New("resolver error")}}
	st := newState()

	Configurator{Run: run}.Sync([]string{first, second}, st)

	// Both projects attempted the install despite the first failing.
	assert.Contains(t, run.calls, first+": poetry install --no-interaction --no-root")
	assert.Contains(t, run.calls, second+": poetry install --no-interaction --no-root")
	assert.Empty(t, st.Projects, "failed installs are not recorded")
}

func TestSyncRerunIsStable(t *testing.T) {
	root := t.TempDir()
	dir := writeManifest(t, root, "api")
	run := &fakeRunner{}
	st := newState()

	c := Configurator{Run: run}
	c.Sync([]string{dir}, st)
	c.Sync([]string{dir}, st)

	// Poetry's own idempotence handles repeat installs; the configurator
	// just issues the same commands again.
	assert.Len(t, run.calls, 4)
	assert.Len(t, st.Projects, 1)
}
