// Package project provisions per-project Python environments: for every
// configured project directory carrying a pyproject.toml, Poetry is told to
// keep its virtualenv inside the project and to build it against the pinned
// interpreter, then dependencies are installed non-interactively. Every
// guard skips with a log line instead of erroring, and no project failure
// stops the next project.
package project

import (
	"os"
	"path/filepath"

	"dev-bootstrap/internal/installer"
	"dev-bootstrap/internal/logger"
	"dev-bootstrap/internal/state"
)

// manifestName is the dependency manifest Poetry consumes.
const manifestName = "pyproject.toml"

// Configurator sets up one in-project virtualenv per configured directory.
type Configurator struct {
	// Interpreter is the pinned python binary the virtualenv is bound to.
	// Binding is skipped silently when this file is not executable, leaving
	// Poetry to pick its own interpreter.
	Interpreter string
	Run         installer.Runner
}

// Sync provisions each project directory in order, recording successful
// installs into st. Re-running against an already satisfied manifest is a
// no-op inside Poetry itself, so no extra guard is needed around the install.
func (c Configurator) Sync(projects []string, st *state.State) {
	for _, dir := range projects {
		c.syncOne(dir, st)
	}
}

func (c Configurator) syncOne(dir string, st *state.State) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Info("[INFO] Project directory %s does not exist. Skipping.\n", dir)
		return
	}

	manifest := filepath.Join(dir, manifestName)
	if _, err := os.Stat(manifest); err != nil {
		logger.Info("[INFO] No %s in %s. Skipping.\n", manifestName, dir)
		return
	}

	logger.Info("[INFO] Setting up environment for %s\n", dir)

	// Keep the virtualenv inside the project (.venv/), scoped to this
	// project only via --local.
	if out, err := c.Run.RunIn(dir, "poetry", "config", "virtualenvs.in-project", "true", "--local"); err != nil {
		logger.Error("[ERROR] Failed to configure in-project venv for %s: %v\nOutput: %s\n", dir, err, out)
		return
	}

	bound := ""
	if isExecutable(c.Interpreter) {
		if out, err := c.Run.RunIn(dir, "poetry", "env", "use", c.Interpreter); err != nil {
			logger.Error("[ERROR] Failed to bind %s to %s: %v\nOutput: %s\n", dir, c.Interpreter, err, out)
			return
		}
		bound = c.Interpreter
	} else {
		logger.Debug("[DEBUG] Interpreter %s not executable. Leaving binding to poetry.\n", c.Interpreter)
	}

	if out, err := c.Run.RunIn(dir, "poetry", "install", "--no-interaction", "--no-root"); err != nil {
		// Non-fatal: the next project still gets its chance.
		logger.Error("[ERROR] Dependency install failed for %s: %v\nOutput: %s\n", dir, err, out)
		return
	}

	logger.Info("[INFO] Environment ready for %s\n", dir)
	st.Projects[dir] = state.ProjectState{Manifest: manifest, Python: bound}
}

// isExecutable reports whether path is a regular file with an execute bit.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}
