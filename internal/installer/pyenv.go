package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"dev-bootstrap/internal/config"
	"dev-bootstrap/internal/logger"
	"dev-bootstrap/internal/shellrc"
)

// pyenvInstallerURL is the upstream installer script for pyenv.
const pyenvInstallerURL = "https://pyenv.run"

// Pyenv manages the Python version manager and the pinned interpreter it
// provides. Install fetches the upstream installer script once; Configure
// runs every time and keeps the profile activation lines, the interpreter
// install and the global selection in their desired state — all three are
// idempotent (`pyenv install -s` skips an existing version).
type Pyenv struct {
	Python   config.PythonConfig
	Profiles []string
	Run      Runner
}

func (p Pyenv) Name() string   { return "pyenv" }
func (p Pyenv) Pinned() string { return p.Python.Version }

// IsPresent checks the pyenv binary itself. Interpreter presence is handled
// in Configure, not here: a machine can have pyenv but lack the pinned
// version.
func (p Pyenv) IsPresent() bool {
	if _, err := os.Stat(p.bin()); err == nil {
		return true
	}
	_, err := p.Run.LookPath("pyenv")
	return err == nil
}

// Install downloads the pyenv installer script and executes it. The script
// is not reentrant (it refuses to run over an existing checkout), which is
// exactly why presence is checked first.
func (p Pyenv) Install() error {
	tmp := filepath.Join(os.TempDir(), "pyenv-installer.sh")
	if err := downloadFile(pyenvInstallerURL, tmp); err != nil {
		return err
	}
	defer os.Remove(tmp)

	if out, err := p.Run.Run("bash", tmp); err != nil {
		return fmt.Errorf("pyenv installer failed: %v\nOutput: %s", err, out)
	}
	return nil
}

// Configure appends the activation lines to both shell profiles, installs
// the pinned interpreter if missing, and selects it globally.
func (p Pyenv) Configure() error {
	shellrc.EnsureLines(p.Profiles, []string{
		fmt.Sprintf(`export PYENV_ROOT="%s"`, p.rootForProfile()),
		`export PATH="$PYENV_ROOT/bin:$PATH"`,
		`eval "$(pyenv init -)"`,
	})

	if out, err := p.Run.Run(p.bin(), "install", "-s", p.Python.Version); err != nil {
		return fmt.Errorf("pyenv install %s failed: %v\nOutput: %s", p.Python.Version, err, out)
	}
	if out, err := p.Run.Run(p.bin(), "global", p.Python.Version); err != nil {
		return fmt.Errorf("pyenv global %s failed: %v\nOutput: %s", p.Python.Version, err, out)
	}
	logger.Info("[INFO] Python %s selected via pyenv\n", p.Python.Version)
	return nil
}

func (p Pyenv) VersionString() string {
	out, err := p.Run.Run(p.bin(), "--version")
	if err != nil {
		return ""
	}
	return firstLine(out)
}

// InterpreterPath is where the pinned interpreter binary lives once pyenv has
// installed it. The per-project configurator binds virtualenvs to this path.
func (p Pyenv) InterpreterPath() string {
	return filepath.Join(p.Python.PyenvRoot, "versions", p.Python.Version, "bin", "python")
}

// bin prefers the checkout's own binary over PATH, since freshly installed
// pyenv is not on PATH until the next shell.
func (p Pyenv) bin() string {
	b := filepath.Join(p.Python.PyenvRoot, "bin", "pyenv")
	if _, err := os.Stat(b); err == nil {
		return b
	}
	return "pyenv"
}

// rootForProfile writes $HOME-relative roots symbolically so the profile
// line stays portable across home directory moves.
func (p Pyenv) rootForProfile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return p.Python.PyenvRoot
	}
	if rel, err := filepath.Rel(home, p.Python.PyenvRoot); err == nil && filepath.IsLocal(rel) {
		return "$HOME/" + filepath.ToSlash(rel)
	}
	return p.Python.PyenvRoot
}
