package installer

import (
	"os/exec"
	"strings"

	"dev-bootstrap/internal/logger"
)

// Runner is the single seam between the provisioning logic and the external
// tools it drives. Every shell-out — apt, Rscript, pyenv, poetry, npm, the
// vendor CLI — goes through a Runner, so the sequence logic stays
// tool-agnostic and tests can substitute a fake that never touches the
// machine.
type Runner interface {
	// Run executes the command and returns its combined stdout+stderr.
	Run(name string, args ...string) ([]byte, error)
	// RunIn is Run with a working directory, for per-project commands.
	RunIn(dir string, name string, args ...string) ([]byte, error)
	// LookPath reports where the named command resolves on PATH.
	LookPath(name string) (string, error)
}

// Exec is the real Runner backed by os/exec.
type Exec struct{}

func (Exec) Run(name string, args ...string) ([]byte, error) {
	return Exec{}.RunIn("", name, args...)
}

func (Exec) RunIn(dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	return cmd.CombinedOutput()
}

func (Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// firstLine trims a command's combined output down to its first non-empty
// line, which is what version banners are reported as.
func firstLine(out []byte) string {
	for _, line := range strings.Split(string(out), "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}
