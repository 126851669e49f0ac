package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dev-bootstrap/internal/shellrc"
)

// poetryInstallerURL is the upstream Poetry installer script.
const poetryInstallerURL = "https://install.python-poetry.org"

// Poetry installs a pinned version of the Poetry dependency manager. The
// presence check matches the version string, so a machine carrying a
// different Poetry gets the pinned one installed over it.
type Poetry struct {
	Version  string
	Profiles []string
	Run      Runner
}

func (p Poetry) Name() string   { return "poetry" }
func (p Poetry) Pinned() string { return p.Version }

// IsPresent requires both a poetry binary on PATH and a version banner whose
// version token equals the pinned version exactly — a pin of "1.8" must not
// accept 1.8.31.
func (p Poetry) IsPresent() bool {
	if _, err := p.Run.LookPath("poetry"); err != nil {
		return false
	}
	if p.Version == "" {
		return true
	}
	return bannerVersion(p.VersionString()) == p.Version
}

// bannerVersion extracts the bare version from a banner like
// "Poetry (version 1.8.3)": the first token starting with a digit, with any
// surrounding parentheses stripped.
func bannerVersion(banner string) string {
	fields := strings.FieldsFunc(banner, func(r rune) bool {
		return r == ' ' || r == '(' || r == ')'
	})
	for _, f := range fields {
		if f != "" && f[0] >= '0' && f[0] <= '9' {
			return f
		}
	}
	return ""
}

// Install runs the upstream installer script with the pinned version. The
// installer itself is idempotent per version, but it is network-fetched and
// so only invoked when the presence check fails.
func (p Poetry) Install() error {
	tmp := filepath.Join(os.TempDir(), "install-poetry.py")
	if err := downloadFile(poetryInstallerURL, tmp); err != nil {
		return err
	}
	defer os.Remove(tmp)

	args := []string{tmp}
	if p.Version != "" {
		args = append(args, "--version", p.Version)
	}
	if out, err := p.Run.Run("python3", args...); err != nil {
		return fmt.Errorf("poetry installer failed: %v\nOutput: %s", err, out)
	}
	return nil
}

// Configure keeps ~/.local/bin on PATH in both profiles; that is where the
// installer script places the poetry shim.
func (p Poetry) Configure() error {
	shellrc.EnsureLines(p.Profiles, []string{`export PATH="$HOME/.local/bin:$PATH"`})
	return nil
}

func (p Poetry) VersionString() string {
	out, err := p.Run.Run("poetry", "--version")
	if err != nil {
		return ""
	}
	return firstLine(out)
}
