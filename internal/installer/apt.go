package installer

import (
	"fmt"

	"dev-bootstrap/internal/logger"
)

// AptPackages installs the fixed list of system libraries in one apt-get
// invocation. This is the only critical step of the sequence: the compilers
// and headers it provides are what every later language-package build links
// against, so there is no point continuing without them.
type AptPackages struct {
	Packages []string
	Run      Runner
}

func (a AptPackages) Name() string   { return "system-packages" }
func (a AptPackages) Pinned() string { return "" }

// IsPresent reports whether every package in the list is already installed
// according to dpkg. One missing package means the whole step runs; apt
// itself is a no-op for the ones already there.
func (a AptPackages) IsPresent() bool {
	for _, pkg := range a.Packages {
		if _, err := a.Run.Run("dpkg", "-s", pkg); err != nil {
			logger.Debug("[DEBUG] Package %s not installed yet\n", pkg)
			return false
		}
	}
	return len(a.Packages) > 0
}

// Install refreshes the package index and installs the full list in a single
// apt-get call.
func (a AptPackages) Install() error {
	if out, err := a.Run.Run("sudo", "apt-get", "update"); err != nil {
		return fmt.Errorf("apt-get update failed: %v\nOutput: %s", err, out)
	}

	args := append([]string{"apt-get", "install", "-y"}, a.Packages...)
	if out, err := a.Run.Run("sudo", args...); err != nil {
		return fmt.Errorf("apt-get install failed: %v\nOutput: %s", err, out)
	}
	return nil
}

// VersionString reports the package set only when dpkg confirms all of it is
// installed; otherwise the report shows the step as not installed.
func (a AptPackages) VersionString() string {
	if !a.IsPresent() {
		return ""
	}
	return fmt.Sprintf("%d packages via apt", len(a.Packages))
}
