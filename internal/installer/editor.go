package installer

import (
	"strings"

	"dev-bootstrap/internal/config"
	"dev-bootstrap/internal/logger"
)

// EditorExtensions installs editor extensions through the editor's own CLI.
// The whole tool is best-effort: a machine without the editor is fine, and a
// failed extension install is a warning, never an abort.
type EditorExtensions struct {
	Editor config.EditorConfig
	Run    Runner
}

func (e EditorExtensions) Name() string   { return "editor-extensions" }
func (e EditorExtensions) Pinned() string { return "" }

// IsPresent reports whether every configured extension is already listed by
// the editor. A machine without the editor CLI also counts as present: there
// is nothing to do on it.
func (e EditorExtensions) IsPresent() bool {
	if _, err := e.Run.LookPath(e.Editor.Command); err != nil {
		logger.Info("[INFO] Editor %s not found. Skipping extensions.\n", e.Editor.Command)
		return true
	}
	installed := e.installedSet()
	for _, ext := range e.Editor.Extensions {
		if !installed[strings.ToLower(ext)] {
			return false
		}
	}
	return true
}

func (e EditorExtensions) Install() error {
	installed := e.installedSet()
	for _, ext := range e.Editor.Extensions {
		if installed[strings.ToLower(ext)] {
			logger.Debug("[DEBUG] Extension %s already installed\n", ext)
			continue
		}
		if out, err := e.Run.Run(e.Editor.Command, "--install-extension", ext); err != nil {
			// Best-effort per extension; keep going.
			logger.Warn("[WARN] Failed to install extension %s: %v\nOutput: %s\n", ext, err, out)
		} else {
			logger.Info("[INFO] Installed extension %s\n", ext)
		}
	}
	return nil
}

func (e EditorExtensions) VersionString() string {
	out, err := e.Run.Run(e.Editor.Command, "--version")
	if err != nil {
		return ""
	}
	return firstLine(out)
}

// installedSet returns the lowercase IDs the editor reports as installed.
func (e EditorExtensions) installedSet() map[string]bool {
	set := make(map[string]bool)
	out, err := e.Run.Run(e.Editor.Command, "--list-extensions")
	if err != nil {
		return set
	}
	for _, line := range strings.Split(string(out), "\n") {
		if s := strings.TrimSpace(line); s != "" {
			set[strings.ToLower(s)] = true
		}
	}
	return set
}
