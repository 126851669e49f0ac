package state

import (
	"encoding/json" // JSON encoding and decoding of the state file
	"os"

	"dev-bootstrap/internal/logger"
)

// ToolState records the result of provisioning one tool: the version that was
// installed (or found already current), where its executable ended up, and
// whether this tool put it there. A matching entry lets later runs skip the
// install with an "already current" message instead of probing from scratch.
type ToolState struct {
	Version              string `json:"version"`                // version string of the installed tool
	InstallPath          string `json:"install_path"`           // absolute path of the tool executable, when known
	InstalledByBootstrap bool   `json:"installed_by_bootstrap"` // true if this tool performed the install
}

// ProjectState records the last successful per-project environment setup.
type ProjectState struct {
	Manifest string `json:"manifest"` // path of the pyproject.toml that was installed
	Python   string `json:"python"`   // interpreter the virtualenv was bound to, "" if unbound
}

// State holds everything the tool remembers between runs, keyed by tool name
// and project directory.
type State struct {
	Tools    map[string]ToolState    `json:"tools"`
	Projects map[string]ProjectState `json:"projects"`
}

// Load reads the saved state from a JSON file at the given path.
// If the file does not exist or cannot be read, it returns a new empty State.
// It ensures the maps are non-nil to prevent nil map writes later.
func Load(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		// Missing file on first run, or unreadable: start from nothing.
		return &State{
			Tools:    make(map[string]ToolState),
			Projects: make(map[string]ProjectState),
		}
	}

	var st State
	_ = json.Unmarshal(file, &st)

	// Defensive: the JSON may contain null for either map.
	if st.Tools == nil {
		st.Tools = make(map[string]ToolState)
	}
	if st.Projects == nil {
		st.Projects = make(map[string]ProjectState)
	}

	return &st
}

// Save writes the given State to a JSON file at the given path, pretty-printed
// for readability. Errors during marshalling or writing are logged but not
// propagated: losing the state file only costs the fast path on the next run.
func Save(path string, st *State) {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	if err := os.WriteFile(path, file, 0644); err != nil {
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}
