package installer

import (
	"fmt"

	"dev-bootstrap/internal/logger"
	"dev-bootstrap/internal/state"
)

// Tool is the capability interface every managed installation implements.
// The sequence only ever asks these four questions, so a fake Tool is enough
// to test the whole guard/install/record flow.
type Tool interface {
	// Name is the stable identifier used in logs and the state file.
	Name() string
	// Pinned is the desired version, or "" when the tool is unpinned.
	Pinned() string
	// IsPresent reports whether the tool is already installed, matching the
	// pinned version when there is one.
	IsPresent() bool
	// Install performs the external installation procedure.
	Install() error
	// VersionString returns the installed version for reporting, or "" when
	// the tool cannot be queried.
	VersionString() string
}

// Configurer is implemented by tools that carry idempotent configuration to
// apply on every run — profile PATH lines, interpreter selection, settings
// merges — regardless of whether an install happened.
type Configurer interface {
	Configure() error
}

// Pather is implemented by tools that know where their executable landed,
// so the state file can record the install path.
type Pather interface {
	InstallPath() string
}

// Step pairs a Tool with its failure policy. Critical steps abort the whole
// sequence when they fail; everything else logs and moves on, so one broken
// optional install cannot cost the rest of the machine.
type Step struct {
	Tool     Tool
	Critical bool
}

// Sync runs the given steps strictly in order, recording outcomes into st.
// It returns a non-nil error only when a critical step fails; optional
// failures are logged and swallowed per the step policy.
func Sync(steps []Step, st *state.State) error {
	for _, s := range steps {
		if err := ensure(s.Tool, st); err != nil {
			if s.Critical {
				return fmt.Errorf("critical step %s failed: %w", s.Tool.Name(), err)
			}
			logger.Warn("[WARN] Step %s failed: %v. Continuing.\n", s.Tool.Name(), err)
		}
	}
	return nil
}

// ensure applies the guard/install contract for one tool:
//  1. state says the pinned version was already provisioned and the tool is
//     still present → skip with the fast path,
//  2. presence check passes → skip, but refresh the state entry,
//  3. otherwise run the installer and record the result.
//
// Any configuration the tool carries runs after all three branches, since it
// is idempotent by contract.
func ensure(t Tool, st *state.State) error {
	prev, known := st.Tools[t.Name()]

	switch {
	case known && t.Pinned() != "" && prev.Version == t.Pinned() && t.IsPresent():
		logger.Info("[INFO] %s@%s is current. Skipping.\n", t.Name(), t.Pinned())

	case t.IsPresent():
		logger.Info("[INFO] %s already installed. Skipping install.\n", t.Name())
		record(t, st, known && prev.InstalledByBootstrap)

	default:
		target := t.Name()
		if t.Pinned() != "" {
			target = target + "@" + t.Pinned()
		}
		logger.Info("[INFO] Installing %s...\n", target)
		if err := t.Install(); err != nil {
			logger.Error("[ERROR] Failed to install %s: %v\n", target, err)
			return err
		}
		logger.Info("[INFO] Installed %s\n", target)
		record(t, st, true)
	}

	if c, ok := t.(Configurer); ok {
		if err := c.Configure(); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}
	return nil
}

// record updates the state entry for a tool after a successful ensure.
func record(t Tool, st *state.State, installedByUs bool) {
	version := t.Pinned()
	if version == "" {
		version = t.VersionString()
	}
	entry := state.ToolState{Version: version, InstalledByBootstrap: installedByUs}
	if p, ok := t.(Pather); ok {
		entry.InstallPath = p.InstallPath()
	}
	st.Tools[t.Name()] = entry
}
