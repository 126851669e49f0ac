// Package shellrc patches shell profile files (.bashrc, .zshrc) with the
// export/eval lines the provisioned toolchains need. All writes go through an
// append-if-missing primitive, so the profiles grow once and then stay put no
// matter how many times provisioning runs. Existing content is never
// rewritten, reordered or deduplicated.
package shellrc

import (
	"fmt"
	"os"
	"strings"

	"dev-bootstrap/internal/logger"
)

// AppendLine appends line to the file at path unless an existing line is
// byte-identical to it. A missing file is treated as empty, so the append
// creates it. An unreadable file is also treated as empty: the absence of a
// match is assumed and the append proceeds, erring on the side of a working
// shell over a pristine profile.
func AppendLine(path, line string) error {
	if containsLine(path, line) {
		logger.Debug("[DEBUG] Line already present in %s: %s\n", path, line)
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s for appending: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	logger.Info("[INFO] Added to %s: %s\n", path, line)
	return nil
}

// containsLine reports whether any line of the file at path is byte-identical
// to line. The whole file is read at once: profiles are small, and a
// line-length-limited scan could miss a match past an oversized line and
// break the append-once invariant. Read failures count as "not present".
func containsLine(path, line string) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	for _, l := range strings.Split(string(raw), "\n") {
		if l == line {
			return true
		}
	}
	return false
}

// EnsureLines appends each of the given lines to each profile file. Failures
// are logged and do not stop the remaining appends: one read-only profile
// must not cost the other shell its setup.
func EnsureLines(profiles []string, lines []string) {
	for _, rc := range profiles {
		for _, line := range lines {
			if err := AppendLine(rc, line); err != nil {
				logger.Error("[ERROR] %v\n", err)
			}
		}
	}
}
