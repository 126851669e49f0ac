package installer

import (
	"dev-bootstrap/internal/logger"
)

// Report prints the installed version of every managed tool, one line each.
// Tools that cannot be queried are reported as not installed instead of
// failing the run; the report is informational only.
func Report(tools []Tool) {
	logger.Info("[INFO] Installed tool versions:\n")
	for _, t := range tools {
		if v := t.VersionString(); v != "" {
			logger.Info("[INFO]   %-18s %s\n", t.Name(), v)
		} else {
			logger.Warn("[WARN]   %-18s not installed\n", t.Name())
		}
	}
}
