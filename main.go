package main

import (
	"dev-bootstrap/cmd" // CLI commands and execution logic
)

// main is the program entry point. It delegates to cmd.Execute() which
// handles command line argument parsing and execution.
//
// dev-bootstrap provisions a development machine idempotently:
//   - Installs the system library set through apt in one critical shot
//   - Installs the R runtime and the missing subset of its CRAN packages
//   - Installs editor extensions best-effort when the editor CLI is present
//   - Installs pyenv, the pinned Python interpreter, and a pinned Poetry
//   - Sets up an in-project virtualenv for every configured project with a
//     dependency manifest
//   - Installs Node.js from the official distribution plus global npm tools
//   - Installs and configures the vendor CLI: binary, PATH line, settings
//     merge, diagnostic self-check
//
// Every step is guarded by a presence check so re-running is a no-op, shell
// profile files only ever grow by lines they don't already contain, and a
// JSON state file remembers what was provisioned so later runs can report
// "already current" without probing. Only the system package step is fatal
// on failure; everything after it logs and continues, applying as much of
// the machine description as possible in one run.
func main() {
	cmd.Execute()
}
