package logger

import (
	"fmt"
	"os"

	"github.com/fatih/color" // Colored console output for the log channels
)

// Colorized printing functions for the different log levels. These are
// package-level variables holding functions that behave like fmt.Printf,
// but with text colored appropriately for the log level. When a log file
// is configured via Init, every channel additionally appends its output
// (uncolored) to that file, so the full provisioning transcript survives
// the terminal session.

// Info logs informational messages in green color.
// Green is typically used for success or normal info to catch user attention pleasantly.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warning messages in bright magenta color.
// Magenta stands out, signaling caution without being too alarming.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red color.
// Red draws immediate attention to critical problems.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// It is assigned dynamically during Init based on the debug flag.
var Debug func(format string, a ...any) = func(format string, a ...any) {}

// logFile is the open append-only transcript file, nil when logging to the
// terminal only.
var logFile *os.File

// tee wraps a colored printf function so the same text is also appended,
// without color escapes, to the transcript file.
func tee(colored func(format string, a ...any)) func(format string, a ...any) {
	return func(format string, a ...any) {
		colored(format, a...)
		if logFile != nil {
			fmt.Fprintf(logFile, format, a...)
		}
	}
}

// Init initializes the logger package.
// Parameters:
//   - enableDebug: turns the Debug channel on (cyan output) or off (no-op).
//   - logPath: when non-empty, all channels are mirrored to this append-only
//     file. Failure to open the file is reported once and logging continues
//     on the terminal alone; a broken transcript never blocks provisioning.
func Init(enableDebug bool, logPath string) {
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			Warn("[WARN] Cannot open log file %s: %v. Logging to stdout only.\n", logPath, err)
		} else {
			logFile = f
		}
	}

	Info = tee(color.New(color.FgGreen).PrintfFunc())
	Warn = tee(color.New(color.FgHiMagenta).PrintfFunc())
	Error = tee(color.New(color.FgRed).PrintfFunc())

	if enableDebug {
		Debug = tee(color.New(color.FgCyan).PrintfFunc())
	} else {
		// No-op so disabled debug logs cost nothing at call sites.
		Debug = func(format string, a ...any) {}
	}
}
