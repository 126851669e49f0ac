package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"dev-bootstrap/internal/logger"
)

// debug indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// rootCmd is the base command for the `dev-bootstrap` CLI.
var rootCmd = &cobra.Command{
	Use:   "dev-bootstrap",
	Short: "Idempotent development machine provisioning",

	// PersistentPreRun runs before any subcommand. The logger starts in
	// terminal-only mode here; once the config is loaded the provision
	// commands re-initialize it with the transcript file attached.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug, "")
	},
}

// Execute registers flags and commands and runs the CLI. A failed critical
// provisioning step surfaces as a non-zero exit code; everything the
// sequence classifies as optional has already been logged and swallowed by
// the time control returns here.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(provisionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
