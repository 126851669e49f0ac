package cmd

import (
	"github.com/spf13/cobra"

	"dev-bootstrap/internal/config"
	"dev-bootstrap/internal/installer"
	"dev-bootstrap/internal/logger"
	"dev-bootstrap/internal/project"
	"dev-bootstrap/internal/state"
)

// configPath holds the path to the configuration YAML file.
// It's passed via the `--config` or `-c` flag.
var configPath string

// toolset holds every managed tool, constructed once per run so steps and
// the version report see the same instances (Node and the vendor CLI record
// their install paths on the instance).
type toolset struct {
	apt    installer.AptPackages
	r      installer.RRuntime
	rPkgs  installer.RPackages
	editor installer.EditorExtensions
	pyenv  installer.Pyenv
	poetry installer.Poetry
	node   *installer.Node
	cli    *installer.VendorCLI
}

func buildToolset(cfg config.Config) toolset {
	run := installer.Exec{}
	return toolset{
		apt:    installer.AptPackages{Packages: cfg.Packages, Run: run},
		r:      installer.RRuntime{Run: run},
		rPkgs:  installer.RPackages{R: cfg.R, Run: run},
		editor: installer.EditorExtensions{Editor: cfg.Editor, Run: run},
		pyenv:  installer.Pyenv{Python: cfg.Python, Profiles: cfg.Profiles, Run: run},
		poetry: installer.Poetry{Version: cfg.Python.PoetryVersion, Profiles: cfg.Profiles, Run: run},
		node:   &installer.Node{Node: cfg.Node, Profiles: cfg.Profiles, Run: run},
		cli:    &installer.VendorCLI{CLI: cfg.CLI, Profiles: cfg.Profiles, Run: run},
	}
}

func (t toolset) all() []installer.Tool {
	return []installer.Tool{t.apt, t.r, t.rPkgs, t.editor, t.pyenv, t.poetry, t.node, t.cli}
}

// load reads the config and re-initializes the logger with the transcript
// file attached, so every provisioning line lands in the log too.
func load() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	logger.Init(debug, cfg.LogFile)
	return cfg, nil
}

// provisionCmd runs the full fixed sequence: system packages (critical),
// R and its packages, editor extensions, pyenv with the pinned interpreter,
// Poetry, per-project environments, Node.js with its globals, the version
// report, and finally the vendor CLI with its settings merge and self-check.
var provisionCmd = &cobra.Command{
	Use:          "provision",
	Short:        "Provision the machine to match the config",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := load()
		if err != nil {
			return err
		}
		st := state.Load(cfg.StateFile)
		defer state.Save(cfg.StateFile, st)

		t := buildToolset(cfg)

		// Only the system package set is critical; its failure aborts the
		// sequence with a non-zero exit. Every later step logs and continues.
		if err := installer.Sync([]installer.Step{
			{Tool: t.apt, Critical: true},
			{Tool: t.r},
			{Tool: t.rPkgs},
			{Tool: t.editor},
			{Tool: t.pyenv},
			{Tool: t.poetry},
		}, st); err != nil {
			return err
		}

		project.Configurator{
			Interpreter: t.pyenv.InterpreterPath(),
			Run:         installer.Exec{},
		}.Sync(cfg.Python.Projects, st)

		_ = installer.Sync([]installer.Step{{Tool: t.node}}, st)

		installer.Report(t.all())

		// The vendor CLI runs unconditionally as the final step; its
		// self-check never affects the exit code.
		_ = installer.Sync([]installer.Step{{Tool: t.cli}}, st)

		logger.Info("[INFO] Provisioning complete.\n")
		return nil
	},
}

// runSteps is the shared body of the granular subcommands: load config and
// state, sync the selected steps, save state.
func runSteps(pick func(t toolset) []installer.Step) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := load()
		if err != nil {
			return err
		}
		st := state.Load(cfg.StateFile)
		defer state.Save(cfg.StateFile, st)
		return installer.Sync(pick(buildToolset(cfg)), st)
	}
}

var provisionPackagesCmd = &cobra.Command{
	Use:          "packages",
	Short:        "Install only the system package set",
	SilenceUsage: true,
	RunE: runSteps(func(t toolset) []installer.Step {
		return []installer.Step{{Tool: t.apt, Critical: true}}
	}),
}

var provisionRCmd = &cobra.Command{
	Use:          "r",
	Short:        "Install only the R runtime and its packages",
	SilenceUsage: true,
	RunE: runSteps(func(t toolset) []installer.Step {
		return []installer.Step{{Tool: t.r}, {Tool: t.rPkgs}}
	}),
}

var provisionEditorCmd = &cobra.Command{
	Use:          "editor",
	Short:        "Install only the editor extensions",
	SilenceUsage: true,
	RunE: runSteps(func(t toolset) []installer.Step {
		return []installer.Step{{Tool: t.editor}}
	}),
}

var provisionPythonCmd = &cobra.Command{
	Use:          "python",
	Short:        "Install only pyenv, the pinned interpreter and Poetry",
	SilenceUsage: true,
	RunE: runSteps(func(t toolset) []installer.Step {
		return []installer.Step{{Tool: t.pyenv}, {Tool: t.poetry}}
	}),
}

var provisionProjectsCmd = &cobra.Command{
	Use:          "projects",
	Short:        "Set up only the per-project virtual environments",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := load()
		if err != nil {
			return err
		}
		st := state.Load(cfg.StateFile)
		defer state.Save(cfg.StateFile, st)

		t := buildToolset(cfg)
		project.Configurator{
			Interpreter: t.pyenv.InterpreterPath(),
			Run:         installer.Exec{},
		}.Sync(cfg.Python.Projects, st)
		return nil
	},
}

var provisionNodeCmd = &cobra.Command{
	Use:          "node",
	Short:        "Install only Node.js and the global npm packages",
	SilenceUsage: true,
	RunE: runSteps(func(t toolset) []installer.Step {
		return []installer.Step{{Tool: t.node}}
	}),
}

var provisionCLICmd = &cobra.Command{
	Use:          "cli",
	Short:        "Install and configure only the vendor CLI",
	SilenceUsage: true,
	RunE: runSteps(func(t toolset) []installer.Step {
		return []installer.Step{{Tool: t.cli}}
	}),
}

var provisionReportCmd = &cobra.Command{
	Use:          "report",
	Short:        "Print installed tool versions",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := load()
		if err != nil {
			return err
		}
		installer.Report(buildToolset(cfg).all())
		return nil
	},
}

// init sets up flags and wires the granular subcommands under provision.
func init() {
	provisionCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")

	provisionCmd.AddCommand(provisionPackagesCmd)
	provisionCmd.AddCommand(provisionRCmd)
	provisionCmd.AddCommand(provisionEditorCmd)
	provisionCmd.AddCommand(provisionPythonCmd)
	provisionCmd.AddCommand(provisionProjectsCmd)
	provisionCmd.AddCommand(provisionNodeCmd)
	provisionCmd.AddCommand(provisionCLICmd)
	provisionCmd.AddCommand(provisionReportCmd)
}
