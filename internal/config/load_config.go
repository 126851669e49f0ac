package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults returns the built-in machine description. Running the tool with no
// config file at all provisions a standard workstation; a config file only
// needs to state what differs from this.
func Defaults() Config {
	return Config{
		LogFile:   "dev-bootstrap.log",
		StateFile: "state.json",
		Profiles:  []string{"~/.bashrc", "~/.zshrc"},
		Packages: []string{
			"build-essential",
			"libcurl4-openssl-dev",
			"libssl-dev",
			"libxml2-dev",
			"libfontconfig1-dev",
			"libharfbuzz-dev",
			"libfribidi-dev",
			"libfreetype6-dev",
			"libpng-dev",
			"libtiff5-dev",
			"libjpeg-dev",
		},
		R: RConfig{
			Packages: []string{"tidyverse", "data.table", "arrow", "languageserver"},
			Repo:     "https://cloud.r-project.org",
			Ncpus:    4,
		},
		Editor: EditorConfig{
			Command:    "code",
			Extensions: []string{"REditorSupport.r"},
		},
		Python: PythonConfig{
			PyenvRoot:     "~/.pyenv",
			Version:       "3.11.9",
			PoetryVersion: "1.8.3",
		},
		Node: NodeConfig{
			Version: "20.18.1",
			Globals: []string{"yarn"},
		},
		CLI: CLIConfig{
			Command:      "acme",
			Source:       "script",
			InstallURL:   "https://get.acme.dev/install.sh",
			UpdateArgs:   []string{"update"},
			DoctorArgs:   []string{"doctor"},
			SettingsFile: "~/.acme/settings.json",
			RegionKey:    "ACME_REGION",
			TokenKey:     "ACME_TOKEN",
		},
	}
}

// Load reads the YAML config file at path and returns the resulting Config.
// The file is applied on top of Defaults, so partial files are fine. A
// missing file is not an error: the defaults are used as-is, matching the
// zero-setup behavior of running the tool on a fresh machine. Environment
// overrides (PYENV_ROOT, PYTHON_VERSION, POETRY_VERSION, CLI_REGION,
// CLI_TOKEN, CLI_FORCE_LATEST) are applied last, and all ~-prefixed paths
// are expanded to the user's home directory.
func Load(path string) (Config, error) {
	cfg := Defaults()

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Fresh machine, no config checked out yet. Defaults apply.
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	expandPaths(&cfg)
	return cfg, nil
}

// applyEnvOverrides lets the environment pin versions and credentials without
// touching the config file. These are the only environment variables the
// provisioning sequence consumes; everything downstream works from the
// resolved Config struct.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PYENV_ROOT"); v != "" {
		cfg.Python.PyenvRoot = v
	}
	if v := os.Getenv("PYTHON_VERSION"); v != "" {
		cfg.Python.Version = v
	}
	if v := os.Getenv("POETRY_VERSION"); v != "" {
		cfg.Python.PoetryVersion = v
	}
	if v := os.Getenv("CLI_REGION"); v != "" {
		cfg.CLI.Region = v
	}
	if v := os.Getenv("CLI_TOKEN"); v != "" {
		cfg.CLI.Token = v
	}
	if v := os.Getenv("CLI_FORCE_LATEST"); v != "" {
		cfg.CLI.ForceLatest = v == "1" || strings.EqualFold(v, "true")
	}
}

// expandPaths resolves a leading "~/" in every path-valued field.
func expandPaths(cfg *Config) {
	cfg.Python.PyenvRoot = ExpandHome(cfg.Python.PyenvRoot)
	cfg.CLI.SettingsFile = ExpandHome(cfg.CLI.SettingsFile)
	for i, p := range cfg.Profiles {
		cfg.Profiles[i] = ExpandHome(p)
	}
	for i, p := range cfg.Python.Projects {
		cfg.Python.Projects[i] = ExpandHome(p)
	}
}

// ExpandHome replaces a leading "~" or "~/" with the current user's home
// directory. Paths without the prefix are returned unchanged, as is
// everything when the home directory cannot be determined.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
