package config

// Package config defines the declarative description of a provisioned
// workstation: which system packages, runtimes, projects and CLI tooling the
// machine must end up with. The provisioning sequence consumes this struct
// and never reads the ambient process environment itself; every override is
// resolved here, once, at load time.

// RConfig describes the R runtime and the library set to install into it.
// Packages already present in the site library are skipped by the installer.
type RConfig struct {
	Packages []string `yaml:"packages"` // CRAN package names
	Repo     string   `yaml:"repo"`     // CRAN mirror URL
	Ncpus    int      `yaml:"ncpus"`    // parallel source builds inside install.packages
}

// EditorConfig describes an editor CLI and the extensions to install through
// it. The whole block is best-effort: a missing editor binary is a skip.
type EditorConfig struct {
	Command    string   `yaml:"command"`
	Extensions []string `yaml:"extensions"`
}

// PythonConfig pins the interpreter toolchain: the pyenv checkout location,
// the interpreter version pyenv must install and select, the Poetry version,
// and the project directories that get an in-project virtualenv.
// - PyenvRoot: where pyenv lives (PYENV_ROOT overrides).
// - Version: interpreter to install and select globally (PYTHON_VERSION overrides).
// - PoetryVersion: exact Poetry release (POETRY_VERSION overrides).
// - Projects: directories holding a pyproject.toml to provision.
type PythonConfig struct {
	PyenvRoot     string   `yaml:"pyenv_root"`
	Version       string   `yaml:"version"`
	PoetryVersion string   `yaml:"poetry_version"`
	Projects      []string `yaml:"projects"`
}

// NodeConfig pins the Node.js release (installed from the official tar.xz
// distribution) and the npm packages installed globally afterwards.
type NodeConfig struct {
	Version string   `yaml:"version"`
	Globals []string `yaml:"globals"`
}

// CLIConfig describes the vendor CLI: how to install it, how to keep it
// current, and the settings payload merged into its JSON settings file.
// - Source: "github" (release asset) or "script" (network installer).
// - Repo/Tag: GitHub coordinates when Source is "github".
// - InstallURL: installer script URL when Source is "script".
// - UpdateArgs: subcommand run when the tool is present and ForceLatest is set.
// - DoctorArgs: diagnostic subcommand run after configuration.
// - SettingsFile: JSON settings file the env payload is merged into.
// - RegionKey/TokenKey: env-payload key names for Region and Token.
type CLIConfig struct {
	Command      string            `yaml:"command"`
	Source       string            `yaml:"source"`
	Repo         string            `yaml:"repo"`
	Tag          string            `yaml:"tag"`
	InstallURL   string            `yaml:"install_url"`
	UpdateArgs   []string          `yaml:"update_args"`
	DoctorArgs   []string          `yaml:"doctor_args"`
	SettingsFile string            `yaml:"settings_file"`
	Region       string            `yaml:"region"`
	RegionKey    string            `yaml:"region_key"`
	Token        string            `yaml:"token"`
	TokenKey     string            `yaml:"token_key"`
	Env          map[string]string `yaml:"env"`
	ForceLatest  bool              `yaml:"force_latest"`
}

// Config is the top-level structure produced by Load. Zero-value fields are
// filled from Defaults before the YAML file is applied on top.
type Config struct {
	LogFile   string       `yaml:"log_file"`
	StateFile string       `yaml:"state_file"`
	Profiles  []string     `yaml:"profiles"` // shell rc files patched by the appender
	Packages  []string     `yaml:"packages"` // apt package list, installed in one shot
	R         RConfig      `yaml:"r"`
	Editor    EditorConfig `yaml:"editor"`
	Python    PythonConfig `yaml:"python"`
	Node      NodeConfig   `yaml:"node"`
	CLI       CLIConfig    `yaml:"cli"`
}
