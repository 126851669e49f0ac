package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"dev-bootstrap/internal/config"
	"dev-bootstrap/internal/logger"
	"dev-bootstrap/internal/settings"
	"dev-bootstrap/internal/shellrc"
)

// VendorCLI installs and configures the vendor's CLI tool: the binary itself
// (GitHub release asset or upstream installer script), the PATH line for the
// local bin directory, the settings-file env merge, and the diagnostic
// self-check. Configure always runs — the configuration is what makes an
// already-installed CLI usable, so it must not hide behind the install guard.
type VendorCLI struct {
	CLI      config.CLIConfig
	Profiles []string
	Run      Runner

	installedTo string
}

func (v *VendorCLI) Name() string   { return v.CLI.Command }
func (v *VendorCLI) Pinned() string { return "" }

func (v *VendorCLI) IsPresent() bool {
	_, err := v.Run.LookPath(v.CLI.Command)
	return err == nil
}

// Install puts the CLI binary in place using the configured source.
func (v *VendorCLI) Install() error {
	binDir, err := localBinDir()
	if err != nil {
		return err
	}

	switch v.CLI.Source {
	case "github":
		installed, err := installFromGitHub(v.CLI.Command, v.CLI.Repo, v.CLI.Tag, binDir, v.Run)
		if err != nil {
			return err
		}
		v.installedTo = installed
		return nil

	case "script":
		tmp := filepath.Join(os.TempDir(), v.CLI.Command+"-install.sh")
		if err := downloadFile(v.CLI.InstallURL, tmp); err != nil {
			return err
		}
		defer os.Remove(tmp)
		if out, err := v.Run.Run("sh", tmp); err != nil {
			return fmt.Errorf("%s installer script failed: %v\nOutput: %s", v.CLI.Command, err, out)
		}
		v.installedTo = filepath.Join(binDir, v.CLI.Command)
		return nil

	default:
		return fmt.Errorf("unknown CLI source %q for %s", v.CLI.Source, v.CLI.Command)
	}
}

// Configure runs the always-on portion: optional self-update, PATH line,
// settings merge, and the diagnostic self-check. Only the settings merge can
// fail the step — without the merged credentials the CLI is unusable, while
// a failed update or diagnostic is advisory.
func (v *VendorCLI) Configure() error {
	if v.CLI.ForceLatest && v.IsPresent() && len(v.CLI.UpdateArgs) > 0 {
		if out, err := v.Run.Run(v.CLI.Command, v.CLI.UpdateArgs...); err != nil {
			logger.Warn("[WARN] %s update failed: %v\nOutput: %s\n", v.CLI.Command, err, out)
		} else {
			logger.Info("[INFO] Updated %s to latest\n", v.CLI.Command)
		}
	}

	shellrc.EnsureLines(v.Profiles, []string{`export PATH="$HOME/.local/bin:$PATH"`})

	if v.CLI.SettingsFile != "" {
		payload := v.settingsPayload()
		if len(payload) > 0 {
			if err := settings.MergeEnv(v.CLI.SettingsFile, payload); err != nil {
				return err
			}
			logger.Info("[INFO] Updated %s\n", v.CLI.SettingsFile)
		}
	}

	v.selfCheck()
	return nil
}

// settingsPayload assembles the env pairs merged into the settings file:
// the configured extras plus region and token under their configured keys.
func (v *VendorCLI) settingsPayload() map[string]string {
	payload := make(map[string]string, len(v.CLI.Env)+2)
	for k, val := range v.CLI.Env {
		payload[k] = val
	}
	if v.CLI.Region != "" && v.CLI.RegionKey != "" {
		payload[v.CLI.RegionKey] = v.CLI.Region
	}
	if v.CLI.Token != "" && v.CLI.TokenKey != "" {
		payload[v.CLI.TokenKey] = v.CLI.Token
	}
	return payload
}

// selfCheck runs the CLI's diagnostic subcommand. A non-zero exit prints
// remediation hints and nothing else: the sequence's own exit code never
// reflects the diagnostic's result.
func (v *VendorCLI) selfCheck() {
	if len(v.CLI.DoctorArgs) == 0 {
		return
	}
	out, err := v.Run.Run(v.CLI.Command, v.CLI.DoctorArgs...)
	if err == nil {
		logger.Info("[INFO] %s self-check passed\n", v.CLI.Command)
		return
	}

	logger.Warn("[WARN] %s self-check failed: %v\nOutput: %s\n", v.CLI.Command, err, out)
	logger.Warn("[WARN] Things to try:\n")
	logger.Warn("[WARN]   - open a new shell so the updated PATH takes effect\n")
	logger.Warn("[WARN]   - verify the token and region in %s\n", v.CLI.SettingsFile)
	logger.Warn("[WARN]   - re-run with CLI_FORCE_LATEST=1 to pick up a newer %s\n", v.CLI.Command)
}

func (v *VendorCLI) VersionString() string {
	out, err := v.Run.Run(v.CLI.Command, "--version")
	if err != nil {
		return ""
	}
	return firstLine(out)
}

func (v *VendorCLI) InstallPath() string { return v.installedTo }

// localBinDir is ~/.local/bin, created when missing. Everything this tool
// installs directly lands here, keeping the whole footprint inside the user
// prefix.
func localBinDir() (string, error) {
	prefix, err := localPrefix()
	if err != nil {
		return "", err
	}
	binDir := filepath.Join(prefix, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return "", fmt.Errorf("cannot create %s: %w", binDir, err)
	}
	return binDir, nil
}
