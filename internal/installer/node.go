package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"dev-bootstrap/internal/config"
	"dev-bootstrap/internal/logger"
	"dev-bootstrap/internal/shellrc"
)

// Node installs the pinned Node.js release from the official tar.xz
// distribution into the user prefix and wires its bin directory onto PATH.
// Global npm packages ride along best-effort. The whole tool is optional:
// none of the later steps depend on a working Node.
type Node struct {
	Node     config.NodeConfig
	Profiles []string
	Run      Runner

	installedTo string
}

func (n *Node) Name() string   { return "node" }
func (n *Node) Pinned() string { return n.Node.Version }

func (n *Node) IsPresent() bool {
	_, err := n.Run.LookPath("node")
	return err == nil
}

// Install downloads the official distribution archive and unpacks it under
// ~/.local. The tarball is self-contained (node, npm, npx under bin/), so
// installation is extraction plus a PATH line.
func (n *Node) Install() error {
	dist := fmt.Sprintf("node-v%s-linux-%s", n.Node.Version, nodeArch())
	url := fmt.Sprintf("https://nodejs.org/dist/v%s/%s.tar.xz", n.Node.Version, dist)

	tmp := filepath.Join(os.TempDir(), dist+".tar.xz")
	if err := downloadFile(url, tmp); err != nil {
		return err
	}
	defer os.Remove(tmp)

	prefix, err := localPrefix()
	if err != nil {
		return err
	}
	root, err := ExtractArchive(tmp, prefix)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", tmp, err)
	}
	n.installedTo = root

	shellrc.EnsureLines(n.Profiles, []string{
		fmt.Sprintf(`export PATH="$HOME/.local/%s/bin:$PATH"`, dist),
	})
	return nil
}

// Configure installs the configured global npm packages. Failures are logged
// and swallowed: a missing global CLI is an inconvenience, not a broken
// machine.
func (n *Node) Configure() error {
	if len(n.Node.Globals) == 0 {
		return nil
	}
	npm := n.npmBin()
	if npm == "" {
		logger.Warn("[WARN] npm not found. Skipping global packages.\n")
		return nil
	}
	args := append([]string{"install", "-g"}, n.Node.Globals...)
	if out, err := n.Run.Run(npm, args...); err != nil {
		logger.Warn("[WARN] Global npm install failed: %v\nOutput: %s\n", err, out)
	} else {
		logger.Info("[INFO] Installed global npm packages: %v\n", n.Node.Globals)
	}
	return nil
}

func (n *Node) VersionString() string {
	node := "node"
	if n.installedTo != "" {
		node = filepath.Join(n.installedTo, "bin", "node")
	}
	out, err := n.Run.Run(node, "--version")
	if err != nil {
		return ""
	}
	return firstLine(out)
}

func (n *Node) InstallPath() string { return n.installedTo }

// npmBin prefers the freshly unpacked npm over PATH, which only picks it up
// in the next shell.
func (n *Node) npmBin() string {
	if n.installedTo != "" {
		return filepath.Join(n.installedTo, "bin", "npm")
	}
	if p, err := n.Run.LookPath("npm"); err == nil {
		return p
	}
	return ""
}

// nodeArch maps Go's architecture names onto the Node.js dist naming.
func nodeArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x64"
	case "arm64":
		return "arm64"
	default:
		return runtime.GOARCH
	}
}

// localPrefix is ~/.local, created when missing.
func localPrefix() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	prefix := filepath.Join(home, ".local")
	if err := os.MkdirAll(prefix, 0755); err != nil {
		return "", fmt.Errorf("cannot create %s: %w", prefix, err)
	}
	return prefix, nil
}
