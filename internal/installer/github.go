package installer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"dev-bootstrap/internal/logger"
)

// githubRelease is the slice of the GitHub release JSON this tool reads.
type githubRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// installFromGitHub fetches a release of repo (latest when tag is empty),
// picks the archive asset matching this machine, downloads and extracts it,
// and installs the executable(s) into binDir. Returns the installed path.
func installFromGitHub(tool, repo, tag, binDir string, run Runner) (string, error) {
	url := fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", repo)
	if tag != "" {
		url = fmt.Sprintf("https://api.github.com/repos/%s/releases/tags/%s", repo, tag)
	}
	logger.Debug("[DEBUG] Fetching GitHub release from %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("HTTP GET error fetching release for %s: %w", tool, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("GitHub release fetch for %s: HTTP status %d", repo, resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("failed to decode GitHub release JSON for %s: %w", repo, err)
	}
	logger.Debug("[DEBUG] Release %s with %d assets\n", release.TagName, len(release.Assets))

	assetURL, assetName := pickAsset(release)
	if assetURL == "" {
		return "", fmt.Errorf("no asset for linux/%s in release %s of %s", runtime.GOARCH, release.TagName, repo)
	}

	tmp := filepath.Join(os.TempDir(), path.Base(assetURL))
	logger.Info("[INFO] Downloading %s\n", assetName)
	if err := downloadFile(assetURL, tmp); err != nil {
		return "", err
	}
	defer os.Remove(tmp)

	installed, err := ExtractAndInstall(tmp, os.TempDir(), binDir)
	if err != nil {
		return "", fmt.Errorf("failed to install %s from %s: %w", tool, assetName, err)
	}
	return installed, nil
}

// assetPatterns are the substrings that identify a Linux build of the right
// architecture in a release asset name, in preference order.
func assetPatterns() []string {
	switch runtime.GOARCH {
	case "arm64":
		return []string{"linux_arm64", "linux-arm64", "aarch64-unknown-linux", "linux_aarch64"}
	default:
		return []string{"linux_amd64", "linux-amd64", "linux_x86_64", "x86_64-unknown-linux", "linux-x64", "linux64"}
	}
}

// pickAsset scans the release assets for an archive matching this machine.
func pickAsset(release githubRelease) (url, name string) {
	for _, pattern := range assetPatterns() {
		for _, asset := range release.Assets {
			lower := strings.ToLower(asset.Name)
			if !strings.Contains(lower, pattern) {
				continue
			}
			for _, ext := range archiveExts {
				if strings.HasSuffix(lower, ext) {
					return asset.BrowserDownloadURL, asset.Name
				}
			}
		}
	}
	return "", ""
}
