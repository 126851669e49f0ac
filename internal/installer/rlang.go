package installer

import (
	"fmt"
	"strings"

	"dev-bootstrap/internal/config"
	"dev-bootstrap/internal/logger"
)

// RRuntime installs the R interpreter from the distribution packages when
// Rscript is not already on PATH.
type RRuntime struct {
	Run Runner
}

func (r RRuntime) Name() string   { return "r" }
func (r RRuntime) Pinned() string { return "" }

func (r RRuntime) IsPresent() bool {
	_, err := r.Run.LookPath("Rscript")
	return err == nil
}

func (r RRuntime) Install() error {
	if out, err := r.Run.Run("sudo", "apt-get", "install", "-y", "r-base", "r-base-dev"); err != nil {
		return fmt.Errorf("R install failed: %v\nOutput: %s", err, out)
	}
	return nil
}

func (r RRuntime) VersionString() string {
	out, err := r.Run.Run("Rscript", "--version")
	if err != nil {
		return ""
	}
	return firstLine(out)
}

// RPackages installs the configured CRAN packages, restricted to the ones not
// already in the site library. The missing-set computation and the install
// itself both happen inside one Rscript expression, so R's own view of the
// library is authoritative. install.packages may fan out source builds over
// Ncpus workers; that parallelism is R's business, not the sequence's.
type RPackages struct {
	R   config.RConfig
	Run Runner
}

func (p RPackages) Name() string   { return "r-packages" }
func (p RPackages) Pinned() string { return "" }

// IsPresent asks R which of the configured packages are missing; the step is
// present when the answer is none. An error here (no Rscript yet, broken
// library) reads as "not present" so Install gets its chance.
func (p RPackages) IsPresent() bool {
	out, err := p.Run.Run("Rscript", "-e", p.missingExpr("cat(missing)"))
	if err != nil {
		return false
	}
	missing := strings.TrimSpace(string(out))
	if missing != "" {
		logger.Debug("[DEBUG] Missing R packages: %s\n", missing)
	}
	return missing == ""
}

func (p RPackages) Install() error {
	install := fmt.Sprintf("if (length(missing) > 0) install.packages(missing, repos=%q, Ncpus=%d)", p.R.Repo, p.ncpus())
	if out, err := p.Run.Run("Rscript", "-e", p.missingExpr(install)); err != nil {
		return fmt.Errorf("R package install failed: %v\nOutput: %s", err, out)
	}
	return nil
}

func (p RPackages) VersionString() string {
	return fmt.Sprintf("%d CRAN packages", len(p.R.Packages))
}

// missingExpr builds an R expression that computes the missing subset of the
// configured packages into `missing`, then evaluates the given tail.
func (p RPackages) missingExpr(tail string) string {
	quoted := make([]string, len(p.R.Packages))
	for i, pkg := range p.R.Packages {
		quoted[i] = fmt.Sprintf("%q", pkg)
	}
	return fmt.Sprintf("pkgs <- c(%s); missing <- setdiff(pkgs, rownames(installed.packages())); %s",
		strings.Join(quoted, ", "), tail)
}

func (p RPackages) ncpus() int {
	if p.R.Ncpus > 0 {
		return p.R.Ncpus
	}
	return 1
}
