package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip" // .7z release assets
	"github.com/xi2/xz"          // .tar.xz, the Node.js distribution format

	"dev-bootstrap/internal/logger"
)

// archiveExts lists the archive suffixes the extractor understands, longest
// first so ".tar.gz" wins over ".gz"-style suffix checks.
var archiveExts = []string{".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".tar", ".zip", ".7z"}

// ExtractAndInstall extracts the archive at src into a scratch directory,
// locates the executable(s) named after the tool, and copies them into
// binDir. It returns the installed path of the primary binary. binDir is
// created when missing; installs go into the user prefix, never under sudo.
func ExtractAndInstall(src, scratch, binDir string) (string, error) {
	root, err := ExtractArchive(src, scratch)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}

	tool := toolNameFromArchive(src)

	var binaries []string
	if info.IsDir() {
		binaries, err = findExecutables(root, tool)
		if err != nil {
			return "", fmt.Errorf("no %s binary found in %s: %w", tool, root, err)
		}
	} else {
		// Single-file archive: the extracted file is the binary.
		binaries = []string{root}
	}

	if err := os.MkdirAll(binDir, 0755); err != nil {
		return "", fmt.Errorf("cannot create bin directory %s: %w", binDir, err)
	}
	for _, b := range binaries {
		if err := installBinary(b, binDir); err != nil {
			return "", err
		}
	}

	installed := filepath.Join(binDir, filepath.Base(binaries[0]))
	logger.Debug("[DEBUG] Installed %s\n", installed)
	return installed, nil
}

// toolNameFromArchive derives the tool name from an archive filename:
// strip the archive extension, then take everything before the first
// "-" or "_" ("ripgrep-14.1.0-x86_64..." → "ripgrep").
func toolNameFromArchive(path string) string {
	name := filepath.Base(path)
	for _, ext := range archiveExts {
		if strings.HasSuffix(name, ext) {
			name = strings.TrimSuffix(name, ext)
			break
		}
	}
	if i := strings.IndexAny(name, "-_"); i > 0 {
		return name[:i]
	}
	return name
}

// ExtractArchive unpacks the archive at src into dest and returns the path of
// the archive's top-level entry. The format is chosen by filename suffix.
func ExtractArchive(src, dest string) (string, error) {
	switch {
	case strings.HasSuffix(src, ".zip"):
		logger.Debug("[DEBUG] Extracting zip archive %s\n", src)
		return extractZip(src, dest)
	case strings.HasSuffix(src, ".7z"):
		logger.Debug("[DEBUG] Extracting 7z archive %s\n", src)
		return extract7z(src, dest)
	case strings.HasSuffix(src, ".tar"), strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"),
		strings.HasSuffix(src, ".tar.bz2"), strings.HasSuffix(src, ".tar.xz"):
		logger.Debug("[DEBUG] Extracting tar archive %s\n", src)
		return extractTar(src, dest)
	default:
		return "", fmt.Errorf("unsupported archive format: %s", src)
	}
}

// safeJoin joins an archive entry name under dest, rejecting names that would
// escape it (absolute paths, ".." traversal).
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}

// topLevelOf tracks the first path component seen in an archive, which is the
// directory the archive unpacks into.
func topLevelOf(current, entryName string) string {
	if current != "" {
		return current
	}
	entryName = strings.TrimPrefix(entryName, "./")
	if i := strings.IndexByte(entryName, '/'); i > 0 {
		return entryName[:i]
	}
	return entryName
}

// extractTar handles .tar and its gzip, bzip2 and xz compressed variants.
func extractTar(src, dest string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var reader io.Reader = f
	switch {
	case strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return "", err
		}
		defer gr.Close()
		reader = gr
	case strings.HasSuffix(src, ".tar.bz2"):
		reader = bzip2.NewReader(f)
	case strings.HasSuffix(src, ".tar.xz"):
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return "", err
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	var topLevel string

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		topLevel = topLevelOf(topLevel, hdr.Name)

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return "", err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", err
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, os.FileMode(hdr.Mode)); err != nil {
				return "", err
			}
		case tar.TypeSymlink:
			// Node's dist tarballs link npm/npx into bin. Relative links
			// only; anything else is skipped rather than trusted.
			if !filepath.IsAbs(hdr.Linkname) && !strings.Contains(hdr.Linkname, "..") {
				_ = os.MkdirAll(filepath.Dir(target), 0755)
				_ = os.Remove(target)
				if err := os.Symlink(hdr.Linkname, target); err != nil {
					return "", err
				}
			}
		}
	}
	return filepath.Join(dest, topLevel), nil
}

// extractZip unpacks a .zip archive.
func extractZip(src, dest string) (string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return "", err
	}
	defer r.Close()

	var topLevel string
	for _, f := range r.File {
		topLevel = topLevelOf(topLevel, f.Name)

		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return "", err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		err = writeEntry(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dest, topLevel), nil
}

// extract7z unpacks a .7z archive using the sevenzip library.
func extract7z(src, dest string) (string, error) {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return "", fmt.Errorf("failed to open 7z archive: %w", err)
	}
	defer r.Close()

	var topLevel string
	for _, f := range r.File {
		topLevel = topLevelOf(topLevel, f.Name)

		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return "", err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, f.Mode()); err != nil {
				return "", err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		err = writeEntry(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dest, topLevel), nil
}

// writeEntry creates the parent directory and writes one archive entry.
func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	if mode&0777 == 0 {
		mode = 0644
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// findExecutables walks the extracted tree and returns regular files whose
// name starts with the tool name and whose mode has an execute bit set.
func findExecutables(root, tool string) ([]string, error) {
	var executables []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.HasPrefix(filepath.Base(path), tool) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0 {
			logger.Debug("[DEBUG] Found executable: %s\n", path)
			executables = append(executables, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(executables) == 0 {
		return nil, fmt.Errorf("no executables found under %s", root)
	}
	return executables, nil
}

// installBinary copies one file into binDir with executable permissions.
func installBinary(src, binDir string) error {
	dst := filepath.Join(binDir, filepath.Base(src))

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
