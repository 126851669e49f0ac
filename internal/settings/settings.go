// Package settings merges environment key/value pairs into a vendor CLI's
// JSON settings file. The merge touches only the nested "env" object:
// unrelated top-level keys and unrelated env keys survive untouched, so the
// user's own settings and this tool's never fight over the file.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dev-bootstrap/internal/logger"
)

// MergeEnv reads the JSON object in the file at path (a missing or empty file
// counts as {}), merges the given pairs into its "env" sub-object (creating
// it if absent, overwriting conflicting keys), and writes the result back.
// The write is atomic — a temp file in the same directory renamed into
// place — and the final file is restricted to owner read/write, since the
// payload typically carries a bearer token.
func MergeEnv(path string, pairs map[string]string) error {
	doc := make(map[string]any)

	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		// Only a missing (or empty) file may fall back to {}. An existing
		// file we cannot read must not be replaced with just the payload.
		return fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("settings file %s is not a JSON object: %w", path, err)
		}
	}

	// The existing env value may be absent, null, or (from a hand-edited
	// file) something other than an object. Anything that is not an object
	// is replaced wholesale rather than guessed at.
	env, ok := doc["env"].(map[string]any)
	if !ok {
		env = make(map[string]any)
	}
	for k, v := range pairs {
		env[k] = v
	}
	doc["env"] = env

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(out, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp settings file: %w", err)
	}

	// Owner-only before the rename, so the token is never world-readable
	// even transiently.
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to restrict settings permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move settings into place: %w", err)
	}

	logger.Debug("[DEBUG] Merged %d env keys into %s\n", len(pairs), path)
	return nil
}
