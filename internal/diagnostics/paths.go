// Package diagnostics persists accumulator-update counters and validated
// network header metadata across process restarts, keyed by network file
// hash, in an embedded key-value store.
package diagnostics

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "nnuecore"

// dataDir returns the platform-specific data directory this process
// stores its diagnostics database under.
// - macOS: ~/Library/Application Support/nnuecore/
// - Linux: ~/.local/share/nnuecore/
// - Windows: %APPDATA%/nnuecore/
func dataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(home, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(home, "AppData", "Roaming")
		}

	default:
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(home, ".local", "share")
		}
	}

	dir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// DatabaseDir returns the directory the diagnostics store's BadgerDB
// files live in.
func DatabaseDir() (string, error) {
	base, err := dataDir()
	if err != nil {
		return "", err
	}
	dbDir := filepath.Join(base, "diagnostics")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	return dbDir, nil
}
