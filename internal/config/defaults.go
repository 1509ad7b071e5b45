package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ekisa-team/napcast/internal/envvar"
	"github.com/ekisa-team/napcast/internal/xfs"
)

// DefaultSynthesisTimeout bounds a single synthesis process.
const DefaultSynthesisTimeout = 10 * time.Minute

// DefaultHTTPPort returns the default HTTP port.
func DefaultHTTPPort() int {
	return 8080
}

// DefaultConfigPath returns the default path for NAPCAST config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "napcast", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "napcast")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "napcast")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "napcast")
		}
		return filepath.Join(home, ".config", "napcast")
	}
}

// DefaultDataPath returns the default path for NAPCAST data (audio, job ledger).
// NAPCAST_DATA_PATH takes precedence over the platform default.
func DefaultDataPath() string {
	if p := os.Getenv(envvar.NapcastDataPath); p != "" {
		return xfs.ExpandTilde(p)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "napcast", "data")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "napcast")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "napcast", "data")
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "napcast")
		}
		return filepath.Join(home, ".local", "share", "napcast")
	}
}
