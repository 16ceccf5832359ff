// Package paths resolves the configuration and data directories used by the
// oelib command.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Working-directory relative names used when nothing else is configured.
const (
	DefaultConfigDirName = ".oelib"
	DefaultDataDirName   = ".oelib-db"
)

// Environment variables overriding the directories.
const (
	EnvConfigDir = "OELIB_CONFIG_DIR"
	EnvDataDir   = "OELIB_DATA_DIR"
)

// appDirName is the directory created below the platform config and data roots.
const appDirName = "oelib"

// platformDir holds platform lookups that tests replace.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/oelib (fallback ~/.config/oelib)
// macOS:   ~/Library/Application Support/oelib
// Windows: %APPDATA%/oelib
func DefaultConfigDir() (string, error) {
	return platformRoot("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/oelib (fallback ~/.local/share/oelib)
// macOS and Windows share the configuration root.
func DefaultDataDir() (string, error) {
	return platformRoot("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func platformRoot(xdgVar, homeRel string) (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv(xdgVar); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, homeRel, appDirName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// ResolveConfigDir applies flag > OELIB_CONFIG_DIR > $(CWD)/.oelib.
func ResolveConfigDir(flag string) (string, error) {
	return resolve(EnvConfigDir, DefaultConfigDirName, flag)
}

// ResolveDataDir applies flag > config.yaml data_dir > OELIB_DATA_DIR >
// $(CWD)/.oelib-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag == "" {
		flag = configYAMLValue
	}
	return resolve(EnvDataDir, DefaultDataDirName, flag)
}

func resolve(envVar, defaultName string, candidates ...string) (string, error) {
	candidates = append(candidates, os.Getenv(envVar))
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, defaultName), nil
}
