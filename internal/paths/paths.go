// Package paths resolves configuration and data directory locations for
// tally windows.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the directory created under the platform base dirs.
const appDirName = "tally"

// DefaultDataDirName is the CWD-relative data directory used when no
// flag, config value, or environment override names one.
const DefaultDataDirName = ".tally-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TALLY_CONFIG_DIR"
	EnvDataDir   = "TALLY_DATA_DIR"
)

// DefaultConfigDir returns the platform default configuration directory:
// $XDG_CONFIG_HOME/tally (fallback ~/.config/tally) on Linux, the
// os.UserConfigDir convention elsewhere.
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	return userConfigDir()
}

// DefaultDataDir returns the platform default data directory:
// $XDG_DATA_HOME/tally (fallback ~/.local/share/tally) on Linux. macOS
// and Windows keep config and data together, so it matches
// DefaultConfigDir there.
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	return userConfigDir()
}

// xdgDir resolves an XDG base directory, falling back to the named
// home-relative convention when the variable is unset.
func xdgDir(envVar, fallback string) (string, error) {
	if base := os.Getenv(envVar); base != "" {
		return filepath.Join(base, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appDirName), nil
}

// userConfigDir returns the os.UserConfigDir convention:
// ~/Library/Application Support on macOS, %APPDATA% on Windows.
func userConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > TALLY_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence
// chain: flag > config value > TALLY_DATA_DIR env > $(CWD)/.tally-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
