package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName = "codewall"

	// SettingsFile holds the per-user tab list and tree state.
	SettingsFile = "settings.json"
	// PreferencesFile is searched for along the search path.
	PreferencesFile = "codewall.yaml"
	// GlobalTabsFile is searched for along the search path; every match
	// contributes shared tabs.
	GlobalTabsFile = "codewall.json"
)

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/codewall or $HOME/.config/codewall
//   - macOS: $HOME/.config/codewall (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\codewall
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			// Fallback to USERPROFILE\AppData\Local if LOCALAPPDATA not set
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetSettingsPath returns the full path to the per-user settings file.
func GetSettingsPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, SettingsFile), nil
}

// DefaultSearchPath returns CODEWALL_PATH followed by the user config directory.
func DefaultSearchPath() []string {
	dirs := SearchPathFromEnv(SearchPathEnvVar)
	if configDir, err := GetConfigDir(); err == nil {
		dirs = append(dirs, configDir)
	}
	return dirs
}
