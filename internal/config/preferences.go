package config

import (
	"errors"
	"fmt"
)

// Preferences are the user-editable options of Code Wall. They are read from
// the first codewall.yaml on the search path and never written by the tool.
type Preferences struct {
	NameFilters   []string `yaml:"name_filters"`             // Glob patterns of files shown in the tree
	ArchiveFolder string   `yaml:"archive_folder"`           // Folder receiving archived scripts
	PythonCommand []string `yaml:"python_command,omitempty"` // Local interpreter for .py files
	MelCommand    []string `yaml:"mel_command,omitempty"`    // Local interpreter for .mel files
	BridgeAddress string   `yaml:"bridge_address,omitempty"` // host:port of a host application bridge
	TabNameDepth  int      `yaml:"tab_name_depth"`           // Trailing path components shown on tabs
	DryRun        bool     `yaml:"dry_run"`                  // Log file operations instead of running them
}

// DefaultPreferences returns the built-in preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		NameFilters:   []string{"*.py", "*.mel"},
		ArchiveFolder: "__archive",
		PythonCommand: []string{"python3"},
		TabNameDepth:  1,
	}
}

// LoadPreferences reads the first preferences file found by the locator.
// The returned path is empty when defaults were used.
func LoadPreferences(locator *Locator) (Preferences, string, error) {
	path, ok := locator.FindOne(PreferencesFile)
	if !ok {
		return DefaultPreferences(), "", nil
	}

	cfg, err := NewYAML[Preferences](path, WithDefault(DefaultPreferences()))
	if err != nil {
		return Preferences{}, path, err
	}
	prefs := cfg.IO().Cache()
	if err := prefs.normalize(); err != nil {
		return Preferences{}, path, fmt.Errorf("invalid preferences in %s: %w", path, err)
	}
	return prefs, path, nil
}

// normalize fills unset fields from the defaults.
func (p *Preferences) normalize() error {
	defaults := DefaultPreferences()
	if len(p.NameFilters) == 0 {
		p.NameFilters = defaults.NameFilters
	}
	if p.ArchiveFolder == "" {
		p.ArchiveFolder = defaults.ArchiveFolder
	}
	if len(p.PythonCommand) == 0 {
		p.PythonCommand = defaults.PythonCommand
	}
	if p.TabNameDepth == 0 {
		p.TabNameDepth = defaults.TabNameDepth
	}
	if p.TabNameDepth < 0 {
		return errors.New("tab_name_depth must be positive")
	}
	return nil
}
