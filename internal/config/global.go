package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
)

// ErrNoGlobalConfig is returned when no shared codewall.json is on the search path.
var ErrNoGlobalConfig = errors.New("no " + GlobalTabsFile + " found on the search path")

// GlobalTabsData is the content of a shared codewall.json.
type GlobalTabsData struct {
	Tabs []Tab `json:"tabs"`
}

// LoadGlobalTabs merges the tabs of every codewall.json on the search path,
// keeping the first occurrence of each root.
func LoadGlobalTabs(locator *Locator) ([]Tab, error) {
	var tabs []Tab
	seen := make(map[string]struct{})

	for _, path := range locator.FindAll(GlobalTabsFile) {
		cfg, err := NewJSON[GlobalTabsData](path)
		if err != nil {
			return nil, err
		}
		for _, tab := range cfg.IO().Cache().Tabs {
			root := filepath.ToSlash(filepath.Clean(tab.Path))
			if _, ok := seen[root]; ok {
				continue
			}
			seen[root] = struct{}{}
			tab.Path = root
			tab.Global = true
			tabs = append(tabs, tab)
		}
	}
	return tabs, nil
}

// AddGlobalTab appends tab to the first codewall.json on the search path and
// returns the file it was written to.
func AddGlobalTab(locator *Locator, tab Tab) (string, error) {
	path, ok := locator.FindOne(GlobalTabsFile)
	if !ok {
		return "", ErrNoGlobalConfig
	}

	cfg, err := NewJSON[GlobalTabsData](path)
	if err != nil {
		return path, err
	}

	tab.Path = filepath.ToSlash(filepath.Clean(tab.Path))
	err = cfg.Update(func(d *GlobalTabsData) error {
		if indexOfTab(d.Tabs, tab.Path) >= 0 {
			return fmt.Errorf("%w: %s", ErrTabExists, tab.Path)
		}
		d.Tabs = append(d.Tabs, tab)
		return nil
	})
	if err != nil {
		return path, err
	}
	return path, cfg.Save()
}

// RemoveGlobalTab removes root from the first codewall.json that lists it.
func RemoveGlobalTab(locator *Locator, root string) (string, error) {
	root = filepath.ToSlash(filepath.Clean(root))
	for _, path := range locator.FindAll(GlobalTabsFile) {
		cfg, err := NewJSON[GlobalTabsData](path)
		if err != nil {
			return path, err
		}
		if indexOfTab(cfg.IO().Cache().Tabs, root) < 0 {
			continue
		}
		err = cfg.Update(func(d *GlobalTabsData) error {
			i := indexOfTab(d.Tabs, root)
			if i < 0 {
				return fmt.Errorf("%w: %s", ErrTabNotFound, root)
			}
			d.Tabs = slices.Delete(d.Tabs, i, i+1)
			return nil
		})
		if err != nil {
			return path, err
		}
		return path, cfg.Save()
	}
	return "", fmt.Errorf("%w: %s", ErrTabNotFound, root)
}
