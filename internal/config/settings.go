package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
)

var (
	// ErrTabExists is returned when a tab for the same root is already open.
	ErrTabExists = errors.New("tab already exists")
	// ErrTabNotFound is returned when no tab has the given root.
	ErrTabNotFound = errors.New("tab not found")
)

// Tab is a script root shown as a tab.
type Tab struct {
	Name   string `json:"name,omitempty"`
	Path   string `json:"path"`
	Global bool   `json:"-"` // Loaded from a shared codewall.json
}

// SettingsData is the content of the per-user settings file.
type SettingsData struct {
	Version  int                 `json:"version"`
	Tabs     []Tab               `json:"tabs"`
	Expanded map[string][]string `json:"expanded,omitempty"` // Keyed by tab root, values relative to it
}

// Settings is the per-user tab list and tree state. It syncs with its file on
// every access so several Code Wall sessions see each other's changes.
type Settings struct {
	cfg *Config[SettingsData]
}

// OpenSettings opens the settings file at path, creating nothing until the
// first change.
func OpenSettings(path string) (*Settings, error) {
	cfg, err := NewJSON(path,
		WithDefault(SettingsData{Version: 1}),
		WithSync[SettingsData](),
	)
	if err != nil {
		return nil, err
	}
	return &Settings{cfg: cfg}, nil
}

// Config exposes the backing config.
func (s *Settings) Config() *Config[SettingsData] {
	return s.cfg
}

// Tabs returns the local tabs in display order.
func (s *Settings) Tabs() ([]Tab, error) {
	var tabs []Tab
	err := s.cfg.View(func(d SettingsData) error {
		tabs = slices.Clone(d.Tabs)
		return nil
	})
	return tabs, err
}

// AddTab appends a tab for tab.Path.
func (s *Settings) AddTab(tab Tab) error {
	tab.Path = filepath.ToSlash(filepath.Clean(tab.Path))
	return s.cfg.Update(func(d *SettingsData) error {
		if indexOfTab(d.Tabs, tab.Path) >= 0 {
			return fmt.Errorf("%w: %s", ErrTabExists, tab.Path)
		}
		d.Tabs = append(d.Tabs, tab)
		return nil
	})
}

// RemoveTab drops the tab for root along with its tree state.
func (s *Settings) RemoveTab(root string) error {
	root = filepath.ToSlash(filepath.Clean(root))
	return s.cfg.Update(func(d *SettingsData) error {
		i := indexOfTab(d.Tabs, root)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrTabNotFound, root)
		}
		d.Tabs = slices.Delete(d.Tabs, i, i+1)
		delete(d.Expanded, root)
		return nil
	})
}

// MoveTab moves the tab at index from to index to.
func (s *Settings) MoveTab(from, to int) error {
	return s.cfg.Update(func(d *SettingsData) error {
		if from < 0 || from >= len(d.Tabs) || to < 0 || to >= len(d.Tabs) {
			return fmt.Errorf("tab index out of range: %d -> %d", from, to)
		}
		tab := d.Tabs[from]
		d.Tabs = slices.Delete(d.Tabs, from, from+1)
		d.Tabs = slices.Insert(d.Tabs, to, tab)
		return nil
	})
}

// SetExpanded records whether item (relative to root) is expanded in the tree.
func (s *Settings) SetExpanded(root, item string, expanded bool) error {
	root = filepath.ToSlash(filepath.Clean(root))
	item = filepath.ToSlash(item)
	return s.cfg.Update(func(d *SettingsData) error {
		if d.Expanded == nil {
			d.Expanded = make(map[string][]string)
		}
		items := d.Expanded[root]
		i := slices.Index(items, item)
		switch {
		case expanded && i < 0:
			d.Expanded[root] = append(items, item)
		case !expanded && i >= 0:
			items = slices.Delete(items, i, i+1)
			if len(items) == 0 {
				delete(d.Expanded, root)
			} else {
				d.Expanded[root] = items
			}
		}
		return nil
	})
}

// Expanded returns the expanded items recorded for root.
func (s *Settings) Expanded(root string) ([]string, error) {
	root = filepath.ToSlash(filepath.Clean(root))
	var items []string
	err := s.cfg.View(func(d SettingsData) error {
		items = slices.Clone(d.Expanded[root])
		return nil
	})
	return items, err
}

func indexOfTab(tabs []Tab, root string) int {
	return slices.IndexFunc(tabs, func(t Tab) bool {
		return filepath.ToSlash(filepath.Clean(t.Path)) == root
	})
}
