package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSettingsTabs(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFile)
	s, err := OpenSettings(path)
	if err != nil {
		t.Fatalf("OpenSettings() error = %v", err)
	}

	if tabs, _ := s.Tabs(); len(tabs) != 0 {
		t.Fatalf("Tabs() = %v, want none", tabs)
	}

	for _, root := range []string{"/scripts/a", "/scripts/b", "/scripts/c"} {
		if err := s.AddTab(Tab{Path: root}); err != nil {
			t.Fatalf("AddTab(%s) error = %v", root, err)
		}
	}
	if err := s.AddTab(Tab{Path: "/scripts/a/"}); !errors.Is(err, ErrTabExists) {
		t.Errorf("AddTab(duplicate) error = %v, want ErrTabExists", err)
	}

	if err := s.MoveTab(2, 0); err != nil {
		t.Fatalf("MoveTab() error = %v", err)
	}
	if err := s.RemoveTab("/scripts/b"); err != nil {
		t.Fatalf("RemoveTab() error = %v", err)
	}
	if err := s.RemoveTab("/scripts/zzz"); !errors.Is(err, ErrTabNotFound) {
		t.Errorf("RemoveTab(missing) error = %v, want ErrTabNotFound", err)
	}

	// A second session on the same file sees every change.
	other, err := OpenSettings(path)
	if err != nil {
		t.Fatalf("OpenSettings() error = %v", err)
	}
	tabs, err := other.Tabs()
	if err != nil {
		t.Fatalf("Tabs() error = %v", err)
	}
	want := []Tab{{Path: "/scripts/c"}, {Path: "/scripts/a"}}
	if !reflect.DeepEqual(tabs, want) {
		t.Errorf("Tabs() = %v, want %v", tabs, want)
	}
}

func TestSettingsExpandedState(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFile)
	s, err := OpenSettings(path)
	if err != nil {
		t.Fatalf("OpenSettings() error = %v", err)
	}

	root := "/scripts/a"
	_ = s.SetExpanded(root, "rigging", true)
	_ = s.SetExpanded(root, "rigging/arms", true)
	_ = s.SetExpanded(root, "rigging", true)
	_ = s.SetExpanded(root, "rigging/arms", false)

	got, err := s.Expanded(root)
	if err != nil {
		t.Fatalf("Expanded() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"rigging"}) {
		t.Errorf("Expanded() = %v, want [rigging]", got)
	}

	_ = s.SetExpanded(root, "rigging", false)
	if got, _ := s.Expanded(root); len(got) != 0 {
		t.Errorf("Expanded() = %v, want none", got)
	}
}

func TestGlobalTabs(t *testing.T) {
	studio, show := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(studio, GlobalTabsFile), `{"tabs": [{"name": "Studio", "path": "/net/studio/scripts"}]}`)
	writeFile(t, filepath.Join(show, GlobalTabsFile), `{"tabs": [{"path": "/net/show/scripts"}, {"path": "/net/studio/scripts/"}]}`)

	locator := NewLocator([]string{studio, show})

	tabs, err := LoadGlobalTabs(locator)
	if err != nil {
		t.Fatalf("LoadGlobalTabs() error = %v", err)
	}
	want := []Tab{
		{Name: "Studio", Path: "/net/studio/scripts", Global: true},
		{Path: "/net/show/scripts", Global: true},
	}
	if !reflect.DeepEqual(tabs, want) {
		t.Errorf("LoadGlobalTabs() = %v, want %v", tabs, want)
	}

	written, err := AddGlobalTab(locator, Tab{Path: "/net/new"})
	if err != nil {
		t.Fatalf("AddGlobalTab() error = %v", err)
	}
	if written != filepath.ToSlash(studio)+"/"+GlobalTabsFile {
		t.Errorf("AddGlobalTab() wrote %s, want the first file on the search path", written)
	}

	removedFrom, err := RemoveGlobalTab(locator, "/net/show/scripts")
	if err != nil {
		t.Fatalf("RemoveGlobalTab() error = %v", err)
	}
	if removedFrom != filepath.ToSlash(show)+"/"+GlobalTabsFile {
		t.Errorf("RemoveGlobalTab() edited %s", removedFrom)
	}

	tabs, _ = LoadGlobalTabs(locator)
	if len(tabs) != 2 || tabs[1].Path != "/net/new" {
		t.Errorf("tabs after edits = %v", tabs)
	}

	if _, err := RemoveGlobalTab(locator, "/net/show/scripts"); !errors.Is(err, ErrTabNotFound) {
		t.Errorf("RemoveGlobalTab() twice error = %v, want ErrTabNotFound", err)
	}
}

func TestAddGlobalTabWithoutFile(t *testing.T) {
	locator := NewLocator([]string{t.TempDir()})
	if _, err := AddGlobalTab(locator, Tab{Path: "/x"}); !errors.Is(err, ErrNoGlobalConfig) {
		t.Errorf("AddGlobalTab() error = %v, want ErrNoGlobalConfig", err)
	}
}

func TestLoadPreferences(t *testing.T) {
	t.Run("defaults when missing", func(t *testing.T) {
		prefs, path, err := LoadPreferences(NewLocator([]string{t.TempDir()}))
		if err != nil {
			t.Fatalf("LoadPreferences() error = %v", err)
		}
		if path != "" {
			t.Errorf("path = %q, want empty", path)
		}
		if !reflect.DeepEqual(prefs, DefaultPreferences()) {
			t.Errorf("prefs = %+v, want defaults", prefs)
		}
	})

	t.Run("first file wins and fills gaps", func(t *testing.T) {
		first, second := t.TempDir(), t.TempDir()
		writeFile(t, filepath.Join(first, PreferencesFile), "archive_folder: _old\ntab_name_depth: 2\nmel_command: [mayabatch, -command]\n")
		writeFile(t, filepath.Join(second, PreferencesFile), "archive_folder: ignored\n")

		prefs, path, err := LoadPreferences(NewLocator([]string{first, second}))
		if err != nil {
			t.Fatalf("LoadPreferences() error = %v", err)
		}
		if path != filepath.ToSlash(first)+"/"+PreferencesFile {
			t.Errorf("path = %q", path)
		}
		if prefs.ArchiveFolder != "_old" || prefs.TabNameDepth != 2 {
			t.Errorf("prefs = %+v", prefs)
		}
		if !reflect.DeepEqual(prefs.NameFilters, []string{"*.py", "*.mel"}) {
			t.Errorf("NameFilters = %v, want defaults", prefs.NameFilters)
		}
		if !reflect.DeepEqual(prefs.MelCommand, []string{"mayabatch", "-command"}) {
			t.Errorf("MelCommand = %v", prefs.MelCommand)
		}
	})

	t.Run("negative depth rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, PreferencesFile), "tab_name_depth: -1\n")
		if _, _, err := LoadPreferences(NewLocator([]string{dir})); err == nil {
			t.Error("LoadPreferences() error = nil, want an error")
		}
	})
}

func TestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	cfg, err := NewYAML[Preferences](path, WithDefault(DefaultPreferences()))
	if err != nil {
		t.Fatalf("NewYAML() error = %v", err)
	}
	_ = cfg.Update(func(p *Preferences) error {
		p.BridgeAddress = "localhost:7001"
		return nil
	})
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("saved YAML is empty")
	}

	if err := cfg.Revert(); err != nil {
		t.Fatalf("Revert() error = %v", err)
	}
	if cfg.IO().Cache().BridgeAddress != "localhost:7001" {
		t.Errorf("BridgeAddress = %q after revert", cfg.IO().Cache().BridgeAddress)
	}
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if filepath.Base(dir) != "codewall" {
		t.Errorf("GetConfigDir() = %q, want it to end in codewall", dir)
	}
}
