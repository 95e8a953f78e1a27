package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// probeRecorder wraps os.Stat and records every probed path.
type probeRecorder struct {
	probed []string
}

func (p *probeRecorder) stat(path string) (os.FileInfo, error) {
	p.probed = append(p.probed, path)
	return os.Stat(path)
}

func TestLocatorDedupAndOrder(t *testing.T) {
	a, b, c := t.TempDir(), t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(b, "wall.json"), "{}")

	searchPath := []string{
		a,
		strings.ReplaceAll(b, "/", `\`),
		b,
		c,
	}
	want := filepath.ToSlash(b) + "/wall.json"

	rec := &probeRecorder{}
	locator := NewLocator(searchPath, WithStat(rec.stat))

	all := locator.FindAll("wall.json")
	if !reflect.DeepEqual(all, []string{want}) {
		t.Errorf("FindAll() = %v, want [%s]", all, want)
	}
	if len(rec.probed) != 3 {
		t.Errorf("FindAll() probed %d paths, want 3 (duplicate directory skipped): %v", len(rec.probed), rec.probed)
	}

	rec.probed = nil
	one, ok := locator.FindOne("wall.json")
	if !ok || one != want {
		t.Errorf("FindOne() = %q, %v, want %q, true", one, ok, want)
	}
	if len(rec.probed) != 2 {
		t.Errorf("FindOne() probed %v, want to stop after the match", rec.probed)
	}
	for _, probed := range rec.probed {
		if strings.HasPrefix(probed, filepath.ToSlash(c)) {
			t.Errorf("FindOne() probed %q beyond the first match", probed)
		}
	}
}

func TestLocatorFindAllKeepsSearchPathOrder(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(a, "wall.json"), "{}")
	writeFile(t, filepath.Join(b, "wall.json"), "{}")

	locator := NewLocator([]string{b, a})
	got := locator.FindAll("wall.json")
	want := []string{
		filepath.ToSlash(b) + "/wall.json",
		filepath.ToSlash(a) + "/wall.json",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindAll() = %v, want %v", got, want)
	}
}

func TestLocatorNotFound(t *testing.T) {
	locator := NewLocator([]string{t.TempDir(), t.TempDir()})

	got, ok := locator.FindOne("missing.json")
	if ok || got != "" {
		t.Errorf("FindOne() = %q, %v, want \"\", false", got, ok)
	}
	if all := locator.FindAll("missing.json"); len(all) != 0 {
		t.Errorf("FindAll() = %v, want empty", all)
	}

	empty := NewLocator(nil)
	if _, ok := empty.FindOne("missing.json"); ok {
		t.Error("FindOne() on an empty search path should not match")
	}
}

func TestLocatorDoesNotMutateInput(t *testing.T) {
	searchPath := []string{`C:\tools`, "C:/tools"}
	locator := NewLocator(searchPath)

	if got := locator.SearchPath(); !reflect.DeepEqual(got, []string{"C:/tools"}) {
		t.Errorf("SearchPath() = %v, want [C:/tools]", got)
	}
	if searchPath[0] != `C:\tools` {
		t.Errorf("input search path was mutated: %v", searchPath)
	}
}

func TestJoinSlash(t *testing.T) {
	tests := []struct {
		dir, name, want string
	}{
		{"/studio/tools", "codewall.json", "/studio/tools/codewall.json"},
		{"/studio/tools/", "codewall.json", "/studio/tools/codewall.json"},
		{"", "codewall.json", "codewall.json"},
		{"C:/tools", `sub\codewall.json`, "C:/tools/sub/codewall.json"},
	}

	for _, tt := range tests {
		if got := joinSlash(tt.dir, tt.name); got != tt.want {
			t.Errorf("joinSlash(%q, %q) = %q, want %q", tt.dir, tt.name, got, tt.want)
		}
	}
}

func TestSearchPathFromEnv(t *testing.T) {
	t.Setenv(SearchPathEnvVar, strings.Join([]string{"/a", "", "/b"}, string(os.PathListSeparator)))

	got := SearchPathFromEnv(SearchPathEnvVar)
	if !reflect.DeepEqual(got, []string{"/a", "/b"}) {
		t.Errorf("SearchPathFromEnv() = %v, want [/a /b]", got)
	}

	t.Setenv(SearchPathEnvVar, "")
	if got := SearchPathFromEnv(SearchPathEnvVar); got != nil {
		t.Errorf("SearchPathFromEnv() = %v, want nil", got)
	}
}
