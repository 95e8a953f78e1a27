package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// countingCodec counts decoder invocations.
type countingCodec struct {
	JSONCodec[Document]
	decodes int
}

func (c *countingCodec) Decode(r io.Reader) (Document, error) {
	c.decodes++
	return c.JSONCodec.Decode(r)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

// bumpModTime moves the file's mtime forward so staleness checks see a change
// regardless of filesystem timestamp granularity.
func bumpModTime(t *testing.T, path string, by time.Duration) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	mtime := info.ModTime().Add(by)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}
}

func TestNewMissingFileUsesDefault(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		opts []Option[Document]
		want Document
	}{
		{
			name: "no default gives empty mapping",
			want: Document{},
		},
		{
			name: "explicit default",
			opts: []Option[Document]{WithDefault(Document{"theme": "dark"})},
			want: Document{"theme": "dark"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewJSONDocument(filepath.Join(dir, "missing.json"), tt.opts...)
			if err != nil {
				t.Fatalf("NewJSONDocument() error = %v", err)
			}
			got := cfg.IO().Cache()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("cache = %v, want %v", got, tt.want)
			}
			if !cfg.IO().ModTime().IsZero() {
				t.Errorf("ModTime() = %v, want zero for a missing file", cfg.IO().ModTime())
			}
			if !cfg.IsPaused() {
				t.Error("a new config should start paused")
			}
		})
	}
}

func TestDefaultIsNotAliased(t *testing.T) {
	defaults := Document{"a": 1.0}
	cfg, err := NewJSONDocument(filepath.Join(t.TempDir(), "c.json"), WithDefault(defaults))
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}

	_ = cfg.Update(func(d *Document) error {
		(*d)["b"] = 2.0
		return nil
	})

	if _, ok := defaults["b"]; ok {
		t.Error("mutating the cache leaked into the default value")
	}
}

func TestSaveThenRevertRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg, err := NewJSONDocument(path)
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}

	want := Document{
		"name":  "wall",
		"depth": 2.0,
		"tabs":  []any{"a", "b"},
	}
	err = cfg.Update(func(d *Document) error {
		*d = want
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("a paused Update must not write the file")
	}

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Scribble over the cache, then revert to what was saved.
	_ = cfg.Update(func(d *Document) error {
		*d = Document{"scratch": true}
		return nil
	})
	if err := cfg.Revert(); err != nil {
		t.Fatalf("Revert() error = %v", err)
	}

	if got := cfg.IO().Cache(); !reflect.DeepEqual(got, want) {
		t.Errorf("cache after Revert() = %v, want %v", got, want)
	}
}

func TestReadFromDiskSkipsUnchangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"k": "v"}`)

	codec := &countingCodec{}
	cfg, err := New[Document](path, codec)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if codec.decodes != 1 {
		t.Fatalf("decodes after construction = %d, want 1", codec.decodes)
	}
	seen := cfg.IO().ModTime()

	for i := 0; i < 2; i++ {
		if err := cfg.IO().ReadFromDisk(false); err != nil {
			t.Fatalf("ReadFromDisk() error = %v", err)
		}
	}

	if codec.decodes != 1 {
		t.Errorf("decodes = %d, want 1 (no re-parse without a change)", codec.decodes)
	}
	if !cfg.IO().ModTime().Equal(seen) {
		t.Errorf("ModTime() changed from %v to %v", seen, cfg.IO().ModTime())
	}
}

func TestReadFromDiskForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"k": "v"}`)

	codec := &countingCodec{}
	cfg, err := New[Document](path, codec)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := cfg.IO().ReadFromDisk(true); err != nil {
			t.Fatalf("ReadFromDisk(true) error = %v", err)
		}
	}

	if codec.decodes != 4 {
		t.Errorf("decodes = %d, want 4", codec.decodes)
	}
}

func TestReadFromDiskPicksUpExternalChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"k": "v1"}`)

	cfg, err := NewJSONDocument(path)
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}
	first := cfg.IO().ModTime()

	writeFile(t, path, `{"k": "v2"}`)
	bumpModTime(t, path, 2*time.Second)

	if err := cfg.IO().ReadFromDisk(false); err != nil {
		t.Fatalf("ReadFromDisk() error = %v", err)
	}
	if got := cfg.IO().Cache()["k"]; got != "v2" {
		t.Errorf("cache[k] = %v, want v2", got)
	}
	if !cfg.IO().ModTime().After(first) {
		t.Errorf("ModTime() = %v, want after %v", cfg.IO().ModTime(), first)
	}
}

func TestReadFromDiskMissingFileKeepsModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"k": "v"}`)

	cfg, err := NewJSONDocument(path, WithDefault(Document{"d": true}))
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}
	seen := cfg.IO().ModTime()

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := cfg.IO().ReadFromDisk(false); err != nil {
		t.Fatalf("ReadFromDisk() error = %v", err)
	}

	if got := cfg.IO().Cache(); !reflect.DeepEqual(got, Document{"d": true}) {
		t.Errorf("cache = %v, want the default", got)
	}
	if !cfg.IO().ModTime().Equal(seen) {
		t.Errorf("ModTime() = %v, want unchanged %v", cfg.IO().ModTime(), seen)
	}
}

func TestMalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"k": `)

	_, err := NewJSONDocument(path, WithDefault(Document{"fallback": true}))
	if err == nil {
		t.Fatal("NewJSONDocument() error = nil, want a decode error")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error = %v, want it to wrap ErrDecode", err)
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	writeFile(t, blocker, "not a directory")

	codec := JSONCodec[Document]{}
	cfg := &Config[Document]{
		io: NewConfigIO(filepath.Join(blocker, "config.json"), codec.Decode, codec.Encode, Document{}),
	}

	err := cfg.Save()
	var saveErr *SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("Save() error = %v, want *SaveError", err)
	}
	if saveErr.Path != cfg.Path() {
		t.Errorf("SaveError.Path = %q, want %q", saveErr.Path, cfg.Path())
	}
}

func TestSyncedUpdatePersistsOnExit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := NewJSONDocument(path)
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}
	if got := cfg.IO().Cache(); !reflect.DeepEqual(got, Document{}) {
		t.Fatalf("initial cache = %v, want {}", got)
	}
	if err := cfg.StartSync(false); err != nil {
		t.Fatalf("StartSync() error = %v", err)
	}

	err = cfg.Update(func(d *Document) error {
		(*d)["k"] = "v"
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	other, err := NewJSONDocument(path)
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}
	if got := other.IO().Cache(); !reflect.DeepEqual(got, Document{"k": "v"}) {
		t.Errorf("fresh read = %v, want {k: v}", got)
	}
}

func TestPausedUpdateNeedsSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := NewJSONDocument(path, WithSync[Document]())
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}
	cfg.PauseSync()
	if !cfg.IsPaused() {
		t.Fatal("IsPaused() = false after PauseSync()")
	}

	_ = cfg.Update(func(d *Document) error {
		(*d)["k"] = "v"
		return nil
	})

	fresh, err := NewJSONDocument(path)
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}
	if _, ok := fresh.IO().Cache()["k"]; ok {
		t.Fatal("paused mutation reached the disk before Save()")
	}

	if err := cfg.StartSync(true); err != nil {
		t.Fatalf("StartSync(true) error = %v", err)
	}

	fresh, err = NewJSONDocument(path)
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}
	if got := fresh.IO().Cache()["k"]; got != "v" {
		t.Errorf("fresh read after StartSync(true) = %v, want v", got)
	}
}

func TestSyncedViewSeesOtherWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"k": "old"}`)

	reader, err := NewJSONDocument(path, WithSync[Document]())
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}

	writer, err := NewJSONDocument(path)
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}
	_ = writer.Update(func(d *Document) error {
		(*d)["k"] = "new"
		return nil
	})
	if err := writer.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	bumpModTime(t, path, 2*time.Second)

	var got any
	_ = reader.View(func(d Document) error {
		got = d["k"]
		return nil
	})
	if got != "new" {
		t.Errorf("synced View saw %v, want new", got)
	}

	reader.PauseSync()
	writeFile(t, path, `{"k": "newer"}`)
	bumpModTime(t, path, 4*time.Second)

	_ = reader.View(func(d Document) error {
		got = d["k"]
		return nil
	})
	if got != "new" {
		t.Errorf("paused View saw %v, want the cached value new", got)
	}
}

func TestFailedUpdateDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := NewJSONDocument(path, WithSync[Document]())
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}

	boom := errors.New("boom")
	err = cfg.Update(func(d *Document) error {
		(*d)["k"] = "v"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("a failed Update must not write the file")
	}
}

func TestFailedUpdateDiscardsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"k": "v"}`)

	cfg, err := NewJSONDocument(path, WithSync[Document]())
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}

	boom := errors.New("boom")
	err = cfg.Update(func(d *Document) error {
		(*d)["aborted"] = true
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}

	_ = cfg.View(func(d Document) error {
		if _, ok := d["aborted"]; ok {
			t.Error("View sees the change of a failed Update")
		}
		return nil
	})

	err = cfg.Update(func(d *Document) error {
		(*d)["ok"] = 1
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	fresh, err := NewJSONDocument(path)
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}
	want := Document{"k": "v", "ok": float64(1)}
	if got := fresh.IO().Cache(); !reflect.DeepEqual(got, want) {
		t.Errorf("fresh read = %v, want %v", got, want)
	}
}

func TestPausedFailedUpdateKeepsCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := NewJSONDocument(path, WithDefault(Document{"k": "v"}))
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}

	_ = cfg.Update(func(d *Document) error {
		(*d)["k"] = "changed"
		return errors.New("boom")
	})

	if got := cfg.IO().Cache(); !reflect.DeepEqual(got, Document{"k": "v"}) {
		t.Errorf("cache = %v, want {k: v}", got)
	}
}

func TestConfigEqual(t *testing.T) {
	dir := t.TempDir()
	a1, _ := NewJSONDocument(filepath.Join(dir, "a.json"))
	a2, _ := NewJSONDocument(filepath.Join(dir, "a.json"))
	b, _ := NewJSONDocument(filepath.Join(dir, "b.json"))

	if !a1.Equal(a2) {
		t.Error("configs on the same path should be equal")
	}
	if a1.Equal(b) {
		t.Error("configs on different paths should not be equal")
	}
	if a1.Equal(nil) {
		t.Error("a config should not equal nil")
	}
}

func TestShallowCopy(t *testing.T) {
	m := map[string]int{"a": 1}
	mc := shallowCopy(m)
	mc["b"] = 2
	if len(m) != 1 {
		t.Errorf("map copy aliases the original: %v", m)
	}

	s := []string{"x"}
	sc := shallowCopy(s)
	sc[0] = "y"
	if s[0] != "x" {
		t.Errorf("slice copy aliases the original: %v", s)
	}

	var nilMap map[string]int
	if shallowCopy(nilMap) != nil {
		t.Error("copy of a nil map should stay nil")
	}

	if got := shallowCopy(42); got != 42 {
		t.Errorf("shallowCopy(42) = %d", got)
	}
}
