package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/dotblox/codewall/internal/logging"
)

// ErrDecode marks a backing file that exists but could not be parsed.
var ErrDecode = errors.New("config: malformed backing file")

// DecodeFunc deserializes the cached value from an open backing file.
type DecodeFunc[T any] func(r io.Reader) (T, error)

// EncodeFunc serializes the cached value into the backing file.
type EncodeFunc[T any] func(w io.Writer, v T) error

// SaveError reports a failed write of the backing file.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("unable to save to %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// ConfigIO owns a backing file and an in-memory cache of its content.
//
// While syncing, every View re-checks the file's modification time and every
// Update writes the cache back on exit. While paused, View and Update only
// touch the cache. A new ConfigIO starts paused.
//
// ConfigIO is not safe for concurrent use.
type ConfigIO[T any] struct {
	path     string
	modTime  time.Time
	cache    T
	defaults T
	syncing  bool
	decode   DecodeFunc[T]
	encode   EncodeFunc[T]
}

// NewConfigIO creates a paused ConfigIO for path. The cache starts as a copy of
// defaults; nothing is read until ReadFromDisk is called.
func NewConfigIO[T any](path string, decode DecodeFunc[T], encode EncodeFunc[T], defaults T) *ConfigIO[T] {
	return &ConfigIO[T]{
		path:     path,
		cache:    shallowCopy(defaults),
		defaults: defaults,
		decode:   decode,
		encode:   encode,
	}
}

// Path returns the backing file path.
func (c *ConfigIO[T]) Path() string {
	return c.path
}

// ModTime returns the modification time of the last read.
func (c *ConfigIO[T]) ModTime() time.Time {
	return c.modTime
}

// Cache returns the cached value without consulting the disk.
func (c *ConfigIO[T]) Cache() T {
	return c.cache
}

// Syncing reports whether scoped accesses synchronize with the disk.
func (c *ConfigIO[T]) Syncing() bool {
	return c.syncing
}

// ReadFromDisk refreshes the cache from the backing file.
//
// A missing file resets the cache to a copy of the defaults and leaves the
// last-seen modification time alone. Otherwise the file is parsed only when
// its modification time is newer than the last one seen, or when force is set.
// Two writes landing inside the filesystem's timestamp granularity can look
// unchanged; force a read when that matters.
func (c *ConfigIO[T]) ReadFromDisk(force bool) error {
	info, err := os.Stat(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		c.cache = shallowCopy(c.defaults)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	lastModified := info.ModTime()
	if !force && !lastModified.After(c.modTime) {
		return nil
	}

	f, err := os.Open(c.path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := c.decode(f)
	if err != nil {
		logging.LogConfigIO("read", c.path, err)
		return fmt.Errorf("%w: %s: %v", ErrDecode, c.path, err)
	}

	c.cache = data
	c.modTime = lastModified
	logging.LogConfigIO("read", c.path, nil)
	return nil
}

// SaveToDisk writes the cache to the backing file, creating its parent
// directory when needed. The write goes to a temporary file that is renamed
// over the target. Failures are logged and returned as *SaveError.
func (c *ConfigIO[T]) SaveToDisk() error {
	err := c.writeFile()
	logging.LogConfigIO("write", c.path, err)
	if err != nil {
		return &SaveError{Path: c.path, Err: err}
	}
	return nil
}

func (c *ConfigIO[T]) writeFile() error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary config file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := c.encode(tmp, c.cache); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// View runs fn against the cache. When syncing, the cache is refreshed from
// the disk first. Nothing is written on exit.
func (c *ConfigIO[T]) View(fn func(T) error) error {
	if c.syncing {
		if err := c.ReadFromDisk(false); err != nil {
			return err
		}
	}
	return fn(c.cache)
}

// Update runs fn with a pointer to the cache so it can be mutated in place.
// When syncing, the cache is refreshed before fn runs and saved after it
// returns successfully. If fn returns an error the cache is restored to its
// value before the call and nothing is written.
func (c *ConfigIO[T]) Update(fn func(*T) error) error {
	if c.syncing {
		if err := c.ReadFromDisk(false); err != nil {
			return err
		}
	}

	var snapshot bytes.Buffer
	if err := c.encode(&snapshot, c.cache); err != nil {
		return fmt.Errorf("failed to snapshot config: %w", err)
	}
	if err := fn(&c.cache); err != nil {
		restored, decodeErr := c.decode(&snapshot)
		if decodeErr != nil {
			return errors.Join(err, fmt.Errorf("failed to restore config: %w", decodeErr))
		}
		c.cache = restored
		return err
	}
	if c.syncing {
		return c.SaveToDisk()
	}
	return nil
}

// PauseSync stops scoped accesses from touching the disk.
func (c *ConfigIO[T]) PauseSync() {
	c.syncing = false
}

// StartSync resumes synchronization. With save set, the current cache is
// written immediately, committing edits made while paused.
func (c *ConfigIO[T]) StartSync(save bool) error {
	c.syncing = true
	if save {
		return c.SaveToDisk()
	}
	return nil
}

// shallowCopy copies the top level of maps and slices so the defaults are
// never aliased by the cache. Other values are returned as is.
func shallowCopy[T any](v T) T {
	rv := reflect.ValueOf(&v).Elem()
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out.Interface().(T)
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface().(T)
	}
	return v
}

// emptyValue returns the zero value of T, or an empty map when T is a map.
func emptyValue[T any]() T {
	var v T
	rv := reflect.ValueOf(&v).Elem()
	if rv.Kind() == reflect.Map {
		rv.Set(reflect.MakeMap(rv.Type()))
	}
	return v
}
