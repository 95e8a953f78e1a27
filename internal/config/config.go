package config

import (
	"fmt"
	"io"
)

// Codec supplies the serialization of a config format.
type Codec[T any] interface {
	Decode(r io.Reader) (T, error)
	Encode(w io.Writer, v T) error
}

// Option customizes a Config at construction.
type Option[T any] func(*options[T])

type options[T any] struct {
	defaults    T
	hasDefaults bool
	sync        bool
}

// WithDefault sets the value cached when the backing file does not exist.
func WithDefault[T any](v T) Option[T] {
	return func(o *options[T]) {
		o.defaults = v
		o.hasDefaults = true
	}
}

// WithSync starts the config syncing right after the initial read.
func WithSync[T any]() Option[T] {
	return func(o *options[T]) {
		o.sync = true
	}
}

// Config is a format-agnostic handle on a disk-backed, memory-cached value.
// It owns exactly one ConfigIO. Discarding a Config writes nothing: edits made
// while paused are lost unless Save is called.
type Config[T any] struct {
	io *ConfigIO[T]
}

// New creates a Config for path and reads it once. A missing file yields the
// default; a malformed one is returned as an error wrapping ErrDecode.
func New[T any](path string, codec Codec[T], opts ...Option[T]) (*Config[T], error) {
	o := options[T]{}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasDefaults {
		o.defaults = emptyValue[T]()
	}

	c := &Config[T]{
		io: NewConfigIO(path, codec.Decode, codec.Encode, o.defaults),
	}
	if err := c.io.ReadFromDisk(false); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if o.sync {
		c.io.syncing = true
	}
	return c, nil
}

// IO exposes the underlying ConfigIO.
func (c *Config[T]) IO() *ConfigIO[T] {
	return c.io
}

// Path returns the backing file path.
func (c *Config[T]) Path() string {
	return c.io.Path()
}

// View runs fn against the cached value (see ConfigIO.View).
func (c *Config[T]) View(fn func(T) error) error {
	return c.io.View(fn)
}

// Update runs fn against the cached value and persists it when syncing
// (see ConfigIO.Update).
func (c *Config[T]) Update(fn func(*T) error) error {
	return c.io.Update(fn)
}

// PauseSync pauses syncing with the backing file.
func (c *Config[T]) PauseSync() {
	c.io.PauseSync()
}

// IsPaused reports whether syncing is off.
func (c *Config[T]) IsPaused() bool {
	return !c.io.Syncing()
}

// StartSync resumes syncing, optionally saving the cache right away.
func (c *Config[T]) StartSync(save bool) error {
	return c.io.StartSync(save)
}

// Save writes the cache to disk now.
func (c *Config[T]) Save() error {
	return c.io.SaveToDisk()
}

// Revert re-reads the backing file, discarding unsaved changes.
func (c *Config[T]) Revert() error {
	return c.io.ReadFromDisk(true)
}

// Equal reports whether both configs are backed by the same file.
func (c *Config[T]) Equal(other *Config[T]) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.io.Path() == other.io.Path()
}
