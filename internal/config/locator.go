package config

import (
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// SearchPathEnvVar lists extra directories searched for config files, separated
// by the OS path list separator.
const SearchPathEnvVar = "CODEWALL_PATH"

// StatFunc probes a candidate path. Only the error is inspected.
type StatFunc func(path string) (os.FileInfo, error)

// Locator resolves a file name against an ordered search path.
type Locator struct {
	searchPath []string
	stat       StatFunc
}

// LocatorOption customizes a Locator.
type LocatorOption func(*Locator)

// WithStat replaces the existence probe (os.Stat by default).
func WithStat(stat StatFunc) LocatorOption {
	return func(l *Locator) {
		l.stat = stat
	}
}

// NewLocator creates a Locator over a copy of searchPath.
func NewLocator(searchPath []string, opts ...LocatorOption) *Locator {
	l := &Locator{
		searchPath: slices.Clone(searchPath),
		stat:       os.Stat,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SearchPath returns the directories in probe order, slash-normalized and
// deduplicated.
func (l *Locator) SearchPath() []string {
	var dirs []string
	for dir := range l.dirs() {
		dirs = append(dirs, dir)
	}
	return dirs
}

func (l *Locator) dirs() iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{}, len(l.searchPath))
		for _, dir := range l.searchPath {
			dir = toSlash(dir)
			if _, ok := seen[dir]; ok {
				continue
			}
			seen[dir] = struct{}{}
			if !yield(dir) {
				return
			}
		}
	}
}

// Candidates yields every existing dir/name along the search path. Directories
// are probed one at a time as the sequence is consumed.
func (l *Locator) Candidates(name string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for dir := range l.dirs() {
			candidate := joinSlash(dir, name)
			if _, err := l.stat(candidate); err != nil {
				continue
			}
			if !yield(candidate) {
				return
			}
		}
	}
}

// FindAll returns every match in search path order.
func (l *Locator) FindAll(name string) []string {
	var found []string
	for candidate := range l.Candidates(name) {
		found = append(found, candidate)
	}
	return found
}

// FindOne returns the first match. The boolean is false when nothing matched.
func (l *Locator) FindOne(name string) (string, bool) {
	next, stop := iter.Pull(l.Candidates(name))
	defer stop()
	return next()
}

// SearchPathFromEnv splits the named environment variable into directories.
func SearchPathFromEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var dirs []string
	for _, dir := range filepath.SplitList(value) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func joinSlash(dir, name string) string {
	if dir == "" {
		return toSlash(name)
	}
	return toSlash(strings.TrimSuffix(dir, "/") + "/" + name)
}
