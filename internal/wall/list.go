package wall

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// Kind classifies an entry for display.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
	KindPythonPackage
	KindPython
	KindMEL
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindPythonPackage:
		return "package"
	case KindPython:
		return "python"
	case KindMEL:
		return "mel"
	default:
		return "file"
	}
}

// Entry is one item of a folder listing.
type Entry struct {
	Name        string
	Path        string
	IsDir       bool
	Kind        Kind
	HasChildren bool // Folders only: something visible inside
}

// Matches reports whether a file name passes the name filters.
func (w *Wall) Matches(name string) bool {
	for _, pattern := range w.nameFilters {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// List returns the folders and matching files directly inside dir, folders
// first, each group sorted by name.
func (w *Wall) List(dir string) ([]Entry, error) {
	items, err := w.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var entries []Entry
	for _, item := range items {
		path := filepath.Join(dir, item.Name())
		if item.IsDir() {
			entries = append(entries, Entry{
				Name:        item.Name(),
				Path:        path,
				IsDir:       true,
				Kind:        w.folderKind(path),
				HasChildren: w.hasChildren(path),
			})
			continue
		}
		if !w.Matches(item.Name()) {
			continue
		}
		entries = append(entries, Entry{
			Name: item.Name(),
			Path: path,
			Kind: fileKind(item.Name()),
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return entries, nil
}

// IsPythonPackage reports whether dir holds an __init__ module.
func (w *Wall) IsPythonPackage(dir string) bool {
	items, err := w.fs.ReadDir(dir)
	if err != nil {
		return false
	}
	return slices.ContainsFunc(items, func(item fs.DirEntry) bool {
		ok, _ := filepath.Match("__init__.*", item.Name())
		return ok && !item.IsDir()
	})
}

func (w *Wall) folderKind(dir string) Kind {
	if w.IsPythonPackage(dir) {
		return KindPythonPackage
	}
	return KindFolder
}

func (w *Wall) hasChildren(dir string) bool {
	items, err := w.fs.ReadDir(dir)
	if err != nil {
		return false
	}
	return slices.ContainsFunc(items, func(item fs.DirEntry) bool {
		return item.IsDir() || w.Matches(item.Name())
	})
}

func fileKind(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".py", ".pyc":
		return KindPython
	case ".mel":
		return KindMEL
	default:
		return KindFile
	}
}
