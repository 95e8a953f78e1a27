package wall

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dotblox/codewall/internal/logging"
	"github.com/dotblox/codewall/internal/runner"
)

// DefaultArchiveFolder receives archived files under a tab root.
const DefaultArchiveFolder = "__archive"

var (
	// ErrEmptyName is returned when no name was given.
	ErrEmptyName = errors.New("no name specified")
	// ErrExists is returned when the target path is already taken.
	ErrExists = errors.New("path already exists")
	// ErrInvalidName is returned for names that would escape the folder.
	ErrInvalidName = errors.New("invalid name")
	// ErrNoRunner is returned by Run when no runner is configured.
	ErrNoRunner = errors.New("no script runner configured")
	// ErrInvalidTarget is returned when a folder is dropped into itself.
	ErrInvalidTarget = errors.New("cannot drop a folder into itself")
)

// DropAction says what happens to files dropped onto a folder.
type DropAction int

const (
	DropMove DropAction = iota
	DropCopy
)

// Options configures a Wall.
type Options struct {
	FS            FileSystem
	Runner        runner.Runner
	NameFilters   []string
	ArchiveFolder string
}

// Wall performs the file operations behind the Code Wall views.
type Wall struct {
	fs            FileSystem
	runner        runner.Runner
	nameFilters   []string
	archiveFolder string
}

// New creates a Wall. Unset options fall back to the local filesystem, the
// *.py and *.mel filters and the __archive folder.
func New(opts Options) *Wall {
	w := &Wall{
		fs:            opts.FS,
		runner:        opts.Runner,
		nameFilters:   opts.NameFilters,
		archiveFolder: opts.ArchiveFolder,
	}
	if w.fs == nil {
		w.fs = OSFileSystem{}
	}
	if len(w.nameFilters) == 0 {
		w.nameFilters = []string{"*.py", "*.mel"}
	}
	if w.archiveFolder == "" {
		w.archiveFolder = DefaultArchiveFolder
	}
	return w
}

// FS returns the filesystem the wall operates on.
func (w *Wall) FS() FileSystem {
	return w.fs
}

// ValidateName checks that name can be created inside parent and returns the
// resulting path.
func (w *Wall) ValidateName(parent, name string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := filepath.Join(parent, name)
	if exists(w.fs, path) {
		return path, fmt.Errorf("%w: %s", ErrExists, path)
	}
	return path, nil
}

// CreateFolder creates name inside parent.
func (w *Wall) CreateFolder(parent, name string) (string, error) {
	path, err := w.ValidateName(parent, name)
	if err != nil {
		return "", err
	}
	if err := w.fs.Mkdir(path); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	return path, nil
}

// CreateFolderDialog asks for a folder name until a valid one is given or the
// user cancels. The boolean is false on cancel.
func (w *Wall) CreateFolderDialog(parent string, p Prompter) (string, bool, error) {
	for {
		name, ok := p.Prompt(titleNewFolder, "Folder Name:", "")
		if !ok {
			return "", false, nil
		}

		path, err := w.CreateFolder(parent, name)
		switch {
		case errors.Is(err, ErrEmptyName):
			p.Notify(titleInvalid, "No name specified.")
		case errors.Is(err, ErrExists):
			p.Notify(titleInvalid, "Folder already exists!")
		case errors.Is(err, ErrInvalidName):
			p.Notify(titleInvalid, "Folder names cannot contain path separators.")
		case err != nil:
			return "", false, err
		default:
			return path, true, nil
		}
	}
}

// CreateScript creates an empty script inside parent. A name without a
// script extension gets the extension of lang.
func (w *Wall) CreateScript(parent, name string, lang runner.Language) (string, error) {
	if name != "" {
		if _, ok := runner.DetectLanguage(name); !ok {
			name += lang.Ext()
		}
	}
	path, err := w.ValidateName(parent, name)
	if err != nil {
		return "", err
	}
	if err := w.fs.Create(path); err != nil {
		return "", fmt.Errorf("failed to create script: %w", err)
	}
	return path, nil
}

// CreateScriptDialog asks for a script name until a valid one is given or the
// user cancels. The boolean is false on cancel.
func (w *Wall) CreateScriptDialog(parent string, lang runner.Language, p Prompter) (string, bool, error) {
	for {
		name, ok := p.Prompt(titleNewScript, "Script Name:", "")
		if !ok {
			return "", false, nil
		}

		path, err := w.CreateScript(parent, name, lang)
		switch {
		case errors.Is(err, ErrEmptyName):
			p.Notify(titleInvalid, "No name specified.")
		case errors.Is(err, ErrExists):
			p.Notify(titleInvalid, "Script already exists!")
		case errors.Is(err, ErrInvalidName):
			p.Notify(titleInvalid, "Script names cannot contain path separators.")
		case err != nil:
			return "", false, err
		default:
			return path, true, nil
		}
	}
}

// Rename renames path to newName inside the same folder. A file keeps its
// extension when newName has none.
func (w *Wall) Rename(path, newName string) (string, error) {
	if newName != "" && filepath.Ext(newName) == "" && !isDir(w.fs, path) {
		newName += filepath.Ext(path)
	}
	target, err := w.ValidateName(filepath.Dir(path), newName)
	if err != nil {
		return "", err
	}
	if err := w.fs.Move(path, target); err != nil {
		return "", fmt.Errorf("failed to rename: %w", err)
	}
	return target, nil
}

// RenameDialog asks for a new name, pre-filled with the current name without
// its extension, until a valid one is given or the user cancels.
func (w *Wall) RenameDialog(path string, p Prompter) (string, bool, error) {
	base := filepath.Base(path)
	initial := strings.TrimSuffix(base, filepath.Ext(base))
	title := base

	for {
		name, ok := p.Prompt("Code Wall: Rename "+title, "New Name:", initial)
		if !ok {
			return "", false, nil
		}

		target, err := w.Rename(path, name)
		switch {
		case errors.Is(err, ErrEmptyName):
			p.Notify(titleInvalid, "No Name specified")
		case errors.Is(err, ErrExists):
			p.Notify(titleInvalid, "Path already exists!")
		case errors.Is(err, ErrInvalidName):
			p.Notify(titleInvalid, "Names cannot contain path separators.")
		case err != nil:
			return "", false, err
		default:
			return target, true, nil
		}
		title = name
		initial = name
	}
}

// ArchiveDir returns the archive folder of a tab root.
func (w *Wall) ArchiveDir(root string) string {
	return filepath.Join(root, w.archiveFolder)
}

// Archive moves path into the archive folder of root, creating it if needed.
// An existing archived file of the same name is kept; the new one gets a
// numbered suffix.
func (w *Wall) Archive(path, root string) (string, error) {
	archive := w.ArchiveDir(root)
	if !exists(w.fs, archive) {
		if err := w.fs.MkdirAll(archive); err != nil {
			return "", fmt.Errorf("failed to create archive folder: %w", err)
		}
	}

	target := w.uniquePath(filepath.Join(archive, filepath.Base(path)))
	if err := w.fs.Move(path, target); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", path, err)
	}
	return target, nil
}

// Delete removes a file, or a folder with everything in it.
func (w *Wall) Delete(path string) error {
	var err error
	if isDir(w.fs, path) {
		err = w.fs.RemoveAll(path)
	} else {
		err = w.fs.Remove(path)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// Remove asks c whether to archive or delete path and does it. Archiving is
// offered only when archiveRoot is set. The returned path is where an archived
// item ended up, or path itself when it was deleted.
func (w *Wall) Remove(path, archiveRoot string, c Confirmer) (Choice, string, error) {
	message := fmt.Sprintf("Are you sure you want to delete %s", filepath.Base(path))
	choice := c.ConfirmRemove(titleDelete, message, archiveRoot != "")

	switch choice {
	case ChoiceArchive:
		if archiveRoot == "" {
			return ChoiceCancel, "", nil
		}
		archived, err := w.Archive(path, archiveRoot)
		return choice, archived, err
	case ChoiceDelete:
		return choice, path, w.Delete(path)
	default:
		return ChoiceCancel, "", nil
	}
}

// Drop moves or copies srcs into dst. When dst is a file its folder is used.
// Items are processed in order and the first failure stops the drop.
func (w *Wall) Drop(srcs []string, dst string, action DropAction) ([]string, error) {
	folder := w.FolderFor(dst)
	var done []string

	for _, src := range srcs {
		if within(folder, src) {
			return done, fmt.Errorf("%w: %s into %s", ErrInvalidTarget, src, folder)
		}
		target := filepath.Join(folder, filepath.Base(src))
		if filepath.Clean(src) == filepath.Clean(target) {
			continue
		}
		if exists(w.fs, target) {
			return done, fmt.Errorf("%w: %s", ErrExists, target)
		}

		var err error
		if action == DropCopy {
			err = w.fs.Copy(src, target)
		} else {
			err = w.fs.Move(src, target)
		}
		if err != nil {
			return done, fmt.Errorf("failed to drop %s: %w", src, err)
		}
		done = append(done, target)
	}
	return done, nil
}

// FolderFor returns path itself for a folder and the parent for a file.
func (w *Wall) FolderFor(path string) string {
	if isDir(w.fs, path) {
		return path
	}
	return filepath.Dir(path)
}

// Run runs a script file. Files that are not scripts are ignored and yield a
// nil result.
func (w *Wall) Run(ctx context.Context, path string) (*runner.Result, error) {
	if isDir(w.fs, path) {
		return nil, nil
	}
	script, err := runner.NewScript(path)
	if err != nil {
		logging.Debug("Ignoring run request", zap.String("path", path))
		return nil, nil
	}
	if w.runner == nil {
		return nil, ErrNoRunner
	}
	return w.runner.Run(ctx, script)
}

// TabName returns the last depth components of root, slash separated.
func TabName(root string, depth int) string {
	path := strings.TrimRight(strings.ReplaceAll(root, `\`, "/"), "/")
	if depth < 1 {
		depth = 1
	}
	parts := strings.Split(path, "/")
	if len(parts) > depth {
		parts = parts[len(parts)-depth:]
	}
	name := strings.Join(parts, "/")
	if name == "" {
		return "/"
	}
	return name
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func (w *Wall) uniquePath(path string) string {
	if !exists(w.fs, path) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if !exists(w.fs, candidate) {
			return candidate
		}
	}
}
