package wall

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/dotblox/codewall/internal/logging"
)

// FileSystem is the set of filesystem operations Code Wall performs.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	Mkdir(path string) error
	Create(path string) error
	MkdirAll(path string) error
	Move(src, dst string) error
	Copy(src, dst string) error
	Remove(path string) error
	RemoveAll(path string) error
}

// OSFileSystem operates on the local filesystem.
type OSFileSystem struct{}

// Stat implements FileSystem.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadDir implements FileSystem.
func (OSFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// Mkdir implements FileSystem.
func (OSFileSystem) Mkdir(path string) error {
	logging.LogFileOp("mkdir", path, "", false)
	return os.Mkdir(path, 0755)
}

// Create makes an empty file, failing when path exists.
func (OSFileSystem) Create(path string) error {
	logging.LogFileOp("create", path, "", false)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

// MkdirAll implements FileSystem.
func (OSFileSystem) MkdirAll(path string) error {
	logging.LogFileOp("mkdir", path, "", false)
	return os.MkdirAll(path, 0755)
}

// Move renames src to dst, falling back to copy and delete across devices.
func (o OSFileSystem) Move(src, dst string) error {
	logging.LogFileOp("move", src, dst, false)
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyPath(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

// Copy copies a file or a directory tree.
func (OSFileSystem) Copy(src, dst string) error {
	logging.LogFileOp("copy", src, dst, false)
	return copyPath(src, dst)
}

// Remove implements FileSystem.
func (OSFileSystem) Remove(path string) error {
	logging.LogFileOp("delete", path, "", false)
	return os.Remove(path)
}

// RemoveAll implements FileSystem.
func (OSFileSystem) RemoveAll(path string) error {
	logging.LogFileOp("delete", path, "", false)
	return os.RemoveAll(path)
}

func copyPath(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(src, dst, info.Mode().Perm())
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, fi.Mode().Perm())
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

// DryRunFileSystem reads through to FS but only logs mutations.
type DryRunFileSystem struct {
	FS FileSystem
}

// Stat implements FileSystem.
func (d DryRunFileSystem) Stat(path string) (fs.FileInfo, error) {
	return d.FS.Stat(path)
}

// ReadDir implements FileSystem.
func (d DryRunFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return d.FS.ReadDir(path)
}

// Mkdir implements FileSystem.
func (DryRunFileSystem) Mkdir(path string) error {
	logging.LogFileOp("mkdir", path, "", true)
	return nil
}

// Create implements FileSystem.
func (DryRunFileSystem) Create(path string) error {
	logging.LogFileOp("create", path, "", true)
	return nil
}

// MkdirAll implements FileSystem.
func (DryRunFileSystem) MkdirAll(path string) error {
	logging.LogFileOp("mkdir", path, "", true)
	return nil
}

// Move implements FileSystem.
func (DryRunFileSystem) Move(src, dst string) error {
	logging.LogFileOp("move", src, dst, true)
	return nil
}

// Copy implements FileSystem.
func (DryRunFileSystem) Copy(src, dst string) error {
	logging.LogFileOp("copy", src, dst, true)
	return nil
}

// Remove implements FileSystem.
func (DryRunFileSystem) Remove(path string) error {
	logging.LogFileOp("delete", path, "", true)
	return nil
}

// RemoveAll implements FileSystem.
func (DryRunFileSystem) RemoveAll(path string) error {
	logging.LogFileOp("delete", path, "", true)
	return nil
}

func exists(fsys FileSystem, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}

func isDir(fsys FileSystem, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}
