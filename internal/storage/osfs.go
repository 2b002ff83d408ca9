// Package storage provides the vault's absfs.FileSystem-shaped backing
// store. FS is the production adapter over the real filesystem, rooted at
// a single directory; tests use github.com/absfs/memfs instead so the
// whole system/item file lifecycle can be exercised without touching
// disk. C7's file-I/O primitives are written only against the
// absfs.FileSystem/absfs.File interfaces, never against *os.File or
// path/filepath directly, so the two backends are interchangeable.
package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/absfs/absfs"
)

// FS implements absfs.FileSystem by rooting every path at a fixed
// directory on the real filesystem. It is grounded on the teacher's
// example simpleFS. OpenFile does not create missing parent directories;
// the vault never needs nested directories beyond the store root itself.
type FS struct {
	root string
}

// New returns an FS rooted at root. The root directory is not created
// here; callers (C9's Init) create it explicitly with the permissions
// the store requires.
func New(root string) *FS {
	return &FS{root: root}
}

// Root returns the filesystem's root directory.
func (fs *FS) Root() string { return fs.root }

// EnsureRoot creates the filesystem's root directory itself (not a path
// relative to it) with the given permissions, if it does not already
// exist. This is distinct from the absfs.FileSystem Mkdir/MkdirAll
// methods, which operate on paths relative to an already-existing root;
// the store's root directory is the one path FS cannot address relative
// to itself.
func (fs *FS) EnsureRoot(perm os.FileMode) error {
	return os.MkdirAll(fs.root, perm)
}

// RootExists reports whether the filesystem's root directory exists.
func (fs *FS) RootExists() (bool, error) {
	_, err := os.Stat(fs.root)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (fs *FS) resolve(name string) string {
	return filepath.Join(fs.root, name)
}

func (fs *FS) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	path := fs.resolve(name)
	return os.OpenFile(path, flag, perm)
}

func (fs *FS) Open(name string) (absfs.File, error) {
	return fs.OpenFile(name, os.O_RDONLY, 0)
}

func (fs *FS) Create(name string) (absfs.File, error) {
	return fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
}

func (fs *FS) Mkdir(name string, perm os.FileMode) error {
	return os.Mkdir(fs.resolve(name), perm)
}

func (fs *FS) MkdirAll(name string, perm os.FileMode) error {
	return os.MkdirAll(fs.resolve(name), perm)
}

func (fs *FS) Remove(name string) error {
	return os.Remove(fs.resolve(name))
}

func (fs *FS) RemoveAll(path string) error {
	return os.RemoveAll(fs.resolve(path))
}

func (fs *FS) Rename(oldpath, newpath string) error {
	return os.Rename(fs.resolve(oldpath), fs.resolve(newpath))
}

func (fs *FS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(fs.resolve(name))
}

func (fs *FS) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(fs.resolve(name), mode)
}

func (fs *FS) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(fs.resolve(name), atime, mtime)
}

func (fs *FS) Chown(name string, uid, gid int) error {
	return os.Chown(fs.resolve(name), uid, gid)
}

func (fs *FS) Truncate(name string, size int64) error {
	return os.Truncate(fs.resolve(name), size)
}

func (fs *FS) Separator() uint8 {
	return os.PathSeparator
}

func (fs *FS) ListSeparator() uint8 {
	return os.PathListSeparator
}

func (fs *FS) Chdir(dir string) error {
	return nil
}

func (fs *FS) Getwd() (string, error) {
	return "/", nil
}

func (fs *FS) TempDir() string {
	return os.TempDir()
}
