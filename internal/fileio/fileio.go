// Package fileio provides the vault's low-level file primitives: create
// exclusive, read exact, write-all-then-fsync, existence checks, and
// recursive removal. Every function is written against absfs.FileSystem
// and absfs.File so the production osfs backend and the memfs backend
// used in tests share exactly one code path.
//
// The reference C implementation retries read/write syscalls that return
// EINTR. Go's os package (which backs the production absfs.File) already
// retries interrupted reads and writes internally, so no retry loop is
// reproduced here. What this module adds instead is an invariant stricter
// than the reference's tolerant reads: every fixed-size field read
// by the system- and item-file managers must read exactly the requested
// number of bytes or fail, never silently accept a short read.
package fileio

import (
	"io"
	"os"

	"github.com/absfs/absfs"

	"github.com/narwhaltorpedo/pwm/internal/pwmerrors"
)

// CreateForWrite creates path exclusively (failing if it already exists)
// with mode 0600.
func CreateForWrite(fsys absfs.FileSystem, path string) (absfs.File, error) {
	f, err := fsys.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return nil, pwmerrors.NewInternalError("fileio.CreateForWrite", "could not create "+path, err)
	}
	return f, nil
}

// OpenForRead opens path read-only.
func OpenForRead(fsys absfs.FileSystem, path string) (absfs.File, error) {
	f, err := fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, pwmerrors.NewInternalError("fileio.OpenForRead", "could not open "+path, err)
	}
	return f, nil
}

// WriteAll writes every byte of buf to f and fsyncs once at the end. The
// fsync is the durability boundary the atomic-rewrite pattern depends on:
// callers must not rename a sibling temp file into place until WriteAll
// on it has returned successfully.
func WriteAll(f absfs.File, buf []byte) error {
	written := 0
	for written < len(buf) {
		n, err := f.Write(buf[written:])
		if err != nil {
			return pwmerrors.NewInternalError("fileio.WriteAll", "could not write to file", err)
		}
		written += n
	}
	if err := f.Sync(); err != nil {
		return pwmerrors.NewInternalError("fileio.WriteAll", "could not flush to disk", err)
	}
	return nil
}

// ReadAll reads into buf until it is full or the file is exhausted,
// returning however many bytes were actually read. It does not treat a
// short read as an error by itself -- ReadExact is the strict variant
// every fixed-size field in the on-disk formats must use.
func ReadAll(f absfs.File, buf []byte) (int, error) {
	read := 0
	for read < len(buf) {
		n, err := f.Read(buf[read:])
		read += n
		if err != nil {
			if err == io.EOF {
				break
			}
			return read, pwmerrors.NewInternalError("fileio.ReadAll", "could not read from file", err)
		}
		if n == 0 {
			break
		}
	}
	return read, nil
}

// ReadExact reads exactly len(buf) bytes from f or fails. Every
// fixed-length field in the system and item file formats (salts, tags,
// ciphertexts, ciphertext-length plaintext blocks) is read with this
// function; a short read anywhere in a fixed field means the store is
// corrupt, not that the caller should silently proceed with a partial
// value.
func ReadExact(f absfs.File, buf []byte) error {
	n, err := ReadAll(f, buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return pwmerrors.NewCorruptionError("", "short read: expected exact-length field", nil)
	}
	return nil
}

// Exists reports whether path exists, distinguishing "no such entry" from
// any other stat failure, which is treated as fatal.
func Exists(fsys absfs.FileSystem, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, pwmerrors.NewInternalError("fileio.Exists", "could not stat "+path, err)
}

// RemoveTree removes path. If path is a regular file it is removed
// directly; otherwise (a directory) the whole subtree is removed.
func RemoveTree(fsys absfs.FileSystem, path string) error {
	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return pwmerrors.NewInternalError("fileio.RemoveTree", "could not stat "+path, err)
	}

	if !info.IsDir() {
		if err := fsys.Remove(path); err != nil {
			return pwmerrors.NewInternalError("fileio.RemoveTree", "could not remove "+path, err)
		}
		return nil
	}

	if err := fsys.RemoveAll(path); err != nil {
		return pwmerrors.NewInternalError("fileio.RemoveTree", "could not remove directory "+path, err)
	}
	return nil
}
