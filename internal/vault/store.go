package vault

import (
	"github.com/absfs/absfs"

	"github.com/narwhaltorpedo/pwm/internal/fileio"
	"github.com/narwhaltorpedo/pwm/internal/ui"
)

// System-directory entry names. systemFileName and tempFileName are
// reserved: List skips both when enumerating item files.
const (
	systemFileName = "system"
	tempFileName   = "temp"
)

// Store ties together the backing filesystem and the terminal UI
// collaborator that C9/C10's interactive operations call into.
type Store struct {
	fsys absfs.FileSystem
	ui   ui.Interface
}

// New builds a Store over fsys, using iface for every prompt.
func New(fsys absfs.FileSystem, iface ui.Interface) *Store {
	return &Store{fsys: fsys, ui: iface}
}

// CleanupStaleTemp removes a leftover temp scratch file from a prior
// crash between writing the temp path and renaming it over the live
// target. It is safe to call at process startup before the store has
// even been verified to exist.
func (s *Store) CleanupStaleTemp() error {
	exists, err := fileio.Exists(s.fsys, tempFileName)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return s.fsys.Remove(tempFileName)
}

// atomicWrite writes buf to the reserved temp path, fsyncs and closes it,
// then renames it over target. The rename is the commit point: a crash
// before it leaves target untouched and a stale temp file for the next
// CleanupStaleTemp to remove; a crash after it is indistinguishable from
// a clean write.
func (s *Store) atomicWrite(target string, buf []byte) error {
	f, err := fileio.CreateForWrite(s.fsys, tempFileName)
	if err != nil {
		return err
	}
	if err := fileio.WriteAll(f, buf); err != nil {
		f.Close()
		s.fsys.Remove(tempFileName)
		return err
	}
	if err := closeFn(f); err != nil {
		s.fsys.Remove(tempFileName)
		return err
	}
	return s.fsys.Rename(tempFileName, target)
}
