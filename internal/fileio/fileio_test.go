package fileio

import (
	"testing"

	"github.com/absfs/memfs"
)

func newFS(t *testing.T) *memfs.FileSystem {
	t.Helper()
	fs, err := memfs.NewFS()
	if err != nil {
		t.Fatalf("memfs.NewFS: %v", err)
	}
	return fs
}

func TestWriteAllThenReadExact(t *testing.T) {
	fs := newFS(t)

	f, err := CreateForWrite(fs, "record")
	if err != nil {
		t.Fatalf("CreateForWrite: %v", err)
	}
	payload := []byte("0123456789abcdef")
	if err := WriteAll(f, payload); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rf, err := OpenForRead(fs, "record")
	if err != nil {
		t.Fatalf("OpenForRead: %v", err)
	}
	defer rf.Close()

	buf := make([]byte, len(payload))
	if err := ReadExact(rf, buf); err != nil {
		t.Fatalf("ReadExact: %v", err)
	}
	if string(buf) != string(payload) {
		t.Fatalf("ReadExact = %q, want %q", buf, payload)
	}
}

func TestReadExactFailsOnShortFile(t *testing.T) {
	fs := newFS(t)

	f, err := CreateForWrite(fs, "short")
	if err != nil {
		t.Fatalf("CreateForWrite: %v", err)
	}
	if err := WriteAll(f, []byte("only four")); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	f.Close()

	rf, err := OpenForRead(fs, "short")
	if err != nil {
		t.Fatalf("OpenForRead: %v", err)
	}
	defer rf.Close()

	buf := make([]byte, 100)
	if err := ReadExact(rf, buf); err == nil {
		t.Fatal("expected ReadExact to fail on a short file")
	}
}

func TestCreateForWriteFailsIfExists(t *testing.T) {
	fs := newFS(t)

	f, err := CreateForWrite(fs, "dup")
	if err != nil {
		t.Fatalf("first CreateForWrite: %v", err)
	}
	f.Close()

	if _, err := CreateForWrite(fs, "dup"); err == nil {
		t.Fatal("expected the second CreateForWrite to fail with O_EXCL semantics")
	}
}

func TestExists(t *testing.T) {
	fs := newFS(t)

	ok, err := Exists(fs, "nope")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Fatal("Exists reported true for a file that was never created")
	}

	f, err := CreateForWrite(fs, "here")
	if err != nil {
		t.Fatalf("CreateForWrite: %v", err)
	}
	f.Close()

	ok, err = Exists(fs, "here")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Fatal("Exists reported false for a file that was just created")
	}
}

func TestRemoveTreeRemovesFile(t *testing.T) {
	fs := newFS(t)

	f, err := CreateForWrite(fs, "gone")
	if err != nil {
		t.Fatalf("CreateForWrite: %v", err)
	}
	f.Close()

	if err := RemoveTree(fs, "gone"); err != nil {
		t.Fatalf("RemoveTree: %v", err)
	}
	ok, err := Exists(fs, "gone")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Fatal("file still exists after RemoveTree")
	}
}
