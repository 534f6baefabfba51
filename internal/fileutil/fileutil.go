// Package fileutil writes output files so readers never observe a partial
// document.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AtomicFile buffers writes in a temporary sibling of the destination and
// renames it into place on Commit.
type AtomicFile struct {
	*os.File
	dst  string
	mode os.FileMode
	done bool
}

// CreateAtomic opens a temporary file next to dst with default permissions (0o644).
func CreateAtomic(dst string) (*AtomicFile, error) {
	return CreateAtomicMode(dst, 0o644)
}

// CreateAtomicMode opens a temporary file next to dst; Commit applies mode.
func CreateAtomicMode(dst string, mode os.FileMode) (*AtomicFile, error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &AtomicFile{File: tmp, dst: dst, mode: mode}, nil
}

// Destination returns the final path of the file.
func (f *AtomicFile) Destination() string {
	return f.dst
}

// Commit syncs and closes the temporary file, then renames it over the
// destination. A failed commit removes the temporary file.
func (f *AtomicFile) Commit() error {
	if f.done {
		return errors.New("atomic file already finished")
	}
	f.done = true
	tmp := f.Name()
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Chmod(tmp, f.mode); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename to %s: %w", f.dst, err)
	}
	return nil
}

// Abort discards the temporary file. Calling Abort after Commit is a no-op.
func (f *AtomicFile) Abort() error {
	if f.done {
		return nil
	}
	f.done = true
	_ = f.Close()
	if err := os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
