package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicFileCommit(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "nested", "doc.xml")

	f, err := CreateAtomic(dst)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("<document/>"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("destination must not exist before commit, stat err=%v", err)
	}
	if err := f.Commit(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "<document/>" {
		t.Fatalf("content mismatch: got %q", got)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o600 != 0o600 {
		t.Fatalf("expected owner read/write, got %o", info.Mode().Perm())
	}
	if err := f.Commit(); err == nil {
		t.Fatal("expected second commit to fail")
	}
	if err := f.Abort(); err != nil {
		t.Fatalf("abort after commit: %v", err)
	}
	assertNoTemps(t, filepath.Dir(dst))
}

func TestAtomicFileReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "doc.xml")
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := CreateAtomic(dst)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("new"); err != nil {
		t.Fatal(err)
	}
	if err := f.Commit(); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestAtomicFileAbort(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "doc.xml")
	if err := os.WriteFile(dst, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := CreateAtomic(dst)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("partial"); err != nil {
		t.Fatal(err)
	}
	if err := f.Abort(); err != nil {
		t.Fatal(err)
	}
	if err := f.Abort(); err != nil {
		t.Fatalf("second abort: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "previous" {
		t.Fatalf("abort must keep the previous file, got %q", got)
	}
	assertNoTemps(t, dir)
}

func assertNoTemps(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatalf("temporary files left behind: %v", matches)
	}
}
