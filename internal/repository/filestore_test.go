package repository

import (
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, ok, err := fs.GetBytes("missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := fs.SetBytes("queue:state", []byte(`[{"id":"1"}]`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, ok, err := fs.GetBytes("queue:state")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(b) != `[{"id":"1"}]` {
		t.Fatalf("got %q", b)
	}
}

func TestFileStoreKeySanitization(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	// Separator characters in keys must not escape the store directory.
	if err := fs.SetBytes("a/b:c", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, ok, err := fs.GetBytes("a/b:c")
	if err != nil || !ok || string(b) != "v" {
		t.Fatalf("get: %q ok=%v err=%v", b, ok, err)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := fs.SetBytes("k", []byte("one"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := fs.SetBytes("k", []byte("two"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, _, _ := fs.GetBytes("k")
	if string(b) != "two" {
		t.Fatalf("got %q", b)
	}
}
