package kvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := store.Set(ctx, "el_habassi_lang", []byte("fr")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := store.Get(ctx, "el_habassi_lang")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != "fr" {
		t.Fatalf("expected fr, got %q", got)
	}

	// Overwrite replaces, not appends
	if err := store.Set(ctx, "el_habassi_lang", []byte("en")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, _ = store.Get(ctx, "el_habassi_lang")
	if string(got) != "en" {
		t.Fatalf("expected en after overwrite, got %q", got)
	}

	if err := store.Delete(ctx, "el_habassi_lang"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "el_habassi_lang"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileStore_DeleteMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if err := store.Delete(context.Background(), "never_written"); err != nil {
		t.Fatalf("deleting a missing key must be a no-op, got %v", err)
	}
}

func TestFileStore_KeysCannotEscapeBaseDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if err := store.Set(context.Background(), "../escape", []byte("x")); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.json")); err == nil {
		t.Fatal("key with path traversal escaped the base directory")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file inside the base directory, got %d", len(entries))
	}
}
