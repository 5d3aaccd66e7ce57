package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestDiskStore_RoundTrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore error: %v", err)
	}
	ctx := context.Background()

	data := []byte{0x89, 0x50, 0x4e, 0x47}
	if err := store.Save(ctx, "a.png", data); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := store.Load(ctx, "a.png")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: %v != %v", got, data)
	}
}

func TestDiskStore_LoadMissing(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore error: %v", err)
	}

	_, err = store.Load(context.Background(), "ghost.png")
	if !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("want ErrBlobNotFound, got %v", err)
	}
}

func TestDiskStore_DeleteIdempotent(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore error: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "a.png", []byte("x")); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Delete(ctx, "a.png"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	// deleting a missing blob is not an error
	if err := store.Delete(ctx, "a.png"); err != nil {
		t.Fatalf("second Delete error: %v", err)
	}
}

func TestDiskStore_IgnoresPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore error: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "../../etc/evil.png", []byte("x")); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	// the blob must land inside the store directory
	if _, err := store.Load(ctx, "evil.png"); err != nil {
		t.Fatalf("Load error: %v", err)
	}
}
