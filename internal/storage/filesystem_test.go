package storage

import (
	"context"
	"errors"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	ctx := context.Background()
	key, err := store.Write(ctx, "covers/wedding-1.jpg", []byte("jpeg bytes"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if key != "covers/wedding-1.jpg" {
		t.Fatalf("key = %q, want %q", key, "covers/wedding-1.jpg")
	}

	data, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Fatalf("data = %q, want %q", data, "jpeg bytes")
	}
}

func TestReadMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if _, err := store.Read(context.Background(), "covers/nope.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSanitizeKeyRejectsTraversal(t *testing.T) {
	for _, key := range []string{"", "../etc/passwd", "a/../../b", "."} {
		if _, err := sanitizeKey(key); err == nil {
			t.Fatalf("sanitizeKey(%q) accepted a bad key", key)
		}
	}
	got, err := sanitizeKey("/covers//wedding.jpg")
	if err != nil {
		t.Fatalf("sanitizeKey returned error: %v", err)
	}
	if got != "covers/wedding.jpg" {
		t.Fatalf("sanitizeKey = %q, want %q", got, "covers/wedding.jpg")
	}
}
