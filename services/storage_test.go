package services

import (
	"os"
	"strings"
	"testing"
)

func TestLocalStorageStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage returned error: %v", err)
	}

	content := "pdf-bytes"
	stored, err := store.Store(strings.NewReader(content), "documents", "laporan 2024.PDF")
	if err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	if !strings.HasPrefix(stored, "documents/") {
		t.Fatalf("stored path %q not under namespace", stored)
	}
	if !strings.HasSuffix(stored, ".pdf") {
		t.Fatalf("stored path %q did not keep the extension", stored)
	}
	if !store.Exists(stored) {
		t.Fatalf("Exists(%q) = false after Store", stored)
	}

	data, err := os.ReadFile(store.FullPath(stored))
	if err != nil {
		t.Fatalf("reading stored blob: %v", err)
	}
	if string(data) != content {
		t.Fatalf("stored blob = %q, want %q", data, content)
	}
}

func TestLocalStorageStoreGeneratesUniqueNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage returned error: %v", err)
	}

	a, err := store.Store(strings.NewReader("a"), "documents", "same.pdf")
	if err != nil {
		t.Fatalf("first Store returned error: %v", err)
	}
	b, err := store.Store(strings.NewReader("b"), "documents", "same.pdf")
	if err != nil {
		t.Fatalf("second Store returned error: %v", err)
	}
	if a == b {
		t.Fatalf("two uploads of the same name share the path %q", a)
	}
}

func TestLocalStorageDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage returned error: %v", err)
	}

	stored, err := store.Store(strings.NewReader("x"), "documents", "x.pdf")
	if err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	if !store.Delete(stored) {
		t.Fatalf("Delete(%q) = false for existing blob", stored)
	}
	if store.Exists(stored) {
		t.Fatalf("Exists(%q) = true after Delete", stored)
	}
	if store.Delete(stored) {
		t.Fatalf("Delete(%q) = true for missing blob", stored)
	}
	if store.Delete("") {
		t.Fatal("Delete(\"\") = true")
	}
}
