package services

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempWad(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write temp wad: %v", err)
	}
	return path
}

func TestWadStoreIngestAndFetch(t *testing.T) {
	store := NewWadStore(t.TempDir(), "")
	temp := writeTempWad(t, t.TempDir(), "upload-1", []byte("PWADcontent"))

	if err := store.Ingest(5, temp, "cool.wad"); err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if _, err := os.Stat(temp); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be moved, stat err: %v", err)
	}

	wad, err := store.Fetch(5)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if wad.Filename != "cool.wad" {
		t.Fatalf("expected original filename, got %q", wad.Filename)
	}
	if string(wad.Content) != "PWADcontent" {
		t.Fatalf("unexpected content: %q", wad.Content)
	}
}

func TestWadStoreFetchMissingEntry(t *testing.T) {
	store := NewWadStore(t.TempDir(), "")

	_, err := store.Fetch(99)
	if err == nil {
		t.Fatal("expected error for missing entry")
	}
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestWadStoreDeleteRemovesNamespace(t *testing.T) {
	store := NewWadStore(t.TempDir(), "")
	temp := writeTempWad(t, t.TempDir(), "upload-2", []byte("IWADdata"))

	if err := store.Ingest(7, temp, "map.wad"); err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if err := store.Delete(7); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Fetch(7); KindOf(err) != KindNotFound {
		t.Fatalf("expected not-found after delete, got %v", err)
	}

	// deleting an absent namespace is not an error
	if err := store.Delete(7); err != nil {
		t.Fatalf("repeat Delete returned error: %v", err)
	}
}

func TestWadStoreValidateSignature(t *testing.T) {
	dir := t.TempDir()
	store := NewWadStore(t.TempDir(), "IWAD,PWAD")

	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"iwad header", []byte("IWAD....rest"), true},
		{"pwad header", []byte("PWADlevels"), true},
		{"wrong header", []byte("ZIPXdata"), false},
		{"short file", []byte("PW"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempWad(t, dir, "sig-"+tt.name, tt.content)
			got, err := store.ValidateSignature(path)
			if err != nil {
				t.Fatalf("ValidateSignature returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ValidateSignature = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWadStoreNoAllowListAlwaysPasses(t *testing.T) {
	store := NewWadStore(t.TempDir(), "")
	path := writeTempWad(t, t.TempDir(), "anything", []byte("not a wad at all"))

	ok, err := store.ValidateSignature(path)
	if err != nil {
		t.Fatalf("ValidateSignature returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected unrestricted store to accept any signature")
	}
}
