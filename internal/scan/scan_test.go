package scan

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.jpg", "c.txt", "d.PNG"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	got, err := List(dir, []string{".png", "jpg"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	want := []string{"a.jpg", "b.png", "d.PNG"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestListNoFilter(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one.bin", "two.dat"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}

	got, err := List(dir, nil)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 files with no filter, got %d", len(got))
	}
}

func TestListMissingDirectory(t *testing.T) {
	if _, err := List(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}
