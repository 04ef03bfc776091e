package validate

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()

	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	jpegHeader := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0, 0, 0, 0, 0}
	webpHeader := append([]byte("RIFF"), 0, 0, 0, 0, 'W', 'E', 'B', 'P')

	tests := []struct {
		name    string
		content []byte
		want    Verdict
	}{
		{"photo.png", pngHeader, Valid},
		{"photo.jpg", jpegHeader, Valid},
		{"photo.jpeg", jpegHeader, Valid},
		{"anim.gif", []byte("GIF89a..data"), Valid},
		{"anim87.gif", []byte("GIF87a..data"), Valid},
		{"pic.webp", webpHeader, Valid},
		{"renamed.png", jpegHeader, Invalid},
		{"truncated.png", pngHeader[:4], Invalid},
		{"empty.jpg", nil, Invalid},
		{"riff-but-not-webp.webp", append([]byte("RIFF"), 0, 0, 0, 0, 'W', 'A', 'V', 'E'), Invalid},
		{"notes.txt", []byte("hello"), NotAllowed},
		{"archive.zip", []byte("PK\x03\x04"), NotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name, tt.content)
			got, err := Classify(path)
			if err != nil {
				t.Fatalf("Classify(%s) returned error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("Classify(%s): expected %v, got %v", tt.name, tt.want, got)
			}
		})
	}
}

func TestClassifyCaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "UPPER.PNG", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})

	got, err := Classify(path)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if got != Valid {
		t.Errorf("Expected Valid for uppercase extension, got %v", got)
	}
}

func TestClassifyUnreadableFile(t *testing.T) {
	_, err := Classify(filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestAllowedExtensions(t *testing.T) {
	exts := AllowedExtensions()
	if len(exts) == 0 {
		t.Fatal("Expected at least one allowed extension")
	}
	seen := make(map[string]bool)
	for _, ext := range exts {
		seen[ext] = true
	}
	for _, want := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if !seen[want] {
			t.Errorf("Expected %s in allowed extensions", want)
		}
	}
}
