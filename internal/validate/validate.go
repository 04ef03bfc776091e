// Package validate classifies candidate files before upload is attempted,
// so obviously broken files never cost a network round trip.
package validate

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Verdict is the classification of a candidate file.
type Verdict int

const (
	// Valid - extension is allowed and the file content matches it
	Valid Verdict = iota
	// Invalid - extension is allowed but the content does not match
	// (wrong magic number, truncated header, renamed file)
	Invalid
	// NotAllowed - extension is not in the allowed set
	NotAllowed
)

func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case NotAllowed:
		return "not allowed"
	default:
		return "unknown"
	}
}

// magicNumbers maps a normalized extension to the file signatures that
// content with that extension must start with.
var magicNumbers = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {[]byte("GIF87a"), []byte("GIF89a")},
	".webp": {[]byte("RIFF")},
}

// headerLen is the longest signature we need to read.
const headerLen = 12

// Classify inspects path and reports whether it looks like an image we can
// upload. The check is extension first, then a magic-number comparison of
// the leading bytes. An unreadable file is an error, not a verdict.
func Classify(path string) (Verdict, error) {
	ext := strings.ToLower(filepath.Ext(path))
	sigs, ok := magicNumbers[ext]
	if !ok {
		return NotAllowed, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Invalid, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, headerLen)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return Invalid, fmt.Errorf("failed to read %s: %w", path, err)
	}
	header = header[:n]

	for _, sig := range sigs {
		if bytes.HasPrefix(header, sig) {
			// WebP files are RIFF containers; the format tag sits at
			// offset 8.
			if ext == ".webp" && !bytes.Equal(headerSlice(header, 8, 12), []byte("WEBP")) {
				continue
			}
			return Valid, nil
		}
	}
	return Invalid, nil
}

func headerSlice(b []byte, start, end int) []byte {
	if len(b) < end {
		return nil
	}
	return b[start:end]
}

// AllowedExtensions returns the normalized extensions Classify accepts.
func AllowedExtensions() []string {
	exts := make([]string, 0, len(magicNumbers))
	for ext := range magicNumbers {
		exts = append(exts, ext)
	}
	return exts
}
