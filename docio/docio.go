// Package docio reads and writes documents under the shell's open policy:
// a fixed size ceiling checked before reading, and UTF-8 decoding with a
// permissive single-byte fallback so legacy files always open.
package docio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// MaxFileSize is the largest document the shell will open (10 MiB).
const MaxFileSize int64 = 10 * 1024 * 1024

// ErrNotExist reports a path that no longer exists on disk.
var ErrNotExist = errors.New("File no longer exists")

// TooLargeError is returned when a file exceeds MaxFileSize. The content is
// never read in that case.
type TooLargeError struct {
	Path string
	Size int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("File is too large (%dMB). Maximum supported size is %dMB.", e.Size/1024/1024, MaxFileSize/1024/1024)
}

// Document extensions accepted from OS file-open events.
var documentExts = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// IsDocument reports whether path has an extension the editor handles.
func IsDocument(path string) bool {
	return documentExts[strings.ToLower(filepath.Ext(path))]
}

// Read loads path as text. Missing files yield an error wrapping ErrNotExist.
func Read(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return "", &TooLargeError{Path: path, Size: info.Size()}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Decode(data)
}

// Decode interprets data as UTF-8, retrying as ISO-8859-1 when it is not valid.
func Decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode failed: %w", err)
	}
	return string(out), nil
}

// Write stores content at path as UTF-8, replacing any existing file.
func Write(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
