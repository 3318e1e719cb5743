// Package fileutil provides scratch-file and path helpers for conversions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrPrefixPathTraversal    = errors.New("prefix contains path separator or null byte")
)

// UniqueName returns "<prefix>-<uuid>.<ext>".
// Names are unique across goroutines and processes sharing a directory.
func UniqueName(prefix, extension string) (string, error) {
	if err := ValidateExtension(extension); err != nil {
		return "", err
	}
	if strings.ContainsAny(prefix, "/\\\x00") {
		return "", ErrPrefixPathTraversal
	}
	return prefix + "-" + uuid.NewString() + "." + extension, nil
}

// TempPath returns a unique path inside dir without creating the file.
// An empty dir means os.TempDir().
func TempPath(dir, prefix, extension string) (string, error) {
	name, err := UniqueName(prefix, extension)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, name), nil
}

// WriteTempFile creates a uniquely named file in dir holding content.
// The returned cleanup removes the file and is safe to call more than once.
// The file is created with O_EXCL so a name clash is an error, never an overwrite.
func WriteTempFile(dir, prefix, extension, content string) (path string, cleanup func(), err error) {
	path, err = TempPath(dir, prefix, extension)
	if err != nil {
		return "", nil, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) // #nosec G304 -- generated name
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := f.WriteString(content); writeErr != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := f.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
//
// Examples:
//   - "bookconv" -> false (name)
//   - "./bookconv.yaml" -> true (relative path)
//   - "/etc/bookconv.yaml" -> true (absolute)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
