// Package yamlutil isolates the YAML library behind strict, size-bounded helpers.
package yamlutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (1 MiB).
var MaxInputSize int64 = 1 << 20

var (
	ErrEmptyInput     = errors.New("yamlutil: empty input")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// Decode parses data into v, rejecting fields v does not declare.
func Decode(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyInput
	}
	if int64(len(data)) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// DecodeFile reads at most MaxInputSize+1 bytes from path and decodes them.
// Errors from opening the file are returned unwrapped-compatible (errors.Is os.ErrNotExist).
func DecodeFile(path string, v any) error {
	f, err := os.Open(path) // #nosec G304 -- caller-provided config path
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxInputSize+1))
	if err != nil {
		return fmt.Errorf("yamlutil: reading %s: %w", path, err)
	}
	return Decode(data, v)
}
