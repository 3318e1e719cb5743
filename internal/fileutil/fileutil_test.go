package fileutil_test

// Notes:
// - WriteTempFile write/close error branches are not covered: forcing disk
//   write failures is platform-specific.
// - The collision test relies on UUID uniqueness, not on timing.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/brainrot-publishing/bookconv/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "md", extension: "md"},
		{name: "epub", extension: "epub"},
		{name: "empty", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "forward slash", extension: "../etc/passwd", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash", extension: "..\\windows", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte", extension: "md\x00exe", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUniqueName / TestTempPath - Name generation
// ---------------------------------------------------------------------------

func TestUniqueName(t *testing.T) {
	t.Parallel()

	a, err := fileutil.UniqueName("input", "md")
	if err != nil {
		t.Fatalf("UniqueName() error = %v", err)
	}
	b, err := fileutil.UniqueName("input", "md")
	if err != nil {
		t.Fatalf("UniqueName() error = %v", err)
	}

	if a == b {
		t.Errorf("UniqueName() returned %q twice", a)
	}
	if !strings.HasPrefix(a, "input-") || !strings.HasSuffix(a, ".md") {
		t.Errorf("UniqueName() = %q, want input-<uuid>.md", a)
	}
}

func TestUniqueName_RejectsPrefixTraversal(t *testing.T) {
	t.Parallel()

	_, err := fileutil.UniqueName("../input", "md")
	if !errors.Is(err, fileutil.ErrPrefixPathTraversal) {
		t.Errorf("UniqueName(\"../input\") error = %v, want %v", err, fileutil.ErrPrefixPathTraversal)
	}
}

func TestTempPath_DefaultsToOSTempDir(t *testing.T) {
	t.Parallel()

	p, err := fileutil.TempPath("", "output", "epub")
	if err != nil {
		t.Fatalf("TempPath() error = %v", err)
	}
	if got, want := filepath.Dir(p), filepath.Clean(os.TempDir()); got != want {
		t.Errorf("TempPath() dir = %q, want %q", got, want)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Errorf("TempPath() created %q, want no file", p)
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Scratch file lifecycle
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, cleanup, err := fileutil.WriteTempFile(dir, "input", "md", "# Chapter 1")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("WriteTempFile() path = %q, want inside %q", path, dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(data) != "# Chapter 1" {
		t.Errorf("content = %q, want %q", data, "# Chapter 1")
	}

	cleanup()
	if fileutil.FileExists(path) {
		t.Errorf("cleanup() left %q behind", path)
	}

	// second call is a no-op
	cleanup()
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, cleanup, err := fileutil.WriteTempFile(t.TempDir(), "input", "", "x")
	if !errors.Is(err, fileutil.ErrExtensionEmpty) {
		t.Errorf("WriteTempFile() error = %v, want %v", err, fileutil.ErrExtensionEmpty)
	}
	if cleanup != nil {
		t.Error("WriteTempFile() returned a cleanup func on error")
	}
}

func TestWriteTempFile_MissingDir(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	_, _, err := fileutil.WriteTempFile(missing, "input", "md", "x")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("WriteTempFile() error = %v, want os.ErrNotExist", err)
	}
}

func TestWriteTempFile_ConcurrentCallsNeverCollide(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	const n = 64

	var (
		mu    sync.Mutex
		paths = make(map[string]struct{}, n)
		wg    sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, _, err := fileutil.WriteTempFile(dir, "input", "md", "x")
			if err != nil {
				t.Errorf("WriteTempFile() error = %v", err)
				return
			}
			mu.Lock()
			paths[p] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(paths) != n {
		t.Errorf("got %d distinct paths, want %d", len(paths), n)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestIsFilePath
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.md")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "regular file", path: file, want: true},
		{name: "directory", path: dir, want: false},
		{name: "missing", path: filepath.Join(dir, "missing.md"), want: false},
	}

	for _, tt := range tests {
		if got := fileutil.FileExists(tt.path); got != tt.want {
			t.Errorf("%s: FileExists(%q) = %v, want %v", tt.name, tt.path, got, tt.want)
		}
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"bookconv", false},
		{"./bookconv.yaml", true},
		{"/etc/bookconv.yaml", true},
		{"C:\\cfg\\bookconv.yaml", true},
	}

	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.input); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
