package bookconv

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// ---------------------------------------------------------------------------
// Mock runner
// ---------------------------------------------------------------------------

type call struct {
	name  string
	args  []string
	input string // content of the pandoc input file at call time
}

// mockRunner records every call, simulates tool output files, and can fail
// per tool name. Safe for concurrent use.
type mockRunner struct {
	mu    sync.Mutex
	calls []call
	errs  map[string]error // tool name -> error to return
	noOut bool             // do not create output files
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) error {
	c := call{name: name, args: slices.Clone(args)}

	if name == DefaultPandocPath && len(args) > 1 {
		if data, err := os.ReadFile(args[1]); err == nil {
			c.input = string(data)
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, c)
	err := m.errs[name]
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if !m.noOut {
		if out := outputArg(name, args); out != "" {
			_ = os.WriteFile(out, []byte("fake "+name+" output"), 0o600)
		}
	}
	return nil
}

func (m *mockRunner) Calls() []call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

func (m *mockRunner) callsTo(name string) []call {
	var out []call
	for _, c := range m.Calls() {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// outputArg finds the file a tool would write: after -o for pandoc, the last
// positional argument for ebook-convert.
func outputArg(name string, args []string) string {
	if name == DefaultEbookConvertPath && len(args) > 0 {
		return args[len(args)-1]
	}
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// Converter fixtures
// ---------------------------------------------------------------------------

func newObservedConverter(t *testing.T, runner CommandRunner, opts ...Option) (*Converter, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	all := append([]Option{WithRunner(runner), WithLogger(zap.New(core)), WithTempDir(t.TempDir())}, opts...)
	c, err := NewConverter(all...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return c, logs
}

func newTestConverter(t *testing.T, runner CommandRunner, opts ...Option) *Converter {
	t.Helper()
	c, _ := newObservedConverter(t, runner, opts...)
	return c
}

// dirEntries lists file names in dir.
func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s) error = %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
