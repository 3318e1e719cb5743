package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/brainrot-publishing/bookconv/internal/logging"
)

// fixedNow is the clock used by every CLI test.
var fixedNow = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

// recordingRunner records tool calls and writes the output file each tool
// would produce. Tools listed in errs fail instead.
type recordingRunner struct {
	mu    sync.Mutex
	calls map[string][][]string
	errs  map[string]error
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) error {
	r.mu.Lock()
	if r.calls == nil {
		r.calls = make(map[string][][]string)
	}
	r.calls[name] = append(r.calls[name], slices.Clone(args))
	err := r.errs[name]
	r.mu.Unlock()

	if err != nil {
		return err
	}

	out := args[len(args)-1]
	if i := slices.Index(args, "-o"); i >= 0 {
		out = args[i+1]
	}
	return os.WriteFile(out, []byte("fake"), 0o600)
}

func (r *recordingRunner) argsFor(name string) [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls[name])
}

type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	vars   map[string]string // environment variables seen by the CLI
}

func newTestEnv(runner *recordingRunner) *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	vars := make(map[string]string)
	return &testEnv{
		Environment: &Environment{
			Now:    func() time.Time { return fixedNow },
			Stdout: stdout,
			Stderr: stderr,
			Getenv: func(k string) string { return vars[k] },
			Environ: func() []string {
				out := make([]string, 0, len(vars))
				for k, v := range vars {
					out = append(out, k+"="+v)
				}
				return out
			},
			Runner:    runner,
			NewLogger: func(logging.Options) (*zap.Logger, error) { return zap.NewNop(), nil },
		},
		stdout: stdout,
		stderr: stderr,
		vars:   vars,
	}
}

// newChapterDir writes a two-chapter manuscript.
func newChapterDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"01-arrival.md":   "# Arrival\n\nI came east in the spring.\n",
		"02-the-party.md": "There was music from my neighbor's house.\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}
