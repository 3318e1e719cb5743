package bookconv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/brainrot-publishing/bookconv/internal/process"
)

// CommandRunner runs an external tool with an explicit argument vector.
// Implementations must never route the arguments through a shell.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// DefaultMaxStderr caps the stderr kept for a ToolExecutionError (1 MiB).
const DefaultMaxStderr = 1 << 20

// ExecRunner implements CommandRunner with os/exec.
//
// The process is started directly with argv (no "sh -c"), in its own
// process group so that cancelling ctx also stops the helpers it forks.
// Stdout is discarded; stderr is collected as it is written.
type ExecRunner struct {
	MaxStderr int // 0 = DefaultMaxStderr
}

// Run starts name with args and waits for it to exit.
//
// Errors:
//   - *ToolSpawnError when the process cannot be started
//   - *ToolExecutionError when it exits non-zero
//   - ctx.Err() (wrapped) when ctx is cancelled while it runs
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	maxStderr := r.MaxStderr
	if maxStderr <= 0 {
		maxStderr = DefaultMaxStderr
	}
	stderr := &cappedBuffer{limit: maxStderr}

	cmd := exec.CommandContext(ctx, name, args...)
	process.Isolate(cmd)
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return &ToolSpawnError{Tool: name, Err: err}
	}

	err := cmd.Wait()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted: %w", name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ToolExecutionError{Tool: name, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
	}
	return fmt.Errorf("waiting for %s: %w", name, err)
}

// cappedBuffer keeps the first limit bytes written and counts the rest.
// os/exec writes to it from a copying goroutine while Wait reads it after.
type cappedBuffer struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	limit   int
	dropped int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := b.limit - b.buf.Len()
	switch {
	case room <= 0:
		b.dropped += len(p)
	case len(p) > room:
		b.buf.Write(p[:room])
		b.dropped += len(p) - room
	default:
		b.buf.Write(p)
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.dropped == 0 {
		return b.buf.String()
	}
	return fmt.Sprintf("%s\n[stderr truncated: %d bytes dropped]", b.buf.String(), b.dropped)
}
