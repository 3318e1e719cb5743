package bookconv

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown     = errors.New("markdown content cannot be empty")
	ErrToolSpawn         = errors.New("tool could not be started")
	ErrToolExecution     = errors.New("tool exited with an error")
	ErrStage             = errors.New("conversion stage failed")
	ErrInvalidPDFEngine  = errors.New("invalid PDF engine")
	ErrEmptyToolPath     = errors.New("tool path cannot be empty")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNoChapters        = errors.New("no markdown chapters found")
)

// ToolSpawnError reports an external tool that could not be started at all
// (binary missing, not executable). The OS error is available via Unwrap.
type ToolSpawnError struct {
	Tool string
	Err  error
}

func (e *ToolSpawnError) Error() string {
	return fmt.Sprintf("%s execution failed: %v", e.Tool, e.Err)
}

func (e *ToolSpawnError) Unwrap() error { return e.Err }

// Is reports ErrToolSpawn.
func (e *ToolSpawnError) Is(target error) bool { return target == ErrToolSpawn }

// ToolExecutionError reports an external tool that ran and exited non-zero.
type ToolExecutionError struct {
	Tool     string
	ExitCode int // -1 when terminated by a signal
	Stderr   string
}

func (e *ToolExecutionError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%s failed with code %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s failed with code %d: %s", e.Tool, e.ExitCode, stderr)
}

// Is reports ErrToolExecution.
func (e *ToolExecutionError) Is(target error) bool { return target == ErrToolExecution }

// Stage identifies a step of a multi-tool conversion.
type Stage string

// Kindle conversion stages.
const (
	StageEPUB      Stage = "epub"
	StageTranscode Stage = "transcode"
)

// StageError tags a Kindle conversion failure with the stage that failed.
// The underlying ToolSpawnError / ToolExecutionError stays reachable with errors.As.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("Kindle conversion failed at %s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Is reports ErrStage.
func (e *StageError) Is(target error) bool { return target == ErrStage }
