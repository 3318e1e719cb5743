package main

import (
	"errors"
	"os"

	"github.com/brainrot-publishing/bookconv"
	"github.com/brainrot-publishing/bookconv/internal/config"
	"github.com/brainrot-publishing/bookconv/internal/dateutil"
)

// Exit codes for the bookconv CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every requested format produced
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Input missing, output not writable
	ExitTool    = 4 // pandoc or ebook-convert missing or failed
)

// exitCodeFor returns the appropriate exit code for an error.
// Tool errors are checked first: a spawn failure unwraps to an OS error
// that would otherwise read as I/O.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, bookconv.ErrToolSpawn) ||
		errors.Is(err, bookconv.ErrToolExecution) ||
		errors.Is(err, bookconv.ErrStage) {
		return ExitTool
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrOutputDir) ||
		errors.Is(err, bookconv.ErrNoChapters) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidWorkers) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, bookconv.ErrUnsupportedFormat) ||
		errors.Is(err, bookconv.ErrInvalidPDFEngine) ||
		errors.Is(err, bookconv.ErrEmptyToolPath) ||
		errors.Is(err, bookconv.ErrEmptyMarkdown) ||
		errors.Is(err, ErrInvalidMeta) ||
		errors.Is(err, ErrTooManyInputs) {
		return ExitUsage
	}

	return ExitGeneral
}
