package main

import (
	"io"
	"os"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/brainrot-publishing/bookconv"
	"github.com/brainrot-publishing/bookconv/internal/logging"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// Getenv and Environ read BOOKCONV_* overrides.
	Getenv  func(string) string
	Environ func() []string

	// Runner executes pandoc and ebook-convert. nil means os/exec.
	Runner bookconv.CommandRunner

	// NewLogger builds the logger from the verbosity flags.
	NewLogger func(logging.Options) (*zap.Logger, error)

	// MaxProcs adjusts GOMAXPROCS before workers are sized. nil skips it.
	MaxProcs func(*zap.Logger)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:       time.Now,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Getenv:    os.Getenv,
		Environ:   os.Environ,
		NewLogger: logging.New,
		MaxProcs:  setMaxProcs,
	}
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply.
func setMaxProcs(logger *zap.Logger) {
	_, _ = maxprocs.Set(maxprocs.Logger(logger.Sugar().Debugf))
}
