package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/brainrot-publishing/bookconv"
	"github.com/brainrot-publishing/bookconv/internal/config"
	"github.com/brainrot-publishing/bookconv/internal/dateutil"
	"github.com/brainrot-publishing/bookconv/internal/hints"
	"github.com/brainrot-publishing/bookconv/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput       = errors.New("no input directory specified")
	ErrTooManyInputs = errors.New("expected exactly one input directory")
	ErrInvalidMeta   = errors.New("invalid --meta value (want key=value)")
	ErrOutputDir     = errors.New("cannot create output directory")
	ErrFormatsFailed = errors.New("some formats failed")
)

// dirPermissions is rwxr-xr-x: published books are world-readable.
const dirPermissions = 0o755

// runConvert orchestrates a book conversion.
func runConvert(ctx context.Context, positional []string, flags *cliFlags, env *Environment) error {
	inputDir, err := resolveInputDir(positional)
	if err != nil {
		return err
	}

	if env.Environ != nil {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}
	envCfg := loadEnvConfig(env.Getenv)

	configName := flags.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if configName != "" {
		cfg, err = config.LoadConfig(configName)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	applyEnvConfig(envCfg, cfg)

	// CLI wins over config
	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.Book.Date, err = dateutil.ResolveDate(cfg.Book.Date, env.Now())
	if err != nil {
		return fmt.Errorf("resolving date: %w", err)
	}

	formats, err := parseFormats(cfg.Output.Formats)
	if err != nil {
		return err
	}

	logger, err := env.NewLogger(logging.Options{
		Verbose: flags.log.verbose,
		Quiet:   flags.log.quiet,
		JSON:    flags.log.json,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if env.MaxProcs != nil {
		env.MaxProcs(logger)
	}

	conv, err := bookconv.NewConverter(
		bookconv.WithLogger(logger),
		bookconv.WithRunner(env.Runner),
		bookconv.WithPandocPath(cfg.Tools.Pandoc),
		bookconv.WithEbookConvertPath(cfg.Tools.EbookConvert),
		bookconv.WithPDFEngine(cfg.Tools.PDFEngine),
		bookconv.WithTempDir(cfg.TempDir),
	)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Output.Dir, dirPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputDir, err)
	}

	workers := resolveWorkers(cfg.Workers, len(formats))
	logger.Debug("starting book conversion",
		zap.String("input", inputDir),
		zap.String("output", cfg.Output.Dir),
		zap.Strings("formats", cfg.Output.Formats),
		zap.Int("workers", workers),
	)

	results, err := conv.ConvertBook(ctx, bookconv.BookOptions{
		ConversionOptions: bookconv.ConversionOptions{
			Title:     cfg.Book.Title,
			Author:    cfg.Book.Author,
			Date:      cfg.Book.Date,
			Language:  cfg.Book.Language,
			Publisher: cfg.Book.Publisher,
			Metadata:  cfg.Book.Metadata,
		},
		InputDir:  inputDir,
		OutputDir: cfg.Output.Dir,
		Formats:   formats,
		Workers:   workers,
	})
	if err != nil {
		return err
	}

	return printResults(results, flags.log.quiet, cfg.Tools.PDFEngine, env)
}

func resolveInputDir(positional []string) (string, error) {
	switch len(positional) {
	case 0:
		return "", ErrNoInput
	case 1:
		return positional[0], nil
	}
	return "", fmt.Errorf("%w, got %d", ErrTooManyInputs, len(positional))
}

// mergeFlags overrides config values with explicitly set flags.
func mergeFlags(flags *cliFlags, cfg *config.Config) error {
	setIf := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setIf(&cfg.Output.Dir, flags.output)
	setIf(&cfg.TempDir, flags.tempDir)
	setIf(&cfg.Tools.Pandoc, flags.tools.pandoc)
	setIf(&cfg.Tools.EbookConvert, flags.tools.ebookConvert)
	setIf(&cfg.Tools.PDFEngine, flags.tools.pdfEngine)
	setIf(&cfg.Book.Title, flags.book.title)
	setIf(&cfg.Book.Author, flags.book.author)
	setIf(&cfg.Book.Date, flags.book.date)
	setIf(&cfg.Book.Language, flags.book.language)
	setIf(&cfg.Book.Publisher, flags.book.publisher)

	if len(flags.formats) > 0 {
		cfg.Output.Formats = flags.formats
	}
	if flags.workers != 0 {
		cfg.Workers = flags.workers
	}

	meta, err := parseMeta(flags.book.meta)
	if err != nil {
		return err
	}
	if len(meta) > 0 && cfg.Book.Metadata == nil {
		cfg.Book.Metadata = make(map[string]string, len(meta))
	}
	for k, v := range meta {
		cfg.Book.Metadata[k] = v
	}
	return nil
}

// parseMeta splits key=value pairs at the first "=". Keys and values are
// not checked here; the converter's allowlist decides what reaches a tool.
func parseMeta(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMeta, p)
		}
		meta[k] = v
	}
	return meta, nil
}

// parseFormats maps names to formats, dropping duplicates.
func parseFormats(names []string) ([]bookconv.Format, error) {
	seen := make(map[bookconv.Format]bool, len(names))
	formats := make([]bookconv.Format, 0, len(names))
	for _, n := range names {
		f, err := bookconv.ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}

// resolveWorkers returns n when set, else one worker per format up to GOMAXPROCS.
func resolveWorkers(n, formats int) int {
	if n > 0 {
		return n
	}
	return max(1, min(formats, runtime.GOMAXPROCS(0)))
}

// printResults reports each format and returns an error when any failed.
func printResults(results []bookconv.Result, quiet bool, pdfEngine string, env *Environment) error {
	var (
		failed   int
		firstErr error
	)
	for _, r := range results {
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.Format, r.Err, resultHint(r, pdfEngine))
			continue
		}
		if !quiet {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.Path)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	if failed > 0 {
		return fmt.Errorf("%w (%d of %d): %w", ErrFormatsFailed, failed, len(results), firstErr)
	}
	return nil
}

// resultHint adds the PDF engine hint to a failed PDF run.
func resultHint(r bookconv.Result, pdfEngine string) string {
	if r.Format == bookconv.FormatPDF && errors.Is(r.Err, bookconv.ErrToolExecution) {
		return hints.ForPDFEngine(pdfEngine)
	}
	return hintFor(r.Err)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var spawnErr *bookconv.ToolSpawnError
	if errors.As(err, &spawnErr) {
		tool := strings.TrimSuffix(filepath.Base(spawnErr.Tool), ".exe")
		return hints.ForToolNotFound(tool)
	}

	var notFound *config.NotFoundError
	if errors.As(err, &notFound) {
		return hints.ForConfigNotFound(notFound.Tried)
	}

	if errors.Is(err, ErrOutputDir) {
		return hints.ForOutputDirectory()
	}
	return ""
}
