package bookconv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/brainrot-publishing/bookconv/internal/fileutil"
)

// Compile-time interface implementation check.
var _ CommandRunner = (*ExecRunner)(nil)

// Fixed pandoc flags per format.
var epubFlags = []string{"--toc", "--toc-depth=2"}

// Converter turns Markdown into EPUB, PDF and Kindle files by running pandoc
// and Calibre's ebook-convert. It holds no per-call state and is safe for
// concurrent use.
type Converter struct {
	logger       *zap.Logger
	runner       CommandRunner
	pandoc       string
	ebookConvert string
	pdfEngine    string
	tempDir      string
}

// NewConverter creates a Converter with default tools (pandoc, ebook-convert,
// xelatex) and the default logger (see defaultLogger).
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		logger:       defaultLogger(),
		runner:       &ExecRunner{},
		pandoc:       DefaultPandocPath,
		ebookConvert: DefaultEbookConvertPath,
		pdfEngine:    DefaultPDFEngine,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.pandoc == "" || c.ebookConvert == "" {
		return nil, ErrEmptyToolPath
	}
	if !slices.Contains(pdfEngines, c.pdfEngine) {
		return nil, fmt.Errorf("%w: %q (must be one of %v)", ErrInvalidPDFEngine, c.pdfEngine, pdfEngines)
	}

	return c, nil
}

// ToEPUB converts markdown to EPUB with a two-level table of contents and
// returns the output path.
func (c *Converter) ToEPUB(ctx context.Context, markdown string, opts ConversionOptions) (string, error) {
	out, err := c.runPandoc(ctx, markdown, opts, FormatEPUB, epubFlags, epubFields)
	if err != nil {
		return "", fmt.Errorf("EPUB conversion failed: %w", err)
	}
	return out, nil
}

// ToPDF converts markdown to PDF through pandoc's configured PDF engine.
// Only title, author and date are forwarded from the typed fields;
// renderer settings (paper size, margins) can never be set via Metadata.
func (c *Converter) ToPDF(ctx context.Context, markdown string, opts ConversionOptions) (string, error) {
	flags := []string{"--pdf-engine=" + c.pdfEngine, "--toc"}
	out, err := c.runPandoc(ctx, markdown, opts, FormatPDF, flags, pdfFields)
	if err != nil {
		return "", fmt.Errorf("PDF conversion failed: %w", err)
	}
	return out, nil
}

// ToKindle builds an intermediate EPUB in the temp directory, then
// transcodes it with ebook-convert. The intermediate EPUB is removed on every
// path. Failures are *StageError values naming the stage.
func (c *Converter) ToKindle(ctx context.Context, markdown string, opts ConversionOptions) (string, error) {
	epubOpts := opts
	epubOpts.OutputPath = ""

	epubPath, err := c.runPandoc(ctx, markdown, epubOpts, FormatEPUB, epubFlags, epubFields)
	if err != nil {
		return "", &StageError{Stage: StageEPUB, Err: err}
	}
	defer c.remove(epubPath)

	output, generated, err := c.outputPath(opts, FormatKindle)
	if err != nil {
		return "", &StageError{Stage: StageTranscode, Err: err}
	}

	c.logger.Debug("running ebook-convert",
		zap.String("tool", c.ebookConvert),
		zap.String("input", epubPath),
		zap.String("output", output),
	)
	if err := c.runner.Run(ctx, c.ebookConvert, pathArg(epubPath), pathArg(output)); err != nil {
		if generated {
			c.remove(output)
		}
		return "", &StageError{Stage: StageTranscode, Err: err}
	}

	c.logger.Info("conversion complete", zap.String("format", string(FormatKindle)), zap.String("output", output))
	return output, nil
}

// Convert dispatches to the converter for format.
// FormatText is handled in-process and written to opts.OutputPath
// (or a generated temp path).
func (c *Converter) Convert(ctx context.Context, format Format, markdown string, opts ConversionOptions) (string, error) {
	switch format {
	case FormatEPUB:
		return c.ToEPUB(ctx, markdown, opts)
	case FormatPDF:
		return c.ToPDF(ctx, markdown, opts)
	case FormatKindle:
		return c.ToKindle(ctx, markdown, opts)
	case FormatText:
		return c.toTextFile(markdown, opts)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// runPandoc writes markdown to a scratch file, runs pandoc and removes the
// scratch file whatever the outcome.
func (c *Converter) runPandoc(ctx context.Context, markdown string, opts ConversionOptions, format Format, fixed, fields []string) (string, error) {
	if markdown == "" {
		return "", ErrEmptyMarkdown
	}

	input, cleanup, err := fileutil.WriteTempFile(c.tempDirFor(opts), "input", "md", markdown)
	if err != nil {
		return "", err
	}
	defer cleanup()

	output, generated, err := c.outputPath(opts, format)
	if err != nil {
		return "", err
	}

	args := c.buildArgs(input, output, fixed, opts, fields)
	c.logger.Debug("running pandoc", zap.String("tool", c.pandoc), zap.Strings("args", args))

	if err := c.runner.Run(ctx, c.pandoc, args...); err != nil {
		if generated {
			c.remove(output)
		}
		return "", err
	}

	c.logger.Info("conversion complete", zap.String("format", string(format)), zap.String("output", output))
	return output, nil
}

// toTextFile renders markdown as plain text and writes it out.
func (c *Converter) toTextFile(markdown string, opts ConversionOptions) (string, error) {
	if markdown == "" {
		return "", ErrEmptyMarkdown
	}
	output, _, err := c.outputPath(opts, FormatText)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(output, []byte(MarkdownToText(markdown, "")+"\n"), 0o644); err != nil { // #nosec G306 -- published artifact
		return "", fmt.Errorf("writing text output: %w", err)
	}
	return output, nil
}

// outputPath returns opts.OutputPath, or a fresh temp path (generated=true).
func (c *Converter) outputPath(opts ConversionOptions, format Format) (path string, generated bool, err error) {
	if opts.OutputPath != "" {
		return opts.OutputPath, false, nil
	}
	path, err = fileutil.TempPath(c.tempDirFor(opts), "output", format.Extension())
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

func (c *Converter) tempDirFor(opts ConversionOptions) string {
	if opts.TempDir != "" {
		return opts.TempDir
	}
	return c.tempDir
}

// remove deletes a scratch artifact; a missing file is not an error.
func (c *Converter) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("failed to remove temporary file", zap.String("path", path), zap.Error(err))
	}
}

// ConvertToEpub converts with a default Converter. See Converter.ToEPUB.
func ConvertToEpub(ctx context.Context, markdown string, opts ConversionOptions) (string, error) {
	return defaultConverter().ToEPUB(ctx, markdown, opts)
}

// ConvertToPdf converts with a default Converter. See Converter.ToPDF.
func ConvertToPdf(ctx context.Context, markdown string, opts ConversionOptions) (string, error) {
	return defaultConverter().ToPDF(ctx, markdown, opts)
}

// ConvertToKindle converts with a default Converter. See Converter.ToKindle.
func ConvertToKindle(ctx context.Context, markdown string, opts ConversionOptions) (string, error) {
	return defaultConverter().ToKindle(ctx, markdown, opts)
}

// defaultLogger returns the global zap logger, or a warn-level stderr logger
// while the global one is still the no-op placeholder. Metadata rejections
// must always leave a record.
func defaultLogger() *zap.Logger {
	if l := zap.L(); l.Core().Enabled(zapcore.WarnLevel) {
		return l
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(os.Stderr),
		zapcore.WarnLevel,
	)
	return zap.New(core)
}

func defaultConverter() *Converter {
	c, err := NewConverter()
	if err != nil {
		// defaults are constants; only a programming error gets here
		panic("bookconv: default converter: " + err.Error())
	}
	return c
}
