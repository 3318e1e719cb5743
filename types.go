package bookconv

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Format is an output format produced by the converter.
type Format string

// Supported output formats.
const (
	FormatText   Format = "text"
	FormatEPUB   Format = "epub"
	FormatPDF    Format = "pdf"
	FormatKindle Format = "kindle"
)

// Formats lists every supported format in conversion order.
var Formats = []Format{FormatText, FormatEPUB, FormatPDF, FormatKindle}

// ParseFormat maps a case-insensitive name to a Format.
// "mobi" is accepted as an alias for kindle and "txt" for text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return FormatText, nil
	case "epub":
		return FormatEPUB, nil
	case "pdf":
		return FormatPDF, nil
	case "kindle", "mobi":
		return FormatKindle, nil
	}
	return "", fmt.Errorf("%w: %q (must be one of text, epub, pdf, kindle)", ErrUnsupportedFormat, s)
}

// Extension returns the file extension used for the format's output.
func (f Format) Extension() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatKindle:
		return "mobi"
	}
	return string(f)
}

// ConversionOptions carries per-call bibliographic metadata and paths.
// Empty strings mean "not set". Every metadata value is sanitized before it
// reaches a tool's argument vector; rejected values are dropped, not fatal.
type ConversionOptions struct {
	Title     string
	Author    string
	Date      string
	Language  string // emitted as pandoc's "lang"
	Publisher string

	// Metadata holds extra fields. Keys go through the same allowlist as the
	// typed fields, so only title, author, date, language and publisher pass.
	Metadata map[string]string

	OutputPath string // empty = unique file in the temp directory
	TempDir    string // overrides the converter's temp directory for this call
}

// Default tool settings.
const (
	DefaultPandocPath       = "pandoc"
	DefaultEbookConvertPath = "ebook-convert"
	DefaultPDFEngine        = "xelatex"
)

// pdfEngines are the values accepted for --pdf-engine.
var pdfEngines = []string{"xelatex", "lualatex", "pdflatex", "tectonic", "typst", "weasyprint", "wkhtmltopdf"}

// PDFEngines returns the accepted PDF engine names.
func PDFEngines() []string { return slices.Clone(pdfEngines) }

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used for tool runs and metadata rejections.
// A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRunner replaces the subprocess runner (tests, sandboxes, remote runners).
func WithRunner(r CommandRunner) Option {
	return func(c *Converter) {
		if r != nil {
			c.runner = r
		}
	}
}

// WithPandocPath sets the pandoc binary name or path.
func WithPandocPath(path string) Option {
	return func(c *Converter) { c.pandoc = path }
}

// WithEbookConvertPath sets the Calibre ebook-convert binary name or path.
func WithEbookConvertPath(path string) Option {
	return func(c *Converter) { c.ebookConvert = path }
}

// WithPDFEngine selects pandoc's PDF engine. Must be one of PDFEngines().
func WithPDFEngine(engine string) Option {
	return func(c *Converter) { c.pdfEngine = engine }
}

// WithTempDir sets the directory for scratch files. Empty means os.TempDir().
func WithTempDir(dir string) Option {
	return func(c *Converter) { c.tempDir = dir }
}
