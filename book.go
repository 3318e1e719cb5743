package bookconv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BookOptions configures ConvertBook.
type BookOptions struct {
	ConversionOptions // OutputPath is ignored; outputs are named book.<ext>

	InputDir  string
	OutputDir string
	Formats   []Format // empty = text only
	Workers   int      // formats converted in parallel; <1 = 1
}

// Result is the outcome of one format of a book conversion.
type Result struct {
	Format Format
	Path   string
	Err    error
}

// Success reports whether the format was produced.
func (r Result) Success() bool { return r.Err == nil }

var (
	headingTitle = regexp.MustCompile(`(?m)^#\s+(.+)`)
	firstNumber  = regexp.MustCompile(`\d+`)
	wordStart    = regexp.MustCompile(`\b\w`)
)

// ConvertBook reads the *.md chapters of InputDir in name order and writes
// each requested format to OutputDir. A failing format is reported in its
// Result and does not stop the others; the returned error covers only
// reading the input and preparing the output directory.
func (c *Converter) ConvertBook(ctx context.Context, opts BookOptions) ([]Result, error) {
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil { // #nosec G301 -- published output
		return nil, fmt.Errorf("book conversion failed: creating output directory: %w", err)
	}

	chapters, err := LoadChapters(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("book conversion failed: %w", err)
	}

	formats := opts.Formats
	if len(formats) == 0 {
		formats = []Format{FormatText}
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	combined := combineChapters(chapters)
	results := make([]Result, len(formats))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, format := range formats {
		g.Go(func() error {
			results[i] = c.convertBookFormat(ctx, format, chapters, combined, opts)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Err != nil {
			c.logger.Error("format conversion failed", zap.String("format", string(r.Format)), zap.Error(r.Err))
		}
	}
	return results, nil
}

func (c *Converter) convertBookFormat(ctx context.Context, format Format, chapters []Chapter, combined string, opts BookOptions) Result {
	res := Result{Format: format}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	convOpts := opts.ConversionOptions
	convOpts.OutputPath = filepath.Join(opts.OutputDir, "book."+format.Extension())

	switch format {
	case FormatText:
		text := ChaptersToText(chapters, "")
		if err := os.WriteFile(convOpts.OutputPath, []byte(text+"\n"), 0o644); err != nil { // #nosec G306 -- published output
			res.Err = fmt.Errorf("writing text output: %w", err)
			return res
		}
		res.Path = convOpts.OutputPath
	case FormatEPUB, FormatPDF, FormatKindle:
		res.Path, res.Err = c.Convert(ctx, format, combined, convOpts)
	default:
		res.Err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return res
}

// LoadChapters reads every *.md file in dir, sorted by file name.
// The title is the first "# " heading, else the humanized file name;
// the number is the first digit run in the file name.
func LoadChapters(dir string) ([]Chapter, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading chapters: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoChapters, dir)
	}
	sort.Strings(names)

	chapters := make([]Chapter, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name)) // #nosec G304 -- listed from dir
		if err != nil {
			return nil, fmt.Errorf("reading chapter %s: %w", name, err)
		}
		content := string(data)
		chapters = append(chapters, Chapter{
			Title:   chapterTitle(name, content),
			Content: content,
			Number:  chapterNumber(name),
			File:    name,
		})
	}
	return chapters, nil
}

func chapterTitle(filename, content string) string {
	if m := headingTitle.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	base := strings.ReplaceAll(strings.TrimSuffix(filename, ".md"), "-", " ")
	return wordStart.ReplaceAllStringFunc(base, strings.ToUpper)
}

func chapterNumber(filename string) int {
	m := firstNumber.FindString(filename)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// combineChapters joins chapters into one manuscript. A chapter without its
// own level-one heading gets one so pandoc's table of contents lists it.
func combineChapters(chapters []Chapter) string {
	var b strings.Builder
	for _, ch := range chapters {
		b.WriteString("\n\n")
		if !headingTitle.MatchString(ch.Content) {
			b.WriteString("# " + ch.Title + "\n\n")
		}
		b.WriteString(ch.Content)
	}
	return strings.TrimSpace(b.String()) + "\n"
}

// ConvertChaptersToText writes a plain-text twin (<name>.txt) of every *.md
// file in inputDir to outputDir and returns the written paths in name order.
// An input directory without chapters yields no paths and no error.
func ConvertChaptersToText(ctx context.Context, inputDir, outputDir string) ([]string, error) {
	chapters, err := LoadChapters(inputDir)
	if errors.Is(err, ErrNoChapters) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chapter conversion failed: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil { // #nosec G301 -- published output
		return nil, fmt.Errorf("chapter conversion failed: %w", err)
	}

	paths := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		out := filepath.Join(outputDir, strings.TrimSuffix(ch.File, ".md")+".txt")
		if err := os.WriteFile(out, []byte(StripMarkdown(ch.Content)), 0o644); err != nil { // #nosec G306 -- published output
			return paths, fmt.Errorf("chapter conversion failed: %w", err)
		}
		paths = append(paths, out)
	}
	return paths, nil
}
