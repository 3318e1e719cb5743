package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// outputFlags holds verbosity flags.
type outputFlags struct {
	quiet   bool
	verbose bool
	json    bool
}

// bookFlags holds bibliographic metadata flags.
type bookFlags struct {
	title     string
	author    string
	date      string
	language  string
	publisher string
	meta      []string // key=value, repeatable
}

// toolFlags locate the external converters.
type toolFlags struct {
	pandoc       string
	ebookConvert string
	pdfEngine    string
}

// cliFlags holds every flag of the bookconv command.
type cliFlags struct {
	config  string
	output  string
	formats []string
	workers int
	tempDir string
	version bool
	log     outputFlags
	book    bookFlags
	tools   toolFlags
}

func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show warnings and errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log tool invocations")
	fs.BoolVar(&f.json, "log-json", false, "log as JSON lines")
}

func addBookFlags(fs *flag.FlagSet, f *bookFlags) {
	fs.StringVar(&f.title, "title", "", "book title")
	fs.StringVar(&f.author, "author", "", "author name")
	fs.StringVar(&f.date, "date", "", "publication date (\"auto\" = today)")
	fs.StringVar(&f.language, "language", "", "language code, e.g. en")
	fs.StringVar(&f.publisher, "publisher", "", "publisher name")
	fs.StringArrayVar(&f.meta, "meta", nil, "extra metadata key=value (repeatable)")
}

func addToolFlags(fs *flag.FlagSet, f *toolFlags) {
	fs.StringVar(&f.pandoc, "pandoc", "", "pandoc binary name or path")
	fs.StringVar(&f.ebookConvert, "ebook-convert", "", "Calibre ebook-convert binary name or path")
	fs.StringVar(&f.pdfEngine, "pdf-engine", "", "pandoc PDF engine (default xelatex)")
}

// parseFlags parses args (without the program name) and returns the
// positional arguments. -h/--help yields flag.ErrHelp.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("bookconv", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	f := &cliFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringSliceVarP(&f.formats, "format", "f", nil, "output format: text, epub, pdf, kindle (repeatable)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "formats converted in parallel (0 = auto)")
	fs.StringVar(&f.tempDir, "temp-dir", "", "directory for scratch files")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	addOutputFlags(fs, &f.log)
	addBookFlags(fs, &f.book)
	addToolFlags(fs, &f.tools)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
