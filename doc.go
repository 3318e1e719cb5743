// Package bookconv converts Markdown manuscripts into distributable book
// formats: plain text, EPUB, PDF and Kindle.
//
// # Quick Start
//
//	conv, err := bookconv.NewConverter(bookconv.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path, err := conv.ToEPUB(ctx, markdown, bookconv.ConversionOptions{
//	    Title:  "The Great Gatsby",
//	    Author: "F. Scott Fitzgerald",
//	})
//
// ToPDF and ToKindle have the same shape. ConvertBook converts a directory of
// chapter files into several formats at once.
//
// # External Tools
//
// EPUB and PDF are produced by pandoc; Kindle files by pandoc followed by
// Calibre's ebook-convert. PDF output also needs the selected LaTeX (or
// other) engine, xelatex by default.
//
// # Metadata Safety
//
// Metadata values usually come from book files and command-line flags, so
// they are treated as untrusted:
//
//   - tools are started with an argument vector, never through a shell
//   - pandoc always runs with --sandbox as its first argument
//   - only title, author, date, language and publisher may be passed as
//     --metadata, from typed fields or from ConversionOptions.Metadata
//   - values must consist of letters, digits, whitespace and - . , ! ? ' " ( )
//     and never contain ; | & $ ` \ or line breaks
//
// A rejected field is logged and left out; the conversion still runs.
//
// # Temporary Files
//
// Each call writes its Markdown input (and, for Kindle, an intermediate EPUB)
// under a UUID-suffixed name in the temp directory and removes it before
// returning, on success and on failure. Concurrent calls never share a file.
package bookconv
