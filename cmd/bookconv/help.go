package main

import (
	"fmt"
	"io"
)

// printUsage prints the command usage.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bookconv <input-dir> [flags]")
	fmt.Fprintln(w, "       bookconv doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a directory of Markdown chapters (*.md, in name order) into")
	fmt.Fprintln(w, "book.txt, book.epub, book.pdf and book.mobi.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: generated)")
	fmt.Fprintln(w, "  -f, --format <name>       text, epub, pdf, kindle (repeatable, default: text)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Formats converted in parallel (0 = auto)")
	fmt.Fprintln(w, "      --temp-dir <dir>      Directory for scratch files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metadata:")
	fmt.Fprintln(w, "      --title <s>           Book title")
	fmt.Fprintln(w, "      --author <s>          Author name")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, MMMM, MM, DD, D")
	fmt.Fprintln(w, "                            Presets: iso, year, month, long")
	fmt.Fprintln(w, "      --language <s>        Language code (EPUB only)")
	fmt.Fprintln(w, "      --publisher <s>       Publisher (EPUB only)")
	fmt.Fprintln(w, "      --meta <key=value>    Extra field; only title, author, date,")
	fmt.Fprintln(w, "                            language and publisher are accepted")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Values may contain letters, digits, spaces and - . , ! ? ' \" ( ).")
	fmt.Fprintln(w, "  Anything else is dropped with a warning.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tools:")
	fmt.Fprintln(w, "      --pandoc <path>       pandoc binary (default: pandoc)")
	fmt.Fprintln(w, "      --ebook-convert <p>   Calibre ebook-convert binary (default: ebook-convert)")
	fmt.Fprintln(w, "      --pdf-engine <name>   xelatex, lualatex, pdflatex, tectonic, typst,")
	fmt.Fprintln(w, "                            weasyprint, wkhtmltopdf (default: xelatex)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show warnings and errors")
	fmt.Fprintln(w, "  -v, --verbose             Log tool invocations")
	fmt.Fprintln(w, "      --log-json            Log as JSON lines")
	fmt.Fprintln(w, "      --version             Print version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment (flags win, then environment, then config file):")
	fmt.Fprintln(w, "  BOOKCONV_CONFIG, BOOKCONV_OUTPUT_DIR, BOOKCONV_TEMP_DIR, BOOKCONV_WORKERS,")
	fmt.Fprintln(w, "  BOOKCONV_PANDOC, BOOKCONV_EBOOK_CONVERT, BOOKCONV_PDF_ENGINE,")
	fmt.Fprintln(w, "  BOOKCONV_AUTHOR, BOOKCONV_PUBLISHER, BOOKCONV_LANGUAGE, BOOKCONV_DATE")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 ok, 1 error, 2 usage/config, 3 I/O, 4 tool failure.")
}
