// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/brainrot-publishing/bookconv/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForToolNotFound returns hints for an external tool that could not be started.
// tool is the binary name as invoked ("pandoc", "ebook-convert").
func ForToolNotFound(tool string) string {
	var hints []string

	switch tool {
	case "pandoc":
		hints = append(hints, "install pandoc (https://pandoc.org/installing.html) or pass --pandoc /path/to/pandoc")
	case "ebook-convert":
		hints = append(hints, "install Calibre (ebook-convert) or pass --ebook-convert /path/to/ebook-convert")
	default:
		hints = append(hints, "check that "+tool+" is installed and on PATH")
	}

	if IsInContainer() {
		hints = append(hints, "the container image must ship the tool; PATH is "+os.Getenv("PATH"))
	}

	return formatHints(hints)
}

// ForPDFEngine returns a hint when the PDF stage fails, usually a missing LaTeX engine.
func ForPDFEngine(engine string) string {
	return format("PDF output needs " + engine + "; install a TeX distribution or pass --pdf-engine")
}

// ForConfigNotFound returns hints for config file not found errors.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/bookconv") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
