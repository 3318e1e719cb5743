package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brainrot-publishing/bookconv/internal/config"
)

// envPrefix marks the variables read by bookconv.
const envPrefix = "BOOKCONV_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string // BOOKCONV_CONFIG
	OutputDir    string // BOOKCONV_OUTPUT_DIR
	TempDir      string // BOOKCONV_TEMP_DIR
	Pandoc       string // BOOKCONV_PANDOC
	EbookConvert string // BOOKCONV_EBOOK_CONVERT
	PDFEngine    string // BOOKCONV_PDF_ENGINE
	Author       string // BOOKCONV_AUTHOR
	Publisher    string // BOOKCONV_PUBLISHER
	Language     string // BOOKCONV_LANGUAGE
	Date         string // BOOKCONV_DATE
	Workers      int    // BOOKCONV_WORKERS
}

// knownEnvVars lists valid BOOKCONV_* variables, for typo warnings.
var knownEnvVars = map[string]bool{
	"BOOKCONV_CONFIG":        true,
	"BOOKCONV_OUTPUT_DIR":    true,
	"BOOKCONV_TEMP_DIR":      true,
	"BOOKCONV_PANDOC":        true,
	"BOOKCONV_EBOOK_CONVERT": true,
	"BOOKCONV_PDF_ENGINE":    true,
	"BOOKCONV_AUTHOR":        true,
	"BOOKCONV_PUBLISHER":     true,
	"BOOKCONV_LANGUAGE":      true,
	"BOOKCONV_DATE":          true,
	"BOOKCONV_WORKERS":       true,
}

// loadEnvConfig reads BOOKCONV_* values through getenv.
// An unparsable or non-positive BOOKCONV_WORKERS is ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:   getenv("BOOKCONV_CONFIG"),
		OutputDir:    getenv("BOOKCONV_OUTPUT_DIR"),
		TempDir:      getenv("BOOKCONV_TEMP_DIR"),
		Pandoc:       getenv("BOOKCONV_PANDOC"),
		EbookConvert: getenv("BOOKCONV_EBOOK_CONVERT"),
		PDFEngine:    getenv("BOOKCONV_PDF_ENGINE"),
		Author:       getenv("BOOKCONV_AUTHOR"),
		Publisher:    getenv("BOOKCONV_PUBLISHER"),
		Language:     getenv("BOOKCONV_LANGUAGE"),
		Date:         getenv("BOOKCONV_DATE"),
	}

	if workers := getenv("BOOKCONV_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars reports BOOKCONV_* variables that are not recognized,
// e.g. BOOKCONV_AUTOR.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays set variables onto cfg.
// Precedence: flags > environment > config file > defaults
// (flags are applied afterwards by mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.Output.Dir, env.OutputDir)
	set(&cfg.TempDir, env.TempDir)
	set(&cfg.Tools.Pandoc, env.Pandoc)
	set(&cfg.Tools.EbookConvert, env.EbookConvert)
	set(&cfg.Tools.PDFEngine, env.PDFEngine)
	set(&cfg.Book.Author, env.Author)
	set(&cfg.Book.Publisher, env.Publisher)
	set(&cfg.Book.Language, env.Language)
	set(&cfg.Book.Date, env.Date)

	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}
