package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brainrot-publishing/bookconv/internal/config"
)

func mapGetenv(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	got := loadEnvConfig(mapGetenv(map[string]string{
		"BOOKCONV_CONFIG":     "book",
		"BOOKCONV_PANDOC":     "/opt/pandoc",
		"BOOKCONV_PDF_ENGINE": "tectonic",
		"BOOKCONV_AUTHOR":     "Env Author",
		"BOOKCONV_WORKERS":    "3",
	}))

	assert.Equal(t, "book", got.ConfigPath)
	assert.Equal(t, "/opt/pandoc", got.Pandoc)
	assert.Equal(t, "tectonic", got.PDFEngine)
	assert.Equal(t, "Env Author", got.Author)
	assert.Equal(t, 3, got.Workers)
}

func TestLoadEnvConfig_InvalidWorkersIgnored(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"abc", "0", "-2"} {
		got := loadEnvConfig(mapGetenv(map[string]string{"BOOKCONV_WORKERS": v}))
		assert.Zero(t, got.Workers, v)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Book.Author = "File Author"
	cfg.Book.Title = "File Title"

	applyEnvConfig(&envConfig{Author: "Env Author", EbookConvert: "/calibre/ebook-convert", Workers: 2}, cfg)

	assert.Equal(t, "Env Author", cfg.Book.Author, "environment beats config file")
	assert.Equal(t, "File Title", cfg.Book.Title, "unset variables keep file values")
	assert.Equal(t, "/calibre/ebook-convert", cfg.Tools.EbookConvert)
	assert.Equal(t, "pandoc", cfg.Tools.Pandoc)
	assert.Equal(t, 2, cfg.Workers)
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"HOME=/root",
		"BOOKCONV_AUTHOR=ok",
		"BOOKCONV_AUTOR=typo",
		"BOOKCONV_TITLE=not supported",
	})

	assert.Equal(t,
		"warning: unknown environment variable BOOKCONV_AUTOR (typo?)\n"+
			"warning: unknown environment variable BOOKCONV_TITLE (typo?)\n",
		buf.String(),
	)
}
