package bookconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ---------------------------------------------------------------------------
// TestStripMarkdown
// ---------------------------------------------------------------------------

func TestStripMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "heading", in: "## Part One", want: "Part One"},
		{name: "emphasis", in: "Some *em*, **strong** and ~~gone~~ text.", want: "Some em, strong and gone text."},
		{name: "link keeps label", in: "Read [the docs](https://example.com) now.", want: "Read the docs now."},
		{name: "autolink", in: "See <https://example.com>.", want: "See https://example.com."},
		{name: "image keeps alt", in: "![a green light](light.png)", want: "a green light"},
		{name: "inline code", in: "Run `make all` first.", want: "Run make all first."},
		{name: "soft break kept", in: "line one\nline two", want: "line one\nline two"},
		{name: "spaces collapsed", in: "a    b\t\tc", want: "a b c"},
		{name: "blockquote", in: "> So we beat on.", want: "So we beat on."},
		{name: "list", in: "- one\n- two\n- three", want: "one\ntwo\nthree"},
		{name: "nested list", in: "1. outer\n   - inner", want: "outer\ninner"},
		{name: "code block", in: "```go\nfmt.Println(1)\n```", want: "fmt.Println(1)"},
		{name: "html block dropped", in: "<div class=\"x\">\nhidden\n</div>\n\nvisible", want: "visible"},
		{name: "inline html dropped", in: "a <b>bold</b> c", want: "a bold c"},
		{name: "thematic break dropped", in: "a\n\n***\n\nb", want: "a\n\nb"},
		{name: "table", in: "| A | B |\n|---|---|\n| 1 | 2 |", want: "A B\n1 2"},
		{
			name: "paragraphs separated by one blank line",
			in:   "# Title\n\n\n\nFirst.\n\nSecond.",
			want: "Title\n\nFirst.\n\nSecond.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StripMarkdown(tt.in))
		})
	}
}

// ---------------------------------------------------------------------------
// TestMarkdownToText
// ---------------------------------------------------------------------------

func TestMarkdownToText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		md    string
		title string
		want  string
	}{
		{name: "empty", md: "", title: "ignored", want: ""},
		{name: "no title", md: "Hello *world*.", want: "Hello world."},
		{name: "title upper-cased", md: "Hello.", title: "the great gatsby", want: "THE GREAT GATSBY\n\nHello."},
		{name: "unicode title", md: "Text.", title: "straße", want: "STRASSE\n\nText."},
		{name: "chapter line set off", md: "Chapter IV\n\nText.", title: "gatsby", want: "GATSBY\n\nChapter IV\n\nText."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MarkdownToText(tt.md, tt.title))
		})
	}
}

// ---------------------------------------------------------------------------
// TestChapterToText / TestChaptersToText
// ---------------------------------------------------------------------------

func TestChapterToText(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"CHAPTER 1: THE START\n\nIt was cold.",
		ChapterToText(Chapter{Title: "The Start", Content: "It *was* cold.", Number: 1}),
	)
	assert.Equal(t,
		"PROLOGUE\n\nBefore.",
		ChapterToText(Chapter{Title: "Prologue", Content: "Before."}),
	)
}

func TestChaptersToText(t *testing.T) {
	t.Parallel()

	chapters := []Chapter{
		{Title: "One", Content: "First.", Number: 1},
		{Title: "Two", Content: "Second.", Number: 2},
	}

	assert.Equal(t,
		"CHAPTER 1: ONE\n\nFirst.\n\n---\n\nCHAPTER 2: TWO\n\nSecond.",
		ChaptersToText(chapters, ""),
	)
	assert.Equal(t,
		"GATSBY\n\n===\n\nCHAPTER 1: ONE\n\nFirst.\n\n---\n\nCHAPTER 2: TWO\n\nSecond.",
		ChaptersToText(chapters, "Gatsby"),
	)
	assert.Empty(t, ChaptersToText(nil, ""))
}
