package bookconv

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Chapter is one chapter of a book.
type Chapter struct {
	Title   string
	Content string // Markdown
	Number  int    // 0 = unnumbered
	File    string // source file name when loaded by LoadChapters
}

// textMarkdown parses with GFM so tables and strikethrough are understood
// and stripped rather than left as literal pipes and tildes.
var textMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var (
	blankRuns    = regexp.MustCompile(`\n{3,}`)
	inlineSpaces = regexp.MustCompile(`[ \t]+`)
	chapterBreak = regexp.MustCompile(`(?m)^(CHAPTER|Chapter)\s+(\d+|[IVXLCDM]+)`)
)

// upper applies full Unicode upper-casing ("ß" -> "SS").
// A Caser is stateful, so each call builds its own.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// StripMarkdown returns the text of markdown without formatting.
// Blocks are separated by one blank line, list items keep one line each,
// runs of spaces and tabs collapse and every line is trimmed.
func StripMarkdown(markdown string) string {
	if markdown == "" {
		return ""
	}

	src := []byte(markdown)
	doc := textMarkdown.Parser().Parse(text.NewReader(src))

	var blocks []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			blocks = append(blocks, inlineText(node, src))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			blocks = append(blocks, blockLines(node, src))
			return ast.WalkSkipChildren, nil
		case *ast.List:
			blocks = append(blocks, listText(node, src))
			return ast.WalkSkipChildren, nil
		case *extast.Table:
			blocks = append(blocks, tableText(node, src))
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return normalizeText(strings.Join(blocks, "\n\n"))
}

// inlineText concatenates the text under n, keeping soft and hard breaks.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := child.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func blockLines(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimRight(b.String(), "\n")
}

func listText(list *ast.List, src []byte) string {
	var items []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var parts []string
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.List:
				parts = append(parts, listText(node, src))
			default:
				parts = append(parts, inlineText(node, src))
			}
		}
		items = append(items, strings.Join(parts, "\n"))
	}
	return strings.Join(items, "\n")
}

func tableText(table *extast.Table, src []byte) string {
	var rows []string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(inlineText(cell, src)))
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return strings.Join(rows, "\n")
}

func normalizeText(s string) string {
	s = inlineSpaces.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// MarkdownToText renders markdown as plain text for web display. A non-empty
// title is upper-cased on top; "Chapter N" lines are set off by blank lines.
func MarkdownToText(markdown, title string) string {
	if markdown == "" {
		return ""
	}

	s := StripMarkdown(markdown)
	if title != "" {
		s = upper(title) + "\n\n" + s
	}
	s = chapterBreak.ReplaceAllString(s, "\n\n${1} ${2}\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ChapterToText renders one chapter under an upper-cased header,
// "CHAPTER 3: TITLE" when numbered.
func ChapterToText(ch Chapter) string {
	header := upper(ch.Title)
	if ch.Number != 0 {
		header = fmt.Sprintf("CHAPTER %d: %s", ch.Number, header)
	}
	return header + "\n\n" + StripMarkdown(ch.Content)
}

// ChaptersToText joins chapters with "---" separators, under an upper-cased
// book title and "===" rule when bookTitle is set.
func ChaptersToText(chapters []Chapter, bookTitle string) string {
	parts := make([]string, len(chapters))
	for i, ch := range chapters {
		parts[i] = ChapterToText(ch)
	}
	body := strings.Join(parts, "\n\n---\n\n")

	if bookTitle != "" {
		return upper(bookTitle) + "\n\n===\n\n" + body
	}
	return body
}
