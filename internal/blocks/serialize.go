package blocks

import (
	"regexp"
	"strconv"
	"strings"
)

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// ToMarkdown renders a block document as Markdown. Blocks are separated by a
// blank line, ordered lists are renumbered from 1, and unknown block types
// are skipped. A nil document or a document without blocks renders as "".
//
// Header levels are clamped to 1..6, so a level 9 header renders as ######.
// Text is trimmed and empty list items are dropped, which keeps a second
// parse and render pass byte-identical to the first.
func ToMarkdown(doc *Document) string {
	if doc == nil || doc.Blocks == nil {
		return ""
	}
	var sb strings.Builder
	for _, b := range doc.Blocks {
		out, ok := renderBlock(b)
		if !ok {
			continue
		}
		sb.WriteString(out)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(blankRunRe.ReplaceAllString(sb.String(), "\n\n"))
}

// renderBlock returns the Markdown for one block, or false when the block
// produces no output.
func renderBlock(b Block) (string, bool) {
	switch d := b.payload().(type) {
	case Header:
		level := d.Level
		if level < 1 {
			level = 1
		}
		level = min(level, 6)
		return strings.Repeat("#", level) + " " + inlineText(d.Text), true
	case Paragraph:
		text := inlineText(d.Text)
		return text, text != ""
	case List:
		return renderList(d)
	case Code:
		return fenceMarker + "\n" + d.Code + "\n" + fenceMarker, true
	case Quote:
		return "> " + inlineText(d.Text), true
	case Delimiter:
		return "---", true
	case Table:
		return renderTable(d)
	}
	return "", false
}

// inlineText converts block text to Markdown and trims it the way the parser
// trims every line it reads.
func inlineText(text string) string {
	return strings.TrimSpace(MarkdownInline(text))
}

func renderList(l List) (string, bool) {
	lines := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		text := inlineText(item)
		if text == "" {
			continue
		}
		marker := "-"
		if l.Style == StyleOrdered {
			marker = strconv.Itoa(len(lines)+1) + "."
		}
		lines = append(lines, marker+" "+text)
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

// renderTable writes the first row as the heading row, followed by a
// generated separator with one rule per heading column.
func renderTable(t Table) (string, bool) {
	if len(t.Content) == 0 {
		return "", false
	}
	lines := make([]string, 0, len(t.Content)+1)
	lines = append(lines, tableRow(t.Content[0]))
	lines = append(lines, "|"+strings.Repeat("---|", max(len(t.Content[0]), 1)))
	for _, row := range t.Content[1:] {
		lines = append(lines, tableRow(row))
	}
	return strings.Join(lines, "\n"), true
}

func tableRow(cells []string) string {
	converted := make([]string, len(cells))
	for i, c := range cells {
		converted[i] = inlineText(c)
	}
	return "| " + strings.Join(converted, " | ") + " |"
}
