package blocks

import (
	"regexp"
	"strings"
	"time"
)

const fenceMarker = "```"

var (
	headerRe         = regexp.MustCompile(`^(#+)(?:\s+(.*))?$`)
	unorderedItemRe  = regexp.MustCompile(`^[*+-]\s+(.*)$`)
	orderedItemRe    = regexp.MustCompile(`^\d+\.\s+(.*)$`)
	quoteRe          = regexp.MustCompile(`^>\s?(.*)$`)
	tableSeparatorRe = regexp.MustCompile(`^[\s|:-]+$`)
)

// pendingList accumulates list items until a line that cannot extend the
// list arrives.
type pendingList struct {
	style string
	items []string
}

// parseState is created per call and threaded through the rule loop.
type parseState struct {
	lines  []string
	blocks []Block
	list   *pendingList
}

func (s *parseState) flushList() {
	if s.list == nil {
		return
	}
	if len(s.list.items) > 0 {
		s.blocks = append(s.blocks, NewBlock(List{Style: s.list.style, Items: s.list.items}))
	}
	s.list = nil
}

// emit finalizes any pending list and appends b.
func (s *parseState) emit(d Data) {
	s.flushList()
	s.blocks = append(s.blocks, NewBlock(d))
}

func (s *parseState) addItem(style, item string) {
	if s.list != nil && s.list.style != style {
		s.flushList()
	}
	if s.list == nil {
		s.list = &pendingList{style: style}
	}
	s.list.items = append(s.list.items, item)
}

// rule is one entry of the line classifier. match inspects line i; apply
// consumes it (and possibly following lines) and returns the next index.
type rule struct {
	name  string
	match func(s *parseState, i int) bool
	apply func(s *parseState, i int) int
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{name: "blank", match: matchBlank, apply: applyBlank},
	{name: "header", match: matchHeader, apply: applyHeader},
	{name: "fence", match: matchFence, apply: applyFence},
	{name: "unordered", match: matchUnordered, apply: applyUnordered},
	{name: "ordered", match: matchOrdered, apply: applyOrdered},
	{name: "delimiter", match: matchDelimiter, apply: applyDelimiter},
	{name: "quote", match: matchQuote, apply: applyQuote},
	{name: "table", match: matchTable, apply: applyTable},
	{name: "paragraph", match: matchAny, apply: applyParagraph},
}

// FromMarkdown parses Markdown into a block document stamped with the
// current time.
func FromMarkdown(markdown string) Document {
	return FromMarkdownAt(markdown, time.Now())
}

// FromMarkdownAt is FromMarkdown with an explicit generation time. Blank
// input yields an empty document with a zero timestamp.
func FromMarkdownAt(markdown string, at time.Time) Document {
	doc := Document{Blocks: []Block{}, Version: FormatVersion}
	if strings.TrimSpace(markdown) == "" {
		return doc
	}

	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	s := &parseState{lines: strings.Split(markdown, "\n")}
	for i := 0; i < len(s.lines); {
		i = s.step(i)
	}
	s.flushList()

	doc.GeneratedAt = at.UnixMilli()
	doc.Blocks = append(doc.Blocks, s.blocks...)
	return doc
}

func (s *parseState) step(i int) int {
	for _, r := range rules {
		if r.match(s, i) {
			return r.apply(s, i)
		}
	}
	return i + 1
}

func (s *parseState) trimmed(i int) string {
	return strings.TrimSpace(s.lines[i])
}

func matchAny(*parseState, int) bool { return true }

func matchBlank(s *parseState, i int) bool {
	return s.trimmed(i) == ""
}

// applyBlank ends a pending list run.
func applyBlank(s *parseState, i int) int {
	s.flushList()
	return i + 1
}

func matchHeader(s *parseState, i int) bool {
	return headerRe.MatchString(s.trimmed(i))
}

func applyHeader(s *parseState, i int) int {
	m := headerRe.FindStringSubmatch(s.trimmed(i))
	level := min(len(m[1]), 6)
	s.emit(Header{Text: MarkupInline(strings.TrimSpace(m[2])), Level: level})
	return i + 1
}

func matchFence(s *parseState, i int) bool {
	return strings.HasPrefix(s.trimmed(i), fenceMarker)
}

// applyFence collects raw lines up to the closing fence. An unterminated
// fence runs to the end of input. The info string after the opening fence
// is not kept.
func applyFence(s *parseState, i int) int {
	s.flushList()
	var code []string
	j := i + 1
	for ; j < len(s.lines); j++ {
		if strings.HasPrefix(s.trimmed(j), fenceMarker) {
			s.emit(Code{Code: strings.Join(code, "\n")})
			return j + 1
		}
		code = append(code, s.lines[j])
	}
	s.emit(Code{Code: strings.Join(code, "\n")})
	return j
}

func matchUnordered(s *parseState, i int) bool {
	return unorderedItemRe.MatchString(s.trimmed(i))
}

func applyUnordered(s *parseState, i int) int {
	m := unorderedItemRe.FindStringSubmatch(s.trimmed(i))
	s.addItem(StyleUnordered, MarkupInline(strings.TrimSpace(m[1])))
	return i + 1
}

func matchOrdered(s *parseState, i int) bool {
	return orderedItemRe.MatchString(s.trimmed(i))
}

func applyOrdered(s *parseState, i int) int {
	m := orderedItemRe.FindStringSubmatch(s.trimmed(i))
	s.addItem(StyleOrdered, MarkupInline(strings.TrimSpace(m[1])))
	return i + 1
}

func matchDelimiter(s *parseState, i int) bool {
	return isRule(s.trimmed(i))
}

func applyDelimiter(s *parseState, i int) int {
	s.emit(Delimiter{})
	return i + 1
}

// isRule reports whether line is three or more of the same rule character.
func isRule(line string) bool {
	if len(line) < 3 {
		return false
	}
	c := line[0]
	if c != '*' && c != '-' && c != '_' {
		return false
	}
	return strings.Count(line, string(c)) == len(line)
}

func matchQuote(s *parseState, i int) bool {
	return quoteRe.MatchString(s.trimmed(i))
}

// applyQuote emits one quote per line; consecutive quote lines stay separate.
func applyQuote(s *parseState, i int) int {
	m := quoteRe.FindStringSubmatch(s.trimmed(i))
	s.emit(Quote{Text: MarkupInline(strings.TrimSpace(m[1])), Caption: "", Alignment: "left"})
	return i + 1
}

// matchTable looks one line ahead: a row containing a pipe followed by a
// separator row starts a table.
func matchTable(s *parseState, i int) bool {
	if !strings.Contains(s.lines[i], "|") || i+1 >= len(s.lines) {
		return false
	}
	return isTableSeparator(s.lines[i+1])
}

func isTableSeparator(line string) bool {
	t := strings.TrimSpace(line)
	return t != "" && tableSeparatorRe.MatchString(t)
}

func applyTable(s *parseState, i int) int {
	s.flushList()
	var content [][]string
	if row := splitTableRow(s.lines[i]); len(row) > 0 {
		content = append(content, row)
	}
	j := i + 2
	for ; j < len(s.lines) && strings.Contains(s.lines[j], "|"); j++ {
		if row := splitTableRow(s.lines[j]); len(row) > 0 {
			content = append(content, row)
		}
	}
	if len(content) > 0 {
		s.emit(Table{WithHeadings: true, Content: content})
	}
	return j
}

// splitTableRow splits a pipe-delimited row into processed cells, dropping
// the empty cells produced by leading and trailing pipes.
func splitTableRow(line string) []string {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, MarkupInline(strings.TrimSpace(p)))
	}
	return cells
}

func applyParagraph(s *parseState, i int) int {
	s.emit(Paragraph{Text: MarkupInline(s.trimmed(i))})
	return i + 1
}
