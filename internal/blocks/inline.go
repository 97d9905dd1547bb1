package blocks

import (
	"regexp"
	"strings"
)

type substitution struct {
	re   *regexp.Regexp
	repl string
}

// markupRules run in order. Bold must be resolved before italic so that
// **x** is not read as two single-asterisk spans.
var markupRules = []substitution{
	{regexp.MustCompile(`\*\*(.+?)\*\*`), `<b>$1</b>`},
	{regexp.MustCompile(`__(.+?)__`), `<b>$1</b>`},
	{regexp.MustCompile(`\*([^*]+)\*`), `<i>$1</i>`},
	{regexp.MustCompile(`_([^_]+)_`), `<i>$1</i>`},
	{regexp.MustCompile("`([^`]+)`"), `<code class="inline-code">$1</code>`},
	{regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`), `<a href="$2">$1</a>`},
	{regexp.MustCompile(`~~(.+?)~~`), `<s>$1</s>`},
}

// markdownRules undo markupRules. Underline and highlight have no Markdown
// form and fold into bold.
var markdownRules = []substitution{
	{regexp.MustCompile(`<(?:b|strong)(?:\s[^>]*)?>(.*?)</(?:b|strong)>`), `**$1**`},
	{regexp.MustCompile(`<(?:i|em)(?:\s[^>]*)?>(.*?)</(?:i|em)>`), `*$1*`},
	{regexp.MustCompile(`<code(?:\s[^>]*)?>(.*?)</code>`), "`$1`"},
	{regexp.MustCompile(`<a\s[^>]*?href="([^"]*)"[^>]*>(.*?)</a>`), `[$2]($1)`},
	{regexp.MustCompile(`<(?:s|strike|del)(?:\s[^>]*)?>(.*?)</(?:s|strike|del)>`), `~~$1~~`},
	{regexp.MustCompile(`<u(?:\s[^>]*)?>(.*?)</u>`), `**$1**`},
	{regexp.MustCompile(`<mark(?:\s[^>]*)?>(.*?)</mark>`), `**$1**`},
}

// MarkupInline converts inline Markdown spans in a single line of text to the
// editor's inline tags. Spans are not nested; text without spans is returned
// unchanged.
func MarkupInline(text string) string {
	return apply(markupRules, text)
}

// MarkdownInline converts the editor's inline tags back to Markdown spans.
// Underlined and highlighted text becomes bold. Non-breaking space entities
// inserted by the editor become plain spaces.
func MarkdownInline(text string) string {
	out := apply(markdownRules, text)
	return strings.ReplaceAll(out, "&nbsp;", " ")
}

func apply(rules []substitution, text string) string {
	if text == "" {
		return text
	}
	for _, r := range rules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return text
}
