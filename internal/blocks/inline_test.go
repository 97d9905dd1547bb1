package blocks

import "testing"

func TestMarkupInline(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"**bold**", "<b>bold</b>"},
		{"__bold__", "<b>bold</b>"},
		{"*em*", "<i>em</i>"},
		{"_em_", "<i>em</i>"},
		{"use `go test` here", `use <code class="inline-code">go test</code> here`},
		{"[site](https://example.com)", `<a href="https://example.com">site</a>`},
		{"~~gone~~", "<s>gone</s>"},
		{"**a** and *b*", "<b>a</b> and <i>b</i>"},
		{"plain text", "plain text"},
		{"", ""},
	}
	for _, c := range cases {
		if got := MarkupInline(c.in); got != c.want {
			t.Errorf("MarkupInline(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMarkdownInline(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"<b>bold</b>", "**bold**"},
		{"<strong>bold</strong>", "**bold**"},
		{"<i>em</i>", "*em*"},
		{"<em>em</em>", "*em*"},
		{`<code class="inline-code">x</code>`, "`x`"},
		{`<a href="https://example.com">site</a>`, "[site](https://example.com)"},
		{`<a target="_blank" href="/p">p</a>`, "[p](/p)"},
		{"<s>gone</s>", "~~gone~~"},
		{"<del>gone</del>", "~~gone~~"},
		{"a&nbsp;b", "a b"},
		{"no tags", "no tags"},
	}
	for _, c := range cases {
		if got := MarkdownInline(c.in); got != c.want {
			t.Errorf("MarkdownInline(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMarkdownInline_UnderlineAndHighlightFoldToBold(t *testing.T) {
	if got := MarkdownInline(`<u class="cdx-underline">u</u>`); got != "**u**" {
		t.Errorf("underline = %q, want **u**", got)
	}
	if got := MarkdownInline(`<mark class="cdx-marker">m</mark>`); got != "**m**" {
		t.Errorf("highlight = %q, want **m**", got)
	}
}

func TestMarkdownInline_LeavesLookalikeTagsAlone(t *testing.T) {
	in := `line<br>break <img src="x.png"> <span>s</span>`
	if got := MarkdownInline(in); got != in {
		t.Errorf("MarkdownInline(%q) = %q, want unchanged", in, got)
	}
}

func TestInlineRoundTrip(t *testing.T) {
	for _, md := range []string{
		"**bold**",
		"*em*",
		"`code`",
		"[label](https://example.com/path)",
		"~~strike~~",
		"mixed **bold** with *em* and `code`",
	} {
		if got := MarkdownInline(MarkupInline(md)); got != md {
			t.Errorf("round trip %q = %q", md, got)
		}
	}
}
