package htmlimport

import (
	"strings"
	"testing"

	"github.com/starford/quire/internal/blocks"
)

func TestToBlocks_CommonElements(t *testing.T) {
	html := `<h1>Title</h1>
<p>Some <b>bold</b> and <em>em</em> text.</p>
<ul><li>one</li><li>two</li></ul>
<hr>
<blockquote><p>quoted</p></blockquote>
<pre><code>x := 1</code></pre>`

	doc, err := New().ToBlocks(html, "")
	if err != nil {
		t.Fatalf("ToBlocks: %v", err)
	}
	var types []string
	for _, b := range doc.Blocks {
		types = append(types, b.Type)
	}
	want := []string{
		blocks.TypeHeader, blocks.TypeParagraph, blocks.TypeList,
		blocks.TypeDelimiter, blocks.TypeQuote, blocks.TypeCode,
	}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Fatalf("types = %v, want %v", types, want)
	}
	if p := doc.Blocks[1].Data.(blocks.Paragraph); p.Text != "Some <b>bold</b> and <i>em</i> text." {
		t.Errorf("paragraph = %q", p.Text)
	}
	if l := doc.Blocks[2].Data.(blocks.List); len(l.Items) != 2 || l.Style != blocks.StyleUnordered {
		t.Errorf("list = %+v", l)
	}
	if c := doc.Blocks[5].Data.(blocks.Code); c.Code != "x := 1" {
		t.Errorf("code = %q", c.Code)
	}
}

func TestToBlocks_Table(t *testing.T) {
	html := `<table><thead><tr><th>A</th><th>B</th></tr></thead>
<tbody><tr><td>1</td><td>2</td></tr></tbody></table>`
	doc, err := New().ToBlocks(html, "")
	if err != nil {
		t.Fatalf("ToBlocks: %v", err)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("blocks = %+v", doc.Blocks)
	}
	tbl, ok := doc.Blocks[0].Data.(blocks.Table)
	if !ok {
		t.Fatalf("data = %T, want Table", doc.Blocks[0].Data)
	}
	if len(tbl.Content) != 2 || tbl.Content[0][0] != "A" || tbl.Content[1][1] != "2" {
		t.Errorf("content = %v", tbl.Content)
	}
}

func TestToMarkdown_DropsScriptsAndResolvesLinks(t *testing.T) {
	html := `<p>see <a href="/docs">docs</a></p><script>alert(1)</script>`
	md, err := New().ToMarkdown(html, "https://example.com")
	if err != nil {
		t.Fatalf("ToMarkdown: %v", err)
	}
	if strings.Contains(md, "alert") {
		t.Errorf("script survived: %q", md)
	}
	if !strings.Contains(md, "[docs](https://example.com/docs)") {
		t.Errorf("link not resolved: %q", md)
	}
}

func TestToBlocks_Empty(t *testing.T) {
	doc, err := New().ToBlocks("", "")
	if err != nil {
		t.Fatalf("ToBlocks: %v", err)
	}
	if doc.Blocks == nil || len(doc.Blocks) != 0 {
		t.Errorf("blocks = %#v", doc.Blocks)
	}
}
