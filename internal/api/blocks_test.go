package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/quire/internal/blocks"
)

func TestGetBlocks(t *testing.T) {
	_, router, root := testEnvWithWorkspace(t, false, "")
	_ = os.WriteFile(filepath.Join(root, "plan.md"), []byte("---\ntitle: Plan\n---\n# Plan\n\n- a\n- b\n"), 0o644)

	w := doJSON(t, router, http.MethodGet, "/blocks/plan.md", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get blocks = %d, body = %s", w.Code, w.Body.String())
	}
	if w.Header().Get("ETag") == "" {
		t.Error("missing ETag")
	}
	var doc blocks.Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Blocks) != 2 || doc.Blocks[0].Type != blocks.TypeHeader || doc.Blocks[1].Type != blocks.TypeList {
		t.Errorf("blocks = %+v", doc.Blocks)
	}
	if doc.Version != blocks.FormatVersion {
		t.Errorf("version = %q", doc.Version)
	}
}

func TestGetBlocks_NotFound(t *testing.T) {
	_, router := testEnv(t, "")
	if w := doJSON(t, router, http.MethodGet, "/blocks/missing.md", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing = %d, want 404", w.Code)
	}
}

func TestSaveBlocks_RoundTripWithETag(t *testing.T) {
	_, router, root := testEnvWithWorkspace(t, false, "")
	_ = os.WriteFile(filepath.Join(root, "doc.md"), []byte("---\ntitle: Keep\n---\n\nold\n"), 0o644)

	get := doJSON(t, router, http.MethodGet, "/blocks/doc.md", nil)
	etag := get.Header().Get("ETag")

	editorOutput := `{"time":1,"version":"2.28.2","blocks":[
		{"id":"x1","type":"header","data":{"text":"New","level":2}},
		{"id":"x2","type":"paragraph","data":{"text":"with <i>style</i>"}},
		{"id":"x3","type":"image","data":{"file":{"url":"/uploads/a.png"}}}
	]}`
	var doc blocks.Document
	if err := json.Unmarshal([]byte(editorOutput), &doc); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, router, http.MethodPut, "/blocks/doc.md", doc, "If-Match", etag)
	if w.Code != http.StatusOK {
		t.Fatalf("save = %d, body = %s", w.Code, w.Body.String())
	}
	data, _ := os.ReadFile(filepath.Join(root, "doc.md"))
	want := "---\ntitle: Keep\n---\n\n## New\n\nwith *style*\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	// The old ETag is now stale.
	w = doJSON(t, router, http.MethodPut, "/blocks/doc.md", doc, "If-Match", etag)
	if w.Code != http.StatusConflict {
		t.Errorf("stale save = %d, want 409", w.Code)
	}
}

func TestSaveBlocks_CreatesPage(t *testing.T) {
	_, router, root := testEnvWithWorkspace(t, false, "")
	doc := blocks.FromMarkdown("fresh page")

	w := doJSON(t, router, http.MethodPut, "/blocks/new/page.md", doc)
	if w.Code != http.StatusOK {
		t.Fatalf("save = %d, body = %s", w.Code, w.Body.String())
	}
	if data, err := os.ReadFile(filepath.Join(root, "new", "page.md")); err != nil || string(data) != "fresh page\n" {
		t.Errorf("file = %q, %v", data, err)
	}
}

func TestSaveBlocks_MalformedDocument(t *testing.T) {
	_, router := testEnv(t, "")
	body := map[string]any{"blocks": []any{map[string]any{"type": "header", "data": map[string]any{"level": "two"}}}}
	if w := doJSON(t, router, http.MethodPut, "/blocks/bad.md", body); w.Code != http.StatusBadRequest {
		t.Errorf("malformed = %d, want 400", w.Code)
	}
}

func TestConvertMarkdownAndBack(t *testing.T) {
	_, router := testEnv(t, "")
	md := "# Title\n\n1. one\n2. two\n\n| A | B |\n|---|---|\n| 1 | 2 |"

	w := doJSON(t, router, http.MethodPost, "/convert/markdown", ConvertMarkdownRequest{Markdown: md})
	if w.Code != http.StatusOK {
		t.Fatalf("convert markdown = %d", w.Code)
	}
	var doc blocks.Document
	_ = json.Unmarshal(w.Body.Bytes(), &doc)
	if len(doc.Blocks) != 3 {
		t.Fatalf("blocks = %+v", doc.Blocks)
	}

	w = doJSON(t, router, http.MethodPost, "/convert/blocks", doc)
	if w.Code != http.StatusOK {
		t.Fatalf("convert blocks = %d", w.Code)
	}
	var resp MarkdownResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Markdown != md {
		t.Errorf("markdown = %q, want %q", resp.Markdown, md)
	}
}

func TestConvertMarkdown_EmptyInput(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodPost, "/convert/markdown", ConvertMarkdownRequest{})
	if !strings.Contains(w.Body.String(), `"blocks":[]`) || !strings.Contains(w.Body.String(), `"time":0`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestConvertHTML(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodPost, "/convert/html", ConvertHTMLRequest{HTML: "<h3>Pasted</h3><ol><li>a</li></ol>"})
	if w.Code != http.StatusOK {
		t.Fatalf("convert html = %d", w.Code)
	}
	var doc blocks.Document
	_ = json.Unmarshal(w.Body.Bytes(), &doc)
	if len(doc.Blocks) != 2 || doc.Blocks[1].Data.(blocks.List).Style != blocks.StyleOrdered {
		t.Errorf("blocks = %+v", doc.Blocks)
	}
}

func TestPreviewPage(t *testing.T) {
	_, router := testEnv(t, "")
	createPage(t, router, "p.md", "# Shown\n\n<script>alert(1)</script>")

	w := doJSON(t, router, http.MethodGet, "/preview/p.md", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("preview = %d", w.Code)
	}
	var resp PreviewResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !strings.Contains(resp.HTML, "Shown") || strings.Contains(resp.HTML, "<script") {
		t.Errorf("html = %q", resp.HTML)
	}
	if w := doJSON(t, router, http.MethodGet, "/preview/none.md", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing preview = %d, want 404", w.Code)
	}
}

func TestPreviewDocument(t *testing.T) {
	_, router := testEnv(t, "")
	doc := blocks.FromMarkdown("**bold** move")

	w := doJSON(t, router, http.MethodPost, "/preview", doc)
	var resp PreviewResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !strings.Contains(resp.HTML, "<strong>bold</strong>") {
		t.Errorf("html = %q", resp.HTML)
	}
}
