package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/quire/internal/blocks"
	"github.com/starford/quire/internal/pageservice"
	"github.com/starford/quire/internal/testutil"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	root, store := testutil.TestWorkspace(t)
	db := testutil.TestDB(t)
	svc := pageservice.NewService(store, db, nil, nil)
	return New(svc, "test"), root
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no in-process call helper, so dispatch to the handlers directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_pages":
		result, err = srv.searchPages(ctx, req)
	case "read_page":
		result, err = srv.readPage(ctx, req)
	case "create_page":
		result, err = srv.createPage(ctx, req)
	case "list_pages":
		result, err = srv.listPages(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "page_blocks":
		result, err = srv.pageBlocks(ctx, req)
	case "markdown_to_blocks":
		result, err = srv.markdownToBlocks(ctx, req)
	case "blocks_to_markdown":
		result, err = srv.blocksToMarkdown(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadPage(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_page", map[string]any{
		"path":    "test.md",
		"content": "# Hello\nWorld",
	})
	if r.IsError {
		t.Fatalf("create failed: %s", resultText(r))
	}

	r = callTool(t, srv, "read_page", map[string]any{"path": "test.md"})
	if r.IsError {
		t.Fatalf("read failed: %s", resultText(r))
	}
	if got := resultText(r); got != "# Hello\nWorld" {
		t.Errorf("content = %q", got)
	}
}

func TestCreatePage_Duplicate(t *testing.T) {
	srv, _ := testServer(t)
	args := map[string]any{"path": "dup.md", "content": "x"}
	callTool(t, srv, "create_page", args)

	r := callTool(t, srv, "create_page", args)
	if !r.IsError || !strings.Contains(resultText(r), "already exists") {
		t.Errorf("expected already exists error, got %q", resultText(r))
	}
}

func TestCreatePage_MissingArgs(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_page", map[string]any{"path": "a.md"})
	if !r.IsError {
		t.Error("expected error for missing content")
	}
}

func TestReadPageMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_page", map[string]any{"path": "nope.md"})
	if !r.IsError {
		t.Error("expected error for missing page")
	}
	if !strings.Contains(resultText(r), "not found") {
		t.Errorf("message = %q", resultText(r))
	}
}

func TestListPages_FolderAndTag(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_page", map[string]any{"path": "a.md", "content": "A #go"})
	callTool(t, srv, "create_page", map[string]any{"path": "docs/b.md", "content": "B"})
	callTool(t, srv, "create_page", map[string]any{"path": "docs/c.md", "content": "C #go"})

	r := callTool(t, srv, "list_pages", map[string]any{})
	if got := resultText(r); got != "a.md\ndocs/b.md\ndocs/c.md" {
		t.Errorf("all = %q", got)
	}

	r = callTool(t, srv, "list_pages", map[string]any{"folder": "docs/"})
	if got := resultText(r); got != "docs/b.md\ndocs/c.md" {
		t.Errorf("folder = %q", got)
	}

	r = callTool(t, srv, "list_pages", map[string]any{"tag": "go", "folder": "docs"})
	if got := resultText(r); got != "docs/c.md" {
		t.Errorf("folder+tag = %q", got)
	}

	r = callTool(t, srv, "list_pages", map[string]any{"folder": "missing"})
	if got := resultText(r); got != "no pages found" {
		t.Errorf("missing folder = %q", got)
	}
}

func TestSearchPages(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_page", map[string]any{"path": "s.md", "content": "# Gardening\nTomatoes need sun."})

	r := callTool(t, srv, "search_pages", map[string]any{"query": "Tomatoes"})
	if r.IsError || !strings.Contains(resultText(r), "s.md") {
		t.Errorf("search = %q", resultText(r))
	}

	r = callTool(t, srv, "search_pages", map[string]any{"query": "zzzunmatched"})
	if resultText(r) != "no results" {
		t.Errorf("empty search = %q", resultText(r))
	}
}

func TestGetBacklinks(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_page", map[string]any{"path": "target.md", "content": "# Target"})
	callTool(t, srv, "create_page", map[string]any{"path": "source.md", "content": "Link to [[target]]"})

	r := callTool(t, srv, "get_backlinks", map[string]any{"path": "target.md"})
	if got := resultText(r); got != "source.md" {
		t.Errorf("backlinks = %q", got)
	}

	r = callTool(t, srv, "get_backlinks", map[string]any{"path": "lonely.md"})
	if got := resultText(r); got != "no backlinks found" {
		t.Errorf("no backlinks = %q", got)
	}
}

func TestPageBlocks(t *testing.T) {
	srv, root := testServer(t)
	testutil.WritePage(t, root, "p.md", "---\ntitle: P\n---\n# P\n\n- a\n- b\n")

	r := callTool(t, srv, "page_blocks", map[string]any{"path": "p.md"})
	if r.IsError {
		t.Fatalf("page_blocks failed: %s", resultText(r))
	}
	var pb pageservice.PageBlocks
	if err := json.Unmarshal([]byte(resultText(r)), &pb); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pb.Checksum == "" {
		t.Error("missing checksum")
	}
	if len(pb.Document.Blocks) != 2 || pb.Document.Blocks[1].Type != blocks.TypeList {
		t.Errorf("blocks = %+v", pb.Document.Blocks)
	}
}

func TestConvertTools_RoundTrip(t *testing.T) {
	srv, _ := testServer(t)
	md := "## Title\n\nSome **bold** text.\n\n1. one\n2. two"

	r := callTool(t, srv, "markdown_to_blocks", map[string]any{"markdown": md})
	if r.IsError {
		t.Fatalf("markdown_to_blocks failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"text": "Some <b>bold</b> text."`) {
		t.Errorf("document = %s", resultText(r))
	}

	r = callTool(t, srv, "blocks_to_markdown", map[string]any{"document": resultText(r)})
	if r.IsError {
		t.Fatalf("blocks_to_markdown failed: %s", resultText(r))
	}
	if got := resultText(r); got != md {
		t.Errorf("markdown = %q, want %q", got, md)
	}
}

func TestBlocksToMarkdown_InvalidJSON(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "blocks_to_markdown", map[string]any{"document": "{not json"})
	if !r.IsError || !strings.Contains(resultText(r), "invalid document") {
		t.Errorf("expected invalid document error, got %q", resultText(r))
	}
}

func TestBlockFormatResource(t *testing.T) {
	srv, _ := testServer(t)
	contents, err := srv.readBlockFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents type = %T", contents[0])
	}
	if tc.URI != BlockFormatURI || !strings.Contains(tc.Text, blocks.FormatVersion) {
		t.Errorf("resource = %+v", tc)
	}
}
