// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Quire pages and the block converter to LLM clients over stdio.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/blocks"
	"github.com/starford/quire/internal/pageservice"
)

// BlockFormatURI identifies the block format resource.
const BlockFormatURI = "quire://block-format"

const (
	searchLimit = 20
	listLimit   = 1000
)

// Server wraps the MCP server with Quire tools.
type Server struct {
	mcp *server.MCPServer
	svc *pageservice.Service
}

// New creates a new MCP server with all Quire tools registered.
func New(svc *pageservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Quire",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_pages",
		mcp.WithDescription("Full-text search through page titles, bodies and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchPages)

	s.mcp.AddTool(mcp.NewTool("read_page",
		mcp.WithDescription("Read the raw Markdown of a page, frontmatter included."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the page (e.g. guides/setup.md)")),
	), s.readPage)

	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create a new Markdown page. Only headings, paragraphs, flat lists, "+
			"fenced code, one-line quotes, rules and pipe tables survive a round trip through "+
			"the block editor; see the "+BlockFormatURI+" resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new page (must end with .md)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content")),
	), s.createPage)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List indexed pages, optionally restricted to a folder or tag."),
		mcp.WithString("folder", mcp.Description("Optional folder prefix (empty for all)")),
		mcp.WithString("tag", mcp.Description("Optional tag filter")),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all pages that link to the specified page."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path or wikilink target of the page")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("page_blocks",
		mcp.WithDescription("Return a page body as a block editor document (JSON) with the page checksum."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the page")),
	), s.pageBlocks)

	s.mcp.AddTool(mcp.NewTool("markdown_to_blocks",
		mcp.WithDescription("Convert Markdown into a block editor document (JSON)."),
		mcp.WithString("markdown", mcp.Required(), mcp.Description("Markdown source")),
	), s.markdownToBlocks)

	s.mcp.AddTool(mcp.NewTool("blocks_to_markdown",
		mcp.WithDescription("Convert a block editor document (JSON) into Markdown. Unknown block types are skipped."),
		mcp.WithString("document", mcp.Required(), mcp.Description(`Document JSON: {"time":0,"blocks":[...],"version":"..."}`)),
	), s.blocksToMarkdown)

	s.mcp.AddResource(
		mcp.NewResource(BlockFormatURI, "Block Document Format",
			mcp.WithResourceDescription("Block types and the Markdown each one maps to."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readBlockFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, searchLimit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no results"), nil
	}
	return jsonResult(results), nil
}

func (s *Server) readPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := s.svc.GetPage(ctx, path)
	if err != nil {
		return toolError(path, err), nil
	}
	return mcp.NewToolResultText(page.Content), nil
}

func (s *Server) createPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.CreatePage(ctx, path, []byte(content)); err != nil {
		return toolError(path, err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", path)), nil
}

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := strings.Trim(req.GetString("folder", ""), "/")
	items, _, err := s.svc.ListPages(ctx, listLimit, 0, req.GetString("tag", ""), "path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var paths []string
	for _, it := range items {
		if folder != "" && !strings.HasPrefix(it.Path, folder+"/") {
			continue
		}
		paths = append(paths, it.Path)
	}
	if len(paths) == 0 {
		return mcp.NewToolResultText("no pages found"), nil
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.svc.Backlinks(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) pageBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pb, err := s.svc.Blocks(ctx, path)
	if err != nil {
		return toolError(path, err), nil
	}
	return jsonResult(pb), nil
}

func (s *Server) markdownToBlocks(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	md, err := req.RequireString("markdown")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(blocks.FromMarkdown(md)), nil
}

func (s *Server) blocksToMarkdown(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var doc blocks.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid document: %v", err)), nil
	}
	return mcp.NewToolResultText(blocks.ToMarkdown(&doc)), nil
}

func (s *Server) readBlockFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      BlockFormatURI,
			MIMEType: "text/markdown",
			Text:     BlockFormat,
		},
	}, nil
}

// jsonResult encodes v as indented JSON. Block text carries inline HTML, so
// HTML escaping is off.
func jsonResult(v any) *mcp.CallToolResult {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(strings.TrimRight(buf.String(), "\n"))
}

// toolError turns service errors into tool results with a short message.
func toolError(path string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path))
	case errors.Is(err, apperr.ErrAlreadyExists):
		return mcp.NewToolResultError(fmt.Sprintf("page already exists: %s", path))
	default:
		return mcp.NewToolResultError(err.Error())
	}
}
