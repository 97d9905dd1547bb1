package api

import (
	"github.com/starford/quire/internal/index"
	"github.com/starford/quire/internal/pageservice"
)

// CreatePageRequest is the request body for creating a page.
type CreatePageRequest struct {
	Path    string `json:"path" example:"guides/setup.md" validate:"required"`
	Content string `json:"content" example:"# Setup\nSteps" validate:"required"`
}

// UpdatePageRequest is the request body for updating a page.
type UpdatePageRequest struct {
	Content string `json:"content" example:"# Updated\nContent" validate:"required"`
}

// MovePageRequest is the request body for renaming a page.
type MovePageRequest struct {
	From string `json:"from" example:"drafts/setup.md" validate:"required"`
	To   string `json:"to" example:"guides/setup.md" validate:"required"`
}

// ConvertMarkdownRequest carries Markdown to convert into blocks.
type ConvertMarkdownRequest struct {
	Markdown string `json:"markdown" example:"# Title\n\n- item"`
}

// ConvertHTMLRequest carries an HTML fragment, typically from the clipboard.
type ConvertHTMLRequest struct {
	HTML    string `json:"html" example:"<h1>Title</h1>" validate:"required"`
	BaseURL string `json:"base_url,omitempty" example:"https://example.com"`
}

// MarkdownResponse wraps converted Markdown.
type MarkdownResponse struct {
	Markdown string `json:"markdown" validate:"required"`
}

// PreviewResponse wraps rendered HTML.
type PreviewResponse struct {
	HTML string `json:"html" validate:"required"`
}

// PageDetail is the full page response type (aliased from the domain layer).
type PageDetail = pageservice.PageDetail

// PageListItem is a lightweight item in a list response (aliased from the domain layer).
type PageListItem = pageservice.PageListItem

// PageListResponse wraps paginated page listings.
type PageListResponse struct {
	Pages []PageListItem `json:"pages" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit.
type SearchResult = index.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// GraphResponse wraps the page link graph.
type GraphResponse struct {
	Nodes []index.GraphNode `json:"nodes" validate:"required"`
	Links []index.GraphLink `json:"links" validate:"required"`
}

// ImageUploadResponse follows the block editor image tool's upload contract.
type ImageUploadResponse struct {
	Success int           `json:"success" example:"1"`
	File    *UploadedFile `json:"file,omitempty"`
	Message string        `json:"message,omitempty"`
}

// UploadedFile is the file part of ImageUploadResponse.
type UploadedFile struct {
	URL  string `json:"url" example:"/uploads/3f2b9c1e.png"`
	Size int64  `json:"size,omitempty" example:"12345"`
}
