package api

import (
	"log/slog"
	"net/http"

	"github.com/starford/quire/internal/blocks"
	"github.com/starford/quire/internal/checksum"
)

// GetBlocks handles GET /api/blocks/*.
//
//	@Summary		Get a page body as an editor block document
//	@Tags			blocks
//	@Produce		json
//	@Param			path	path		string	true	"Page path"
//	@Success		200		{object}	blocks.Document
//	@Header			200		{string}	ETag	"Page checksum"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/blocks/{path} [get]
func (h *Handler) GetBlocks(w http.ResponseWriter, r *http.Request) {
	path := requirePath(w, r)
	if path == "" {
		return
	}
	pb, err := h.svc.Blocks(r.Context(), path)
	if err != nil {
		writeServiceError(w, "get blocks", err, slog.String("path", path))
		return
	}
	w.Header().Set("ETag", checksum.ETag(pb.Checksum))
	writeJSON(w, http.StatusOK, pb.Document)
}

// SaveBlocks handles PUT /api/blocks/*.
//
//	@Summary		Save an editor block document as the page body
//	@Description	Frontmatter is kept. A missing page is created when If-Match is absent.
//	@Tags			blocks
//	@Accept			json
//	@Produce		json
//	@Param			path		path	string			true	"Page path"
//	@Param			If-Match	header	string			false	"Checksum from the last GET"
//	@Param			body		body	blocks.Document	true	"Editor output"
//	@Success		200		{object}	PageDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/blocks/{path} [put]
func (h *Handler) SaveBlocks(w http.ResponseWriter, r *http.Request) {
	path := requirePath(w, r)
	if path == "" {
		return
	}
	var doc blocks.Document
	if !decodeJSON(w, r, &doc) {
		return
	}
	ifMatch := checksum.FromIfMatch(r.Header.Get("If-Match"))
	page, err := h.svc.SaveBlocks(r.Context(), path, &doc, ifMatch)
	if err != nil {
		writeServiceError(w, "save blocks", err, slog.String("path", path))
		return
	}
	w.Header().Set("ETag", checksum.ETag(page.Checksum))
	writeJSON(w, http.StatusOK, page)
}

// ConvertMarkdown handles POST /api/convert/markdown.
//
//	@Summary		Convert Markdown to a block document
//	@Tags			convert
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ConvertMarkdownRequest	true	"Markdown source"
//	@Success		200		{object}	blocks.Document
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/convert/markdown [post]
func (h *Handler) ConvertMarkdown(w http.ResponseWriter, r *http.Request) {
	var req ConvertMarkdownRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, blocks.FromMarkdown(req.Markdown))
}

// ConvertBlocks handles POST /api/convert/blocks.
//
//	@Summary		Convert a block document to Markdown
//	@Tags			convert
//	@Accept			json
//	@Produce		json
//	@Param			body	body		blocks.Document	true	"Editor output"
//	@Success		200		{object}	MarkdownResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/convert/blocks [post]
func (h *Handler) ConvertBlocks(w http.ResponseWriter, r *http.Request) {
	var doc blocks.Document
	if !decodeJSON(w, r, &doc) {
		return
	}
	writeJSON(w, http.StatusOK, MarkdownResponse{Markdown: blocks.ToMarkdown(&doc)})
}

// ConvertHTML handles POST /api/convert/html.
//
//	@Summary		Convert pasted HTML to a block document
//	@Tags			convert
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ConvertHTMLRequest	true	"HTML fragment"
//	@Success		200		{object}	blocks.Document
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/convert/html [post]
func (h *Handler) ConvertHTML(w http.ResponseWriter, r *http.Request) {
	var req ConvertHTMLRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	doc, err := h.svc.ImportHTML(req.HTML, req.BaseURL)
	if err != nil {
		writeServiceError(w, "convert html", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// PreviewPage handles GET /api/preview/*.
//
//	@Summary		Render a page to sanitized HTML
//	@Tags			preview
//	@Produce		json
//	@Param			path	path		string	true	"Page path"
//	@Success		200		{object}	PreviewResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/preview/{path} [get]
func (h *Handler) PreviewPage(w http.ResponseWriter, r *http.Request) {
	path := requirePath(w, r)
	if path == "" {
		return
	}
	html, err := h.svc.Preview(r.Context(), path)
	if err != nil {
		writeServiceError(w, "preview page", err, slog.String("path", path))
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{HTML: html})
}

// PreviewDocument handles POST /api/preview.
//
//	@Summary		Render an unsaved block document to sanitized HTML
//	@Tags			preview
//	@Accept			json
//	@Produce		json
//	@Param			body	body		blocks.Document	true	"Editor output"
//	@Success		200		{object}	PreviewResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/preview [post]
func (h *Handler) PreviewDocument(w http.ResponseWriter, r *http.Request) {
	var doc blocks.Document
	if !decodeJSON(w, r, &doc) {
		return
	}
	html, err := h.svc.PreviewDocument(&doc)
	if err != nil {
		writeServiceError(w, "preview document", err)
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{HTML: html})
}
