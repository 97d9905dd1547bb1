package api

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UploadsURLPrefix is where stored images are served from.
const UploadsURLPrefix = "/uploads/"

// imageExt maps accepted sniffed content types to stored file extensions.
var imageExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadHandler stores and serves images uploaded from the block editor.
type UploadHandler struct {
	dir      string
	maxBytes int64
}

// NewUploadHandler creates a handler storing files in dir. Uploads larger
// than maxBytes are rejected.
func NewUploadHandler(dir string, maxBytes int64) *UploadHandler {
	return &UploadHandler{dir: dir, maxBytes: maxBytes}
}

// safeName validates that the filename is a plain name (no path separators,
// no traversal) and returns the absolute path under the uploads dir.
func (h *UploadHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") || strings.HasPrefix(cleaned, ".") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	abs := filepath.Join(h.dir, cleaned)
	if !strings.HasPrefix(abs, filepath.Clean(h.dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes uploads directory")
	}
	return abs, nil
}

// ServeFile handles GET /uploads/{filename}.
func (h *UploadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	abs, err := h.safeName(chi.URLParam(r, "filename"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// Upload handles POST /api/uploads/image (multipart/form-data, field "image").
// The stored name is a random UUID with an extension taken from the sniffed
// content type; the client filename is ignored.
//
//	@Summary		Upload an image for the block editor
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image	formData	file	true	"Image file"
//	@Success		200		{object}	ImageUploadResponse
//	@Failure		400		{object}	ImageUploadResponse
//	@Security		BearerAuth
//	@Router			/uploads/image [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeUploadError(w, http.StatusBadRequest, "file too large or invalid multipart")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeUploadError(w, http.StatusBadRequest, "missing 'image' field in multipart form")
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		writeUploadError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	head = head[:n]
	ext, ok := imageExt[http.DetectContentType(head)]
	if !ok {
		writeUploadError(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		slog.Error("create uploads dir failed", slog.String("error", err.Error()))
		writeUploadError(w, http.StatusInternalServerError, "failed to create uploads dir")
		return
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		slog.Error("create upload failed", slog.String("error", err.Error()))
		writeUploadError(w, http.StatusInternalServerError, "failed to create file")
		return
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		slog.Error("write upload failed", slog.String("file", name), slog.String("error", err.Error()))
		writeUploadError(w, http.StatusInternalServerError, "failed to write file")
		return
	}

	writeJSON(w, http.StatusOK, ImageUploadResponse{
		Success: 1,
		File:    &UploadedFile{URL: UploadsURLPrefix + name, Size: written},
	})
}

func writeUploadError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ImageUploadResponse{Success: 0, Message: msg})
}
