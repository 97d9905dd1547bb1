package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/quire/internal/pageservice"
)

// RouterConfig carries the optional parts of the API router.
type RouterConfig struct {
	AuthEnabled bool
	Token       string
	// Events, if non-nil, is mounted at GET /events inside the auth group.
	Events http.Handler
	// Uploads, if non-nil, accepts image uploads at POST /uploads/image.
	Uploads *UploadHandler
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(svc *pageservice.Service, cfg RouterConfig) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(cfg.AuthEnabled, cfg.Token))

	r.Get("/pages", h.ListPages)
	r.Post("/pages", h.CreatePage)
	r.Post("/pages/move", h.MovePage)
	r.Get("/pages/*", h.GetPage)
	r.Put("/pages/*", h.UpdatePage)
	r.Delete("/pages/*", h.DeletePage)

	r.Get("/blocks/*", h.GetBlocks)
	r.Put("/blocks/*", h.SaveBlocks)

	r.Post("/convert/markdown", h.ConvertMarkdown)
	r.Post("/convert/blocks", h.ConvertBlocks)
	r.Post("/convert/html", h.ConvertHTML)

	r.Get("/preview/*", h.PreviewPage)
	r.Post("/preview", h.PreviewDocument)

	r.Get("/search", h.Search)
	r.Get("/graph", h.Graph)

	if cfg.Uploads != nil {
		r.Post("/uploads/image", cfg.Uploads.Upload)
	}
	if cfg.Events != nil {
		r.Get("/events", cfg.Events.ServeHTTP)
	}

	return r
}
