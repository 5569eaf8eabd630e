package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/noteweave/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes.
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/{slug}", h.GetNote)
	r.Get("/notes/{slug}/html", h.RenderNote)
	r.Get("/notes/{slug}/backlinks", h.Backlinks)
	r.Get("/notes/{slug}/preview", h.Preview)

	// Links and rendering.
	r.Get("/resolve", h.Resolve)
	r.Post("/render", h.Render)

	// Catalogue.
	r.Get("/tags", h.Tags)
	r.Get("/search", h.Search)
	r.Get("/graph", h.Graph)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
