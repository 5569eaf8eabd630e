package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/noteweave/internal/apperr"
	"github.com/starford/noteweave/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

func writeLookupError(w http.ResponseWriter, op, slug string, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	slog.Error(op+" failed", slog.String("slug", slug), slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "internal error")
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes, newest first, with optional term and tag filters
//	@Tags			notes
//	@Produce		json
//	@Param			q	query		string	false	"Case-insensitive term over title, content and tags"
//	@Param			tag	query		string	false	"Exact tag"
//	@Success		200	{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := h.svc.ListNotes(r.Context(), q.Get("q"), q.Get("tag"))
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items, Total: len(items)})
}

// GetNote handles GET /api/notes/{slug}.
//
//	@Summary		Get a note with rendered HTML and backlinks
//	@Tags			notes
//	@Produce		json
//	@Param			slug	path		string	true	"Note slug"
//	@Success		200		{object}	NoteDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{slug} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	note, err := h.svc.GetNote(r.Context(), slug)
	if err != nil {
		writeLookupError(w, "get note", slug, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// RenderNote handles GET /api/notes/{slug}/html and returns the bare fragment.
//
//	@Summary		Render a note body to an HTML fragment
//	@Tags			notes
//	@Produce		html
//	@Param			slug	path		string	true	"Note slug"
//	@Success		200		{string}	string	"HTML fragment"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{slug}/html [get]
func (h *Handler) RenderNote(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	html, err := h.svc.RenderNote(r.Context(), slug)
	if err != nil {
		writeLookupError(w, "render note", slug, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// Backlinks handles GET /api/notes/{slug}/backlinks. Unknown slugs return an
// empty list, not 404.
//
//	@Summary		List backlinks of a note
//	@Tags			notes
//	@Produce		json
//	@Param			slug	path		string	true	"Note slug"
//	@Success		200		{object}	BacklinksResponse
//	@Security		BearerAuth
//	@Router			/notes/{slug}/backlinks [get]
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	writeJSON(w, http.StatusOK, BacklinksResponse{
		Slug:      slug,
		Backlinks: h.svc.Backlinks(r.Context(), slug),
	})
}

// Preview handles GET /api/notes/{slug}/preview.
//
//	@Summary		Get the hover preview of a note
//	@Tags			notes
//	@Produce		json
//	@Param			slug	path		string	true	"Note slug"
//	@Success		200		{object}	Preview
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{slug}/preview [get]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p, err := h.svc.Preview(r.Context(), slug)
	if err != nil {
		writeLookupError(w, "preview", slug, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Resolve handles GET /api/resolve?title=.
//
//	@Summary		Resolve a wiki-link title to a note
//	@Tags			links
//	@Produce		json
//	@Param			title	query		string	true	"Exact, case-sensitive note title"
//	@Success		200		{object}	Resolution
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/resolve [get]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'title' is required")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Resolve(r.Context(), title))
}

// Render handles POST /api/render, rendering ad-hoc markdown against the
// current collection.
//
//	@Summary		Render markdown against the current collection
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RenderRequest	true	"Markdown to render"
//	@Success		200		{object}	RenderResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/render [post]
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	writeJSON(w, http.StatusOK, RenderResponse{HTML: h.svc.RenderText(r.Context(), req.Markdown)})
}

// Tags handles GET /api/tags.
//
//	@Summary		List tags with note counts
//	@Tags			tags
//	@Produce		json
//	@Success		200	{object}	TagsResponse
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags(r.Context())
	if err != nil {
		slog.Error("tags failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}

// Search handles GET /api/search.
//
//	@Summary		Search notes by term and tag
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	false	"Search query"
//	@Param			tag		query		string	false	"Exact tag"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, tag := q.Get("q"), q.Get("tag")
	if strings.TrimSpace(query) == "" && tag == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' or 'tag' is required")
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	results, err := h.svc.Search(r.Context(), query, tag, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", query), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Graph handles GET /api/graph.
//
//	@Summary		Get the wiki-link graph
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Graph(r.Context())
	if err != nil {
		slog.Error("graph failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, g)
}
