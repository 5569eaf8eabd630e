package api

import (
	"github.com/starford/noteweave/internal/noteservice"
	"github.com/starford/noteweave/internal/search"
)

// NoteSummary is a lightweight item in a list response (aliased from the domain layer).
type NoteSummary = noteservice.NoteSummary

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// BacklinkItem is one backlink in a response (aliased from the domain layer).
type BacklinkItem = noteservice.BacklinkItem

// Preview is the hover card response (aliased from the domain layer).
type Preview = noteservice.Preview

// Resolution is the wiki-link resolution response (aliased from the domain layer).
type Resolution = noteservice.Resolution

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []NoteSummary `json:"notes"`
	Total int           `json:"total"`
}

// BacklinksResponse wraps backlinks of a note.
type BacklinksResponse struct {
	Slug      string         `json:"slug"`
	Backlinks []BacklinkItem `json:"backlinks"`
}

// TagsResponse wraps the tag catalogue.
type TagsResponse struct {
	Tags []search.TagCount `json:"tags"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []search.Result `json:"results"`
}

// GraphResponse is the wiki-link graph.
type GraphResponse = search.Graph

// RenderRequest is the body of POST /render.
type RenderRequest struct {
	Markdown string `json:"markdown"`
}

// RenderResponse carries rendered HTML.
type RenderResponse struct {
	HTML string `json:"html"`
}
