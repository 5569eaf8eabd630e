// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the note collection for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/noteweave/internal/apperr"
	"github.com/starford/noteweave/internal/noteservice"
)

// Server wraps the MCP server with note tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all note tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Noteweave",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes, newest first. Optionally filter by a case-insensitive term and an exact tag."),
		mcp.WithString("query", mcp.Description("Term matched against title, content and tags")),
		mcp.WithString("tag", mcp.Description("Exact tag")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note's metadata and raw Markdown body by slug."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Note slug (file name without extension)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("render_note",
		mcp.WithDescription("Render a note's body to HTML with wiki-links resolved."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Note slug")),
	), s.renderNote)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find every [[Title]] occurrence in other notes that links to the specified note."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Slug of the note to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("resolve_link",
		mcp.WithDescription("Resolve a wiki-link title to a note slug. Matching is exact and case-sensitive."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Text between [[ and ]]")),
	), s.resolveLink)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search notes by term and tag."),
		mcp.WithString("query", mcp.Description("Search query string")),
		mcp.WithString("tag", mcp.Description("Exact tag")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 20)")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("check_notes",
		mcp.WithDescription("Report duplicate titles and broken wiki-links in the collection."),
	), s.checkNotes)

	s.mcp.AddTool(mcp.NewTool("get_note_contract",
		mcp.WithDescription("Returns the note format: frontmatter fields, wiki-link syntax and the Markdown subset."),
	), s.getNoteContract)

	s.mcp.AddResource(
		mcp.NewResource(NoteFormatURI, "Note Format",
			mcp.WithResourceDescription("Frontmatter, wiki-link and Markdown rules for notes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
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

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func lookupError(slug string, err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug))
	}
	return mcp.NewToolResultError(err.Error())
}

func optionalString(req mcp.CallToolRequest, key string) string {
	if v, err := req.RequireString(key); err == nil {
		return v
	}
	return ""
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items := s.svc.ListNotes(ctx, optionalString(req, "query"), optionalString(req, "tag"))
	return jsonResult(items)
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.Index().Get(slug)
	if err != nil {
		return lookupError(slug, err), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "title: %s\ndate: %s\n", rec.Title, rec.Date)
	if len(rec.Tags) > 0 {
		fmt.Fprintf(&b, "tags: %s\n", strings.Join(rec.Tags, ", "))
	}
	b.WriteString("\n")
	b.WriteString(rec.Content)
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) renderNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	html, err := s.svc.RenderNote(ctx, slug)
	if err != nil {
		return lookupError(slug, err), nil
	}
	return mcp.NewToolResultText(html), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl := s.svc.Backlinks(ctx, slug)
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return jsonResult(bl)
}

func (s *Server) resolveLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.Resolve(ctx, title))
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, tag := optionalString(req, "query"), optionalString(req, "tag")
	if query == "" && tag == "" {
		return mcp.NewToolResultError("query or tag is required"), nil
	}
	limit := 0
	if l, err := req.RequireFloat("limit"); err == nil {
		limit = int(l)
	}
	results, err := s.svc.Search(ctx, query, tag, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) checkNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	warnings := s.svc.Validate()
	if len(warnings) == 0 {
		return mcp.NewToolResultText("no problems found"), nil
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getNoteContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormatContract), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      NoteFormatURI,
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}
