package search

import (
	"github.com/starford/noteweave/internal/links"
	"github.com/starford/noteweave/internal/models"
)

// DefaultLimit caps search results when no limit is given.
const DefaultLimit = 20

// Index defines the query index operations used by the HTTP and MCP surfaces.
type Index interface {
	Load(records []models.NoteRecord, r links.Resolver) error
	Search(query, tag string, limit int) ([]Result, error)
	Tags() ([]TagCount, error)
	Graph() (Graph, error)
	Close() error
}

// Verify *DB satisfies Index at compile time.
var _ Index = (*DB)(nil)

// Result is one search hit.
type Result struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

// TagCount is a tag with the number of notes carrying it.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// GraphNode is a note in the link graph.
type GraphNode struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// GraphEdge is a resolved wiki-link between two notes.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the resolved wiki-link graph of the collection.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
