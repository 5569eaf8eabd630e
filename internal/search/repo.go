package search

import (
	"fmt"
	"strings"

	"github.com/starford/noteweave/internal/links"
	"github.com/starford/noteweave/internal/models"
)

// Load replaces the indexed collection with records inside one transaction.
// Wiki-links are resolved through r; unresolved links are stored with an
// empty target.
func (db *DB) Load(records []models.NoteRecord, r links.Resolver) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("search: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, table := range []string{"notes", "tags", "links"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("search: clear %s: %w", table, err)
		}
	}
	if err := ftsClear(tx); err != nil {
		return err
	}

	noteStmt, err := tx.Prepare(`
		INSERT INTO notes (slug, position, title, date, description, body, title_fold, body_fold)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("search: prepare note insert: %w", err)
	}
	defer noteStmt.Close()

	tagStmt, err := tx.Prepare(`INSERT OR IGNORE INTO tags (slug, tag, tag_fold) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("search: prepare tag insert: %w", err)
	}
	defer tagStmt.Close()

	linkStmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target, title) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("search: prepare link insert: %w", err)
	}
	defer linkStmt.Close()

	for i, rec := range records {
		if _, err := noteStmt.Exec(rec.Slug, i, rec.Title, rec.Date.String(), rec.Description, rec.Content,
			strings.ToLower(rec.Title), strings.ToLower(rec.Content)); err != nil {
			return fmt.Errorf("search: insert note %s: %w", rec.Slug, err)
		}
		if err := ftsInsert(tx, rec); err != nil {
			return err
		}
		for _, tag := range rec.Tags {
			if _, err := tagStmt.Exec(rec.Slug, tag, strings.ToLower(tag)); err != nil {
				return fmt.Errorf("search: insert tag: %w", err)
			}
		}
		for _, l := range links.Find(rec.Content, r) {
			if _, err := linkStmt.Exec(rec.Slug, l.Target, l.Title); err != nil {
				return fmt.Errorf("search: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// Tags returns every tag with its note count, sorted by name.
func (db *DB) Tags() ([]TagCount, error) {
	rows, err := db.conn.Query(`SELECT tag, count(*) FROM tags GROUP BY tag ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("search: tags: %w", err)
	}
	defer rows.Close()

	out := []TagCount{}
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// Graph returns every note as a node, in collection order, and one edge per
// distinct resolved link.
func (db *DB) Graph() (Graph, error) {
	g := Graph{Nodes: []GraphNode{}, Edges: []GraphEdge{}}

	rows, err := db.conn.Query(`SELECT slug, title FROM notes ORDER BY position`)
	if err != nil {
		return g, fmt.Errorf("search: graph nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var n GraphNode
		if err := rows.Scan(&n.Slug, &n.Title); err != nil {
			return g, err
		}
		g.Nodes = append(g.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return g, err
	}

	edges, err := db.conn.Query(`
		SELECT DISTINCT source, target FROM links
		WHERE target != ''
		ORDER BY source, target`)
	if err != nil {
		return g, fmt.Errorf("search: graph edges: %w", err)
	}
	defer edges.Close()
	for edges.Next() {
		var e GraphEdge
		if err := edges.Scan(&e.Source, &e.Target); err != nil {
			return g, err
		}
		g.Edges = append(g.Edges, e)
	}
	return g, edges.Err()
}

// list returns notes matching tag (all notes when empty) in collection order,
// filtered by a case-insensitive substring match on title, body and tags.
// The query is compared literally with instr against the folded columns, so
// it matches exactly what notes.Index.Filter matches.
func (db *DB) list(query, tag string, limit int) ([]Result, error) {
	folded := strings.ToLower(query)
	rows, err := db.conn.Query(`
		SELECT n.slug, n.title, n.date, n.description
		FROM notes n
		WHERE (? = ''
		       OR instr(n.title_fold, ?) > 0
		       OR instr(n.body_fold, ?) > 0
		       OR EXISTS (SELECT 1 FROM tags t WHERE t.slug = n.slug AND instr(t.tag_fold, ?) > 0))
		  AND (? = '' OR EXISTS (SELECT 1 FROM tags t WHERE t.slug = n.slug AND t.tag = ?))
		ORDER BY n.position
		LIMIT ?
	`, query, folded, folded, folded, tag, tag, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search: search: %w", err)
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Slug, &r.Title, &r.Date, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
