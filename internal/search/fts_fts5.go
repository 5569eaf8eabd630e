//go:build sqlite_fts5

package search

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/starford/noteweave/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			slug UNINDEXED,
			title,
			body,
			tags,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsClear(tx *sql.Tx) error {
	if _, err := tx.Exec(`DELETE FROM notes_fts`); err != nil {
		return fmt.Errorf("search: clear fts: %w", err)
	}
	return nil
}

func ftsInsert(tx *sql.Tx, rec models.NoteRecord) error {
	_, err := tx.Exec(`INSERT INTO notes_fts (slug, title, body, tags) VALUES (?, ?, ?, ?)`,
		rec.Slug, rec.Title, rec.Content, strings.Join(rec.Tags, " "))
	if err != nil {
		return fmt.Errorf("search: insert fts: %w", err)
	}
	return nil
}

// Search runs an FTS5 phrase query ranked by relevance, restricted to tag
// when set. An empty query lists notes in collection order. The query is
// always quoted as one phrase, so FTS5 operators in user input are literal.
func (db *DB) Search(query, tag string, limit int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return db.list("", tag, limit)
	}
	rows, err := db.conn.Query(`
		SELECT f.slug,
		       n.title,
		       n.date,
		       snippet(notes_fts, 2, '<b>', '</b>', '...', 32)
		FROM notes_fts f
		JOIN notes n ON n.slug = f.slug
		WHERE notes_fts MATCH ?
		  AND (? = '' OR EXISTS (SELECT 1 FROM tags t WHERE t.slug = f.slug AND t.tag = ?))
		ORDER BY rank
		LIMIT ?
	`, phrase(query), tag, tag, normalizeLimit(limit))
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

// phrase quotes query as a single FTS5 string, doubling embedded quotes.
func phrase(query string) string {
	return `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
}
