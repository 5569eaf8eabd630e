//go:build !sqlite_fts5

package search

import (
	"database/sql"

	"github.com/starford/noteweave/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE on the notes table.
	return nil
}

func ftsClear(_ *sql.Tx) error { return nil }

func ftsInsert(_ *sql.Tx, _ models.NoteRecord) error { return nil }

// Search returns notes whose title, body or tags contain query, restricted to
// tag when set, in collection order. An empty query matches every note.
func (db *DB) Search(query, tag string, limit int) ([]Result, error) {
	return db.list(query, tag, limit)
}
