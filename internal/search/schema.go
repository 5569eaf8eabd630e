// Package search keeps a SQLite query index over the current note collection:
// term and tag search, tag counts and the wiki-link graph. The index is derived
// data, rebuilt from the collection on every generation.
package search

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN keeps the index in process memory.
const MemoryDSN = ":memory:"

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	slug        TEXT PRIMARY KEY,
	position    INTEGER NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	date        TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	body        TEXT NOT NULL DEFAULT '',
	-- lower-cased with Go's Unicode case mapping; SQLite only folds ASCII
	title_fold  TEXT NOT NULL DEFAULT '',
	body_fold   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tags (
	slug     TEXT NOT NULL,
	tag      TEXT NOT NULL,
	tag_fold TEXT NOT NULL DEFAULT '',
	UNIQUE(slug, tag)
);

CREATE TABLE IF NOT EXISTS links (
	source TEXT NOT NULL,
	target TEXT NOT NULL DEFAULT '',
	title  TEXT NOT NULL,
	UNIQUE(source, title)
);

CREATE INDEX IF NOT EXISTS idx_tags_tag ON tags(tag);
CREATE INDEX IF NOT EXISTS idx_links_source ON links(source);
CREATE INDEX IF NOT EXISTS idx_links_target ON links(target);
`

// DB wraps a sql.DB with query index operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
// An empty dsn means MemoryDSN.
func Open(dsn string) (*DB, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	conn, err := sql.Open("sqlite3", dsn+sep+"_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("search: open db: %w", err)
	}
	// Every connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("search: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("search: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("search: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
