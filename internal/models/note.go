// Package models defines the domain types for noteweave.
package models

import (
	"time"
)

// NoteDocument is a raw note as read from the notes directory.
type NoteDocument struct {
	Slug    string
	Content string
	ModTime time.Time
}

// NoteRecord is a note derived from a NoteDocument. Records are never
// mutated once an index has been built from them.
type NoteRecord struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Date        Date     `json:"date"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
}

// WikiLink is a [[Title]] occurrence discovered in raw note content.
type WikiLink struct {
	Title  string
	Target string // resolved slug, empty when broken
	Offset int    // byte offset of "[[" in the scanned content
	Length int    // byte length of the whole "[[...]]" match
}

// Broken reports whether the link did not resolve to any note.
func (l WikiLink) Broken() bool { return l.Target == "" }

// Backlink is a reverse reference from Source to some target note.
type Backlink struct {
	Source  NoteRecord
	Context string
}

// FileMeta describes a file in the notes directory.
type FileMeta struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}
