// Package storage defines the notes directory file-system abstraction.
package storage

import "github.com/starford/noteweave/internal/models"

// Provider is the interface for notes directory file operations.
type Provider interface {
	// List returns metadata for every regular file directly under the root
	// whose extension is one of exts, sorted by name. Hidden files are skipped.
	List(exts []string) ([]models.FileMeta, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
	// Root returns the absolute root directory.
	Root() string
}
