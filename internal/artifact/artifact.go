// Package artifact reads and writes the generated JSON note collection.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/starford/noteweave/internal/models"
	"github.com/starford/noteweave/internal/storage"
)

// DefaultPath is where build writes the artifact when no path is configured.
const DefaultPath = "notes.json"

// Encode writes records to w as a JSON array, indented by two spaces.
func Encode(w io.Writer, records []models.NoteRecord) error {
	if records == nil {
		records = []models.NoteRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("artifact: encode: %w", err)
	}
	return nil
}

// Decode parses an artifact. Both a bare array and an object of the form
// {"notes": [...]} are accepted.
func Decode(data []byte) ([]models.NoteRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Notes []models.NoteRecord `json:"notes"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("artifact: decode: %w", err)
		}
		return normalize(wrapped.Notes), nil
	}
	var records []models.NoteRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("artifact: decode: %w", err)
	}
	return normalize(records), nil
}

func normalize(records []models.NoteRecord) []models.NoteRecord {
	if records == nil {
		return []models.NoteRecord{}
	}
	for i := range records {
		if records[i].Tags == nil {
			records[i].Tags = []string{}
		}
	}
	return records
}

// WriteFile atomically replaces the artifact at path with records.
func WriteFile(path string, records []models.NoteRecord) error {
	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("artifact: mkdir: %w", err)
	}
	fs, err := storage.NewFS(dir)
	if err != nil {
		return fmt.Errorf("artifact: %w", err)
	}
	return fs.Write(filepath.Base(path), buf.Bytes())
}

// ReadFile loads the artifact at path.
func ReadFile(path string) ([]models.NoteRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: read: %w", err)
	}
	return Decode(data)
}
