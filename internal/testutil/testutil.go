// Package testutil provides shared test helpers for setting up note
// directories, query indexes and services.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/noteweave/internal/noteservice"
	"github.com/starford/noteweave/internal/search"
	"github.com/starford/noteweave/internal/storage"
)

// SampleNotes is a small collection linking alpha to beta.
var SampleNotes = map[string]string{
	"alpha.md": "---\ntitle: Alpha\ndate: 2024-01-02\ntags: [x, y]\n---\nSee [[Beta]] for more.\n",
	"beta.md":  "---\ntitle: Beta\ndate: 2024-03-01\ntags: [y]\n---\n# Beta\n\nNo links here.\n",
	"gamma.md": "---\ntitle: Gamma\ndate: 2023-11-20\n---\nA **bold** claim about [[Missing]] things.\n",
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates an in-memory query index that is automatically closed.
func TestDB(t *testing.T) *search.DB {
	t.Helper()
	db, err := search.Open(search.MemoryDSN)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestNotesDir creates a temporary notes directory holding files and returns
// it with a storage.Provider rooted there.
func TestNotesDir(t *testing.T, files map[string]string) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		WriteNote(t, dir, name, content)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteNote writes one file into dir.
func WriteNote(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestService builds a service over files with an in-memory query index and
// loads it once.
func TestService(t *testing.T, files map[string]string, opts ...noteservice.Option) (*noteservice.Service, string) {
	t.Helper()
	dir, store := TestNotesDir(t, files)
	base := []noteservice.Option{
		noteservice.WithLogger(Logger()),
		noteservice.WithSearch(TestDB(t)),
	}
	svc := noteservice.NewService(store, append(base, opts...)...)
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	return svc, dir
}
