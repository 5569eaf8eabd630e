//go:build !sqlite_fts5

package search

import (
	"testing"

	"github.com/starford/noteweave/internal/links"
	"github.com/starford/noteweave/internal/models"
	"github.com/starford/noteweave/internal/notes"
)

func TestSearch_MatchesIndexFilter(t *testing.T) {
	recs := []models.NoteRecord{
		{Slug: "a", Title: "Alpha", Tags: []string{"Go"}, Content: "plain text"},
		{Slug: "b", Title: "Beta", Tags: []string{}, Content: "100% done"},
		{Slug: "e", Title: "Écoute", Tags: []string{"Ünï"}, Content: "snake_case here"},
	}
	db := testDB(t)
	if err := db.Load(recs, links.Records(recs)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ix := notes.NewIndex(recs)

	for _, q := range []string{"_", "%", "100%", "écoute", "ÉCOUTE", "ünï", "go", "GO", `\`, "'", "a_c", "zzz"} {
		got, err := db.Search(q, "", 0)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		want := ix.Filter(q, "")
		if len(got) != len(want) {
			t.Errorf("Search(%q) = %d results, Filter = %d", q, len(got), len(want))
			continue
		}
		for i := range want {
			if got[i].Slug != want[i].Slug {
				t.Errorf("Search(%q)[%d] = %q, want %q", q, i, got[i].Slug, want[i].Slug)
			}
		}
	}
}

func TestSearch_WildcardsAreLiteral(t *testing.T) {
	recs := []models.NoteRecord{
		{Slug: "a", Title: "Alpha", Content: "nothing special"},
		{Slug: "b", Title: "Beta", Content: "100% done"},
	}
	db := testDB(t)
	if err := db.Load(recs, links.Records(recs)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if res, _ := db.Search("%", "", 0); len(res) != 1 || res[0].Slug != "b" {
		t.Errorf("Search(%%) = %+v, want only b", res)
	}
	if res, _ := db.Search("_", "", 0); len(res) != 0 {
		t.Errorf("Search(_) = %+v, want none", res)
	}
}
