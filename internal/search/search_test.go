package search

import (
	"path/filepath"
	"testing"

	"github.com/starford/noteweave/internal/links"
	"github.com/starford/noteweave/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(MemoryDSN)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func sampleRecords(t *testing.T) []models.NoteRecord {
	return []models.NoteRecord{
		{Slug: "b", Title: "Beta", Date: mustDate(t, "2024-03-01"), Tags: []string{"go"}, Description: "No links here.", Content: "No links here."},
		{Slug: "a", Title: "Alpha", Date: mustDate(t, "2024-01-02"), Tags: []string{"go", "notes"}, Description: "See Beta.", Content: "See [[Beta]] and [[Beta]] and [[Nowhere]]."},
		{Slug: "c", Title: "Gamma", Date: mustDate(t, "2023-12-31"), Tags: []string{}, Content: "uniqueword lives here, linking [[Alpha]]."},
	}
}

func loaded(t *testing.T) *DB {
	t.Helper()
	db := testDB(t)
	recs := sampleRecords(t)
	if err := db.Load(recs, links.Records(recs)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"notes", "tags", "links"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestOpen_FileDSN(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "search.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if err := db.Load(nil, links.Records{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestSearch_EmptyQueryListsInOrder(t *testing.T) {
	db := loaded(t)
	res, err := db.Search("", "", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 3 || res[0].Slug != "b" || res[1].Slug != "a" || res[2].Slug != "c" {
		t.Errorf("results = %+v, want b,a,c", res)
	}
	if res[0].Date != "2024-03-01" {
		t.Errorf("date = %q", res[0].Date)
	}
}

func TestSearch_Term(t *testing.T) {
	db := loaded(t)
	res, err := db.Search("uniqueword", "", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 || res[0].Slug != "c" {
		t.Errorf("results = %+v, want 1 hit for c", res)
	}
}

func TestSearch_TagFilter(t *testing.T) {
	db := loaded(t)
	res, err := db.Search("", "notes", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 || res[0].Slug != "a" {
		t.Errorf("results = %+v, want only a", res)
	}
	res, _ = db.Search("", "missing", 10)
	if len(res) != 0 {
		t.Errorf("results = %+v, want none", res)
	}
}

func TestSearch_Limit(t *testing.T) {
	db := loaded(t)
	res, _ := db.Search("", "", 2)
	if len(res) != 2 {
		t.Errorf("len = %d, want 2", len(res))
	}
}

func TestTags(t *testing.T) {
	db := loaded(t)
	tags, err := db.Tags()
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	want := []TagCount{{"go", 2}, {"notes", 1}}
	if len(tags) != len(want) {
		t.Fatalf("tags = %+v, want %+v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %+v, want %+v", i, tags[i], want[i])
		}
	}
}

func TestGraph(t *testing.T) {
	db := loaded(t)
	g, err := db.Graph()
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if len(g.Nodes) != 3 || g.Nodes[0].Slug != "b" {
		t.Errorf("nodes = %+v", g.Nodes)
	}
	want := []GraphEdge{{"a", "b"}, {"c", "a"}}
	if len(g.Edges) != len(want) {
		t.Fatalf("edges = %+v, want %+v", g.Edges, want)
	}
	for i := range want {
		if g.Edges[i] != want[i] {
			t.Errorf("edges[%d] = %+v, want %+v", i, g.Edges[i], want[i])
		}
	}
}

func TestLoad_ReplacesPreviousGeneration(t *testing.T) {
	db := loaded(t)
	next := []models.NoteRecord{{Slug: "z", Title: "Zeta", Tags: []string{"new"}, Content: "fresh"}}
	if err := db.Load(next, links.Records(next)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	res, _ := db.Search("", "", 0)
	if len(res) != 1 || res[0].Slug != "z" {
		t.Errorf("results = %+v, want only z", res)
	}
	tags, _ := db.Tags()
	if len(tags) != 1 || tags[0].Name != "new" {
		t.Errorf("tags = %+v", tags)
	}
	g, _ := db.Graph()
	if len(g.Edges) != 0 {
		t.Errorf("edges = %+v, want none", g.Edges)
	}
}
