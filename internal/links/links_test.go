package links

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/starford/noteweave/internal/models"
)

func sampleNotes() []models.NoteRecord {
	return []models.NoteRecord{
		{Slug: "a", Title: "Alpha", Content: "See [[Beta]] for more."},
		{Slug: "b", Title: "Beta", Content: "No links here."},
	}
}

func TestResolve_ExactMatch(t *testing.T) {
	notes := sampleNotes()
	slug, ok := Resolve("Beta", notes)
	if !ok || slug != "b" {
		t.Errorf("Resolve(Beta) = (%q, %v), want (b, true)", slug, ok)
	}
}

func TestResolve_CaseAndWhitespaceSensitive(t *testing.T) {
	notes := sampleNotes()
	for _, title := range []string{"beta", "BETA", " Beta", "Beta ", "Bet"} {
		if slug, ok := Resolve(title, notes); ok {
			t.Errorf("Resolve(%q) = %q, want no match", title, slug)
		}
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	notes := []models.NoteRecord{
		{Slug: "first", Title: "Dup"},
		{Slug: "second", Title: "Dup"},
	}
	if slug, _ := Resolve("Dup", notes); slug != "first" {
		t.Errorf("slug = %q, want first", slug)
	}
}

func TestRecords_Has(t *testing.T) {
	r := Records(sampleNotes())
	if !r.Has("a") || r.Has("missing") {
		t.Error("Has returned wrong result")
	}
}

func TestFind(t *testing.T) {
	content := "[[Beta]] then [[Gamma]] and [[Beta]]"
	got := Find(content, Records(sampleNotes()))
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Title != "Beta" || got[0].Target != "b" || got[0].Offset != 0 || got[0].Length != 8 {
		t.Errorf("first = %+v", got[0])
	}
	if !got[1].Broken() || got[1].Title != "Gamma" {
		t.Errorf("second = %+v, want broken Gamma", got[1])
	}
	if content[got[2].Offset:got[2].Offset+got[2].Length] != "[[Beta]]" {
		t.Errorf("third offset wrong: %+v", got[2])
	}
}

func TestFind_NoLinks(t *testing.T) {
	if got := Find("[single] [[]] [[unterminated", Records(nil)); len(got) != 0 {
		t.Errorf("got %+v, want none", got)
	}
}

func TestRewrite(t *testing.T) {
	got := Rewrite("x [[A]] y [[B c]]", func(title string) string { return "<" + title + ">" })
	if got != "x <A> y <B c>" {
		t.Errorf("Rewrite = %q", got)
	}
}

func TestResolve_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		titles := rapid.SliceOfN(rapid.SampledFrom([]string{"A", "B", "C", "D"}), 0, 8).Draw(t, "titles")
		notes := make([]models.NoteRecord, len(titles))
		for i, title := range titles {
			notes[i] = models.NoteRecord{Slug: string(rune('a'+i)) + title, Title: title}
		}
		query := rapid.SampledFrom([]string{"A", "B", "C", "D", "E"}).Draw(t, "query")

		slug, ok := Resolve(query, notes)
		again, okAgain := Resolve(query, notes)
		if slug != again || ok != okAgain {
			t.Fatalf("Resolve not idempotent: %q/%v vs %q/%v", slug, ok, again, okAgain)
		}

		want, wantOK := "", false
		for _, n := range notes {
			if n.Title == query {
				want, wantOK = n.Slug, true
				break
			}
		}
		if slug != want || ok != wantOK {
			t.Fatalf("Resolve(%q) = (%q, %v), want (%q, %v)", query, slug, ok, want, wantOK)
		}
	})
}

func TestFind_ContextRadiusBound(t *testing.T) {
	content := strings.Repeat("x", 80) + "[[Beta]]" + strings.Repeat("y", 80)
	links := Find(content, Records(sampleNotes()))
	if len(links) != 1 {
		t.Fatalf("len = %d", len(links))
	}
	ctx := Context(content, links[0].Offset, links[0].Offset, ContextRadius)
	want := "..." + strings.Repeat("x", 50) + "[[Beta]]" + strings.Repeat("y", 42) + "..."
	if ctx != want {
		t.Errorf("context = %q, want %q", ctx, want)
	}
}
