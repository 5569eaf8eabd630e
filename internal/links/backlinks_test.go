package links

import (
	"strings"
	"testing"
	"unicode/utf8"

	"pgregory.net/rapid"

	"github.com/starford/noteweave/internal/models"
)

func TestBacklinks_Example(t *testing.T) {
	notes := sampleNotes()
	bl := Backlinks("b", notes)
	if len(bl) != 1 {
		t.Fatalf("len = %d, want 1", len(bl))
	}
	if bl[0].Source.Slug != "a" {
		t.Errorf("source = %q, want a", bl[0].Source.Slug)
	}
	if bl[0].Context != "See [[Beta]] for more." {
		t.Errorf("context = %q", bl[0].Context)
	}
}

func TestBacklinks_OnePerOccurrence(t *testing.T) {
	notes := []models.NoteRecord{
		{Slug: "a", Title: "Alpha", Content: "[[Beta]] and again [[Beta]]"},
		{Slug: "b", Title: "Beta", Content: "self [[Beta]]"},
		{Slug: "c", Title: "Gamma", Content: "[[Alpha]] [[Missing]]"},
	}
	bl := Backlinks("b", notes)
	if len(bl) != 3 {
		t.Fatalf("len = %d, want 3", len(bl))
	}
	if bl[0].Source.Slug != "a" || bl[1].Source.Slug != "a" || bl[2].Source.Slug != "b" {
		t.Errorf("sources = %s %s %s", bl[0].Source.Slug, bl[1].Source.Slug, bl[2].Source.Slug)
	}
}

func TestBacklinks_EmptyForUnknownOrUnlinked(t *testing.T) {
	notes := sampleNotes()
	for _, target := range []string{"a", "nope", ""} {
		bl := Backlinks(target, notes)
		if bl == nil || len(bl) != 0 {
			t.Errorf("Backlinks(%q) = %#v, want empty non-nil", target, bl)
		}
	}
}

func TestContext_Truncation(t *testing.T) {
	content := strings.Repeat("é", 60) + "[[T]]" + strings.Repeat("ü", 10)
	start := len(strings.Repeat("é", 60))
	got := Context(content, start, start+5, 50)
	want := "..." + strings.Repeat("é", 50) + "[[T]]" + strings.Repeat("ü", 10)
	if got != want {
		t.Errorf("context = %q, want %q", got, want)
	}
}

func TestBacklinks_ContextWindowBound(t *testing.T) {
	link := "[[A Rather Long Linked Note Title Here]]"
	notes := []models.NoteRecord{
		{Slug: "a", Title: "Alpha", Content: strings.Repeat("x", 80) + link + strings.Repeat("x", 80)},
		{Slug: "b", Title: "A Rather Long Linked Note Title Here"},
	}
	bl := Backlinks("b", notes)
	if len(bl) != 1 {
		t.Fatalf("len = %d, want 1", len(bl))
	}
	ctx := bl[0].Context
	if n := utf8.RuneCountInString(ctx); n > 2*ContextRadius+2*len("...") {
		t.Errorf("context is %d characters, want at most %d: %q", n, 2*ContextRadius+6, ctx)
	}
	want := "..." + strings.Repeat("x", 50) + link + strings.Repeat("x", 10) + "..."
	if ctx != want {
		t.Errorf("context = %q, want %q", ctx, want)
	}
}

func TestBacklinks_CountProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 5).Draw(t, "notes")
		notes := make([]models.NoteRecord, n)
		titles := []string{"T0", "T1", "T2", "T3", "T4"}
		want := map[string]int{}
		for i := 0; i < n; i++ {
			var b strings.Builder
			links := rapid.SliceOfN(rapid.IntRange(0, 4), 0, 6).Draw(t, "links")
			for _, l := range links {
				b.WriteString("text [[")
				b.WriteString(titles[l])
				b.WriteString("]] ")
				if l < n {
					want[string(rune('a'+l))]++
				}
			}
			notes[i] = models.NoteRecord{Slug: string(rune('a' + i)), Title: titles[i], Content: b.String()}
		}
		for i := 0; i < n; i++ {
			slug := string(rune('a' + i))
			if got := len(Backlinks(slug, notes)); got != want[slug] {
				t.Fatalf("Backlinks(%q) = %d entries, want %d", slug, got, want[slug])
			}
		}
	})
}
