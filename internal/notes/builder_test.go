package notes

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/starford/noteweave/internal/models"
)

var fixedNow = time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

func testBuilder(opts ...BuilderOption) *Builder {
	base := []BuilderOption{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return fixedNow }),
	}
	return NewBuilder(append(base, opts...)...)
}

func doc(slug, content string) models.NoteDocument {
	return models.NoteDocument{Slug: slug, Content: content}
}

func TestBuild_Example(t *testing.T) {
	docs := []models.NoteDocument{
		doc("a", "---\ntitle: Alpha\ndate: 2024-01-02\ntags: [x, y]\n---\n# Ignored\n\nSee [[Beta]] for more."),
		doc("b", "# Beta\n\nFirst paragraph.\n\nSecond."),
	}
	docs[1].Content = "---\ndate: 2024-03-01\n---\n" + docs[1].Content

	records, report := testBuilder().Build(docs)
	if len(report.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", report.Warnings)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Slug != "b" || records[1].Slug != "a" {
		t.Errorf("order = [%s %s], want [b a]", records[0].Slug, records[1].Slug)
	}

	a := records[1]
	if a.Title != "Alpha" {
		t.Errorf("title = %q, want Alpha", a.Title)
	}
	if a.Date.String() != "2024-01-02" {
		t.Errorf("date = %q, want 2024-01-02", a.Date.String())
	}
	if strings.Join(a.Tags, ",") != "x,y" {
		t.Errorf("tags = %v, want [x y]", a.Tags)
	}
	if a.Content != "# Ignored\n\nSee [[Beta]] for more." {
		t.Errorf("content = %q", a.Content)
	}
	if a.Description != "See [[Beta]] for more." {
		t.Errorf("description = %q", a.Description)
	}

	b := records[0]
	if b.Title != "Beta" {
		t.Errorf("title = %q, want Beta", b.Title)
	}
	if b.Description != "First paragraph." {
		t.Errorf("description = %q, want %q", b.Description, "First paragraph.")
	}
}

func TestBuild_TitleFallsBackToSlug(t *testing.T) {
	records, _ := testBuilder().Build([]models.NoteDocument{doc("plain", "just text")})
	if records[0].Title != "plain" {
		t.Errorf("title = %q, want plain", records[0].Title)
	}
}

func TestBuild_DateFallback(t *testing.T) {
	mod := time.Date(2023, 5, 6, 22, 0, 0, 0, time.UTC)
	d := models.NoteDocument{Slug: "n", Content: "body", ModTime: mod}

	records, _ := testBuilder().Build([]models.NoteDocument{d})
	if got := records[0].Date.String(); got != "2023-05-06" {
		t.Errorf("modtime fallback = %q, want 2023-05-06", got)
	}

	records, _ = testBuilder(WithDateFallback(FallbackNow)).Build([]models.NoteDocument{d})
	if got := records[0].Date.String(); got != "2024-06-01" {
		t.Errorf("now fallback = %q, want 2024-06-01", got)
	}

	records, _ = testBuilder().Build([]models.NoteDocument{doc("n", "body")})
	if got := records[0].Date.String(); got != "2024-06-01" {
		t.Errorf("zero modtime fallback = %q, want 2024-06-01", got)
	}
}

func TestBuild_InvalidDateWarns(t *testing.T) {
	for _, content := range []string{
		"---\ndate: not-a-date\n---\nbody",
		"---\ndate: [2024-01-01]\n---\nbody",
	} {
		records, report := testBuilder().Build([]models.NoteDocument{doc("n", content)})
		if len(records) != 1 {
			t.Fatalf("len(records) = %d, want 1", len(records))
		}
		if len(report.Warnings) != 1 {
			t.Errorf("warnings for %q = %v, want 1", content, report.Warnings)
		}
		if records[0].Date.String() != "2024-06-01" {
			t.Errorf("date = %q, want clock fallback", records[0].Date.String())
		}
	}
}

func TestBuild_ScalarTagsCoerced(t *testing.T) {
	records, _ := testBuilder().Build([]models.NoteDocument{doc("n", "---\ntags: solo\n---\n")})
	if len(records[0].Tags) != 1 || records[0].Tags[0] != "solo" {
		t.Errorf("tags = %v, want [solo]", records[0].Tags)
	}
	records, _ = testBuilder().Build([]models.NoteDocument{doc("n", "body")})
	if records[0].Tags == nil || len(records[0].Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil", records[0].Tags)
	}
}

func TestBuild_SkipsBadDocuments(t *testing.T) {
	docs := []models.NoteDocument{
		doc("", "no slug"),
		doc("bad", "\xff\xfe"),
		doc("ok", "fine"),
		doc("ok", "duplicate"),
	}
	records, report := testBuilder().Build(docs)
	if len(records) != 1 || records[0].Content != "fine" {
		t.Fatalf("records = %+v, want only the first ok", records)
	}
	if report.Skipped != 3 {
		t.Errorf("skipped = %d, want 3", report.Skipped)
	}
}

func TestBuild_DuplicateTitleWarning(t *testing.T) {
	docs := []models.NoteDocument{
		doc("one", "---\ntitle: Same\ndate: 2024-01-02\n---\n"),
		doc("two", "---\ntitle: Same\ndate: 2024-01-01\n---\n"),
	}
	_, report := testBuilder().Build(docs)
	if len(report.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", report.Warnings)
	}
	if report.Warnings[0].Slug != "one" || !strings.Contains(report.Warnings[0].Message, "links resolve to one") {
		t.Errorf("warning = %+v", report.Warnings[0])
	}
}

func TestBuild_SortProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		docs := make([]models.NoteDocument, n)
		pos := make(map[string]int, n)
		for i := range docs {
			day := rapid.IntRange(1, 5).Draw(t, "day")
			slug := "n" + string(rune('a'+i))
			docs[i] = doc(slug, "---\ndate: 2024-01-0"+string(rune('0'+day))+"\n---\nbody")
			pos[slug] = i
		}
		records, report := testBuilder().Build(docs)
		if len(records) != n {
			t.Fatalf("len(records) = %d, want %d (warnings %v)", len(records), n, report.Warnings)
		}
		for i := 1; i < len(records); i++ {
			prev, cur := records[i-1], records[i]
			if c := prev.Date.Compare(cur.Date); c < 0 {
				t.Fatalf("dates not non-increasing at %d: %s < %s", i, prev.Date, cur.Date)
			} else if c == 0 && pos[prev.Slug] > pos[cur.Slug] {
				t.Fatalf("equal dates reordered: %s before %s", prev.Slug, cur.Slug)
			}
		}
	})
}
