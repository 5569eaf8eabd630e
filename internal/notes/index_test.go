package notes

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/noteweave/internal/apperr"
	"github.com/starford/noteweave/internal/models"
)

func sampleIndex() *Index {
	return NewIndex([]models.NoteRecord{
		{Slug: "a", Title: "Alpha", Tags: []string{"x", "y"}, Content: "See [[Beta]] for more."},
		{Slug: "b", Title: "Beta", Tags: []string{"y"}, Content: "No links here."},
		{Slug: "c", Title: "Gamma", Tags: []string{}, Content: "Links to [[Missing]] and [[Beta]]."},
	})
}

func TestIndex_GetAndResolve(t *testing.T) {
	ix := sampleIndex()
	if ix.Len() != 3 {
		t.Fatalf("Len = %d, want 3", ix.Len())
	}
	r, err := ix.Get("b")
	if err != nil || r.Title != "Beta" {
		t.Errorf("Get(b) = (%+v, %v)", r, err)
	}
	if _, err := ix.Get("zzz"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get(zzz) err = %v, want ErrNotFound", err)
	}
	if slug, ok := ix.Resolve("Beta"); !ok || slug != "b" {
		t.Errorf("Resolve(Beta) = (%q, %v)", slug, ok)
	}
	if _, ok := ix.Resolve("beta"); ok {
		t.Error("Resolve(beta) matched, want case-sensitive miss")
	}
}

func TestIndex_ResolveFirstMatchWins(t *testing.T) {
	ix := NewIndex([]models.NoteRecord{{Slug: "first", Title: "Dup"}, {Slug: "second", Title: "Dup"}})
	if slug, _ := ix.Resolve("Dup"); slug != "first" {
		t.Errorf("Resolve(Dup) = %q, want first", slug)
	}
}

func TestIndex_Backlinks(t *testing.T) {
	bl := sampleIndex().Backlinks("b")
	if len(bl) != 2 {
		t.Fatalf("len(backlinks) = %d, want 2", len(bl))
	}
	if bl[0].Source.Slug != "a" || bl[1].Source.Slug != "c" {
		t.Errorf("sources = [%s %s], want [a c]", bl[0].Source.Slug, bl[1].Source.Slug)
	}
	if got := sampleIndex().Backlinks("a"); got == nil || len(got) != 0 {
		t.Errorf("Backlinks(a) = %#v, want empty", got)
	}
}

func TestIndex_TagsFilterGroup(t *testing.T) {
	ix := sampleIndex()
	if got := strings.Join(ix.Tags(), ","); got != "x,y" {
		t.Errorf("Tags = %q, want x,y", got)
	}
	if got := ix.Filter("", "y"); len(got) != 2 || got[0].Slug != "a" || got[1].Slug != "b" {
		t.Errorf("Filter(tag y) = %v", got)
	}
	if got := ix.Filter("MISSING", ""); len(got) != 1 || got[0].Slug != "c" {
		t.Errorf("Filter(MISSING) = %v", got)
	}
	if got := ix.Filter("", ""); len(got) != 3 {
		t.Errorf("Filter() len = %d, want 3", len(got))
	}
	groups := ix.GroupByTag()
	if len(groups["y"]) != 2 || len(groups["x"]) != 1 {
		t.Errorf("GroupByTag = %v", groups)
	}
}

func TestIndex_RecordsIsCopy(t *testing.T) {
	ix := sampleIndex()
	recs := ix.Records()
	recs[0].Title = "changed"
	if r, _ := ix.Get("a"); r.Title != "Alpha" {
		t.Errorf("index mutated through Records: %q", r.Title)
	}
}

func TestIndex_Fingerprint(t *testing.T) {
	a, b := sampleIndex(), sampleIndex()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal collections have different fingerprints")
	}
	c := NewIndex([]models.NoteRecord{{Slug: "a", Title: "Alpha", Content: "changed"}})
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different collections share a fingerprint")
	}
}

func TestValidate(t *testing.T) {
	ws := Validate(sampleIndex())
	if len(ws) != 1 {
		t.Fatalf("warnings = %v, want 1", ws)
	}
	if ws[0].Slug != "c" || ws[0].Message != "broken link [[Missing]]" {
		t.Errorf("warning = %+v", ws[0])
	}
}

func TestStore_Swap(t *testing.T) {
	s := NewStore(sampleIndex())
	if s.Generation() != 1 || s.Current().Len() != 3 {
		t.Fatalf("initial store gen=%d len=%d", s.Generation(), s.Current().Len())
	}
	if gen := s.Swap(NewIndex(nil)); gen != 2 {
		t.Errorf("Swap gen = %d, want 2", gen)
	}
	if s.Current().Len() != 0 {
		t.Errorf("Current().Len() = %d, want 0", s.Current().Len())
	}
}
