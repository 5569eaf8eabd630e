package notes

import (
	"slices"
	"sort"
	"strings"

	"github.com/starford/noteweave/internal/apperr"
	"github.com/starford/noteweave/internal/checksum"
	"github.com/starford/noteweave/internal/links"
	"github.com/starford/noteweave/internal/models"
)

// Index is an immutable note collection with slug and title lookups.
// It is safe for concurrent readers.
type Index struct {
	records     []models.NoteRecord
	bySlug      map[string]int
	byTitle     map[string]int
	fingerprint string
}

// Verify *Index satisfies links.Resolver at compile time.
var _ links.Resolver = (*Index)(nil)

// NewIndex copies records into a new Index, keeping their order.
func NewIndex(records []models.NoteRecord) *Index {
	ix := &Index{
		records: slices.Clone(records),
		bySlug:  make(map[string]int, len(records)),
		byTitle: make(map[string]int, len(records)),
	}
	sum := checksum.New()
	for i, r := range ix.records {
		if _, ok := ix.bySlug[r.Slug]; !ok {
			ix.bySlug[r.Slug] = i
		}
		if _, ok := ix.byTitle[r.Title]; !ok {
			ix.byTitle[r.Title] = i
		}
		sum.Add(r.Slug, r.Title, r.Date.String(), strings.Join(r.Tags, "\x1f"), r.Description, r.Content)
	}
	ix.fingerprint = sum.Hex()
	return ix
}

// Len returns the number of notes.
func (ix *Index) Len() int { return len(ix.records) }

// Records returns the notes in collection order.
func (ix *Index) Records() []models.NoteRecord { return slices.Clone(ix.records) }

// Fingerprint is a digest of every record field in collection order.
func (ix *Index) Fingerprint() string { return ix.fingerprint }

// Get returns the note with the given slug or apperr.ErrNotFound.
func (ix *Index) Get(slug string) (models.NoteRecord, error) {
	i, ok := ix.bySlug[slug]
	if !ok {
		return models.NoteRecord{}, apperr.ErrNotFound
	}
	return ix.records[i], nil
}

// Resolve implements links.Resolver with first-match-wins semantics.
func (ix *Index) Resolve(title string) (string, bool) {
	i, ok := ix.byTitle[title]
	if !ok {
		return "", false
	}
	return ix.records[i].Slug, true
}

// Has implements links.Resolver.
func (ix *Index) Has(slug string) bool {
	_, ok := ix.bySlug[slug]
	return ok
}

// Backlinks returns the backlinks of slug.
func (ix *Index) Backlinks(slug string) []models.Backlink {
	return links.Collect(slug, ix.records, ix)
}

// Tags returns every tag in the collection, sorted and deduplicated.
func (ix *Index) Tags() []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range ix.records {
		for _, t := range r.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// Filter returns the notes matching term and tag, in collection order.
// term matches case-insensitively against title, content and tags; tag must
// match one of the note's tags exactly. Empty arguments match everything.
func (ix *Index) Filter(term, tag string) []models.NoteRecord {
	if term == "" && tag == "" {
		return ix.Records()
	}
	lower := strings.ToLower(term)
	out := []models.NoteRecord{}
	for _, r := range ix.records {
		if tag != "" && !slices.Contains(r.Tags, tag) {
			continue
		}
		if term != "" && !matchesTerm(r, lower) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesTerm(r models.NoteRecord, lower string) bool {
	if strings.Contains(strings.ToLower(r.Title), lower) || strings.Contains(strings.ToLower(r.Content), lower) {
		return true
	}
	for _, t := range r.Tags {
		if strings.Contains(strings.ToLower(t), lower) {
			return true
		}
	}
	return false
}

// GroupByTag maps each tag to its notes in collection order.
func (ix *Index) GroupByTag() map[string][]models.NoteRecord {
	out := make(map[string][]models.NoteRecord)
	for _, r := range ix.records {
		for _, t := range r.Tags {
			out[t] = append(out[t], r)
		}
	}
	return out
}
