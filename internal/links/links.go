// Package links resolves [[Title]] wiki-links against a note collection and
// computes backlinks.
package links

import (
	"regexp"

	"github.com/starford/noteweave/internal/models"
)

// wikiLinkRe matches [[Title]]. Titles cannot contain "]".
var wikiLinkRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// Resolver maps wiki-link titles and slugs to notes.
type Resolver interface {
	// Resolve returns the slug of the first note whose title equals title exactly.
	Resolve(title string) (slug string, ok bool)
	// Has reports whether a note with the given slug exists.
	Has(slug string) bool
}

// Resolve returns the slug of the first record in index whose Title is
// exactly title. Matching is case-sensitive with no whitespace folding.
func Resolve(title string, index []models.NoteRecord) (string, bool) {
	for i := range index {
		if index[i].Title == title {
			return index[i].Slug, true
		}
	}
	return "", false
}

// Records adapts a plain note sequence to Resolver using linear scans.
type Records []models.NoteRecord

// Resolve implements Resolver.
func (r Records) Resolve(title string) (string, bool) { return Resolve(title, r) }

// Has implements Resolver.
func (r Records) Has(slug string) bool {
	for i := range r {
		if r[i].Slug == slug {
			return true
		}
	}
	return false
}

// Find returns every wiki-link occurrence in content in document order,
// each resolved through r.
func Find(content string, r Resolver) []models.WikiLink {
	matches := wikiLinkRe.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]models.WikiLink, 0, len(matches))
	for _, m := range matches {
		title := content[m[2]:m[3]]
		target, _ := r.Resolve(title)
		out = append(out, models.WikiLink{
			Title:  title,
			Target: target,
			Offset: m[0],
			Length: m[1] - m[0],
		})
	}
	return out
}

// Rewrite replaces every [[Title]] in s with fn(title).
func Rewrite(s string, fn func(title string) string) string {
	return wikiLinkRe.ReplaceAllStringFunc(s, func(match string) string {
		return fn(match[2 : len(match)-2])
	})
}
