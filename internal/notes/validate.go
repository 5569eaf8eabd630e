package notes

import (
	"fmt"
	"strings"

	"github.com/starford/noteweave/internal/links"
	"github.com/starford/noteweave/internal/models"
)

// duplicateTitles reports titles shared by more than one record. Wiki-links
// to such a title resolve to the first record in collection order.
func duplicateTitles(records []models.NoteRecord) []Warning {
	groups := make(map[string][]string)
	var order []string
	for _, r := range records {
		if _, ok := groups[r.Title]; !ok {
			order = append(order, r.Title)
		}
		groups[r.Title] = append(groups[r.Title], r.Slug)
	}

	var out []Warning
	for _, title := range order {
		slugs := groups[title]
		if len(slugs) < 2 {
			continue
		}
		out = append(out, Warning{
			Slug: slugs[0],
			Message: fmt.Sprintf("title %q is shared by %s; links resolve to %s",
				title, strings.Join(slugs, ", "), slugs[0]),
		})
	}
	return out
}

// Validate reports duplicate titles and broken wiki-links in ix.
func Validate(ix *Index) []Warning {
	out := duplicateTitles(ix.records)
	for _, r := range ix.records {
		for _, l := range links.Find(r.Content, ix) {
			if l.Broken() {
				out = append(out, Warning{Slug: r.Slug, Message: fmt.Sprintf("broken link [[%s]]", l.Title)})
			}
		}
	}
	return out
}
