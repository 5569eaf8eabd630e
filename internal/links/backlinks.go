package links

import (
	"unicode/utf8"

	"github.com/starford/noteweave/internal/models"
)

// ContextRadius is the number of characters kept on each side of the start
// of a link in a backlink context window.
const ContextRadius = 50

const ellipsis = "..."

// Backlinks returns one Backlink per [[Title]] occurrence in index that
// resolves to target. Unknown targets yield an empty result.
func Backlinks(target string, index []models.NoteRecord) []models.Backlink {
	return Collect(target, index, Records(index))
}

// Collect scans the raw content of every source note for wiki-links that
// resolve to target through r. A source linking twice yields two entries.
// Each context spans ContextRadius characters before and after the start of
// the link, so long link titles are cut rather than widening the window.
func Collect(target string, sources []models.NoteRecord, r Resolver) []models.Backlink {
	out := []models.Backlink{}
	if target == "" {
		return out
	}
	for _, src := range sources {
		for _, l := range Find(src.Content, r) {
			if l.Target != target {
				continue
			}
			out = append(out, models.Backlink{
				Source:  src,
				Context: Context(src.Content, l.Offset, l.Offset, ContextRadius),
			})
		}
	}
	return out
}

// Context returns content[start:end] widened by up to radius characters on
// each side. An ellipsis marks each side cut short of the document boundary.
func Context(content string, start, end, radius int) string {
	from := start
	for n := 0; n < radius && from > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(content[:from])
		from -= size
	}
	to := end
	for n := 0; n < radius && to < len(content); n++ {
		_, size := utf8.DecodeRuneInString(content[to:])
		to += size
	}

	ctx := content[from:to]
	if from > 0 {
		ctx = ellipsis + ctx
	}
	if to < len(content) {
		ctx += ellipsis
	}
	return ctx
}
