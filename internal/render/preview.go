package render

import (
	"regexp"
	"strings"

	"github.com/starford/noteweave/internal/parser"
)

// ExcerptLength is the preview excerpt size used by hover previews.
const ExcerptLength = 120

// WordsPerMinute is the reading speed used by ReadingTime.
const WordsPerMinute = 200

var (
	wikiStripRe    = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	headingStripRe = regexp.MustCompile(`#+\s?`)
	boldStripRe    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicStripRe  = regexp.MustCompile(`\*(.*?)\*`)
)

// Excerpt returns a plain-text preview of content: wiki-link brackets,
// heading markers and emphasis are removed, newlines become spaces, and the
// result is cut to n characters with a trailing "..." when longer.
func Excerpt(content string, n int) string {
	s := wikiStripRe.ReplaceAllString(content, "$1")
	s = headingStripRe.ReplaceAllString(s, "")
	s = boldStripRe.ReplaceAllString(s, "$1")
	s = italicStripRe.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)

	cut := parser.Truncate(s, n)
	if cut != s {
		return cut + "..."
	}
	return s
}

// ReadingTime estimates minutes to read content, rounded up. Non-empty
// content takes at least one minute.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
