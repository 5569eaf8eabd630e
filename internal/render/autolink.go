package render

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/starford/noteweave/internal/links"
)

// DefaultKeywords is the built-in keyword list.
var DefaultKeywords = []string{
	"CompTIA Security+",
	"Risk Management",
	"Network Security",
	"Cryptography",
	"Cybersecurity",
	"Computer Memory",
}

var spaceRe = regexp.MustCompile(`\s+`)

// Slugify lowercases phrase and replaces whitespace runs with hyphens.
func Slugify(phrase string) string {
	return spaceRe.ReplaceAllString(strings.ToLower(phrase), "-")
}

// AutoLink wraps whole-word, case-insensitive keyword occurrences in content
// with links to the keyword's slug. Only text outside tags and outside
// existing anchors is touched, so it is safe to run over rendered HTML.
// Keywords are applied in order; text linked by an earlier keyword is not
// relinked. With a nil resolver every link is emitted as internal,
// otherwise slugs missing from r render as broken links.
func AutoLink(content string, keywords []string, r links.Resolver, opts Options) string {
	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			continue
		}
		content = linkKeyword(content, kw, r, opts)
	}
	return content
}

func linkKeyword(content, kw string, r links.Resolver, opts Options) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw))
	slug := Slugify(kw)
	open := `<a class="broken-link">`
	if r == nil || r.Has(slug) {
		open = `<a href="` + NoteHref(opts, slug) + `" class="internal-link">`
	}

	var b strings.Builder
	b.Grow(len(content))
	depth := 0
	for len(content) > 0 {
		lt := strings.IndexByte(content, '<')
		if lt != 0 {
			text := content
			if lt > 0 {
				text = content[:lt]
			}
			if depth == 0 {
				text = replaceWords(text, re, open)
			}
			b.WriteString(text)
			if lt < 0 {
				break
			}
			content = content[lt:]
			continue
		}

		gt := strings.IndexByte(content, '>')
		if gt < 0 {
			b.WriteString(content)
			break
		}
		tag := content[:gt+1]
		switch {
		case isAnchorOpen(tag):
			depth++
		case strings.EqualFold(tag, "</a>") && depth > 0:
			depth--
		}
		b.WriteString(tag)
		content = content[gt+1:]
	}
	return b.String()
}

func isAnchorOpen(tag string) bool {
	if len(tag) < 3 || (tag[1] != 'a' && tag[1] != 'A') {
		return false
	}
	return tag[2] == '>' || tag[2] == ' '
}

func replaceWords(text string, re *regexp.Regexp, open string) string {
	matches := re.FindAllStringIndex(text, -1)
	if matches == nil {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if !wordBoundary(text, m[0], m[1]) {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(open)
		b.WriteString(text[m[0]:m[1]])
		b.WriteString("</a>")
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// wordBoundary reports whether text[start:end] is not glued to surrounding
// word characters.
func wordBoundary(text string, start, end int) bool {
	if start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		first, _ := utf8.DecodeRuneInString(text[start:])
		if isWord(prev) && isWord(first) {
			return false
		}
	}
	if end < len(text) {
		next, _ := utf8.DecodeRuneInString(text[end:])
		lastRune, _ := utf8.DecodeLastRuneInString(text[:end])
		if isWord(next) && isWord(lastRune) {
			return false
		}
	}
	return true
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
