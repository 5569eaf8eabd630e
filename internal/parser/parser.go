// Package parser splits note documents into frontmatter and body and derives
// the title and description of a note.
package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/starford/noteweave/internal/models"
)

// DescriptionLimit is the maximum description length in characters.
const DescriptionLimit = 200

// Result holds the output of parsing a note document.
type Result struct {
	Frontmatter models.Metadata
	Body        string
	Title       string // empty when neither frontmatter nor an H1 provides one
	Description string
	Warnings    []string
}

// Parse extracts frontmatter and derives title and description from raw.
// It never fails; anomalies are reported in Result.Warnings.
func Parse(raw string) *Result {
	res := &Result{}

	block, body, state := splitFence(raw)
	switch state {
	case fenceClosed:
		res.Frontmatter = parseBlock(block)
		res.Body = body
	case fenceUnclosed:
		res.Frontmatter = models.Metadata{}
		res.Body = raw
		res.Warnings = append(res.Warnings, "frontmatter fence is not closed, treating document as body")
	default:
		res.Frontmatter = models.Metadata{}
		res.Body = raw
	}

	if v, ok := res.Frontmatter.Get("title"); ok && v.IsList() {
		res.Warnings = append(res.Warnings, "title is a list, ignoring it")
	}
	res.Title = DeriveTitle(res.Frontmatter, res.Body)
	res.Description = DeriveDescription(res.Body)
	return res
}

// DeriveTitle returns the frontmatter "title" if it is a non-empty scalar,
// otherwise the text of the first "# " heading in body, otherwise "".
func DeriveTitle(fm models.Metadata, body string) string {
	if v, ok := fm.Get("title"); ok && !v.IsList() && v.String() != "" {
		return v.String()
	}
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "# ") {
			continue
		}
		if title := strings.TrimSpace(line[2:]); title != "" {
			return title
		}
	}
	return ""
}

// DeriveDescription returns the first paragraph of body that does not start
// with a heading marker, truncated to DescriptionLimit characters.
// Paragraphs are runs of non-blank lines.
func DeriveDescription(body string) string {
	var para []string
	flush := func() string {
		if len(para) == 0 {
			return ""
		}
		text := strings.TrimSpace(strings.Join(para, "\n"))
		para = para[:0]
		if text == "" || strings.HasPrefix(text, "#") {
			return ""
		}
		return text
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			if text := flush(); text != "" {
				return Truncate(text, DescriptionLimit)
			}
			continue
		}
		para = append(para, line)
	}
	return Truncate(flush(), DescriptionLimit)
}

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
