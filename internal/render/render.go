// Package render turns note markdown into an HTML fragment.
//
// The dialect is deliberately small: headings, bold, italic, list items,
// horizontal rules, external links, wiki-links and line breaks. Passes run in
// a fixed order, each over the output of the previous one.
package render

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/starford/noteweave/internal/links"
)

// DefaultBasePath prefixes internal note hrefs.
const DefaultBasePath = "/notes"

// Options controls rendering.
type Options struct {
	// BasePath prefixes internal hrefs. Empty means DefaultBasePath.
	BasePath string
	// EscapeHTML escapes the body before any markup is injected. Leave it
	// off for trusted content that embeds raw HTML.
	EscapeHTML bool
	// AutoLink enables keyword linking in RenderPage.
	AutoLink bool
	// Keywords are the phrases linked by RenderPage when AutoLink is set.
	Keywords []string
}

func (o Options) basePath() string {
	if o.BasePath == "" {
		return DefaultBasePath
	}
	return strings.TrimSuffix(o.BasePath, "/")
}

var (
	boldRe     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe   = regexp.MustCompile(`\*(.*?)\*`)
	orderedRe  = regexp.MustCompile(`^\d+\. (.*)$`)
	externalRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

var headings = []struct {
	prefix, tag string
}{
	{"#### ", "h4"},
	{"### ", "h3"},
	{"## ", "h2"},
	{"# ", "h1"},
}

// Render converts body to HTML. Wiki-links are resolved through r; a title
// with no matching note renders as a broken link. Render never fails.
func Render(body string, r links.Resolver, opts Options) string {
	if body == "" {
		return ""
	}
	s := strings.ReplaceAll(body, "\r\n", "\n")
	if opts.EscapeHTML {
		s = html.EscapeString(s)
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = heading(line)
		line = boldRe.ReplaceAllString(line, "<strong>$1</strong>")
		line = italicRe.ReplaceAllString(line, "<em>$1</em>")
		lines[i] = line
	}
	lines = listsAndRules(lines)
	s = strings.Join(lines, "\n")

	s = externalRe.ReplaceAllString(s,
		`<a href="$2" target="_blank" rel="noopener noreferrer" class="external-link">$1</a>`)
	s = wikiLinks(s, r, opts)

	return strings.ReplaceAll(s, "\n", "<br>")
}

// RenderPage renders body and, when enabled, links configured keywords in
// the result.
func RenderPage(body string, r links.Resolver, opts Options) string {
	out := Render(body, r, opts)
	if opts.AutoLink && len(opts.Keywords) > 0 {
		out = AutoLink(out, opts.Keywords, r, opts)
	}
	return out
}

func heading(line string) string {
	for _, h := range headings {
		if rest, ok := strings.CutPrefix(line, h.prefix); ok {
			return "<" + h.tag + ">" + rest + "</" + h.tag + ">"
		}
	}
	return line
}

type listKind int

const (
	notList listKind = iota
	unordered
	ordered
)

func listItem(line string) (string, listKind) {
	if rest, ok := strings.CutPrefix(line, "- "); ok {
		return rest, unordered
	}
	if m := orderedRe.FindStringSubmatch(line); m != nil {
		return m[1], ordered
	}
	return line, notList
}

// listsAndRules turns list lines into <li> items wrapped per contiguous run
// and replaces rule lines with <hr>. A run's list type is taken from its
// first line.
func listsAndRules(lines []string) []string {
	out := make([]string, 0, len(lines))
	var run strings.Builder
	runKind := notList

	flush := func() {
		if runKind == notList {
			return
		}
		tag := "ul"
		if runKind == ordered {
			tag = "ol"
		}
		out = append(out, "<"+tag+">"+run.String()+"</"+tag+">")
		run.Reset()
		runKind = notList
	}

	for _, line := range lines {
		text, kind := listItem(line)
		if kind == notList {
			flush()
			if line == "---" {
				line = "<hr>"
			}
			out = append(out, line)
			continue
		}
		if runKind == notList {
			runKind = kind
		}
		run.WriteString("<li>" + text + "</li>")
	}
	flush()
	return out
}

func wikiLinks(s string, r links.Resolver, opts Options) string {
	return links.Rewrite(s, func(title string) string {
		lookup := title
		if opts.EscapeHTML {
			lookup = html.UnescapeString(title)
		}
		slug, ok := r.Resolve(lookup)
		if !ok {
			return `<a class="broken-link">` + title + `</a>`
		}
		return `<a href="` + NoteHref(opts, slug) + `" class="internal-link">` + title + `</a>`
	})
}

// NoteHref returns the internal href of slug: the base path followed by the
// slug as one percent-encoded path segment. Slugs made of unreserved
// characters appear unchanged.
func NoteHref(opts Options, slug string) string {
	return opts.basePath() + "/" + url.PathEscape(slug)
}
