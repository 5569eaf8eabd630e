package parser

import (
	"strings"

	"github.com/starford/noteweave/internal/models"
)

const fence = "---"

var quoteStripper = strings.NewReplacer(`"`, "", `'`, "")

// Extract splits raw into frontmatter metadata and body.
//
// The frontmatter block must open on the very first line with a line that is
// exactly "---" and close with the next line that is exactly "---". Anything
// else is the no-frontmatter case: empty metadata and raw returned unchanged.
func Extract(raw string) (models.Metadata, string) {
	block, body, state := splitFence(raw)
	if state != fenceClosed {
		return models.Metadata{}, raw
	}
	return parseBlock(block), body
}

type fenceState int

const (
	fenceNone fenceState = iota
	fenceClosed
	fenceUnclosed
)

// splitFence locates the frontmatter block. On fenceClosed, block holds the
// lines between the fences and body everything after the closing fence line.
func splitFence(raw string) (block, body string, state fenceState) {
	first, rest, ok := cutLine(raw)
	if !ok || strings.TrimSuffix(first, "\r") != fence {
		return "", raw, fenceNone
	}

	offset := 0
	remaining := rest
	for {
		line, after, hasNL := cutLine(remaining)
		if strings.TrimSuffix(line, "\r") == fence {
			return rest[:offset], after, fenceClosed
		}
		if !hasNL {
			return "", raw, fenceUnclosed
		}
		offset += len(line) + 1
		remaining = after
	}
}

func cutLine(s string) (line, rest string, ok bool) {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// parseBlock reads "key: value" lines. Lines without a colon or with an
// empty key are ignored. A repeated key keeps its last value.
func parseBlock(block string) models.Metadata {
	meta := models.Metadata{}
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := strings.Cut(strings.TrimSuffix(line, "\r"), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		meta[key] = parseValue(strings.TrimSpace(value))
	}
	return meta
}

func parseValue(v string) models.Value {
	if len(v) >= 2 && (v[0] == '"' && v[len(v)-1] == '"' || v[0] == '\'' && v[len(v)-1] == '\'') {
		v = v[1 : len(v)-1]
	}
	if len(v) >= 2 && v[0] == '[' && v[len(v)-1] == ']' {
		inner := v[1 : len(v)-1]
		if strings.TrimSpace(inner) == "" {
			return models.List()
		}
		parts := strings.Split(inner, ",")
		items := make([]string, len(parts))
		for i, p := range parts {
			items[i] = quoteStripper.Replace(strings.TrimSpace(p))
		}
		return models.List(items...)
	}
	return models.Scalar(v)
}
