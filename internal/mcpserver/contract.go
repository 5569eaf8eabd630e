package mcpserver

// NoteFormatURI is the resource URI of NoteFormatContract.
const NoteFormatURI = "noteweave://note-format"

// NoteFormatContract describes the note dialect: frontmatter fields,
// wiki-links and the markdown subset that renders.
const NoteFormatContract = `# Note Format

Each note is one file directly inside the notes directory. The file name
without its extension is the note's slug (` + "`" + `risk-management.md` + "`" + ` → ` + "`" + `risk-management` + "`" + `).

## Frontmatter

An optional block opened by a first line that is exactly ` + "`" + `---` + "`" + ` and closed by
the next line that is exactly ` + "`" + `---` + "`" + `. Each line is ` + "`" + `key: value` + "`" + `.

` + "```" + `markdown
---
title: Risk Management
date: 2024-01-02
tags: [security, exam]
description: "Quoted values lose their quotes"
---
` + "```" + `

- ` + "`" + `title` + "`" + `: display name. Falls back to the first ` + "`" + `# ` + "`" + ` heading, then the slug.
- ` + "`" + `date` + "`" + `: ` + "`" + `YYYY-MM-DD` + "`" + `. Notes are listed newest first.
- ` + "`" + `tags` + "`" + `: a bracketed, comma-separated list. A bare value is one tag.
- Values are plain strings; there is no nesting and no multi-line value.

## Links

- ` + "`" + `[[Title]]` + "`" + ` links to the note whose title is exactly ` + "`" + `Title` + "`" + `
  (case-sensitive). Unmatched titles render as broken links.
- ` + "`" + `[text](https://example.com)` + "`" + ` is an external link.

## Markdown subset

` + "`" + `#` + "`" + ` to ` + "`" + `####` + "`" + ` headings, ` + "`" + `**bold**` + "`" + `, ` + "`" + `*italic*` + "`" + `, ` + "`" + `- item` + "`" + ` and ` + "`" + `1. item` + "`" + ` lists,
a line of ` + "`" + `---` + "`" + ` for a rule. Every other newline becomes a line break.
`
