package parser

import (
	"strings"
	"testing"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	r := Parse("---\ntitle: Hello\ntags: [go, notes]\n---\n# Other\n\nBody text.\n")
	if r.Title != "Hello" {
		t.Errorf("title = %q, want %q", r.Title, "Hello")
	}
	if r.Body != "# Other\n\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
	if r.Description != "Body text." {
		t.Errorf("description = %q", r.Description)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}
}

func TestParse_UnclosedFenceWarns(t *testing.T) {
	r := Parse("---\ntitle: x\n# Heading\n")
	if len(r.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", r.Warnings)
	}
	if len(r.Frontmatter) != 0 {
		t.Errorf("frontmatter = %v, want empty", r.Frontmatter)
	}
	if r.Title != "Heading" {
		t.Errorf("title = %q, want Heading", r.Title)
	}
}

func TestParse_ListTitleIgnored(t *testing.T) {
	r := Parse("---\ntitle: [a, b]\n---\n# Real\n")
	if r.Title != "Real" {
		t.Errorf("title = %q, want Real", r.Title)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("warnings = %v", r.Warnings)
	}
}

func TestDeriveTitle_FrontmatterOverH1(t *testing.T) {
	fm, body := Extract("---\ntitle: FM Title\n---\n# H1 Title\ntext")
	if got := DeriveTitle(fm, body); got != "FM Title" {
		t.Errorf("title = %q, want %q", got, "FM Title")
	}
}

func TestDeriveTitle_H1Fallback(t *testing.T) {
	if got := DeriveTitle(nil, "some text\n## Sub\n# My Heading \nmore\n# Second"); got != "My Heading" {
		t.Errorf("title = %q, want %q", got, "My Heading")
	}
}

func TestDeriveTitle_SkipsEmptyAndIndentedHeadings(t *testing.T) {
	if got := DeriveTitle(nil, "# \n  # indented\n# Found"); got != "Found" {
		t.Errorf("title = %q, want Found", got)
	}
	if got := DeriveTitle(nil, "no headings here"); got != "" {
		t.Errorf("title = %q, want empty", got)
	}
}

func TestDeriveDescription(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"first paragraph", "# Title\n\nFirst para\nline two.\n\nSecond.", "First para\nline two."},
		{"skips headings", "# A\n\n## B\n\nText", "Text"},
		{"heading glued to text", "# A\nText right below\n\nNext", "Next"},
		{"whitespace-only separators", "# A\n   \n\tBody", "Body"},
		{"no paragraph", "# Only\n\n## Headings", ""},
		{"empty", "", ""},
		{"last paragraph without blank line", "# A\n\ntail", "tail"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveDescription(tt.body); got != tt.want {
				t.Errorf("DeriveDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveDescription_Truncated(t *testing.T) {
	long := strings.Repeat("é", 250)
	got := DeriveDescription(long)
	if n := len([]rune(got)); n != DescriptionLimit {
		t.Errorf("description runes = %d, want %d", n, DescriptionLimit)
	}
}
