package render

import (
	"testing"

	"github.com/starford/noteweave/internal/links"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"CompTIA Security+": "comptia-security+",
		"Risk  Management":  "risk-management",
		"Cryptography":      "cryptography",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAutoLink(t *testing.T) {
	kws := []string{"Network Security", "Security"}
	cases := []struct {
		name, in, want string
	}{
		{
			"case insensitive",
			"about network security today",
			`about <a href="/notes/network-security" class="internal-link">network security</a> today`,
		},
		{
			"earlier keyword wins",
			"Network Security and Security",
			`<a href="/notes/network-security" class="internal-link">Network Security</a> and ` +
				`<a href="/notes/security" class="internal-link">Security</a>`,
		},
		{"whole words only", "Securityism", "Securityism"},
		{
			"skips attributes",
			`<img alt="Security">`,
			`<img alt="Security">`,
		},
		{
			"skips existing anchors",
			`<a href="/x">Security</a>`,
			`<a href="/x">Security</a>`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AutoLink(tc.in, kws, nil, Options{}); got != tc.want {
				t.Errorf("AutoLink(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestAutoLink_BrokenWhenMissing(t *testing.T) {
	got := AutoLink("Cryptography", []string{"Cryptography"}, links.Records{}, Options{})
	want := `<a class="broken-link">Cryptography</a>`
	if got != want {
		t.Errorf("AutoLink = %q, want %q", got, want)
	}
}

func TestAutoLink_PunctuatedKeyword(t *testing.T) {
	got := AutoLink("Passed CompTIA Security+ today", []string{"CompTIA Security+"}, nil, Options{})
	want := `Passed <a href="/notes/comptia-security+" class="internal-link">CompTIA Security+</a> today`
	if got != want {
		t.Errorf("AutoLink = %q, want %q", got, want)
	}
}
