//go:build !sqlite_fts5

package api

import (
	"net/url"
	"testing"
)

func TestSearchAgreesWithListFilter(t *testing.T) {
	_, router := testEnv(t, "")

	for _, q := range []string{"*", "_", "%", "[[", "SEE", "bold"} {
		esc := url.QueryEscape(q)
		list := decode[NoteListResponse](t, get(t, router, "/notes?q="+esc))
		found := decode[SearchResponse](t, get(t, router, "/search?q="+esc))
		if len(found.Results) != len(list.Notes) {
			t.Errorf("q=%q: search = %d results, list = %d", q, len(found.Results), len(list.Notes))
			continue
		}
		for i := range list.Notes {
			if found.Results[i].Slug != list.Notes[i].Slug {
				t.Errorf("q=%q: search[%d] = %q, list[%d] = %q", q, i, found.Results[i].Slug, i, list.Notes[i].Slug)
			}
		}
	}
}
