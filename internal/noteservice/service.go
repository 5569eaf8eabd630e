// Package noteservice coordinates the note collection, its query index and
// rendering for the HTTP and MCP surfaces.
package noteservice

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/starford/noteweave/internal/links"
	"github.com/starford/noteweave/internal/models"
	"github.com/starford/noteweave/internal/notes"
	"github.com/starford/noteweave/internal/render"
	"github.com/starford/noteweave/internal/search"
	"github.com/starford/noteweave/internal/storage"
)

// NoteSummary is a lightweight item in a list response.
type NoteSummary struct {
	Slug        string      `json:"slug"`
	Title       string      `json:"title"`
	Date        models.Date `json:"date"`
	Tags        []string    `json:"tags"`
	Description string      `json:"description"`
}

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	NoteSummary
	Content     string         `json:"content"`
	HTML        string         `json:"html"`
	ReadingTime int            `json:"reading_time"`
	Backlinks   []BacklinkItem `json:"backlinks"`
}

// BacklinkItem is a backlink flattened for transport.
type BacklinkItem struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Context string `json:"context"`
}

// Preview is the hover card for a note.
type Preview struct {
	Slug    string      `json:"slug"`
	Title   string      `json:"title"`
	Date    models.Date `json:"date"`
	Excerpt string      `json:"excerpt"`
}

// Resolution is the result of resolving a wiki-link title.
type Resolution struct {
	Title  string `json:"title"`
	Slug   string `json:"slug,omitempty"`
	Href   string `json:"href,omitempty"`
	Broken bool   `json:"broken"`
}

// ReloadResult describes one rebuild.
type ReloadResult struct {
	Generation uint64
	Changed    bool
	Notes      int
	Report     notes.Report
}

// Service owns the published note collection.
type Service struct {
	store   storage.Provider
	exts    []string
	builder *notes.Builder
	notes   *notes.Store
	search  search.Index
	render  render.Options
	logger  *slog.Logger

	reloadMu  sync.Mutex
	published bool
}

// Option configures a Service.
type Option func(*Service)

// WithExtensions sets the note file extensions.
func WithExtensions(exts []string) Option {
	return func(s *Service) { s.exts = exts }
}

// WithBuilder sets the note builder.
func WithBuilder(b *notes.Builder) Option {
	return func(s *Service) { s.builder = b }
}

// WithSearch attaches a query index, refreshed on every published generation.
// Without one, search and tag queries run over the in-memory collection.
func WithSearch(idx search.Index) Option {
	return func(s *Service) { s.search = idx }
}

// WithRenderOptions sets the rendering options.
func WithRenderOptions(o render.Options) Option {
	return func(s *Service) { s.render = o }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

var errNoStorage = errors.New("noteservice: reload without storage")

// NewService creates a service publishing an empty collection until the
// first Reload or Publish.
func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:  store,
		exts:   notes.DefaultExtensions,
		notes:  notes.NewStore(notes.NewIndex(nil)),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.builder == nil {
		s.builder = notes.NewBuilder(notes.WithLogger(s.logger))
	}
	return s
}

// Index returns the current collection.
func (s *Service) Index() *notes.Index { return s.notes.Current() }

// Generation returns the number of published collections.
func (s *Service) Generation() uint64 { return s.notes.Generation() }

// RenderOptions returns the rendering options.
func (s *Service) RenderOptions() render.Options { return s.render }

// Reload rebuilds the collection from storage and publishes it when its
// fingerprint differs from the current one. Concurrent calls are serialized.
func (s *Service) Reload(ctx context.Context) (ReloadResult, error) {
	if s.store == nil {
		return ReloadResult{}, errNoStorage
	}
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ix, report, err := notes.Rebuild(ctx, s.store, s.exts, s.builder)
	if err != nil {
		return ReloadResult{}, err
	}
	res := ReloadResult{Notes: ix.Len(), Report: report, Generation: s.notes.Generation()}
	if s.published && ix.Fingerprint() == s.notes.Current().Fingerprint() {
		return res, nil
	}
	gen, err := s.publish(ix)
	if err != nil {
		return res, err
	}
	res.Generation, res.Changed = gen, true
	return res, nil
}

// Publish replaces the collection with already-built records, keeping their
// order.
func (s *Service) Publish(records []models.NoteRecord) (uint64, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	return s.publish(notes.NewIndex(records))
}

func (s *Service) publish(ix *notes.Index) (uint64, error) {
	if s.search != nil {
		if err := s.search.Load(ix.Records(), ix); err != nil {
			return s.notes.Generation(), err
		}
	}
	gen := s.notes.Swap(ix)
	s.published = true
	s.logger.Info("notes: published", slog.Uint64("generation", gen), slog.Int("notes", ix.Len()))
	return gen, nil
}

// ListNotes returns the notes matching term and tag in collection order.
func (s *Service) ListNotes(_ context.Context, term, tag string) []NoteSummary {
	recs := s.Index().Filter(term, tag)
	out := make([]NoteSummary, len(recs))
	for i, r := range recs {
		out[i] = summary(r)
	}
	return out
}

// GetNote returns a note with its rendered HTML and backlinks.
func (s *Service) GetNote(_ context.Context, slug string) (*NoteDetail, error) {
	ix := s.Index()
	rec, err := ix.Get(slug)
	if err != nil {
		return nil, err
	}
	return &NoteDetail{
		NoteSummary: summary(rec),
		Content:     rec.Content,
		HTML:        render.RenderPage(rec.Content, ix, s.render),
		ReadingTime: render.ReadingTime(rec.Content),
		Backlinks:   backlinkItems(ix.Backlinks(slug)),
	}, nil
}

// RenderNote returns the rendered HTML of a note.
func (s *Service) RenderNote(_ context.Context, slug string) (string, error) {
	ix := s.Index()
	rec, err := ix.Get(slug)
	if err != nil {
		return "", err
	}
	return render.RenderPage(rec.Content, ix, s.render), nil
}

// RenderText renders arbitrary markdown against the current collection.
func (s *Service) RenderText(_ context.Context, body string) string {
	return render.RenderPage(body, s.Index(), s.render)
}

// Backlinks returns the backlinks of slug. Unknown slugs yield an empty list.
func (s *Service) Backlinks(_ context.Context, slug string) []BacklinkItem {
	return backlinkItems(s.Index().Backlinks(slug))
}

// Preview returns the hover card of slug.
func (s *Service) Preview(_ context.Context, slug string) (*Preview, error) {
	rec, err := s.Index().Get(slug)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Slug:    rec.Slug,
		Title:   rec.Title,
		Date:    rec.Date,
		Excerpt: render.Excerpt(rec.Content, render.ExcerptLength),
	}, nil
}

// Resolve resolves a wiki-link title against the current collection.
func (s *Service) Resolve(_ context.Context, title string) Resolution {
	slug, ok := s.Index().Resolve(title)
	if !ok {
		return Resolution{Title: title, Broken: true}
	}
	return Resolution{Title: title, Slug: slug, Href: render.NoteHref(s.render, slug)}
}

// Tags returns every tag with its note count.
func (s *Service) Tags(_ context.Context) ([]search.TagCount, error) {
	if s.search != nil {
		return s.search.Tags()
	}
	groups := s.Index().GroupByTag()
	out := make([]search.TagCount, 0, len(groups))
	for _, name := range s.Index().Tags() {
		out = append(out, search.TagCount{Name: name, Count: len(groups[name])})
	}
	return out, nil
}

// Search returns notes matching query and tag.
func (s *Service) Search(_ context.Context, query, tag string, limit int) ([]search.Result, error) {
	if s.search != nil {
		return s.search.Search(query, tag, limit)
	}
	recs := s.Index().Filter(query, tag)
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	out := make([]search.Result, 0, min(limit, len(recs)))
	for _, r := range recs[:min(limit, len(recs))] {
		out = append(out, search.Result{Slug: r.Slug, Title: r.Title, Date: r.Date.String(), Snippet: r.Description})
	}
	return out, nil
}

// Graph returns the resolved wiki-link graph.
func (s *Service) Graph(_ context.Context) (search.Graph, error) {
	if s.search != nil {
		return s.search.Graph()
	}
	ix := s.Index()
	g := search.Graph{Nodes: []search.GraphNode{}, Edges: []search.GraphEdge{}}
	seen := make(map[search.GraphEdge]struct{})
	for _, r := range ix.Records() {
		g.Nodes = append(g.Nodes, search.GraphNode{Slug: r.Slug, Title: r.Title})
		for _, target := range outgoing(r, ix) {
			e := search.GraphEdge{Source: r.Slug, Target: target}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			g.Edges = append(g.Edges, e)
		}
	}
	slices.SortFunc(g.Edges, func(a, b search.GraphEdge) int {
		return cmp.Or(strings.Compare(a.Source, b.Source), strings.Compare(a.Target, b.Target))
	})
	return g, nil
}

// Validate reports duplicate titles and broken links in the current collection.
func (s *Service) Validate() []notes.Warning {
	return notes.Validate(s.Index())
}

func summary(r models.NoteRecord) NoteSummary {
	return NoteSummary{
		Slug:        r.Slug,
		Title:       r.Title,
		Date:        r.Date,
		Tags:        nonNilSlice(r.Tags),
		Description: r.Description,
	}
}

// outgoing returns the slugs r links to, in document order.
func outgoing(r models.NoteRecord, res links.Resolver) []string {
	var out []string
	for _, l := range links.Find(r.Content, res) {
		if !l.Broken() {
			out = append(out, l.Target)
		}
	}
	return out
}

func backlinkItems(bl []models.Backlink) []BacklinkItem {
	out := make([]BacklinkItem, len(bl))
	for i, b := range bl {
		out[i] = BacklinkItem{Slug: b.Source.Slug, Title: b.Source.Title, Context: b.Context}
	}
	return out
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
