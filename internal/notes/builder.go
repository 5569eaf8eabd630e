// Package notes builds the ordered note collection from raw documents and
// exposes it as an immutable, swappable index.
package notes

import (
	"fmt"
	"log/slog"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/starford/noteweave/internal/models"
	"github.com/starford/noteweave/internal/parser"
)

// DateFallback selects the date given to notes without a usable frontmatter date.
type DateFallback string

const (
	// FallbackModTime uses the document's modification time, falling back to
	// the clock when it is unknown.
	FallbackModTime DateFallback = "modtime"
	// FallbackNow uses the build clock.
	FallbackNow DateFallback = "now"
)

// Warning is a non-fatal problem found while building the collection.
type Warning struct {
	Slug    string `json:"slug"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Slug == "" {
		return w.Message
	}
	return w.Slug + ": " + w.Message
}

// Report summarises a build.
type Report struct {
	Warnings []Warning
	Skipped  int
}

func (r *Report) warn(logger *slog.Logger, slug, format string, args ...any) {
	w := Warning{Slug: slug, Message: fmt.Sprintf(format, args...)}
	r.Warnings = append(r.Warnings, w)
	logger.Warn("build: "+w.Message, slog.String("slug", slug))
}

// Builder turns note documents into note records.
type Builder struct {
	logger   *slog.Logger
	now      func() time.Time
	fallback DateFallback
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used for build warnings.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// WithClock overrides the clock used for the date fallback.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// WithDateFallback selects the date fallback policy.
func WithDateFallback(f DateFallback) BuilderOption {
	return func(b *Builder) { b.fallback = f }
}

// NewBuilder returns a Builder with the modtime fallback and the default logger.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		logger:   slog.Default(),
		now:      time.Now,
		fallback: FallbackModTime,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build derives one record per usable document and returns them sorted by
// date, newest first. The sort is stable: documents sharing a date keep
// their input order. Problem documents are skipped and reported, never fatal.
func (b *Builder) Build(docs []models.NoteDocument) ([]models.NoteRecord, Report) {
	var report Report
	records := make([]models.NoteRecord, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))

	for _, doc := range docs {
		switch {
		case doc.Slug == "":
			report.warn(b.logger, "", "skipped document with empty slug")
			report.Skipped++
			continue
		case !utf8.ValidString(doc.Content):
			report.warn(b.logger, doc.Slug, "skipped document: content is not valid UTF-8")
			report.Skipped++
			continue
		}
		if _, dup := seen[doc.Slug]; dup {
			report.warn(b.logger, doc.Slug, "skipped document: duplicate slug")
			report.Skipped++
			continue
		}
		seen[doc.Slug] = struct{}{}
		records = append(records, b.record(doc, &report))
	}

	slices.SortStableFunc(records, func(a, c models.NoteRecord) int {
		return c.Date.Compare(a.Date)
	})

	for _, w := range duplicateTitles(records) {
		report.warn(b.logger, w.Slug, "%s", w.Message)
	}
	return records, report
}

func (b *Builder) record(doc models.NoteDocument, report *Report) models.NoteRecord {
	res := parser.Parse(doc.Content)
	for _, msg := range res.Warnings {
		report.warn(b.logger, doc.Slug, "%s", msg)
	}

	title := res.Title
	if title == "" {
		title = doc.Slug
	}

	return models.NoteRecord{
		Slug:        doc.Slug,
		Title:       title,
		Date:        b.date(doc, res.Frontmatter, report),
		Tags:        tags(res.Frontmatter),
		Description: res.Description,
		Content:     res.Body,
	}
}

func (b *Builder) date(doc models.NoteDocument, fm models.Metadata, report *Report) models.Date {
	if v, ok := fm.Get("date"); ok {
		switch {
		case v.IsList():
			report.warn(b.logger, doc.Slug, "date is a list, using fallback date")
		case v.String() != "":
			d, err := models.ParseDate(v.String())
			if err == nil {
				return d
			}
			report.warn(b.logger, doc.Slug, "%s, using fallback date", err.Error())
		}
	}
	if b.fallback == FallbackModTime && !doc.ModTime.IsZero() {
		return models.NewDate(doc.ModTime)
	}
	return models.NewDate(b.now())
}

// tags returns the frontmatter tags in written order. A scalar value such as
// `tags: solo` is accepted and coerced to a one-element list.
func tags(fm models.Metadata) []string {
	v, ok := fm.Get("tags")
	if !ok {
		return []string{}
	}
	return v.Strings()
}
