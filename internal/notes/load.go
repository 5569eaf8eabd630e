package notes

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/noteweave/internal/apperr"
	"github.com/starford/noteweave/internal/models"
	"github.com/starford/noteweave/internal/storage"
)

const readConcurrency = 8

// DefaultExtensions are the note file extensions read when none are configured.
var DefaultExtensions = []string{".md"}

// Load reads every note document directly under the store root. A listing
// failure is fatal and wraps apperr.ErrIOFailure; an unreadable file is
// skipped and reported. Documents keep directory order.
func Load(ctx context.Context, store storage.Provider, exts []string, logger *slog.Logger) ([]models.NoteDocument, []Warning, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	metas, err := store.List(exts)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", apperr.ErrIOFailure, err)
	}

	docs := make([]models.NoteDocument, len(metas))
	readErrs := make([]error, len(metas))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, m := range metas {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := store.Read(m.Path)
			if err != nil {
				readErrs[i] = err
				return nil
			}
			docs[i] = models.NoteDocument{
				Slug:    SlugFromPath(m.Path),
				Content: string(data),
				ModTime: m.ModTime,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	out := docs[:0]
	for i, d := range docs {
		if readErrs[i] != nil {
			w := Warning{Slug: SlugFromPath(metas[i].Path), Message: "skipped unreadable document: " + readErrs[i].Error()}
			warnings = append(warnings, w)
			logger.Warn("load: "+w.Message, slog.String("slug", w.Slug))
			continue
		}
		out = append(out, d)
	}
	return out, warnings, nil
}

// SlugFromPath derives a slug from a file name by stripping its extension.
func SlugFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Rebuild loads the store and builds a fresh Index.
func Rebuild(ctx context.Context, store storage.Provider, exts []string, b *Builder) (*Index, Report, error) {
	docs, loadWarnings, err := Load(ctx, store, exts, b.logger)
	if err != nil {
		return nil, Report{}, err
	}
	records, report := b.Build(docs)
	report.Warnings = append(loadWarnings, report.Warnings...)
	report.Skipped += len(loadWarnings)
	return NewIndex(records), report, nil
}
