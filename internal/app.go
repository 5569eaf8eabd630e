package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/starford/noteweave/internal/apperr"
	"github.com/starford/noteweave/internal/artifact"
	"github.com/starford/noteweave/internal/mcpserver"
	"github.com/starford/noteweave/internal/noteservice"
	"github.com/starford/noteweave/internal/notes"
	"github.com/starford/noteweave/internal/search"
	"github.com/starford/noteweave/internal/storage"
	"github.com/starford/noteweave/internal/watcher"
)

// BuildSummary describes one artifact build.
type BuildSummary struct {
	Notes  int
	Path   string
	Report notes.Report
}

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, errors.New("config is required")
	}
	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: app.config.App.LogLevel,
		}))
	}
	return app, nil
}

func (a *application) builder() *notes.Builder {
	return notes.NewBuilder(
		notes.WithLogger(a.logger),
		notes.WithDateFallback(a.config.Notes.DateFallback),
	)
}

func (a *application) openStore() (storage.Provider, error) {
	store, err := storage.NewFS(a.config.Notes.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrIOFailure, err)
	}
	return store, nil
}

// newService builds a service with the query index idx and publishes the
// first generation, read from the notes directory or from the artifact.
func (a *application) newService(ctx context.Context, idx search.Index) (*noteservice.Service, error) {
	cfg := a.config

	var store storage.Provider
	if !a.fromArtifact {
		var err error
		if store, err = a.openStore(); err != nil {
			return nil, err
		}
	}

	svc := noteservice.NewService(store,
		noteservice.WithExtensions(cfg.Notes.Extensions),
		noteservice.WithBuilder(a.builder()),
		noteservice.WithSearch(idx),
		noteservice.WithRenderOptions(cfg.Render.Options()),
		noteservice.WithLogger(a.logger),
	)

	if a.fromArtifact {
		records, err := artifact.ReadFile(cfg.Artifact.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperr.ErrIOFailure, err)
		}
		if _, err := svc.Publish(records); err != nil {
			return nil, err
		}
		return svc, nil
	}

	res, err := svc.Reload(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Info("notes loaded",
		slog.Uint64("generation", res.Generation),
		slog.Int("notes", res.Notes),
		slog.Int("skipped", res.Report.Skipped))
	return svc, nil
}

// Build reads the notes directory and writes the JSON artifact.
func Build(ctx context.Context, opts ...Option) (BuildSummary, error) {
	app, err := newApplication(opts)
	if err != nil {
		return BuildSummary{}, err
	}
	cfg := app.config

	store, err := app.openStore()
	if err != nil {
		return BuildSummary{}, err
	}
	ix, report, err := notes.Rebuild(ctx, store, cfg.Notes.Extensions, app.builder())
	if err != nil {
		return BuildSummary{}, err
	}
	if err := artifact.WriteFile(cfg.Artifact.Path, ix.Records()); err != nil {
		return BuildSummary{}, fmt.Errorf("%w: %w", apperr.ErrIOFailure, err)
	}

	app.logger.Info("build: artifact written",
		slog.String("path", cfg.Artifact.Path),
		slog.Int("notes", ix.Len()),
		slog.Int("skipped", report.Skipped))
	return BuildSummary{Notes: ix.Len(), Path: cfg.Artifact.Path, Report: report}, nil
}

// Check builds the collection in memory and returns every build warning
// followed by broken-link warnings.
func Check(ctx context.Context, opts ...Option) ([]notes.Warning, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}

	store, err := app.openStore()
	if err != nil {
		return nil, err
	}
	ix, report, err := notes.Rebuild(ctx, store, app.config.Notes.Extensions, app.builder())
	if err != nil {
		return nil, err
	}

	warnings := slices.Clone(report.Warnings)
	for _, w := range notes.Validate(ix) {
		if !slices.Contains(warnings, w) {
			warnings = append(warnings, w)
		}
	}
	return warnings, nil
}

// ServeMCP serves the note collection over MCP on stdin/stdout until the
// client disconnects.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	db, err := search.Open(cfg.Search.DSN)
	if err != nil {
		return fmt.Errorf("init search: %w", err)
	}
	defer db.Close()

	svc, err := app.newService(ctx, db)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Watch.Enabled && !app.fromArtifact {
		go func() {
			err := watcher.Watch(ctx, svc, watcher.Config{
				Dir:        cfg.Notes.Dir,
				Extensions: cfg.Notes.Extensions,
				Debounce:   cfg.Watch.Debounce,
			}, app.logger, nil)
			if err != nil {
				app.logger.Error("watcher failed", slog.String("error", err.Error()))
			}
		}()
	}

	app.logger.Info("MCP server starting", slog.String("notes_dir", cfg.Notes.Dir))
	return mcpserver.New(svc, app.version).ServeStdio()
}
