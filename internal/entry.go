// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/noteweave/internal/api"
	"github.com/starford/noteweave/internal/noteservice"
	"github.com/starford/noteweave/internal/search"
	"github.com/starford/noteweave/internal/sse"
	"github.com/starford/noteweave/internal/watcher"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("notes_dir", cfg.Notes.Dir),
		slog.String("search_dsn", cfg.Search.DSN),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure notes directory exists.
	if !app.fromArtifact {
		if err := os.MkdirAll(cfg.Notes.Dir, 0o755); err != nil {
			return fmt.Errorf("create notes dir: %w", err)
		}
	}

	// Query index, rebuilt on every published generation.
	db, err := search.Open(cfg.Search.DSN)
	if err != nil {
		return fmt.Errorf("init search: %w", err)
	}
	defer db.Close()

	svc, err := app.newService(ctx, db)
	if err != nil {
		return fmt.Errorf("initial load: %w", err)
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Rebuild on file changes and announce new generations over SSE.
	if cfg.Watch.Enabled && !app.fromArtifact {
		g.Go(func() error {
			return watcher.Watch(gCtx, svc, watcher.Config{
				Dir:        cfg.Notes.Dir,
				Extensions: cfg.Notes.Extensions,
				Debounce:   cfg.Watch.Debounce,
			}, logger, func(res noteservice.ReloadResult, changes []watcher.Change) {
				broker.PublishRebuild(rebuildEvent(res, changes))
			})
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Stops the watcher.
		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

func rebuildEvent(res noteservice.ReloadResult, changes []watcher.Change) sse.Rebuild {
	rb := sse.Rebuild{
		Generation: res.Generation,
		Notes:      res.Notes,
		Warnings:   len(res.Report.Warnings),
		Changes:    make([]sse.NoteChange, len(changes)),
	}
	for i, c := range changes {
		rb.Changes[i] = sse.NoteChange{Kind: c.Kind, Slug: c.Slug}
	}
	return rb
}
