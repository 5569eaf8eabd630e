// Package watcher rebuilds the note collection when the notes directory
// changes on disk.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/noteweave/internal/noteservice"
	"github.com/starford/noteweave/internal/notes"
	"github.com/starford/noteweave/internal/storage"
)

// DefaultDebounce is the quiet period before a rebuild.
const DefaultDebounce = 250 * time.Millisecond

// Change kinds.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// Change is a file-level change seen during one debounce window.
type Change struct {
	Kind string
	Slug string
}

// Reloader rebuilds and publishes the note collection.
type Reloader interface {
	Reload(ctx context.Context) (noteservice.ReloadResult, error)
}

// Callback is called after every rebuild that published a new generation.
type Callback func(res noteservice.ReloadResult, changes []Change)

// Config selects what is watched.
type Config struct {
	Dir        string
	Extensions []string
	Debounce   time.Duration
}

// Watch watches cfg.Dir until ctx is cancelled. Note file events are
// collected until the directory has been quiet for cfg.Debounce, then r
// rebuilds the whole collection. cb (if non-nil) is called when the rebuild
// published a new generation.
//
// Only the top level of the directory is watched, matching the set of files
// the collection is built from.
func Watch(ctx context.Context, r Reloader, cfg Config, logger *slog.Logger, cb Callback) error {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = notes.DefaultExtensions
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(cfg.Dir); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("dir", cfg.Dir))

	var timer *time.Timer
	var timerCh <-chan time.Time
	pending := newChangeSet()

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(cfg.Debounce)
			timerCh = timer.C
		} else {
			timer.Reset(cfg.Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			timer, timerCh = nil, nil
			changes := pending.drain()
			res, err := r.Reload(ctx)
			if err != nil {
				logger.Warn("watcher: rebuild failed", slog.String("error", err.Error()))
				continue
			}
			if !res.Changed {
				logger.Debug("watcher: collection unchanged", slog.Int("events", len(changes)))
				continue
			}
			logger.Info("watcher: rebuilt",
				slog.Uint64("generation", res.Generation),
				slog.Int("notes", res.Notes),
				slog.Int("warnings", len(res.Report.Warnings)))
			if cb != nil {
				cb(res, changes)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !storage.IsNoteFile(name, cfg.Extensions) {
				continue
			}
			kind := eventKind(ev.Op)
			if kind == "" {
				continue
			}
			pending.add(notes.SlugFromPath(name), kind)
			logger.Debug("watcher: event", slog.String("file", name), slog.String("op", kind))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func eventKind(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return Created
	case op&fsnotify.Write != 0:
		return Updated
	case op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// fsnotify reports Rename on the old name; the new name arrives as Create.
		return Deleted
	}
	return ""
}

// changeSet merges events per slug, keeping first-seen order.
type changeSet struct {
	order []string
	kinds map[string]string
}

func newChangeSet() *changeSet {
	return &changeSet{kinds: make(map[string]string)}
}

func (c *changeSet) add(slug, kind string) {
	prev, seen := c.kinds[slug]
	if !seen {
		c.order = append(c.order, slug)
	}
	switch {
	case prev == Created && kind == Updated:
		return
	case prev == Deleted && kind == Created:
		kind = Updated
	}
	c.kinds[slug] = kind
}

func (c *changeSet) drain() []Change {
	out := make([]Change, 0, len(c.order))
	for _, slug := range c.order {
		out = append(out, Change{Kind: c.kinds[slug], Slug: slug})
	}
	c.order = nil
	c.kinds = make(map[string]string)
	return out
}
