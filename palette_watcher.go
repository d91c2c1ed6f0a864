package chatmarkup

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// PaletteWatcher reloads a Palette when its file changes. Change events are
// posted to a Scheduler and coalesced, so a burst of writes causes one reload
// on the scheduler's thread.
type PaletteWatcher struct {
	palette *Palette
	path    string
	sched   Scheduler
	watcher *fsnotify.Watcher
	reload  *Refresher[string]

	onReload func(*Palette)
	logger   zerolog.Logger

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// PaletteWatcherOption configures a PaletteWatcher during construction.
type PaletteWatcherOption func(*PaletteWatcher)

// WithReloadCallback sets a function called on the scheduler's thread after
// every reload.
func WithReloadCallback(fn func(*Palette)) PaletteWatcherOption {
	return func(w *PaletteWatcher) {
		w.onReload = fn
	}
}

// WithWatcherLogger sets the logger for reload failures.
func WithWatcherLogger(l zerolog.Logger) PaletteWatcherOption {
	return func(w *PaletteWatcher) {
		w.logger = l
	}
}

// NewPaletteWatcher watches path and reloads p through sched. The parent
// directory is watched so editors that replace the file are seen.
func NewPaletteWatcher(p *Palette, path string, sched Scheduler, opts ...PaletteWatcherOption) (*PaletteWatcher, error) {
	if p == nil || sched == nil {
		return nil, errors.New("palette watcher: nil palette or scheduler")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &PaletteWatcher{
		palette: p,
		path:    filepath.Clean(path),
		sched:   sched,
		watcher: fw,
		logger:  zerolog.Nop(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.reload = NewRefresher(sched, func([]string) { w.apply() })

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.wg.Add(1)
	go w.processEvents()
	return w, nil
}

// Path returns the watched file.
func (w *PaletteWatcher) Path() string {
	return w.path
}

func (w *PaletteWatcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.sched.Post(func() { w.reload.MarkDirty(w.path) })
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Debug().Err(err).Str("path", w.path).Msg("palette watcher error")
		}
	}
}

func (w *PaletteWatcher) apply() {
	if err := w.palette.Load(w.path); err != nil {
		w.logger.Debug().Err(err).Str("path", w.path).Msg("palette reload failed")
		return
	}
	w.logger.Debug().Str("path", w.path).Msg("palette reloaded")
	if w.onReload != nil {
		w.onReload(w.palette)
	}
}

// Close stops watching. It is safe to call more than once.
func (w *PaletteWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
