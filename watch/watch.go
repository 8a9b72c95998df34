// Package watch reports changes to a directory, debounced so that a burst of
// file events (an IDE saving a migration and its designer file) fires once.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/logger"
)

// DefaultDebounce is how long the directory must stay quiet before a change fires.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches one directory, non-recursively.
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.SugaredLogger
}

// New starts watching dir.
func New(dir string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", dir)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		watcher:  fw,
		debounce: debounce,
		logger:   logger.Named("watch"),
	}, nil
}

// Run calls onChange after every quiet period following a change, on the
// calling goroutine, until ctx is done. Events arriving while onChange runs
// are coalesced into the next call.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debugw("Change detected",
				logger.FieldPath, event.Name,
				"op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("Watcher error", logger.FieldError, err)

		case <-fire:
			fire = nil
			onChange()
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// relevant drops chmod-only events and editor scratch files.
func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".tmp"),
		strings.HasSuffix(base, ".swp"):
		return false
	}
	return true
}
