package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce quiet period after the last write before reloading
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc imports the catalog file at path
type ReloadFunc func(ctx context.Context, path string) error

// CatalogWatcher reloads the catalog whenever its file is written or replaced.
// The parent directory is watched so editors that save via rename are seen.
type CatalogWatcher struct {
	path     string
	debounce time.Duration
	reload   ReloadFunc
	clock    clock.Clock
	log      logrus.FieldLogger
}

func NewCatalogWatcher(path string, debounce time.Duration, reload ReloadFunc, log logrus.FieldLogger) *CatalogWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &CatalogWatcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		reload:   reload,
		clock:    clock.New(),
		log:      log.WithField("component", "catalog_watcher"),
	}
}

// Run blocks until ctx is done
func (w *CatalogWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.log.WithField("path", w.path).Info("Watching catalog file")

	fire := make(chan struct{}, 1)
	var timer *clock.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.WithField("op", event.Op.String()).Debug("Catalog file changed")
			if timer != nil {
				timer.Stop()
			}
			timer = w.clock.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("Catalog watcher error")

		case <-fire:
			if err := w.reload(ctx, w.path); err != nil {
				w.log.WithError(err).Error("Catalog reload failed")
				continue
			}
			w.log.Info("Catalog reloaded")
		}
	}
}

func (w *CatalogWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write)
}
