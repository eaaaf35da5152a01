package file

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/signin/internal/logger"
)

// Watcher reloads a ConfigStore whenever its file is written or replaced.
type Watcher struct {
	store    *ConfigStore
	onReload func(*ConfigStore)
	w        *fsnotify.Watcher

	done      chan struct{}
	closeOnce sync.Once
	finished  sync.WaitGroup
}

// Watch starts watching the store's file. onReload runs after every
// successful reload. The directory is watched rather than the file so
// editors that save by rename are picked up.
func Watch(store *ConfigStore, onReload func(*ConfigStore)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(store.Path())); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(store.Path()), err)
	}

	w := &Watcher{
		store:    store,
		onReload: onReload,
		w:        fw,
		done:     make(chan struct{}),
	}
	w.finished.Add(1)
	go w.run()
	return w, nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.w.Close()
		w.finished.Wait()
	})
	return err
}

func (w *Watcher) run() {
	defer w.finished.Done()
	target := filepath.Clean(w.store.Path())

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			if err != nil {
				logger.Error("config watcher: %v", err)
			}
		}
	}
}

func (w *Watcher) reload() {
	if err := w.store.Load(); err != nil {
		// Keep serving the previous values; a half-written file is common mid-save.
		logger.Warn("config reload failed: %v", err)
		return
	}
	logger.Info("configuration reloaded from %s", w.store.Path())
	if w.onReload != nil {
		w.onReload(w.store)
	}
}
