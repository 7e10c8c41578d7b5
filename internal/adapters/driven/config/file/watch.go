package file

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

// reloadDelay coalesces the burst of events editors emit for one save.
const reloadDelay = 100 * time.Millisecond

// Watcher reloads a ConfigStore whenever its file changes on disk, so
// edits made by another process (or by hand) reach a running session.
type Watcher struct {
	store    *ConfigStore
	fs       *fsnotify.Watcher
	onReload func()
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// Watch starts watching the store's file. onReload, if non-nil, runs
// after every successful reload. Close the watcher when done.
func (s *ConfigStore) Watch(onReload func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	// The directory is watched because editors often replace the file
	// rather than write it in place.
	if err := fsw.Add(filepath.Dir(s.filePath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(s.filePath), err)
	}

	w := &Watcher{
		store:    s,
		fs:       fsw,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	logger.Debug("config: watching %s", s.filePath)
	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.store.filePath) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDelay, w.reload)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}
	if err := w.store.Load(); err != nil {
		logger.Warn("config reload failed: %v", err)
		return
	}
	logger.Debug("config: reloaded %s", w.store.filePath)
	if w.onReload != nil {
		w.onReload()
	}
}
