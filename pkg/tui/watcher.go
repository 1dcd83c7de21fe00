package tui

import (
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/stefanpenner/tandem/pkg/store"
)

// WatchDebounce is how long the watcher waits after the last event before
// looking at the snapshot.
const WatchDebounce = 200 * time.Millisecond

// StartWatcher watches the snapshot file behind key and calls send with a
// SnapshotChangedMsg when someone else changes it. Writes whose content
// matches the last write made through kv are ignored. The returned func stops
// the watcher and waits for it to exit.
func StartWatcher(kv *store.FileKV, key string, send func(tea.Msg), log *zap.Logger) (func(), error) {
	if log == nil {
		log = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// The directory, not the file: FileKV replaces the file by renaming over it.
	if err := watcher.Add(kv.Root); err != nil {
		watcher.Close()
		return nil, err
	}

	target := filepath.Base(kv.Path(key))
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		timer := time.NewTimer(WatchDebounce)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				if event.Op == fsnotify.Chmod {
					continue
				}
				timer.Reset(WatchDebounce)

			case <-timer.C:
				data, err := os.ReadFile(kv.Path(key))
				if err != nil && !os.IsNotExist(err) {
					log.Debug("reading changed snapshot", zap.Error(err))
					continue
				}
				if err == nil && kv.IsOwnWrite(key, data) {
					continue
				}
				log.Debug("snapshot changed on disk", zap.String("path", kv.Path(key)))
				send(SnapshotChangedMsg{})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("file watcher error", zap.Error(err))

			case <-done:
				return
			}
		}
	}()

	cleanup := func() {
		close(done)
		watcher.Close()
		<-stopped
	}

	return cleanup, nil
}
