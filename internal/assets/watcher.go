package assets

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// AssetChangedHandler is called when a watched asset file is rewritten on
// disk. For vector assets hint carries the freshly parsed metadata; for
// raster assets it is nil and the caller just invalidates its cache.
type AssetChangedHandler func(blockID, path string, hint *SVGHint)

// Watcher tracks asset files referenced by blocks and notifies the app when
// an external editor saves over one, so open pages re-render without a
// manual refresh.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange AssetChangedHandler
	logger   *log.Logger

	mu       sync.RWMutex
	watching map[string]string // absolute asset path -> blockID
}

// NewWatcher starts the event loop immediately.
func NewWatcher(onChange AssetChangedHandler, logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		onChange: onChange,
		logger:   logger,
		watching: make(map[string]string),
	}

	go w.watchLoop()

	return w, nil
}

// Watch registers an asset file for a block. fsnotify watches directories,
// so the parent directory is added and events are filtered by path.
func (w *Watcher) Watch(blockID, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.watching[absPath] = blockID
	w.mu.Unlock()

	return w.watcher.Add(filepath.Dir(absPath))
}

// Unwatch drops every registration for the given block.
func (w *Watcher) Unwatch(blockID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, id := range w.watching {
		if id == blockID {
			delete(w.watching, path)
		}
	}
}

// Close stops the watcher and its event loop.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			absPath, _ := filepath.Abs(event.Name)

			w.mu.RLock()
			blockID, watched := w.watching[absPath]
			w.mu.RUnlock()

			if !watched || w.onChange == nil {
				continue
			}

			var hint *SVGHint
			if strings.EqualFold(filepath.Ext(absPath), ".svg") {
				h, err := ReadSVGHint(absPath)
				if err != nil {
					w.logger.Warn("asset watcher: reparse svg", "path", absPath, "err", err)
					continue
				}
				hint = &h
			}
			w.onChange(blockID, absPath, hint)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("asset watcher error", "err", err)
		}
	}
}
