// Package app is the Wails host: it wires config, storage, services, and
// the geometry engines, and exposes the editor API as bindings.
package app

import (
	"context"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"pageforge/internal/assets"
	"pageforge/internal/config"
	"pageforge/internal/domain"
	"pageforge/internal/geometry"
	"pageforge/internal/persist"
	"pageforge/internal/render"
	"pageforge/internal/service"
	"pageforge/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx    context.Context
	cfg    config.Config
	logger *log.Logger

	db          *storage.DB
	layoutStore *storage.LayoutStore
	saver       *service.DebouncedSaver
	layouts     *service.LayoutService
	snapshots   *service.SnapshotService
	window      *service.WindowSettingsService
	mirror      persist.Backend

	fileAssets *render.FileAssets
	renderer   *render.Renderer
	watcher    *assets.Watcher

	// Active gesture state. One gesture at a time; pointer-down replaces
	// any session a missing pointer-up left behind.
	gestureMu sync.Mutex
	gesture   *gestureState
}

type gestureState struct {
	key       domain.LayoutKey
	session   *geometry.GestureSession
	origin    *domain.PageSideLayout
	candidate *domain.PageSideLayout
}

// New creates a new App.
func New() *App {
	return &App{
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "pageforge"}),
	}
}

// Emit implements service.EventEmitter via the Wails runtime.
func (a *App) Emit(ctx context.Context, event string, data any) {
	if a.ctx != nil {
		wailsRuntime.EventsEmit(a.ctx, event, data)
	}
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	cfg, err := config.Load("")
	if err != nil {
		a.logger.Warn("config", "err", err)
	}
	a.cfg = cfg

	db, err := storage.New(cfg.Storage.Path)
	if err != nil {
		a.logger.Error("open database", "path", cfg.Storage.Path, "err", err)
		wailsRuntime.Quit(ctx)
		return
	}
	a.db = db
	a.layoutStore = storage.NewLayoutStore(db)
	a.window = service.NewWindowSettingsService(db)

	size := a.window.LoadWindowSize()
	wailsRuntime.WindowSetSize(ctx, size.Width, size.Height)

	if cfg.Mirror.Driver != "" {
		mirror, err := persist.Open(ctx, cfg.Mirror.Driver, cfg.Mirror.DSN)
		if err != nil {
			a.logger.Warn("mirror disabled", "driver", cfg.Mirror.Driver, "err", err)
		} else {
			a.mirror = mirror
		}
	}

	snapshotStore := storage.NewSnapshotStore(db)
	a.snapshots = service.NewSnapshotService(a.layoutStore, snapshotStore, a, a.logger, cfg.Snapshots.Keep)

	a.saver = service.NewDebouncedSaver(a.layoutStore, a.logger, func(key domain.LayoutKey) {
		a.snapshots.MarkDirty(key)
		a.layouts.MirrorSaved(ctx, key)
		a.Emit(ctx, service.EventLayoutSaved, map[string]any{"key": key})
	})
	a.layouts = service.NewLayoutService(a.layoutStore, a.saver, a.mirror, a, a.logger)

	if err := a.snapshots.Start(ctx, cfg.Snapshots.Schedule); err != nil {
		a.logger.Warn("snapshot schedule", "schedule", cfg.Snapshots.Schedule, "err", err)
	}

	a.fileAssets = render.NewFileAssets("")
	a.renderer = render.New(a.fileAssets, cfg.Canvas.PageWidthPx, cfg.Canvas.PageHeightPx)

	watcher, err := assets.NewWatcher(a.onAssetChanged, a.logger)
	if err != nil {
		a.logger.Warn("asset watcher", "err", err)
	} else {
		a.watcher = watcher
	}
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.snapshots != nil {
		a.snapshots.Stop(ctx)
	}
	if a.saver != nil {
		a.saver.Flush()
	}
	if a.mirror != nil {
		a.mirror.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// onAssetChanged reacts to an external editor saving over a watched asset.
func (a *App) onAssetChanged(blockID, path string, hint *assets.SVGHint) {
	a.fileAssets.Invalidate(path)
	payload := map[string]any{"blockId": blockID, "path": path}
	if hint != nil {
		payload["intrinsicRatio"] = hint.IntrinsicRatio
		payload["croppable"] = hint.Croppable
	}
	a.Emit(a.ctx, service.EventAssetChanged, payload)
}

// LoadWindowSize returns the persisted window dimensions.
func (a *App) LoadWindowSize() service.WindowSize {
	return a.window.LoadWindowSize()
}

// SaveWindowSize persists the current window dimensions.
func (a *App) SaveWindowSize(width, height int) error {
	return a.window.SaveWindowSize(width, height)
}
