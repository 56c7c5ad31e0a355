package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"pageforge/internal/config"
	mcpserver "pageforge/internal/mcp"
	"pageforge/internal/service"
	"pageforge/internal/storage"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no
// GUI, sharing the same database and validation path as the editor.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pageforge-mcp"})

	cfg, err := config.Load("")
	if err != nil {
		logger.Warn("config", "err", err)
	}

	db, err := storage.New(cfg.Storage.Path)
	if err != nil {
		logger.Fatal("open database", "path", cfg.Storage.Path, "err", err)
	}
	defer db.Close()

	layoutStore := storage.NewLayoutStore(db)
	emitter := noopEmitter{}

	saver := service.NewDebouncedSaver(layoutStore, logger, nil)
	defer saver.Flush()
	layouts := service.NewLayoutService(layoutStore, saver, nil, emitter, logger)
	snapshots := service.NewSnapshotService(layoutStore, storage.NewSnapshotStore(db), emitter, logger, cfg.Snapshots.Keep)

	srv := mcpserver.New(mcpserver.Deps{
		Emitter:   emitter,
		Layouts:   layouts,
		Snapshots: snapshots,
	})

	logger.Info("starting standalone stdio server")
	if err := srv.ServeStdio(); err != nil && ctx.Err() == nil {
		logger.Error("mcp server", "err", err)
	}
}
