package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"pageforge/internal/service"
)

func (s *Server) registerSnapshotTools() {
	// ── list_snapshots ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_snapshots",
		mcp.WithDescription("List the stored restore points for a page side, newest first."),
		mcp.WithString("bookKey", mcp.Description("Book identifier (optional, defaults to active page)")),
		mcp.WithNumber("pageIndex", mcp.Description("Page index (optional)")),
		mcp.WithString("side", mcp.Description("Page side (optional)")),
	), s.handleListSnapshots)

	// ── restore_snapshot (destructive) ─────────────────
	s.mcp.AddTool(mcp.NewTool("restore_snapshot",
		mcp.WithDescription("🛑 DESTRUCTIVE: Overwrite a page side with a stored snapshot."),
		mcp.WithString("snapshotId", mcp.Description("Snapshot ID from list_snapshots"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRestoreSnapshot)

	// ── snapshot_now ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("snapshot_now",
		mcp.WithDescription("Take an immediate snapshot of a page side, outside the periodic schedule."),
		mcp.WithString("bookKey", mcp.Description("Book identifier (optional, defaults to active page)")),
		mcp.WithNumber("pageIndex", mcp.Description("Page index (optional)")),
		mcp.WithString("side", mcp.Description("Page side (optional)")),
	), s.handleSnapshotNow)
}

func (s *Server) handleListSnapshots(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := s.resolveKey(req.GetArguments())
	if err != nil {
		return nil, err
	}
	snaps, err := s.snapshots.List(key)
	if err != nil {
		return nil, err
	}
	type summary struct {
		ID        string    `json:"id"`
		Blocks    int       `json:"blocks"`
		CreatedAt time.Time `json:"createdAt"`
	}
	out := make([]summary, 0, len(snaps))
	for _, snap := range snaps {
		n := 0
		if snap.Layout != nil {
			n = len(snap.Layout.Blocks)
		}
		out = append(out, summary{ID: snap.ID, Blocks: n, CreatedAt: snap.CreatedAt})
	}
	return jsonResult(out)
}

func (s *Server) handleRestoreSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, _ := args["snapshotId"].(string)
	if id == "" {
		return nil, fmt.Errorf("snapshotId is required")
	}
	layout, key, err := s.snapshots.Restore(id)
	if err != nil {
		return nil, err
	}
	if layout == nil {
		return nil, fmt.Errorf("snapshot %s not found", id)
	}
	s.emitter.Emit(ctx, service.EventLayoutChanged, map[string]any{"key": key})
	return textResult(fmt.Sprintf("Restored %s page %d (%s) from snapshot %s",
		key.BookKey, key.PageIndex, key.Side, id)), nil
}

func (s *Server) handleSnapshotNow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := s.resolveKey(req.GetArguments())
	if err != nil {
		return nil, err
	}
	s.snapshots.MarkDirty(key)
	s.snapshots.Tick(ctx)
	return textResult(fmt.Sprintf("Snapshot taken for %s page %d (%s)", key.BookKey, key.PageIndex, key.Side)), nil
}
