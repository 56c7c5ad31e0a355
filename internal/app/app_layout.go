package app

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"pageforge/internal/assets"
	"pageforge/internal/domain"
	"pageforge/internal/geometry"
	"pageforge/internal/service"
	"pageforge/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Layout bindings
// ─────────────────────────────────────────────────────────────

func layoutKey(bookKey string, pageIndex int, side string) domain.LayoutKey {
	return domain.LayoutKey{BookKey: bookKey, PageIndex: pageIndex, Side: domain.PageSide(side)}
}

// LoadLayout returns the layout for a page side, repaired and never nil.
func (a *App) LoadLayout(bookKey string, pageIndex int, side string) (*domain.PageSideLayout, error) {
	return a.layouts.Load(layoutKey(bookKey, pageIndex, side))
}

// CommitLayout validates and persists a full candidate layout from the
// frontend, returning the repaired version to display.
func (a *App) CommitLayout(bookKey string, pageIndex int, side string, layout domain.PageSideLayout) (*domain.PageSideLayout, error) {
	return a.layouts.Commit(a.ctx, layoutKey(bookKey, pageIndex, side), &layout)
}

// AddBlock creates a block of the given type with default geometry.
func (a *App) AddBlock(bookKey string, pageIndex int, side, blockType string) (*domain.Block, error) {
	_, added, err := a.layouts.AddBlock(a.ctx, layoutKey(bookKey, pageIndex, side), domain.BlockType(blockType))
	return added, err
}

// DeleteBlock removes a block. Unknown ids are a no-op.
func (a *App) DeleteBlock(bookKey string, pageIndex int, side, blockID string) (*domain.PageSideLayout, error) {
	return a.layouts.DeleteBlock(a.ctx, layoutKey(bookKey, pageIndex, side), blockID)
}

// SetBlockAsset points an image or vector block at an asset file. Vector
// assets are probed for an intrinsic ratio and croppability; both kinds are
// registered with the watcher for live reload.
func (a *App) SetBlockAsset(bookKey string, pageIndex int, side, blockID, path string) (*domain.PageSideLayout, error) {
	key := layoutKey(bookKey, pageIndex, side)
	layout, err := a.layouts.Load(key)
	if err != nil {
		return nil, err
	}
	b := layout.BlockByID(blockID)
	if b == nil {
		return nil, fmt.Errorf("block %s not found", blockID)
	}

	switch b.Type {
	case domain.BlockTypeImage:
		if b.Image == nil {
			b.Image = &domain.ImagePayload{ObjectFit: "cover"}
		}
		a.fileAssets.Invalidate(b.Image.AssetPath)
		b.Image.AssetPath = path
	case domain.BlockTypeSVG:
		if b.SVG == nil {
			b.SVG = &domain.SVGPayload{ObjectFit: "contain"}
		}
		b.SVG.AssetPath = path
		if strings.EqualFold(filepath.Ext(path), ".svg") {
			hint, err := assets.ReadSVGHint(path)
			if err != nil {
				a.logger.Warn("svg hint", "path", path, "err", err)
			} else {
				b.SVG.IntrinsicRatio = hint.IntrinsicRatio
				b.SVG.Croppable = hint.Croppable
			}
		}
	default:
		return nil, fmt.Errorf("block %s (%s) takes no asset", blockID, b.Type)
	}

	if a.watcher != nil {
		a.watcher.Unwatch(blockID)
		if err := a.watcher.Watch(blockID, path); err != nil {
			a.logger.Warn("watch asset", "path", path, "err", err)
		}
	}
	return a.layouts.Commit(a.ctx, key, layout)
}

// RenderPreview rasterizes a page side and returns it as a base64 PNG.
func (a *App) RenderPreview(bookKey string, pageIndex int, side string) (string, error) {
	layout, err := a.layouts.Load(layoutKey(bookKey, pageIndex, side))
	if err != nil {
		return "", err
	}
	img, err := a.renderer.RenderPage(layout)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// SafeArea returns the content area of a page in pixels, honoring any
// padding override on the side's layout.
func (a *App) SafeArea(bookKey string, pageIndex int, side string) (geometry.SafeArea, error) {
	layout, err := a.layouts.Load(layoutKey(bookKey, pageIndex, side))
	if err != nil {
		return geometry.SafeArea{}, err
	}
	return geometry.ComputeSafeArea(
		float64(a.cfg.Canvas.PageWidthPx),
		float64(a.cfg.Canvas.PageHeightPx),
		layout.PaddingOverride,
	), nil
}

// ListSnapshots returns the stored restore points for a page side.
func (a *App) ListSnapshots(bookKey string, pageIndex int, side string) ([]storage.Snapshot, error) {
	return a.snapshots.List(layoutKey(bookKey, pageIndex, side))
}

// RestoreSnapshot overwrites a page side with a stored snapshot and returns
// the restored layout.
func (a *App) RestoreSnapshot(snapshotID string) (*domain.PageSideLayout, error) {
	layout, key, err := a.snapshots.Restore(snapshotID)
	if err != nil {
		return nil, err
	}
	if layout == nil {
		return nil, fmt.Errorf("snapshot %s not found", snapshotID)
	}
	a.Emit(a.ctx, service.EventLayoutChanged, map[string]any{"key": key})
	return layout, nil
}
