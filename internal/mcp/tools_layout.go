package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pageforge/internal/domain"
	"pageforge/internal/geometry"
)

func (s *Server) registerLayoutTools() {
	// ── set_active_page ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_page",
		mcp.WithDescription("Select the page side that subsequent tools operate on."),
		mcp.WithString("bookKey", mcp.Description("Book identifier"), mcp.Required()),
		mcp.WithNumber("pageIndex", mcp.Description("Zero-based page index"), mcp.Required()),
		mcp.WithString("side", mcp.Description("Page side: front or back (default front)")),
	), s.handleSetActivePage)

	// ── get_layout ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_layout",
		mcp.WithDescription("Return the full layout of a page side: blocks, background, padding."),
		mcp.WithString("bookKey", mcp.Description("Book identifier (optional, defaults to active page)")),
		mcp.WithNumber("pageIndex", mcp.Description("Page index (optional)")),
		mcp.WithString("side", mcp.Description("Page side (optional)")),
	), s.handleGetLayout)

	// ── list_blocks ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_blocks",
		mcp.WithDescription("List the blocks on a page side with their geometry and type."),
		mcp.WithString("bookKey", mcp.Description("Book identifier (optional, defaults to active page)")),
		mcp.WithNumber("pageIndex", mcp.Description("Page index (optional)")),
		mcp.WithString("side", mcp.Description("Page side (optional)")),
	), s.handleListBlocks)

	// ── add_block ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_block",
		mcp.WithDescription("Add a block to the active page side. Geometry defaults apply; a full side (20 blocks) refuses the add."),
		mcp.WithString("type",
			mcp.Description("Block type: text, image, svg, link, shape"),
			mcp.Required(),
		),
	), s.handleAddBlock)

	// ── move_block ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_block",
		mcp.WithDescription("Move a block to a normalized position. Out-of-range values are clamped so the block stays on the page."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New x in [0,1]"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New y in [0,1]"), mcp.Required()),
	), s.handleMoveBlock)

	// ── resize_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resize_block",
		mcp.WithDescription("Resize a block, in normalized page fractions. Values are clamped to keep the block valid."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("w", mcp.Description("New width in (0,1]"), mcp.Required()),
		mcp.WithNumber("h", mcp.Description("New height in (0,1]"), mcp.Required()),
	), s.handleResizeBlock)

	// ── set_block_crop ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_block_crop",
		mcp.WithDescription("Set the visual crop of an image or croppable vector block. Fractions per edge in [0,0.95]; over-tight crops are scaled back."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("left", mcp.Description("Fraction cropped from the left")),
		mcp.WithNumber("right", mcp.Description("Fraction cropped from the right")),
		mcp.WithNumber("top", mcp.Description("Fraction cropped from the top")),
		mcp.WithNumber("bottom", mcp.Description("Fraction cropped from the bottom")),
	), s.handleSetBlockCrop)

	// ── delete_block (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_block",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a block from the page side."),
		mcp.WithString("blockId", mcp.Description("Block ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteBlock)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleSetActivePage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	bookKey, _ := args["bookKey"].(string)
	if bookKey == "" {
		return nil, fmt.Errorf("bookKey is required")
	}
	side := domain.PageSide("front")
	if v, ok := args["side"].(string); ok && v != "" {
		side = domain.PageSide(v)
	}
	if !domain.KnownPageSide(side) {
		return nil, fmt.Errorf("unknown side %q", side)
	}
	key := domain.LayoutKey{
		BookKey:   bookKey,
		PageIndex: int(getFloat(args, "pageIndex", 0)),
		Side:      side,
	}
	s.setActiveKey(key)
	return textResult(fmt.Sprintf("Active page: %s page %d (%s)", key.BookKey, key.PageIndex, key.Side)), nil
}

func (s *Server) handleGetLayout(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := s.resolveKey(req.GetArguments())
	if err != nil {
		return nil, err
	}
	layout, err := s.layouts.Load(key)
	if err != nil {
		return nil, err
	}
	return jsonResult(layout)
}

func (s *Server) handleListBlocks(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := s.resolveKey(req.GetArguments())
	if err != nil {
		return nil, err
	}
	layout, err := s.layouts.Load(key)
	if err != nil {
		return nil, err
	}
	type blockSummary struct {
		ID     string           `json:"id"`
		Type   domain.BlockType `json:"type"`
		X      float64          `json:"x"`
		Y      float64          `json:"y"`
		W      float64          `json:"w"`
		H      float64          `json:"h"`
		ZIndex int              `json:"zIndex"`
	}
	out := make([]blockSummary, 0, len(layout.Blocks))
	for _, b := range layout.Blocks {
		out = append(out, blockSummary{ID: b.ID, Type: b.Type, X: b.X, Y: b.Y, W: b.W, H: b.H, ZIndex: b.ZIndex})
	}
	return jsonResult(out)
}

func (s *Server) handleAddBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	key, err := s.resolveKey(args)
	if err != nil {
		return nil, err
	}
	blockType, _ := args["type"].(string)
	_, added, err := s.layouts.AddBlock(ctx, key, domain.BlockType(blockType))
	if err != nil {
		return nil, err
	}
	return jsonResult(added)
}

// mutateBlock loads the layout, applies fn to the addressed block, and
// commits the result through validation.
func (s *Server) mutateBlock(ctx context.Context, args map[string]any, fn func(*domain.Block)) (*domain.Block, error) {
	key, err := s.resolveKey(args)
	if err != nil {
		return nil, err
	}
	blockID, _ := args["blockId"].(string)
	if blockID == "" {
		return nil, fmt.Errorf("blockId is required")
	}

	layout, err := s.layouts.Load(key)
	if err != nil {
		return nil, err
	}
	b := layout.BlockByID(blockID)
	if b == nil {
		return nil, fmt.Errorf("block %s not found", blockID)
	}
	fn(b)

	committed, err := s.layouts.Commit(ctx, key, layout)
	if err != nil {
		return nil, err
	}
	out := committed.BlockByID(blockID)
	if out == nil {
		return nil, fmt.Errorf("block %s rejected by validation", blockID)
	}
	return out, nil
}

func (s *Server) handleMoveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	b, err := s.mutateBlock(ctx, args, func(b *domain.Block) {
		b.X = getFloat(args, "x", b.X)
		b.Y = getFloat(args, "y", b.Y)
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(b)
}

func (s *Server) handleResizeBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	b, err := s.mutateBlock(ctx, args, func(b *domain.Block) {
		b.W = getFloat(args, "w", b.W)
		b.H = getFloat(args, "h", b.H)
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(b)
}

func (s *Server) handleSetBlockCrop(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	crop := domain.VisualCrop{
		Left:   getFloat(args, "left", 0),
		Right:  getFloat(args, "right", 0),
		Top:    getFloat(args, "top", 0),
		Bottom: getFloat(args, "bottom", 0),
	}
	normalized := geometry.CropOrNil(&crop)

	var applied bool
	b, err := s.mutateBlock(ctx, args, func(b *domain.Block) {
		switch b.Type {
		case domain.BlockTypeImage:
			if b.Image != nil {
				b.Image.Crop = normalized
				applied = true
			}
		case domain.BlockTypeSVG:
			if b.SVG != nil && b.SVG.Croppable {
				b.SVG.Crop = normalized
				applied = true
			}
		case domain.BlockTypeText, domain.BlockTypeLink, domain.BlockTypeShape:
		}
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("block %s is not croppable", b.ID)
	}
	return jsonResult(b)
}

func (s *Server) handleDeleteBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	key, err := s.resolveKey(args)
	if err != nil {
		return nil, err
	}
	blockID, _ := args["blockId"].(string)
	if blockID == "" {
		return nil, fmt.Errorf("blockId is required")
	}
	if _, err := s.layouts.DeleteBlock(ctx, key, blockID); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Block %s deleted", blockID)), nil
}
