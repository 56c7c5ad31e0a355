package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"pageforge/internal/domain"
	"pageforge/internal/geometry"
	"pageforge/internal/persist"
)

// ─────────────────────────────────────────────────────────────
// Layout Service — business logic for page-side layouts
// ─────────────────────────────────────────────────────────────

// LayoutService owns the load/repair/commit cycle for page-side layouts.
// Everything that leaves it has passed the validator.
type LayoutService struct {
	store   domain.LayoutStore
	saver   *DebouncedSaver
	mirror  persist.Backend // nil when no mirror is configured
	emitter EventEmitter
	logger  *log.Logger
}

// NewLayoutService creates a LayoutService. mirror may be nil.
func NewLayoutService(store domain.LayoutStore, saver *DebouncedSaver, mirror persist.Backend, emitter EventEmitter, logger *log.Logger) *LayoutService {
	return &LayoutService{store: store, saver: saver, mirror: mirror, emitter: emitter, logger: logger}
}

// Load returns the layout for a key, repaired, never nil. A key with no
// stored layout yields an empty one. Repair findings are logged, not
// surfaced: a layout written by an older build should open, not error.
func (s *LayoutService) Load(key domain.LayoutKey) (*domain.PageSideLayout, error) {
	if !domain.KnownPageSide(key.Side) {
		return nil, fmt.Errorf("unknown page side: %s", key.Side)
	}

	stored, err := s.store.GetLayout(key)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	if stored == nil {
		return &domain.PageSideLayout{}, nil
	}

	res := geometry.ValidateLayout(stored)
	for _, msg := range res.Errors {
		s.logger.Warn("layout repaired on load",
			"book", key.BookKey, "page", key.PageIndex, "side", key.Side, "issue", msg)
	}
	repaired := res.Layout
	return &repaired, nil
}

// Commit validates a candidate layout, schedules the debounced save, and
// notifies the frontend. The returned layout is the repaired one the caller
// should display.
func (s *LayoutService) Commit(ctx context.Context, key domain.LayoutKey, layout *domain.PageSideLayout) (*domain.PageSideLayout, error) {
	if !domain.KnownPageSide(key.Side) {
		return nil, fmt.Errorf("unknown page side: %s", key.Side)
	}

	res := geometry.ValidateLayout(layout)
	repaired := res.Layout
	s.saver.Schedule(key, &repaired)
	s.emitter.Emit(ctx, EventLayoutChanged, map[string]any{"key": key})
	return &repaired, nil
}

// AddBlock appends a new block of the given type with default geometry and
// the next zIndex, then commits. Adding to a full side fails without
// touching the layout.
func (s *LayoutService) AddBlock(ctx context.Context, key domain.LayoutKey, blockType domain.BlockType) (*domain.PageSideLayout, *domain.Block, error) {
	if !domain.KnownBlockType(blockType) {
		return nil, nil, fmt.Errorf("unknown block type: %s", blockType)
	}

	layout, err := s.Load(key)
	if err != nil {
		return nil, nil, err
	}
	if len(layout.Blocks) >= geometry.MaxBlocksPerSide {
		return nil, nil, fmt.Errorf("page side is full: %d blocks", geometry.MaxBlocksPerSide)
	}

	block := domain.NewBlock(uuid.NewString(), blockType, layout.MaxZIndex()+1)
	layout.Blocks = append(layout.Blocks, block)

	committed, err := s.Commit(ctx, key, layout)
	if err != nil {
		return nil, nil, err
	}
	added := committed.BlockByID(block.ID)
	if added == nil {
		return nil, nil, fmt.Errorf("block %s rejected by validation", block.ID)
	}
	return committed, added, nil
}

// DeleteBlock removes a block by id and commits. Deleting a missing block
// is a no-op, not an error: a double-click on delete must not fail.
func (s *LayoutService) DeleteBlock(ctx context.Context, key domain.LayoutKey, id string) (*domain.PageSideLayout, error) {
	layout, err := s.Load(key)
	if err != nil {
		return nil, err
	}

	kept := layout.Blocks[:0]
	for _, b := range layout.Blocks {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	layout.Blocks = kept
	return s.Commit(ctx, key, layout)
}

// MirrorSaved replicates one saved layout to the remote backend. Called
// from the saver's onSaved hook; failures are logged and swallowed since
// the local store already has the data.
func (s *LayoutService) MirrorSaved(ctx context.Context, key domain.LayoutKey) {
	if s.mirror == nil {
		return
	}
	layout, err := s.store.GetLayout(key)
	if err != nil || layout == nil {
		return
	}
	if err := s.mirror.UpsertLayout(ctx, key, layout); err != nil {
		s.logger.Warn("mirror layout", "book", key.BookKey, "page", key.PageIndex, "err", err)
	}
}
