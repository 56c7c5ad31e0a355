package service

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"pageforge/internal/domain"
	"pageforge/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Snapshot Service — periodic layout history
// ─────────────────────────────────────────────────────────────
//
// Saves only react to edits, so a bad drag session can destroy a page with
// no way back. The snapshot job copies each dirty layout into the history
// table on a schedule, giving the user restore points without an undo tree.

// SnapshotService records periodic snapshots of layouts that changed since
// the previous tick.
type SnapshotService struct {
	layouts   domain.LayoutStore
	snapshots *storage.SnapshotStore
	emitter   EventEmitter
	logger    *log.Logger
	keep      int

	mu    sync.Mutex
	dirty map[domain.LayoutKey]bool

	sched *cron.Cron
}

// NewSnapshotService creates a SnapshotService keeping at most keep
// snapshots per layout key.
func NewSnapshotService(layouts domain.LayoutStore, snapshots *storage.SnapshotStore, emitter EventEmitter, logger *log.Logger, keep int) *SnapshotService {
	return &SnapshotService{
		layouts:   layouts,
		snapshots: snapshots,
		emitter:   emitter,
		logger:    logger,
		keep:      keep,
		dirty:     make(map[domain.LayoutKey]bool),
	}
}

// MarkDirty flags a key for the next snapshot tick. Wired to the saver's
// onSaved hook so only layouts that actually hit disk get snapshotted.
func (s *SnapshotService) MarkDirty(key domain.LayoutKey) {
	s.mu.Lock()
	s.dirty[key] = true
	s.mu.Unlock()
}

// Start schedules the snapshot job. schedule accepts cron expressions and
// the @every descriptors.
func (s *SnapshotService) Start(ctx context.Context, schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { s.Tick(ctx) }); err != nil {
		return err
	}
	c.Start()
	s.sched = c
	return nil
}

// Stop halts the scheduler and takes a final snapshot of anything dirty.
func (s *SnapshotService) Stop(ctx context.Context) {
	if s.sched != nil {
		s.sched.Stop()
	}
	s.Tick(ctx)
}

// Tick snapshots every layout marked dirty since the last run.
func (s *SnapshotService) Tick(ctx context.Context) {
	s.mu.Lock()
	keys := make([]domain.LayoutKey, 0, len(s.dirty))
	for key := range s.dirty {
		keys = append(keys, key)
	}
	s.dirty = make(map[domain.LayoutKey]bool)
	s.mu.Unlock()

	for _, key := range keys {
		layout, err := s.layouts.GetLayout(key)
		if err != nil || layout == nil {
			continue
		}
		id := uuid.NewString()
		if err := s.snapshots.Push(id, key, layout, s.keep); err != nil {
			s.logger.Warn("snapshot layout", "book", key.BookKey, "page", key.PageIndex, "err", err)
			continue
		}
		s.emitter.Emit(ctx, EventSnapshotPushed, map[string]any{"key": key, "id": id})
	}
}

// List returns the stored snapshots for a key, newest first.
func (s *SnapshotService) List(key domain.LayoutKey) ([]storage.Snapshot, error) {
	return s.snapshots.List(key)
}

// Restore copies a snapshot back over its layout key and returns the
// restored layout.
func (s *SnapshotService) Restore(id string) (*domain.PageSideLayout, domain.LayoutKey, error) {
	snap, err := s.snapshots.Get(id)
	if err != nil {
		return nil, domain.LayoutKey{}, err
	}
	if snap == nil {
		return nil, domain.LayoutKey{}, nil
	}
	if err := s.layouts.UpsertLayout(snap.Key, snap.Layout); err != nil {
		return nil, domain.LayoutKey{}, err
	}
	return snap.Layout, snap.Key, nil
}
