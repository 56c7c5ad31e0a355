package service

import (
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/log"

	"pageforge/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Debounced persistence
// ─────────────────────────────────────────────────────────────
//
// Every pointer-move commits a layout, so writing through to SQLite on each
// commit would hammer the disk mid-gesture. The saver keeps the newest
// layout per key in memory and flushes it after a quiet period; Flush forces
// everything out on shutdown.

const saveQuiet = 400 * time.Millisecond

// DebouncedSaver coalesces rapid saves of the same key into one write.
type DebouncedSaver struct {
	store  domain.LayoutStore
	logger *log.Logger

	mu        sync.Mutex
	pending   map[domain.LayoutKey]*domain.PageSideLayout
	debounced map[domain.LayoutKey]func(func())
	onSaved   func(domain.LayoutKey)
}

// NewDebouncedSaver wraps a store. onSaved, when non-nil, runs after each
// flushed write.
func NewDebouncedSaver(store domain.LayoutStore, logger *log.Logger, onSaved func(domain.LayoutKey)) *DebouncedSaver {
	return &DebouncedSaver{
		store:     store,
		logger:    logger,
		pending:   make(map[domain.LayoutKey]*domain.PageSideLayout),
		debounced: make(map[domain.LayoutKey]func(func())),
		onSaved:   onSaved,
	}
}

// Schedule records the newest layout for a key and arms the quiet-period
// timer. The layout must not be mutated after handoff.
func (s *DebouncedSaver) Schedule(key domain.LayoutKey, layout *domain.PageSideLayout) {
	s.mu.Lock()
	s.pending[key] = layout
	d, ok := s.debounced[key]
	if !ok {
		d = debounce.New(saveQuiet)
		s.debounced[key] = d
	}
	s.mu.Unlock()

	d(func() { s.flushKey(key) })
}

// Flush writes every pending layout immediately.
func (s *DebouncedSaver) Flush() {
	s.mu.Lock()
	keys := make([]domain.LayoutKey, 0, len(s.pending))
	for key := range s.pending {
		keys = append(keys, key)
	}
	s.mu.Unlock()

	for _, key := range keys {
		s.flushKey(key)
	}
}

func (s *DebouncedSaver) flushKey(key domain.LayoutKey) {
	s.mu.Lock()
	layout, ok := s.pending[key]
	delete(s.pending, key)
	s.mu.Unlock()
	if !ok {
		return
	}

	if err := s.store.UpsertLayout(key, layout); err != nil {
		s.logger.Error("save layout", "book", key.BookKey, "page", key.PageIndex, "side", key.Side, "err", err)
		return
	}
	if s.onSaved != nil {
		s.onSaved(key)
	}
}
