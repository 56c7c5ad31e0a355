package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pageforge/internal/domain"
)

// Snapshot is one point-in-time copy of a page-side layout.
type Snapshot struct {
	ID        string                 `json:"id"`
	Key       domain.LayoutKey       `json:"key"`
	Layout    *domain.PageSideLayout `json:"layout"`
	CreatedAt time.Time              `json:"createdAt"`
}

// SnapshotStore keeps periodic layout snapshots, pruned to a per-key cap so
// the history table cannot grow without bound.
type SnapshotStore struct {
	db *DB
}

func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Push records a snapshot and prunes old entries past keep.
func (s *SnapshotStore) Push(id string, key domain.LayoutKey, layout *domain.PageSideLayout, keep int) error {
	data, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.db.Conn().Exec(
		`INSERT INTO layout_snapshots (id, book_key, page_index, side, layout_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, key.BookKey, key.PageIndex, string(key.Side), string(data), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	s.pruneIfNeeded(key, keep)
	return nil
}

// List returns the snapshots for a key, newest first.
func (s *SnapshotStore) List(key domain.LayoutKey) ([]Snapshot, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, layout_json, created_at FROM layout_snapshots
		 WHERE book_key = ? AND page_index = ? AND side = ?
		 ORDER BY created_at DESC`,
		key.BookKey, key.PageIndex, string(key.Side),
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			snap Snapshot
			raw  string
		)
		if err := rows.Scan(&snap.ID, &raw, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Key = key
		var layout domain.PageSideLayout
		if err := json.Unmarshal([]byte(raw), &layout); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", err)
		}
		snap.Layout = &layout
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Get returns one snapshot by id, or nil when absent.
func (s *SnapshotStore) Get(id string) (*Snapshot, error) {
	var (
		snap Snapshot
		side string
		raw  string
	)
	err := s.db.Conn().QueryRow(
		`SELECT id, book_key, page_index, side, layout_json, created_at
		 FROM layout_snapshots WHERE id = ?`, id,
	).Scan(&snap.ID, &snap.Key.BookKey, &snap.Key.PageIndex, &side, &raw, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	snap.Key.Side = domain.PageSide(side)

	var layout domain.PageSideLayout
	if err := json.Unmarshal([]byte(raw), &layout); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	snap.Layout = &layout
	return &snap, nil
}

// pruneIfNeeded removes the oldest snapshots once the key exceeds keep.
func (s *SnapshotStore) pruneIfNeeded(key domain.LayoutKey, keep int) {
	if keep <= 0 {
		return
	}
	var count int
	s.db.Conn().QueryRow(
		`SELECT COUNT(*) FROM layout_snapshots WHERE book_key = ? AND page_index = ? AND side = ?`,
		key.BookKey, key.PageIndex, string(key.Side),
	).Scan(&count)
	if count <= keep {
		return
	}

	s.db.Conn().Exec(
		`DELETE FROM layout_snapshots WHERE id IN (
			SELECT id FROM layout_snapshots
			WHERE book_key = ? AND page_index = ? AND side = ?
			ORDER BY created_at ASC LIMIT ?
		)`,
		key.BookKey, key.PageIndex, string(key.Side), count-keep,
	)
}
