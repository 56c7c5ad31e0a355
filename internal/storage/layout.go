package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pageforge/internal/domain"
)

// LayoutStore persists page-side layouts as JSON documents keyed by
// (book, page, side). Implements domain.LayoutStore.
type LayoutStore struct {
	db *DB
}

func NewLayoutStore(db *DB) *LayoutStore {
	return &LayoutStore{db: db}
}

// UpsertLayout writes the layout for a key, last write wins.
func (s *LayoutStore) UpsertLayout(key domain.LayoutKey, layout *domain.PageSideLayout) error {
	data, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}

	_, err = s.db.Conn().Exec(
		`INSERT INTO layouts (book_key, page_index, side, layout_json, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(book_key, page_index, side)
		 DO UPDATE SET layout_json = excluded.layout_json, updated_at = excluded.updated_at`,
		key.BookKey, key.PageIndex, string(key.Side), string(data), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert layout: %w", err)
	}
	return nil
}

// GetLayout returns the stored layout, or nil when the key has none.
func (s *LayoutStore) GetLayout(key domain.LayoutKey) (*domain.PageSideLayout, error) {
	var raw string
	err := s.db.Conn().QueryRow(
		`SELECT layout_json FROM layouts WHERE book_key = ? AND page_index = ? AND side = ?`,
		key.BookKey, key.PageIndex, string(key.Side),
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get layout: %w", err)
	}

	var layout domain.PageSideLayout
	if err := json.Unmarshal([]byte(raw), &layout); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}
	return &layout, nil
}

// ListLayouts returns every stored layout for one book, page order first.
func (s *LayoutStore) ListLayouts(bookKey string) ([]domain.StoredLayout, error) {
	rows, err := s.db.Conn().Query(
		`SELECT book_key, page_index, side, layout_json FROM layouts
		 WHERE book_key = ? ORDER BY page_index ASC, side ASC`, bookKey,
	)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer rows.Close()
	return scanStoredLayouts(rows)
}

// AllLayouts returns every stored layout across all books.
func (s *LayoutStore) AllLayouts() ([]domain.StoredLayout, error) {
	rows, err := s.db.Conn().Query(
		`SELECT book_key, page_index, side, layout_json FROM layouts
		 ORDER BY book_key ASC, page_index ASC, side ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("all layouts: %w", err)
	}
	defer rows.Close()
	return scanStoredLayouts(rows)
}

// DeleteLayout removes the layout for a key. Deleting a missing key is not
// an error.
func (s *LayoutStore) DeleteLayout(key domain.LayoutKey) error {
	_, err := s.db.Conn().Exec(
		`DELETE FROM layouts WHERE book_key = ? AND page_index = ? AND side = ?`,
		key.BookKey, key.PageIndex, string(key.Side),
	)
	if err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	return nil
}

func scanStoredLayouts(rows *sql.Rows) ([]domain.StoredLayout, error) {
	var out []domain.StoredLayout
	for rows.Next() {
		var (
			key  domain.LayoutKey
			side string
			raw  string
		)
		if err := rows.Scan(&key.BookKey, &key.PageIndex, &side, &raw); err != nil {
			return nil, fmt.Errorf("scan layout: %w", err)
		}
		key.Side = domain.PageSide(side)

		var layout domain.PageSideLayout
		if err := json.Unmarshal([]byte(raw), &layout); err != nil {
			return nil, fmt.Errorf("unmarshal layout: %w", err)
		}
		out = append(out, domain.StoredLayout{Key: key, Layout: &layout})
	}
	return out, rows.Err()
}
