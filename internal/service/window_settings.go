package service

import (
	"fmt"

	"pageforge/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Window Size Persistence
// ─────────────────────────────────────────────────────────────
//
// The editor window size survives restarts via key-value rows in
// app_settings.

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowSettingsService persists window size between sessions.
type WindowSettingsService struct {
	db *storage.DB
}

func NewWindowSettingsService(db *storage.DB) *WindowSettingsService {
	return &WindowSettingsService{db: db}
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	defaultWindowWidth  = 1440
	defaultWindowHeight = 900
	minWindowWidth      = 900
	minWindowHeight     = 600
)

// LoadWindowSize returns the saved window dimensions, or sensible defaults.
func (s *WindowSettingsService) LoadWindowSize() WindowSize {
	size := WindowSize{Width: defaultWindowWidth, Height: defaultWindowHeight}
	if s.db == nil {
		return size
	}
	conn := s.db.Conn()
	conn.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, settingWindowWidth).Scan(&size.Width)
	conn.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, settingWindowHeight).Scan(&size.Height)

	if size.Width < minWindowWidth {
		size.Width = defaultWindowWidth
	}
	if size.Height < minWindowHeight {
		size.Height = defaultWindowHeight
	}
	return size
}

// SaveWindowSize persists the current window dimensions.
func (s *WindowSettingsService) SaveWindowSize(width, height int) error {
	if s.db == nil {
		return fmt.Errorf("window settings: no db")
	}
	if err := s.upsertSetting(settingWindowWidth, width); err != nil {
		return err
	}
	return s.upsertSetting(settingWindowHeight, height)
}

func (s *WindowSettingsService) upsertSetting(key string, value int) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}
