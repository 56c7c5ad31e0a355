// Package config loads the editor's settings from a TOML file in the user's
// data directory, falling back to defaults when the file is missing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"pageforge/internal/geometry"
)

// Config is everything tunable from outside the binary.
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Mirror    MirrorConfig    `toml:"mirror"`
	Snap      SnapConfig      `toml:"snap"`
	Canvas    CanvasConfig    `toml:"canvas"`
	Snapshots SnapshotsConfig `toml:"snapshots"`
}

// StorageConfig locates the local sqlite database.
type StorageConfig struct {
	Path string `toml:"path"`
}

// MirrorConfig optionally replicates saved layouts to a remote database.
// Driver is one of "postgres", "mysql", "mongodb", or empty to disable.
type MirrorConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// SnapConfig tunes alignment snapping.
type SnapConfig struct {
	ThresholdPx float64 `toml:"threshold_px"`
}

// CanvasConfig carries the page pixel dimensions used for previews and for
// converting pointer deltas when the frontend does not report its own size.
type CanvasConfig struct {
	PageWidthPx  int `toml:"page_width_px"`
	PageHeightPx int `toml:"page_height_px"`
}

// SnapshotsConfig drives the periodic layout snapshot job.
type SnapshotsConfig struct {
	Schedule string `toml:"schedule"`
	Keep     int    `toml:"keep"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		Storage: StorageConfig{
			Path: filepath.Join(homeDir, ".pageforge", "pageforge.db"),
		},
		Snap: SnapConfig{
			ThresholdPx: geometry.DefaultSnapThresholdPx,
		},
		Canvas: CanvasConfig{
			PageWidthPx:  900,
			PageHeightPx: 1273,
		},
		Snapshots: SnapshotsConfig{
			Schedule: "@every 5m",
			Keep:     50,
		},
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".pageforge", "config.toml")
}

// Load reads the file at path, layering it over the defaults. A missing
// file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize backfills values a hand-edited file may have zeroed out.
func (c *Config) normalize() {
	d := Default()
	if c.Storage.Path == "" {
		c.Storage.Path = d.Storage.Path
	}
	if c.Snap.ThresholdPx <= 0 {
		c.Snap.ThresholdPx = d.Snap.ThresholdPx
	}
	if c.Canvas.PageWidthPx <= 0 {
		c.Canvas.PageWidthPx = d.Canvas.PageWidthPx
	}
	if c.Canvas.PageHeightPx <= 0 {
		c.Canvas.PageHeightPx = d.Canvas.PageHeightPx
	}
	if c.Snapshots.Schedule == "" {
		c.Snapshots.Schedule = d.Snapshots.Schedule
	}
	if c.Snapshots.Keep <= 0 {
		c.Snapshots.Keep = d.Snapshots.Keep
	}
}
