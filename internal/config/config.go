// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"venue-designer/internal/app"
	"venue-designer/internal/editor"
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable.
type Config struct {
	SnapThreshold  float64 // VENUE_SNAP_THRESHOLD
	CloseThreshold float64 // VENUE_CLOSE_THRESHOLD
	MinShapeSize   float64 // VENUE_MIN_SHAPE_SIZE
	HistoryLimit   int     // VENUE_HISTORY_LIMIT
	AreaMaxZoom    float64 // VENUE_AREA_MAX_ZOOM
	AreaPadding    float64 // VENUE_AREA_PADDING

	// LibraryDB is the SQLite layout library path. Empty disables the library.
	LibraryDB string // VENUE_LIBRARY_DB

	RedisAddr     string // REDIS_ADDR; empty disables the booking overlay
	RedisPassword string // REDIS_PASSWORD
	RedisDB       int    // REDIS_DB

	BookingPoll time.Duration // VENUE_BOOKING_POLL, e.g. "3s"
}

// Load reads envFile (if it exists) into the process environment without
// overriding variables that are already set, then builds the Config.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}
	return FromEnv(), nil
}

// FromEnv builds the Config from the current environment.
func FromEnv() Config {
	opts := editor.DefaultOptions()
	return Config{
		SnapThreshold:  parseFloat(getenv("VENUE_SNAP_THRESHOLD", ""), opts.Guides.Threshold),
		CloseThreshold: parseFloat(getenv("VENUE_CLOSE_THRESHOLD", ""), opts.CloseThreshold),
		MinShapeSize:   parseFloat(getenv("VENUE_MIN_SHAPE_SIZE", ""), opts.MinShapeSize),
		HistoryLimit:   atoi(getenv("VENUE_HISTORY_LIMIT", ""), app.DefaultHistoryLimit),
		AreaMaxZoom:    parseFloat(getenv("VENUE_AREA_MAX_ZOOM", ""), app.DefaultAreaMaxZoom),
		AreaPadding:    parseFloat(getenv("VENUE_AREA_PADDING", ""), app.DefaultAreaPadding),
		LibraryDB:      getenv("VENUE_LIBRARY_DB", defaultLibraryPath()),
		RedisAddr:      getenv("REDIS_ADDR", ""),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		RedisDB:        atoi(getenv("REDIS_DB", ""), 0),
		BookingPoll:    parseDuration(getenv("VENUE_BOOKING_POLL", ""), 3*time.Second),
	}
}

// EditorOptions returns the gesture thresholds.
func (c Config) EditorOptions() editor.Options {
	opts := editor.DefaultOptions()
	opts.Guides.Threshold = c.SnapThreshold
	opts.CloseThreshold = c.CloseThreshold
	opts.MinShapeSize = c.MinShapeSize
	return opts
}

// AreaZoom returns the area-mode fit settings.
func (c Config) AreaZoom() app.AreaZoom {
	z := app.DefaultAreaZoom()
	z.MaxZoom = c.AreaMaxZoom
	z.Padding = c.AreaPadding
	return z
}

func defaultLibraryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "venue-designer", "library.db")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseFloat(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
