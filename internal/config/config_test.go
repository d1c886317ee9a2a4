package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"VENUE_SNAP_THRESHOLD", "VENUE_CLOSE_THRESHOLD", "VENUE_HISTORY_LIMIT", "REDIS_ADDR", "VENUE_BOOKING_POLL"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	assert.Equal(t, 10.0, c.SnapThreshold)
	assert.Equal(t, 15.0, c.CloseThreshold)
	assert.Equal(t, 100, c.HistoryLimit)
	assert.Equal(t, 2.4, c.AreaMaxZoom)
	assert.Empty(t, c.RedisAddr)
	assert.Equal(t, 3*time.Second, c.BookingPoll)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VENUE_SNAP_THRESHOLD", "6")
	t.Setenv("VENUE_HISTORY_LIMIT", "20")
	t.Setenv("VENUE_AREA_MAX_ZOOM", "3.5")
	t.Setenv("VENUE_MIN_SHAPE_SIZE", "bogus")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("VENUE_BOOKING_POLL", "500ms")

	c := FromEnv()
	assert.Equal(t, 6.0, c.SnapThreshold)
	assert.Equal(t, 20, c.HistoryLimit)
	assert.Equal(t, 5.0, c.MinShapeSize, "invalid values fall back")
	assert.Equal(t, 2, c.RedisDB)
	assert.Equal(t, 500*time.Millisecond, c.BookingPoll)

	assert.Equal(t, 6.0, c.EditorOptions().Guides.Threshold)
	assert.Equal(t, 3.5, c.AreaZoom().MaxZoom)
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("VENUE_CLOSE_THRESHOLD", "")
	os.Unsetenv("VENUE_CLOSE_THRESHOLD")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("VENUE_CLOSE_THRESHOLD=25\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25.0, c.CloseThreshold)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
