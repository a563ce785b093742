package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, "tambola", cfg.Room)
	assert.Equal(t, "websocket", cfg.Bus.Kind)
	assert.Equal(t, 1890, cfg.Relay.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)

	min, max := cfg.Game.ElectionWindow()
	assert.Equal(t, 5*time.Second, min)
	assert.Equal(t, 8*time.Second, max)
	assert.Equal(t, 5*time.Second, cfg.Game.JoinRetryDuration())
	assert.Equal(t, time.Second, cfg.Game.ReadyPollDuration())
	assert.Equal(t, 5*time.Second, cfg.Game.DrawIntervalDuration())

	vmin, vmax := cfg.Game.VerdictWindow(true)
	assert.Equal(t, 4*time.Second, vmin)
	assert.Equal(t, 8*time.Second, vmax)
	vmin, vmax = cfg.Game.VerdictWindow(false)
	assert.Equal(t, 3*time.Second, vmin)
	assert.Equal(t, 6*time.Second, vmax)
}

func TestLoad_BackfillsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
room: tambola-test
game:
  draw_interval: 1000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tambola-test", cfg.Room)
	assert.Equal(t, time.Second, cfg.Game.DrawIntervalDuration())
	// Untouched fields get defaults.
	assert.Equal(t, 5000, cfg.Game.ElectionTimeoutMin)
	assert.Equal(t, "ws://localhost:1890/ws", cfg.Bus.URL)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYaml(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("room: [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
