package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SOLITAIRE_CONFIG", "")
	t.Chdir(t.TempDir())

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.Equal(t, "solitaire_moves", c.Redis.Queue)
	assert.False(t, c.Redis.Enabled)
	assert.Equal(t, 20, c.Historian.BatchSize)
	assert.InDelta(t, 80, c.Board.CardWidth, 1e-9)
	assert.InDelta(t, 120, c.Board.CardHeight, 1e-9)

	d, err := c.TokenExpiry()
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, d)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SOLITAIRE_CONFIG", "")
	t.Chdir(t.TempDir())
	t.Setenv("SOLITAIRE_HTTP_ADDR", ":9999")
	t.Setenv("SOLITAIRE_LOG_LEVEL", "debug")
	t.Setenv("SOLITAIRE_AUTH_TOKEN_EXPIRE", "never")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", c.HTTP.Addr)
	lvl, err := c.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, lvl)
	d, err := c.TokenExpiry()
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solitaire.toml")
	body := "[redis]\naddr = \"redis:6380\"\nenabled = true\n\n[historian]\nbatch_size = 5\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("SOLITAIRE_CONFIG", path)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis:6380", c.Redis.Addr)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, 5, c.Historian.BatchSize)
}

func TestLoadRejectsBadLevel(t *testing.T) {
	t.Setenv("SOLITAIRE_CONFIG", "")
	t.Chdir(t.TempDir())
	t.Setenv("SOLITAIRE_LOG_LEVEL", "loud")
	_, err := Load()
	assert.Error(t, err)
}
