package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10000, cfg.Appearance.ScrollbackLines)
	assert.Equal(t, [3]uint8{220, 220, 230}, cfg.Appearance.DefaultFG)
	assert.Equal(t, [3]uint8{18, 18, 24}, cfg.Appearance.DefaultBG)
	assert.Equal(t, 8, cfg.Timing.FrameBudgetMs)
	assert.Equal(t, 300, cfg.Timing.DoubleEscapeMs)
}

func TestSanitizeClampsExtremes(t *testing.T) {
	cfg := &Config{}
	cfg.Appearance.ScrollbackLines = 5
	cfg.Timing.FrameBudgetMs = -1
	cfg.Timing.DoubleEscapeMs = 0
	cfg.sanitize()

	assert.Equal(t, 100, cfg.Appearance.ScrollbackLines)
	assert.Equal(t, 8, cfg.Timing.FrameBudgetMs)
	assert.Equal(t, 300, cfg.Timing.DoubleEscapeMs)

	cfg.Appearance.ScrollbackLines = 5000000
	cfg.sanitize()
	assert.Equal(t, 1000000, cfg.Appearance.ScrollbackLines)
}

func TestSanitizeExpandsWorkspaceTilde(t *testing.T) {
	cfg := Default()
	cfg.Workspace.Dir = "~/code"
	cfg.sanitize()

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "code"), cfg.Workspace.Dir)
}
