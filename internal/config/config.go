// Package config loads scrn's TOML configuration and owns the small
// on-disk state files (attach history, pinned sessions) plus the
// file-backed logger.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// Config is the user-tunable configuration.
type Config struct {
	Appearance AppearanceConfig `toml:"appearance"`
	Timing     TimingConfig     `toml:"timing"`
	Workspace  WorkspaceConfig  `toml:"workspace"`
}

// WorkspaceConfig points at a directory tree of git repositories that
// sessions can be created from.
type WorkspaceConfig struct {
	Dir string `toml:"dir"` // Root to scan for repos ("" disables the picker)
}

// AppearanceConfig holds rendering-related settings.
type AppearanceConfig struct {
	ScrollbackLines int `toml:"scrollback_lines"` // Lines kept per pane (default: 10000)
	// Explicit default colors used where the child leaves colors unset.
	DefaultFG [3]uint8 `toml:"default_fg"`
	DefaultBG [3]uint8 `toml:"default_bg"`
}

// TimingConfig holds event-loop timing knobs.
type TimingConfig struct {
	FrameBudgetMs  int `toml:"frame_budget_ms"`  // Minimum inter-frame interval (default: 8)
	DoubleEscapeMs int `toml:"double_escape_ms"` // Detach chord window (default: 300)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Appearance: AppearanceConfig{
			ScrollbackLines: 10000,
			DefaultFG:       [3]uint8{220, 220, 230},
			DefaultBG:       [3]uint8{18, 18, 24},
		},
		Timing: TimingConfig{
			FrameBudgetMs:  8,
			DoubleEscapeMs: 300,
		},
	}
}

// Path returns the config file location under the XDG config dir.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "scrn", "config.toml")
}

// StateDir returns scrn's data directory, creating it if needed.
func StateDir() string {
	dir := filepath.Join(xdg.ConfigHome, "scrn")
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// Load reads the config file, merging it over defaults. A missing file
// is not an error; a malformed one logs a warning and yields defaults.
func Load() *Config {
	cfg := Default()

	data, err := os.ReadFile(Path())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("cannot read config", "path", Path(), "err", err)
		}
		return cfg
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		log.Warn("malformed config, using defaults", "path", Path(), "err", err)
		return Default()
	}
	cfg.sanitize()
	return cfg
}

func (c *Config) sanitize() {
	if strings.HasPrefix(c.Workspace.Dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			c.Workspace.Dir = filepath.Join(home, strings.TrimPrefix(c.Workspace.Dir, "~"))
		}
	}
	if c.Appearance.ScrollbackLines < 100 {
		c.Appearance.ScrollbackLines = 100
	}
	if c.Appearance.ScrollbackLines > 1000000 {
		c.Appearance.ScrollbackLines = 1000000
	}
	if c.Timing.FrameBudgetMs < 1 {
		c.Timing.FrameBudgetMs = 8
	}
	if c.Timing.DoubleEscapeMs < 50 {
		c.Timing.DoubleEscapeMs = 300
	}
}

// SetupLogging routes the shared logger to a file under the XDG state
// dir. The TUI owns stdout, so nothing may log to the terminal.
func SetupLogging(debug bool) error {
	dir := filepath.Join(xdg.StateHome, "scrn")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "scrn.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	log.SetOutput(f)
	log.SetReportTimestamp(true)
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	return nil
}
