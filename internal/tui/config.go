package tui

import (
	"github.com/ezbooks/ezb/internal/daterange"
	"github.com/ezbooks/ezb/internal/service"
	"github.com/ezbooks/ezb/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Backend   service.Backend
	Theme     themes.Theme
	DateRange *daterange.Range
	Width     int
	Height    int
	ShowHelp  bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Width:    80,
		Height:   24,
		ShowHelp: true,
	}
}

// WithBackend sets the receipt backend.
func WithBackend(backend service.Backend) Option {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithDateRange sets the initial date range instead of the
// current-month default.
func WithDateRange(r daterange.Range) Option {
	return func(c *Config) {
		c.DateRange = &r
	}
}
