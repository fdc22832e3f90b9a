package tui

import (
	"time"

	"github.com/Veraticus/spice-console/internal/service"
	"github.com/Veraticus/spice-console/internal/tui/themes"
)

// Config holds console configuration.
type Config struct {
	Theme          themes.Theme
	Backend        service.Backend
	OnLogout       func()
	RequestTimeout time.Duration
	PageSize       int
	Width          int
	Height         int
	MouseSupport   bool
}

// Option is a functional option for configuring the console.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:          themes.Default,
		RequestTimeout: 10 * time.Second,
		PageSize:       10,
		Width:          100,
		Height:         30,
		MouseSupport:   true,
	}
}

// WithBackend sets the collaborator the console edits.
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

// WithPageSize sets the number of rows per table page.
func WithPageSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.PageSize = n
		}
	}
}

// WithRequestTimeout bounds every collaborator call.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.RequestTimeout = d
		}
	}
}

// WithLogout sets what "Log out" does before the console exits.
func WithLogout(fn func()) Option {
	return func(c *Config) {
		c.OnLogout = fn
	}
}

// WithMouse enables or disables mouse support.
func WithMouse(enabled bool) Option {
	return func(c *Config) {
		c.MouseSupport = enabled
	}
}
