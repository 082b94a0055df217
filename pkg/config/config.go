// Package config loads layout-engine configuration from a TOML file.
//
// All values are optional; zero values fall back to the documented
// defaults. Example:
//
//	gap_px = 16
//	breakpoint_px = 760
//	hover_leave_delay_ms = 300
//	visibility_debounce_ms = 150
//	region_selector = "section"
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/marginlab/marginalia/pkg/errors"
)

// Defaults applied for unset fields.
const (
	DefaultGap                = 16.0
	DefaultBreakpoint         = 760.0
	DefaultHoverLeaveDelayMS  = 300
	DefaultVisibilityDebounce = 150
	DefaultRegionSelector     = "section"
)

// Config holds the tunable layout constants.
type Config struct {
	// GapPx is the minimum vertical spacing between adjacent margin items.
	// One gap applies to sidenotes and citation cards alike.
	GapPx float64 `toml:"gap_px"`

	// BreakpointPx is the viewport width below which margin layout yields
	// to the modal overlay.
	BreakpointPx float64 `toml:"breakpoint_px"`

	// HoverLeaveDelayMs postpones unfocusing after the pointer leaves an
	// anchor or its annotation.
	HoverLeaveDelayMs int `toml:"hover_leave_delay_ms"`

	// VisibilityDebounceMs batches visibility-driven re-layout during fast
	// scrolling.
	VisibilityDebounceMs int `toml:"visibility_debounce_ms"`

	// RegionSelector names the document element treated as a margin region.
	RegionSelector string `toml:"region_selector"`
}

// Default returns the configuration with all defaults applied.
func Default() Config {
	return Config{
		GapPx:                DefaultGap,
		BreakpointPx:         DefaultBreakpoint,
		HoverLeaveDelayMs:    DefaultHoverLeaveDelayMS,
		VisibilityDebounceMs: DefaultVisibilityDebounce,
		RegionSelector:       DefaultRegionSelector,
	}
}

// Load reads a TOML config file and applies defaults for unset fields.
// An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	// Unmarshal over a zero struct so we can tell unset from explicit zero.
	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	cfg = cfg.merge(file)
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c Config) merge(file Config) Config {
	if file.GapPx != 0 {
		c.GapPx = file.GapPx
	}
	if file.BreakpointPx != 0 {
		c.BreakpointPx = file.BreakpointPx
	}
	if file.HoverLeaveDelayMs != 0 {
		c.HoverLeaveDelayMs = file.HoverLeaveDelayMs
	}
	if file.VisibilityDebounceMs != 0 {
		c.VisibilityDebounceMs = file.VisibilityDebounceMs
	}
	if file.RegionSelector != "" {
		c.RegionSelector = file.RegionSelector
	}
	return c
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.GapPx < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gap_px must be non-negative, got %v", c.GapPx)
	}
	if c.BreakpointPx <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "breakpoint_px must be positive, got %v", c.BreakpointPx)
	}
	if c.HoverLeaveDelayMs < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "hover_leave_delay_ms must be non-negative, got %d", c.HoverLeaveDelayMs)
	}
	if c.VisibilityDebounceMs < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "visibility_debounce_ms must be non-negative, got %d", c.VisibilityDebounceMs)
	}
	if c.RegionSelector == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "region_selector cannot be empty")
	}
	return nil
}
