package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marginlab/marginalia/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marginalia.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
gap_px = 20
hover_leave_delay_ms = 250
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GapPx != 20 {
		t.Errorf("GapPx = %v, want 20", cfg.GapPx)
	}
	if cfg.HoverLeaveDelayMs != 250 {
		t.Errorf("HoverLeaveDelayMs = %v, want 250", cfg.HoverLeaveDelayMs)
	}
	// Unset fields keep their defaults.
	if cfg.BreakpointPx != DefaultBreakpoint {
		t.Errorf("BreakpointPx = %v, want default %v", cfg.BreakpointPx, DefaultBreakpoint)
	}
	if cfg.RegionSelector != DefaultRegionSelector {
		t.Errorf("RegionSelector = %v, want default %v", cfg.RegionSelector, DefaultRegionSelector)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeConfig(t, `gap_px = [not toml`)
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(bad toml) error = %v, want %v", err, errors.ErrCodeInvalidConfig)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "zero gap valid", mutate: func(c *Config) { c.GapPx = 0 }, wantErr: false},
		{name: "negative gap", mutate: func(c *Config) { c.GapPx = -1 }, wantErr: true},
		{name: "zero breakpoint", mutate: func(c *Config) { c.BreakpointPx = 0 }, wantErr: true},
		{name: "negative hover delay", mutate: func(c *Config) { c.HoverLeaveDelayMs = -10 }, wantErr: true},
		{name: "negative debounce", mutate: func(c *Config) { c.VisibilityDebounceMs = -10 }, wantErr: true},
		{name: "empty selector", mutate: func(c *Config) { c.RegionSelector = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `gap_px = -4`)
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(invalid values) error = %v, want %v", err, errors.ErrCodeInvalidConfig)
	}
}
