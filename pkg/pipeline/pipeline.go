// Package pipeline provides the core layout pipeline for Marginalia.
//
// This package implements the complete collect → measure → resolve → apply
// pass that can be used by the CLI, the preview server, and the inspector.
// By centralizing this logic, we ensure consistent behavior across all
// entry points and avoid code duplication.
//
// # Architecture
//
// One pass consists of four phases:
//
//  1. Collect: re-derive the margin regions and items from the live document
//  2. Measure: read anchor/region geometry and compute ideal offsets (reads only)
//  3. Resolve: assign collision-free offsets (pure computation)
//  4. Apply: write the resolved offsets to the presentation layer
//
// All geometry reads complete before the first style write; the apply
// phase never reads back what it wrote within the same pass.
//
// # Usage
//
// Create a Runner over the document collaborators and execute passes:
//
//	runner := pipeline.NewRunner(doc, doc, applier, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{FocusedID: "sn-2"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, region := range result.Regions { ... }
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/marginlab/marginalia/pkg/config"
	"github.com/marginlab/marginalia/pkg/errors"
	"github.com/marginlab/marginalia/pkg/margin"
)

// Defaults shared by CLI, server, and inspector entry points.
const (
	// DefaultGap is the unified inter-item spacing.
	DefaultGap = margin.DefaultGap

	// DefaultBreakpoint is the margin/modal viewport threshold.
	DefaultBreakpoint = config.DefaultBreakpoint
)

// Options contains all configuration for one layout pass.
// This struct supports JSON serialization for preview-server requests.
type Options struct {
	// Gap is the minimum spacing between adjacent items. Zero means DefaultGap.
	Gap float64 `json:"gap,omitempty"`

	// ViewportWidth is the current viewport width. Zero skips the mode
	// check and lays out in the margin unconditionally.
	ViewportWidth float64 `json:"viewport_width,omitempty"`

	// FocusedID pins the named item under the focused policy.
	FocusedID string `json:"focused_id,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "gap must be non-negative, got %v", o.Gap)
	}
	if o.ViewportWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport width must be non-negative, got %v", o.ViewportWidth)
	}
	if o.Gap == 0 {
		o.Gap = DefaultGap
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// FromConfig builds pass options from a loaded configuration.
func FromConfig(cfg config.Config) Options {
	return Options{Gap: cfg.GapPx}
}

// Result contains the outputs of one pass.
type Result struct {
	// Mode is the layout mode the pass ran under ("margin" or "modal").
	Mode string `json:"mode"`

	// Regions holds the resolved regions with final offsets. Empty in
	// modal mode, where items are not positioned in the margin.
	Regions []margin.Region `json:"regions,omitempty"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`
}

// Stats contains pass execution statistics.
type Stats struct {
	RegionCount int `json:"region_count"`
	ItemCount   int `json:"item_count"`
	Displaced   int `json:"displaced"`

	CollectTime time.Duration `json:"collect_time"`
	MeasureTime time.Duration `json:"measure_time"`
	ResolveTime time.Duration `json:"resolve_time"`
	ApplyTime   time.Duration `json:"apply_time"`
}

// Applier is the output capability: a side-effecting call into the
// presentation layer moving one item to its resolved vertical offset.
// The pipeline never reads back styling it just wrote within a pass.
type Applier interface {
	ApplyOffset(itemID string, top float64) error
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(itemID string, top float64) error

// ApplyOffset calls f(itemID, top).
func (f ApplierFunc) ApplyOffset(itemID string, top float64) error { return f(itemID, top) }

// DiscardApplier ignores offsets; useful when only the Result is wanted.
var DiscardApplier = ApplierFunc(func(string, float64) error { return nil })
