package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/marginlab/marginalia/pkg/geometry"
	"github.com/marginlab/marginalia/pkg/margin"
	"github.com/marginlab/marginalia/pkg/margin/mode"
	"github.com/marginlab/marginalia/pkg/observability"
)

// Runner executes layout passes over one document.
//
// The Runner keeps two pieces of state between passes: the mode
// controller (margin vs. modal) and the calculator's last-applied offsets
// used as fallback for detached anchors. Everything else is re-derived
// from the collaborators on every pass.
type Runner struct {
	registry   *margin.Registry
	calculator *margin.Calculator
	applier    Applier
	modes      *mode.Controller
	logger     *log.Logger

	// passMu serializes passes. A pass is synchronous once started;
	// callers arriving mid-pass queue behind it. The calculator's
	// committed offsets and the mode controller are only touched under
	// this lock.
	passMu sync.Mutex
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerConfig)

type runnerConfig struct {
	breakpoint float64
}

// WithBreakpoint sets the margin/modal viewport threshold for the runner's
// mode controller. Zero means DefaultBreakpoint.
func WithBreakpoint(bp float64) RunnerOption {
	return func(c *runnerConfig) { c.breakpoint = bp }
}

// NewRunner creates a runner over the document collaborators.
// If applier is nil, resolved offsets are computed but not applied.
// If logger is nil, a default logger is used.
func NewRunner(collector margin.Collector, measurer geometry.Measurer, applier Applier, logger *log.Logger, opts ...RunnerOption) *Runner {
	if applier == nil {
		applier = DiscardApplier
	}
	if logger == nil {
		logger = log.Default()
	}
	var rc runnerConfig
	for _, opt := range opts {
		opt(&rc)
	}
	return &Runner{
		registry:   margin.NewRegistry(collector, logger),
		calculator: margin.NewCalculator(measurer, logger),
		applier:    applier,
		modes:      mode.NewController(rc.breakpoint, mode.WithLogger(logger)),
		logger:     logger,
	}
}

// Modes returns the runner's mode controller, for wiring anchor clicks
// and overlay handling.
func (r *Runner) Modes() *mode.Controller { return r.modes }

// Execute runs one complete collect → measure → resolve → apply pass.
// Execute is safe for concurrent use; passes run one at a time and a
// caller arriving mid-pass blocks until the running pass completes.
//
// In modal mode (viewport narrower than the breakpoint) the resolver is
// suppressed entirely and the result carries no positioned regions.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.logger
	}

	r.passMu.Lock()
	defer r.passMu.Unlock()

	if opts.ViewportWidth > 0 {
		r.modes.HandleResize(opts.ViewportWidth)
	}
	if !r.modes.MarginActive() {
		logger.Debug("modal mode, margin layout suppressed", "width", opts.ViewportWidth)
		return &Result{Mode: mode.ModeModal}, nil
	}

	result := &Result{Mode: mode.ModeMargin}
	passStart := time.Now()
	observability.Layout().OnPassStart(ctx, "", 0)

	// Phase 1: collect. Regions and items are views over the live
	// document, re-derived every pass.
	collectStart := time.Now()
	regions, err := r.registry.Snapshot()
	if err != nil {
		observability.Layout().OnPassComplete(ctx, "", 0, time.Since(passStart), err)
		return nil, fmt.Errorf("collect: %w", err)
	}
	result.Stats.CollectTime = time.Since(collectStart)
	result.Stats.RegionCount = len(regions)
	for i := range regions {
		result.Stats.ItemCount += len(regions[i].Items)
	}

	// Phase 2: measure. All geometry reads happen here, before any write.
	measureStart := time.Now()
	for i := range regions {
		r.calculator.ComputeTargets(&regions[i])
	}
	result.Stats.MeasureTime = time.Since(measureStart)

	// Phase 3: resolve. Pure computation, region by region; items in
	// different regions never interact.
	resolveStart := time.Now()
	for i := range regions {
		region := &regions[i]
		focused := ""
		if region.Find(opts.FocusedID) != nil {
			focused = opts.FocusedID
		}

		observability.Layout().OnResolveStart(ctx, region.ID, focused)
		regionStart := time.Now()
		displaced := margin.Resolve(region.Items, margin.ResolveOptions{
			Gap:       opts.Gap,
			FocusedID: focused,
		})
		observability.Layout().OnResolveComplete(ctx, region.ID, displaced, time.Since(regionStart))
		result.Stats.Displaced += displaced
	}
	result.Stats.ResolveTime = time.Since(resolveStart)

	// Phase 4: apply. All writes together; a failing write is logged and
	// skipped, never fatal, so the worst case is one misplaced annotation.
	applyStart := time.Now()
	for i := range regions {
		for _, it := range regions[i].Items {
			if err := r.applier.ApplyOffset(it.ID, it.CurrentTop); err != nil {
				logger.Warn("apply offset failed", "id", it.ID, "top", it.CurrentTop, "err", err)
			}
		}
		r.calculator.Commit(&regions[i])
	}
	result.Stats.ApplyTime = time.Since(applyStart)

	result.Regions = regions

	logger.Info("layout pass complete",
		"regions", result.Stats.RegionCount,
		"items", result.Stats.ItemCount,
		"displaced", result.Stats.Displaced,
		"duration", time.Since(passStart).Round(time.Microsecond))
	observability.Layout().OnPassComplete(ctx, "", result.Stats.ItemCount, time.Since(passStart), nil)

	return result, nil
}
