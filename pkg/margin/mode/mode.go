// Package mode implements the responsive mode switch between margin layout
// (wide viewport, collision resolver active) and modal layout (narrow
// viewport, annotations hidden until clicked open in a single-item overlay).
package mode

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/marginlab/marginalia/pkg/margin"
	"github.com/marginlab/marginalia/pkg/observability"
)

// Layout modes.
const (
	ModeMargin = "margin"
	ModeModal  = "modal"
)

// DefaultBreakpoint is the viewport width below which the margin column
// collapses and annotations move into the modal overlay.
const DefaultBreakpoint = 760.0

// Controller owns the margin/modal state for one document. The breakpoint
// comparison uses a single fixed threshold re-checked only on resize
// events, never per scroll frame, so the mode cannot oscillate at the
// boundary.
type Controller struct {
	mu         sync.Mutex
	breakpoint float64
	mode       string
	overlay    overlayState
	logger     *log.Logger

	// onEnterMargin runs a full layout pass immediately after the margin
	// mode becomes active again.
	onEnterMargin func()

	// onEnterModal clears any margin positioning; annotations become
	// invisible in the margin until clicked open.
	onEnterModal func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithEnterMargin sets the callback run when the controller enters margin mode.
func WithEnterMargin(fn func()) Option {
	return func(c *Controller) { c.onEnterMargin = fn }
}

// WithEnterModal sets the callback run when the controller enters modal mode.
func WithEnterModal(fn func()) Option {
	return func(c *Controller) { c.onEnterModal = fn }
}

// WithLogger sets the controller's logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a controller starting in margin mode.
// A breakpoint of 0 means DefaultBreakpoint.
func NewController(breakpoint float64, opts ...Option) *Controller {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	c := &Controller{
		breakpoint: breakpoint,
		mode:       ModeMargin,
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the current layout mode.
func (c *Controller) Mode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// MarginActive reports whether the collision resolver should run at all.
func (c *Controller) MarginActive() bool {
	return c.Mode() == ModeMargin
}

// HandleResize re-evaluates the mode against the breakpoint. Crossing
// below switches to modal; crossing back above switches to margin, closes
// any open overlay, and triggers an immediate full layout pass.
func (c *Controller) HandleResize(viewportWidth float64) {
	c.mu.Lock()

	want := ModeMargin
	if viewportWidth < c.breakpoint {
		want = ModeModal
	}
	if want == c.mode {
		c.mu.Unlock()
		return
	}

	from := c.mode
	c.mode = want
	if from == ModeModal {
		// Leaving modal: the overlay must not survive into margin mode.
		c.closeOverlayLocked(CloseModeChange)
	}
	c.logger.Debug("mode change", "from", from, "to", want, "width", viewportWidth)
	c.mu.Unlock()

	observability.Mode().OnModeChange(context.Background(), from, want, viewportWidth)

	switch want {
	case ModeMargin:
		if c.onEnterMargin != nil {
			c.onEnterMargin()
		}
	case ModeModal:
		if c.onEnterModal != nil {
			c.onEnterModal()
		}
	}
}

// HandleAnchorClick routes an anchor click. In modal mode it opens the
// overlay for the clicked item; in margin mode clicks are a no-op here
// (the margin item is already visible next to its anchor).
func (c *Controller) HandleAnchorClick(item *margin.Item) error {
	if c.Mode() != ModeModal {
		return nil
	}
	return c.OpenOverlay(item)
}
