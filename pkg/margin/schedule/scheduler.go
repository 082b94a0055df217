// Package schedule coalesces the events that require a layout pass into a
// bounded number of pass executions.
//
// Triggers come in two flavors. Immediate triggers (attach, content ready,
// resize, content mutation, hover enter) run a pass synchronously. Delayed
// triggers (hover leave, visibility changes during fast scrolling) arm a
// timer; a superseding trigger arriving before the delay elapses cancels
// the pending run outright. That is last-write-wins reset-the-timer
// semantics, not a queue.
//
// Pass execution is serialized: a pass is never interrupted once started,
// and a trigger firing while a pass runs waits for it to finish.
package schedule

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/marginlab/marginalia/pkg/observability"
)

// Trigger kinds, reported to hooks and carried on each Pass.
const (
	TriggerAttach     = "attach"
	TriggerReady      = "content-ready"
	TriggerResize     = "resize"
	TriggerVisibility = "visibility"
	TriggerHoverEnter = "hover-enter"
	TriggerHoverLeave = "hover-leave"
	TriggerMutation   = "mutation"
)

// Defaults for the presentation-debounce windows. The hover-leave delay is
// deliberately the short variant; the historical multi-second reset window
// is treated as a regression, not a feature.
const (
	DefaultVisibilityDebounce = 150 * time.Millisecond
	DefaultHoverLeaveDelay    = 300 * time.Millisecond
)

// Pass describes one requested layout pass.
type Pass struct {
	// Reason is the trigger kind that caused the pass.
	Reason string

	// Focused is the item to pin under the focused policy, empty for the
	// plain top-down sweep.
	Focused string

	// ViewportWidth is the width reported by the latest resize trigger,
	// 0 when the trigger carried no width.
	ViewportWidth float64
}

// Options configures a Scheduler.
type Options struct {
	// Run executes one layout pass. Required.
	Run func(Pass)

	// VisibilityDebounce batches rapid visibility changes. Zero means
	// DefaultVisibilityDebounce.
	VisibilityDebounce time.Duration

	// HoverLeaveDelay postpones unfocusing on mouse-leave so a user moving
	// between anchor and annotation does not lose focus. Zero means
	// DefaultHoverLeaveDelay.
	HoverLeaveDelay time.Duration

	// Logger receives debug output. Nil discards.
	Logger *log.Logger
}

// Scheduler coalesces triggers into layout passes.
type Scheduler struct {
	run                func(Pass)
	visibilityDebounce time.Duration
	hoverLeaveDelay    time.Duration
	logger             *log.Logger

	// runMu serializes pass execution; a pass never interleaves with
	// another and is never interrupted once started.
	runMu sync.Mutex

	mu         sync.Mutex
	focused    string
	lastWidth  float64
	leaveTimer *time.Timer
	visTimer   *time.Timer
	closed     bool
}

// New creates a scheduler. Run must not be nil.
func New(opts Options) *Scheduler {
	if opts.VisibilityDebounce <= 0 {
		opts.VisibilityDebounce = DefaultVisibilityDebounce
	}
	if opts.HoverLeaveDelay <= 0 {
		opts.HoverLeaveDelay = DefaultHoverLeaveDelay
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Scheduler{
		run:                opts.Run,
		visibilityDebounce: opts.VisibilityDebounce,
		hoverLeaveDelay:    opts.HoverLeaveDelay,
		logger:             opts.Logger,
	}
}

// Focused returns the item currently holding hover focus, if any.
func (s *Scheduler) Focused() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// OnAttach runs the initial layout pass.
func (s *Scheduler) OnAttach() { s.immediate(TriggerAttach) }

// OnContentReady runs a pass after fonts and images settle; measured
// heights are only trustworthy from this point on.
func (s *Scheduler) OnContentReady() { s.immediate(TriggerReady) }

// OnResize runs a pass with the new viewport width. The width also drives
// the margin/modal mode decision in the pass executor.
func (s *Scheduler) OnResize(viewportWidth float64) {
	s.mu.Lock()
	s.lastWidth = viewportWidth
	s.mu.Unlock()
	s.immediate(TriggerResize)
}

// OnMutation runs a pass after in-place content changed an item's height.
func (s *Scheduler) OnMutation(itemID string) {
	s.logger.Debug("content mutation", "id", itemID)
	s.immediate(TriggerMutation)
}

// OnHoverEnter focuses the item and runs a pass immediately. Any pending
// hover-leave run is cancelled: entering a new item supersedes leaving the
// old one.
func (s *Scheduler) OnHoverEnter(itemID string) {
	observability.Trigger().OnTrigger(context.Background(), TriggerHoverEnter)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.leaveTimer != nil {
		s.leaveTimer.Stop()
		s.leaveTimer = nil
		observability.Trigger().OnCancel(context.Background(), TriggerHoverLeave)
	}
	s.focused = itemID
	pass := s.passLocked(TriggerHoverEnter)
	s.mu.Unlock()

	s.execute(pass)
}

// OnHoverLeave schedules an unfocusing pass after the hover-leave delay.
// A hover-enter arriving first cancels it; a second hover-leave resets the
// timer.
func (s *Scheduler) OnHoverLeave(itemID string) {
	observability.Trigger().OnTrigger(context.Background(), TriggerHoverLeave)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.focused != itemID {
		return
	}
	if s.leaveTimer != nil {
		s.leaveTimer.Stop()
		observability.Trigger().OnCoalesce(context.Background(), TriggerHoverLeave)
	}
	s.leaveTimer = time.AfterFunc(s.hoverLeaveDelay, func() {
		s.mu.Lock()
		if s.closed || s.focused != itemID {
			s.mu.Unlock()
			return
		}
		s.focused = ""
		s.leaveTimer = nil
		pass := s.passLocked(TriggerHoverLeave)
		s.mu.Unlock()

		s.execute(pass)
	})
}

// OnVisibilityChange batches visibility changes behind a short debounce so
// fast scrolling produces one pass, not one per annotation crossing the
// proximity window.
func (s *Scheduler) OnVisibilityChange(itemID string, visible bool) {
	observability.Trigger().OnTrigger(context.Background(), TriggerVisibility)
	s.logger.Debug("visibility change", "id", itemID, "visible", visible)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.visTimer != nil {
		s.visTimer.Stop()
		observability.Trigger().OnCoalesce(context.Background(), TriggerVisibility)
	}
	s.visTimer = time.AfterFunc(s.visibilityDebounce, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.visTimer = nil
		pass := s.passLocked(TriggerVisibility)
		s.mu.Unlock()

		s.execute(pass)
	})
}

// Close cancels all pending delayed runs. Subsequent triggers are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.leaveTimer != nil {
		s.leaveTimer.Stop()
		s.leaveTimer = nil
	}
	if s.visTimer != nil {
		s.visTimer.Stop()
		s.visTimer = nil
	}
}

func (s *Scheduler) immediate(kind string) {
	observability.Trigger().OnTrigger(context.Background(), kind)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	pass := s.passLocked(kind)
	s.mu.Unlock()

	s.execute(pass)
}

func (s *Scheduler) passLocked(kind string) Pass {
	return Pass{Reason: kind, Focused: s.focused, ViewportWidth: s.lastWidth}
}

func (s *Scheduler) execute(pass Pass) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.run(pass)
}
