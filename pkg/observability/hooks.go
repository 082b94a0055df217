// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout passes, scheduler triggers, and mode changes.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetTriggerHooks(&myTriggerHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnPassStart(ctx, region, itemCount)
//	// ... run the pass ...
//	observability.Layout().OnPassComplete(ctx, region, itemCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout passes.
type LayoutHooks interface {
	// Pass events cover one full collect → measure → resolve → apply cycle.
	OnPassStart(ctx context.Context, region string, itemCount int)
	OnPassComplete(ctx context.Context, region string, itemCount int, duration time.Duration, err error)

	// Resolve events cover the collision-resolution computation only.
	OnResolveStart(ctx context.Context, region string, focused string)
	OnResolveComplete(ctx context.Context, region string, displaced int, duration time.Duration)
}

// =============================================================================
// Trigger Hooks
// =============================================================================

// TriggerHooks receives events from the trigger scheduler.
type TriggerHooks interface {
	// OnTrigger records an incoming trigger.
	OnTrigger(ctx context.Context, kind string)

	// OnCoalesce records that a trigger merged into an already pending run.
	OnCoalesce(ctx context.Context, kind string)

	// OnCancel records that a pending delayed run was superseded and cancelled.
	OnCancel(ctx context.Context, kind string)
}

// =============================================================================
// Mode Hooks
// =============================================================================

// ModeHooks receives events from mode and overlay transitions.
type ModeHooks interface {
	// OnModeChange records a margin/modal transition.
	OnModeChange(ctx context.Context, from, to string, viewportWidth float64)

	// OnOverlayOpen records a modal overlay opening for an item.
	OnOverlayOpen(ctx context.Context, itemID string)

	// OnOverlayClose records a modal overlay closing.
	OnOverlayClose(ctx context.Context, itemID string, reason string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnPassStart(context.Context, string, int) {}
func (NoopLayoutHooks) OnPassComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopLayoutHooks) OnResolveStart(context.Context, string, string)                {}
func (NoopLayoutHooks) OnResolveComplete(context.Context, string, int, time.Duration) {}

// NoopTriggerHooks is a no-op implementation of TriggerHooks.
type NoopTriggerHooks struct{}

func (NoopTriggerHooks) OnTrigger(context.Context, string)  {}
func (NoopTriggerHooks) OnCoalesce(context.Context, string) {}
func (NoopTriggerHooks) OnCancel(context.Context, string)   {}

// NoopModeHooks is a no-op implementation of ModeHooks.
type NoopModeHooks struct{}

func (NoopModeHooks) OnModeChange(context.Context, string, string, float64) {}
func (NoopModeHooks) OnOverlayOpen(context.Context, string)                 {}
func (NoopModeHooks) OnOverlayClose(context.Context, string, string)        {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks  LayoutHooks  = NoopLayoutHooks{}
	triggerHooks TriggerHooks = NoopTriggerHooks{}
	modeHooks    ModeHooks    = NoopModeHooks{}
	hooksMu      sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout passes.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetTriggerHooks registers custom trigger hooks.
// This should be called once at application startup before any triggers fire.
func SetTriggerHooks(h TriggerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		triggerHooks = h
	}
}

// SetModeHooks registers custom mode hooks.
// This should be called once at application startup before any mode changes.
func SetModeHooks(h ModeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		modeHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Trigger returns the registered trigger hooks.
func Trigger() TriggerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return triggerHooks
}

// Mode returns the registered mode hooks.
func Mode() ModeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return modeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	triggerHooks = NoopTriggerHooks{}
	modeHooks = NoopModeHooks{}
}
