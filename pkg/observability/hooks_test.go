package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Layout hooks
	l := NoopLayoutHooks{}
	l.OnPassStart(ctx, "section-1", 5)
	l.OnPassComplete(ctx, "section-1", 5, time.Millisecond, nil)
	l.OnResolveStart(ctx, "section-1", "sn-2")
	l.OnResolveComplete(ctx, "section-1", 2, time.Millisecond)

	// Trigger hooks
	tr := NoopTriggerHooks{}
	tr.OnTrigger(ctx, "resize")
	tr.OnCoalesce(ctx, "visibility")
	tr.OnCancel(ctx, "hover-leave")

	// Mode hooks
	m := NoopModeHooks{}
	m.OnModeChange(ctx, "margin", "modal", 480)
	m.OnOverlayOpen(ctx, "cite-1")
	m.OnOverlayClose(ctx, "cite-1", "outside-click")
}

type testLayoutHooks struct{ NoopLayoutHooks }
type testTriggerHooks struct{ NoopTriggerHooks }
type testModeHooks struct{ NoopModeHooks }

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Trigger().(NoopTriggerHooks); !ok {
		t.Error("Trigger() should return NoopTriggerHooks by default")
	}
	if _, ok := Mode().(NoopModeHooks); !ok {
		t.Error("Mode() should return NoopModeHooks by default")
	}

	// Set custom hooks
	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customTrigger := &testTriggerHooks{}
	SetTriggerHooks(customTrigger)
	if Trigger() != customTrigger {
		t.Error("SetTriggerHooks should set custom hooks")
	}

	customMode := &testModeHooks{}
	SetModeHooks(customMode)
	if Mode() != customMode {
		t.Error("SetModeHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
	if _, ok := Trigger().(NoopTriggerHooks); !ok {
		t.Error("Reset() should restore NoopTriggerHooks")
	}
	if _, ok := Mode().(NoopModeHooks); !ok {
		t.Error("Reset() should restore NoopModeHooks")
	}
}

func TestSetNilHooksKeepsCurrent(t *testing.T) {
	Reset()

	SetLayoutHooks(nil)
	SetTriggerHooks(nil)
	SetModeHooks(nil)

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("SetLayoutHooks(nil) should keep the current hooks")
	}
	if _, ok := Trigger().(NoopTriggerHooks); !ok {
		t.Error("SetTriggerHooks(nil) should keep the current hooks")
	}
	if _, ok := Mode().(NoopModeHooks); !ok {
		t.Error("SetModeHooks(nil) should keep the current hooks")
	}
}
