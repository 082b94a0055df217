package mode

import (
	"testing"

	"github.com/marginlab/marginalia/pkg/errors"
	"github.com/marginlab/marginalia/pkg/margin"
)

func TestModeTransitions(t *testing.T) {
	tests := []struct {
		name       string
		breakpoint float64
		widths     []float64
		want       string
	}{
		{
			name:       "starts in margin",
			breakpoint: 760,
			widths:     nil,
			want:       ModeMargin,
		},
		{
			name:       "narrow viewport switches to modal",
			breakpoint: 760,
			widths:     []float64{500},
			want:       ModeModal,
		},
		{
			name:       "wide viewport stays in margin",
			breakpoint: 760,
			widths:     []float64{1200},
			want:       ModeMargin,
		},
		{
			name:       "crossing back restores margin",
			breakpoint: 760,
			widths:     []float64{500, 1024},
			want:       ModeMargin,
		},
		{
			name:       "exactly at breakpoint is margin",
			breakpoint: 760,
			widths:     []float64{760},
			want:       ModeMargin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(tt.breakpoint)
			for _, w := range tt.widths {
				c.HandleResize(w)
			}
			if got := c.Mode(); got != tt.want {
				t.Errorf("Mode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnterCallbacks(t *testing.T) {
	var enteredMargin, enteredModal int
	c := NewController(760,
		WithEnterMargin(func() { enteredMargin++ }),
		WithEnterModal(func() { enteredModal++ }),
	)

	c.HandleResize(500)
	if enteredModal != 1 {
		t.Errorf("enteredModal = %d, want 1", enteredModal)
	}

	// Repeated resizes on the same side of the breakpoint do not re-enter.
	c.HandleResize(400)
	if enteredModal != 1 {
		t.Errorf("enteredModal after same-side resize = %d, want 1", enteredModal)
	}

	c.HandleResize(1024)
	if enteredMargin != 1 {
		t.Errorf("enteredMargin = %d, want 1 (pass runs immediately on re-entry)", enteredMargin)
	}
}

func TestOverlayLifecycle(t *testing.T) {
	c := NewController(760)
	c.HandleResize(500) // modal

	first := &margin.Item{ID: "sn-1", Content: "first note"}
	second := &margin.Item{ID: "cite-1", Content: "second card"}

	if err := c.OpenOverlay(first); err != nil {
		t.Fatalf("OpenOverlay(first) error = %v", err)
	}
	id, content, open := c.Overlay()
	if !open || id != "sn-1" || content != "first note" {
		t.Fatalf("Overlay() = (%q, %q, %v), want open sn-1", id, content, open)
	}

	// Opening a second item replaces the first; no two items open at once.
	if err := c.OpenOverlay(second); err != nil {
		t.Fatalf("OpenOverlay(second) error = %v", err)
	}
	id, _, open = c.Overlay()
	if !open || id != "cite-1" {
		t.Fatalf("Overlay() after replace = (%q, %v), want open cite-1", id, open)
	}

	c.CloseOverlay(CloseCancelKey)
	if _, _, open := c.Overlay(); open {
		t.Error("Overlay() still open after CloseOverlay")
	}

	// Closing again is a no-op.
	c.CloseOverlay(CloseOutsideClick)
}

func TestOverlayEmptyContentIsNoop(t *testing.T) {
	c := NewController(760)
	c.HandleResize(500)

	err := c.OpenOverlay(&margin.Item{ID: "sn-1"})
	if !errors.Is(err, errors.ErrCodeOverlayEmpty) {
		t.Errorf("OpenOverlay(empty) error = %v, want %v", err, errors.ErrCodeOverlayEmpty)
	}
	if _, _, open := c.Overlay(); open {
		t.Error("overlay opened with no content")
	}
}

func TestOverlayRefusedInMarginMode(t *testing.T) {
	c := NewController(760)

	err := c.OpenOverlay(&margin.Item{ID: "sn-1", Content: "note"})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("OpenOverlay in margin mode error = %v, want %v", err, errors.ErrCodeUnsupported)
	}
}

func TestModeChangeClosesOverlay(t *testing.T) {
	c := NewController(760)
	c.HandleResize(500)

	if err := c.OpenOverlay(&margin.Item{ID: "sn-1", Content: "note"}); err != nil {
		t.Fatalf("OpenOverlay() error = %v", err)
	}

	// Crossing back above the breakpoint restores margin layout; the
	// overlay must not survive (an item is never positioned in the margin
	// and open in the overlay at the same time).
	c.HandleResize(1024)
	if _, _, open := c.Overlay(); open {
		t.Error("overlay survived mode change to margin")
	}
	if got := c.Mode(); got != ModeMargin {
		t.Errorf("Mode() = %v, want %v", got, ModeMargin)
	}
}

func TestHandleAnchorClick(t *testing.T) {
	c := NewController(760)
	item := &margin.Item{ID: "sn-1", Content: "note"}

	// Margin mode: clicks do nothing, the item is already visible.
	if err := c.HandleAnchorClick(item); err != nil {
		t.Errorf("HandleAnchorClick in margin mode error = %v, want nil", err)
	}
	if _, _, open := c.Overlay(); open {
		t.Error("overlay opened from a margin-mode click")
	}

	// Modal mode: clicks open the overlay.
	c.HandleResize(500)
	if err := c.HandleAnchorClick(item); err != nil {
		t.Fatalf("HandleAnchorClick in modal mode error = %v", err)
	}
	if id, _, open := c.Overlay(); !open || id != "sn-1" {
		t.Errorf("Overlay() = (%q, %v), want open sn-1", id, open)
	}
}
