// Package geometry provides the measurement primitives for margin layout.
//
// The layout engine never touches a real rendering surface. All geometry
// enters through the Measurer capability, expressed as viewport-relative
// rectangles. Measurements taken during style recalculation can transiently
// be negative or NaN; Sanitize clamps those so a single bad read never
// corrupts a pass's sort order.
package geometry

import "math"

// Rect is a viewport-relative bounding box. Only the vertical axis matters
// for margin layout; horizontal placement is a presentation concern.
type Rect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Bottom returns the bottom edge of the rect.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Sanitize returns a copy of r with NaN and infinite values replaced by 0
// and negative heights clamped to 0.
func (r Rect) Sanitize() Rect {
	r.Top = sanitize(r.Top)
	r.Height = sanitize(r.Height)
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ElementRef identifies an element in the host document. The engine reads
// positions through refs but never mutates the elements they point at.
type ElementRef string

// ElementRefNone marks a missing or detached element.
const ElementRefNone ElementRef = ""

// IsNone reports whether the ref points at nothing.
func (e ElementRef) IsNone() bool { return e == ElementRefNone }

// Measurer reads current geometry for an element. Implementations are
// provided by the host (a browser bridge, a headless document model, a
// test stub); the layout engine performs all reads through this interface
// before writing any offsets.
type Measurer interface {
	// Measure returns the viewport-relative bounding box for ref.
	// It returns an error when the element is detached or unknown; callers
	// recover locally and never fail a whole pass on a missing element.
	Measure(ref ElementRef) (Rect, error)
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(ref ElementRef) (Rect, error)

// Measure calls f(ref).
func (f MeasurerFunc) Measure(ref ElementRef) (Rect, error) { return f(ref) }
