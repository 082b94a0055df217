package geometry

import (
	"math"
	"testing"
)

func TestRectBottom(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want float64
	}{
		{name: "positive", rect: Rect{Top: 10, Height: 40}, want: 50},
		{name: "zero height", rect: Rect{Top: 25, Height: 0}, want: 25},
		{name: "negative top", rect: Rect{Top: -10, Height: 5}, want: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Bottom(); got != tt.want {
				t.Errorf("Bottom() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectSanitize(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want Rect
	}{
		{
			name: "clean rect unchanged",
			rect: Rect{Top: 12, Height: 30},
			want: Rect{Top: 12, Height: 30},
		},
		{
			name: "NaN top clamped",
			rect: Rect{Top: math.NaN(), Height: 30},
			want: Rect{Top: 0, Height: 30},
		},
		{
			name: "NaN height clamped",
			rect: Rect{Top: 12, Height: math.NaN()},
			want: Rect{Top: 12, Height: 0},
		},
		{
			name: "infinite top clamped",
			rect: Rect{Top: math.Inf(1), Height: 30},
			want: Rect{Top: 0, Height: 30},
		},
		{
			name: "negative height clamped",
			rect: Rect{Top: 12, Height: -5},
			want: Rect{Top: 12, Height: 0},
		},
		{
			name: "negative top kept",
			rect: Rect{Top: -8, Height: 20},
			want: Rect{Top: -8, Height: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Sanitize(); got != tt.want {
				t.Errorf("Sanitize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestElementRefIsNone(t *testing.T) {
	if !ElementRefNone.IsNone() {
		t.Error("ElementRefNone.IsNone() = false, want true")
	}
	if ElementRef("anchor-1").IsNone() {
		t.Error(`ElementRef("anchor-1").IsNone() = true, want false`)
	}
}

func TestMeasurerFunc(t *testing.T) {
	m := MeasurerFunc(func(ref ElementRef) (Rect, error) {
		return Rect{Top: 42, Height: 7}, nil
	})
	got, err := m.Measure("anchor-1")
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if got.Top != 42 || got.Height != 7 {
		t.Errorf("Measure() = %+v, want {Top:42 Height:7}", got)
	}
}
