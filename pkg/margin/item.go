// Package margin implements the margin-annotation layout engine.
//
// A scholarly page body carries two kinds of margin annotations, sidenotes
// and citation cards. Both occupy vertical space in the margin column of
// their enclosing region and must be placed without overlap while staying
// visually tied to the inline anchor that produced them. The packages here
// split that problem the way the rest of the repository splits pipelines:
//
//   - Registry collects the live annotations of a region into uniform Items
//   - Calculator derives each item's ideal top offset from anchor geometry
//   - Resolve assigns final offsets so that no two items overlap
//
// Items are views, not owned entities: they are re-derived from the live
// document on every layout pass and vanish when their anchor detaches.
package margin

import "github.com/marginlab/marginalia/pkg/geometry"

// Kind discriminates the annotation variants sharing a margin column.
type Kind string

// Annotation kinds.
const (
	KindSidenote     Kind = "sidenote"
	KindCitationCard Kind = "citation-card"
)

// Valid reports whether k is a known annotation kind.
func (k Kind) Valid() bool {
	return k == KindSidenote || k == KindCitationCard
}

// Priority controls how the resolver treats an item. It is derived at
// resolution time and never persisted.
type Priority int

const (
	// PriorityNormal items may be displaced downward to make room.
	PriorityNormal Priority = iota

	// PriorityFocused marks the single hovered item of a region. It is
	// pinned at its space-aware target and displaces neighbors both ways.
	PriorityFocused

	// PriorityFixed items are never displaced. Reserved for future item
	// kinds; no current collector produces one.
	PriorityFixed
)

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case PriorityFocused:
		return "focused"
	case PriorityFixed:
		return "fixed"
	default:
		return "normal"
	}
}

// Item is a single annotation occupying vertical space in a margin region.
//
// TargetTop is recomputed from anchor geometry every pass and never mutated
// directly by the resolver; CurrentTop is the only field the resolver
// writes. Height is refreshed every pass because content (an expanding
// author-bio panel, for example) can change height between passes.
type Item struct {
	ID        string              `json:"id"`
	Kind      Kind                `json:"kind"`
	AnchorRef geometry.ElementRef `json:"anchor_ref"`
	RegionRef geometry.ElementRef `json:"region_ref"`

	// Content is the annotation body, carried along so the modal overlay
	// can show the same view model without re-reading the document.
	Content string `json:"content,omitempty"`

	Height     float64  `json:"height"`
	TargetTop  float64  `json:"target_top"`
	CurrentTop float64  `json:"current_top"`
	Priority   Priority `json:"-"`
}

// Bottom returns the bottom edge of the item at its resolved position.
func (it *Item) Bottom() float64 { return it.CurrentTop + it.Height }

// Displaced reports whether resolution moved the item off its ideal position.
func (it *Item) Displaced() bool { return it.CurrentTop != it.TargetTop }
