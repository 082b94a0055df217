package margin

import (
	"math"
	"sort"
)

// DefaultGap is the minimum vertical spacing enforced between adjacent
// items in a region. One gap applies uniformly to sidenotes and citation
// cards; the historical per-kind 12px/20px values were unified to 16px.
const DefaultGap = 16.0

// ResolveOptions configures one collision-resolution pass.
type ResolveOptions struct {
	// Gap is the minimum spacing between adjacent items. Zero means DefaultGap.
	Gap float64

	// FocusedID pins the named item at its space-aware target and lets the
	// resolver displace neighbors both above and below it. Empty means the
	// plain top-down sweep. At most one item per region can be focused.
	FocusedID string
}

// Resolve assigns CurrentTop to every item of the region so that the
// intervals [CurrentTop, CurrentTop+Height] are pairwise separated by at
// least the gap. It returns the number of items displaced off their target.
//
// Items are sorted by TargetTop with ties keeping document order, the order
// they were collected in. Without focus the sweep is top-down and only ever
// pushes items downward relative to their own target. With focus the sweep
// is bidirectional around the pinned item; items above it may move up to
// the region's top edge, items below are pushed down. When total content
// exceeds available space the bottom-most items overflow past the region's
// visible bottom; the surrounding scroll container absorbs that.
//
// Resolve is a pure function of its inputs: re-running it with unchanged
// items and options yields identical offsets.
func Resolve(items []*Item, opts ResolveOptions) int {
	if len(items) == 0 {
		return 0
	}

	gap := opts.Gap
	if gap == 0 {
		gap = DefaultGap
	}

	sorted := make([]*Item, len(items))
	copy(sorted, items)
	for _, it := range sorted {
		// Guard the comparator: NaN targets would make the sort order, and
		// with it every offset in the pass, unpredictable.
		if math.IsNaN(it.TargetTop) {
			it.TargetTop = 0
		}
		if math.IsNaN(it.Height) || it.Height < 0 {
			it.Height = 0
		}
		it.Priority = PriorityNormal
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TargetTop < sorted[j].TargetTop
	})

	focus := -1
	if opts.FocusedID != "" {
		for i, it := range sorted {
			if it.ID == opts.FocusedID {
				it.Priority = PriorityFocused
				focus = i
				break
			}
		}
	}

	if focus < 0 {
		sweepDown(sorted, gap)
	} else {
		resolveFocused(sorted, focus, gap)
	}

	displaced := 0
	for _, it := range sorted {
		if it.Displaced() {
			displaced++
		}
	}
	return displaced
}

// sweepDown is the unfocused policy: walk top to bottom, pushing each item
// below the previous one's bottom edge. An item is never placed above its
// own target, so anchors stay reachable by reading down the margin.
func sweepDown(sorted []*Item, gap float64) {
	lastBottom := math.Inf(-1)
	for _, it := range sorted {
		top := math.Max(it.TargetTop, lastBottom+gap)
		it.CurrentTop = math.Max(0, top)
		lastBottom = it.Bottom()
	}
}

// resolveFocused pins sorted[focus] at its space-aware target, then sweeps
// upward from it with a shrinking ceiling and downward with a growing floor.
func resolveFocused(sorted []*Item, focus int, gap float64) {
	f := sorted[focus]

	// Space-aware pin: the focused item cannot render above the stack of
	// items that sort before it, even when its own target is very small.
	spaceAbove := 0.0
	for _, it := range sorted[:focus] {
		spaceAbove += it.Height + gap
	}
	f.CurrentTop = math.Max(f.TargetTop, spaceAbove)

	ceiling := f.CurrentTop - gap
	for i := focus - 1; i >= 0; i-- {
		it := sorted[i]
		proposed := math.Min(it.TargetTop, ceiling-it.Height)
		it.CurrentTop = math.Max(0, proposed)
		ceiling = it.CurrentTop - gap
	}

	floor := f.Bottom() + gap
	for _, it := range sorted[focus+1:] {
		it.CurrentTop = math.Max(it.TargetTop, floor)
		floor = it.Bottom() + gap
	}
}
