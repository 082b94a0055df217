package margin

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/marginlab/marginalia/pkg/errors"
	"github.com/marginlab/marginalia/pkg/geometry"
)

var errRefNone = errors.New(errors.ErrCodeMissingAnchor, "element ref is none")

// Calculator derives each item's ideal top offset from live geometry:
// the anchor's viewport position minus the region's viewport position.
//
// The calculator performs measurement reads only. Keeping every read here,
// before the resolver writes any offsets, is what lets a pass batch all
// geometry reads ahead of all style writes.
type Calculator struct {
	measurer geometry.Measurer
	logger   *log.Logger

	// last holds the previously applied top offset per item id. A missing
	// or detached anchor falls back to this instead of failing the pass.
	last map[string]float64
}

// NewCalculator creates a calculator over the given measurer.
// A nil logger discards log output.
func NewCalculator(m geometry.Measurer, logger *log.Logger) *Calculator {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Calculator{
		measurer: m,
		logger:   logger,
		last:     make(map[string]float64),
	}
}

// ComputeTargets fills TargetTop for every item of the region.
//
// A detached anchor or region is warning-grade: the affected item falls
// back to its last applied offset (0 if none) and the pass continues.
// Measured geometry is sanitized so a transient NaN or negative read never
// corrupts the resolver's sort order.
func (c *Calculator) ComputeTargets(region *Region) {
	regionRect, regionErr := c.measureSafe(region.Ref)
	if regionErr != nil {
		c.logger.Warn("region not measurable, items fall back to last offsets",
			"region", region.ID, "err", regionErr)
	}

	for _, it := range region.Items {
		if regionErr != nil {
			it.TargetTop = c.lastOrZero(it.ID)
			continue
		}

		anchorRect, err := c.measureSafe(it.AnchorRef)
		if err != nil {
			it.TargetTop = c.lastOrZero(it.ID)
			c.logger.Warn("anchor not measurable, item falls back to last offset",
				"region", region.ID, "id", it.ID, "top", it.TargetTop, "err", err)
			continue
		}

		it.TargetTop = anchorRect.Top - regionRect.Top
	}
}

// Commit records the applied offsets of a resolved region so the next pass
// can fall back to them for detached anchors. This is the only memory the
// layout keeps between passes.
func (c *Calculator) Commit(region *Region) {
	for _, it := range region.Items {
		c.last[it.ID] = it.CurrentTop
	}
}

func (c *Calculator) measureSafe(ref geometry.ElementRef) (geometry.Rect, error) {
	if ref.IsNone() {
		return geometry.Rect{}, errRefNone
	}
	rect, err := c.measurer.Measure(ref)
	if err != nil {
		return geometry.Rect{}, err
	}
	return rect.Sanitize(), nil
}

func (c *Calculator) lastOrZero(id string) float64 {
	if top, ok := c.last[id]; ok {
		return top
	}
	return 0
}
