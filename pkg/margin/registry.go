package margin

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/marginlab/marginalia/pkg/errors"
	"github.com/marginlab/marginalia/pkg/geometry"
)

// RegionInfo identifies one margin region in the host document.
type RegionInfo struct {
	ID  string
	Ref geometry.ElementRef
}

// CollectedItem is the raw record the content-model collaborator hands the
// registry for one annotation: identity, variant, anchor, measured height,
// and the content shown by the modal overlay.
type CollectedItem struct {
	ID        string
	Kind      Kind
	AnchorRef geometry.ElementRef
	Height    float64
	Content   string
}

// Collector is the content-model capability providing the live document
// structure. Collect must return items in stable document order; the
// registry relies on that order for tie-breaking in the resolver.
type Collector interface {
	// Regions lists the margin regions currently in the document.
	Regions() ([]RegionInfo, error)

	// Collect returns the annotations of one region in document order.
	Collect(region geometry.ElementRef) ([]CollectedItem, error)
}

// Registry normalizes collected annotations into uniform Items, one region
// at a time. It owns no state between passes; every Snapshot re-derives the
// full item set from the collector.
type Registry struct {
	collector Collector
	logger    *log.Logger
}

// NewRegistry creates a registry over the given collector.
// A nil logger discards log output.
func NewRegistry(c Collector, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Registry{collector: c, logger: logger}
}

// Snapshot collects every region and its items from the live document.
// Regions with no resolvable items are dropped. Items arriving without a
// usable ID get a generated one; they keep their place in document order.
func (r *Registry) Snapshot() ([]Region, error) {
	infos, err := r.collector.Regions()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "list regions")
	}

	regions := make([]Region, 0, len(infos))
	for _, info := range infos {
		region, err := r.snapshotRegion(info)
		if err != nil {
			return nil, err
		}
		if region.Empty() {
			continue
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func (r *Registry) snapshotRegion(info RegionInfo) (Region, error) {
	collected, err := r.collector.Collect(info.Ref)
	if err != nil {
		return Region{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "collect items for region %s", info.ID)
	}

	items := make([]*Item, 0, len(collected))
	seen := make(map[string]bool, len(collected))
	for _, c := range collected {
		if c.AnchorRef.IsNone() {
			// No anchor means the annotation detached since the last pass.
			r.logger.Warn("skipping item with detached anchor", "region", info.ID, "id", c.ID)
			continue
		}

		id := c.ID
		if err := errors.ValidateItemID(id); err != nil {
			id = uuid.NewString()
			r.logger.Warn("replacing unusable item id", "region", info.ID, "id", c.ID, "assigned", id)
		}
		if seen[id] {
			id = fmt.Sprintf("%s-%s", id, uuid.NewString()[:8])
			r.logger.Warn("deduplicating item id", "region", info.ID, "assigned", id)
		}
		seen[id] = true

		kind := c.Kind
		if !kind.Valid() {
			kind = KindSidenote
		}

		height := c.Height
		if height < 0 || height != height { // NaN guard
			height = 0
		}

		items = append(items, &Item{
			ID:        id,
			Kind:      kind,
			AnchorRef: c.AnchorRef,
			RegionRef: info.Ref,
			Content:   c.Content,
			Height:    height,
		})
	}

	return Region{ID: info.ID, Ref: info.Ref, Items: items}, nil
}
