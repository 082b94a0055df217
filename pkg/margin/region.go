package margin

import "github.com/marginlab/marginalia/pkg/geometry"

// Region is the positioning context that scopes one collision-resolution
// pass. Items in different regions never interact. A region is a view over
// the live document, discovered fresh on every pass, not a cached object.
type Region struct {
	ID    string              `json:"id"`
	Ref   geometry.ElementRef `json:"ref"`
	Items []*Item             `json:"items"`
}

// Find returns the item with the given id, or nil.
func (r *Region) Find(id string) *Item {
	for _, it := range r.Items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// Empty reports whether the region holds no resolvable items. Empty regions
// are skipped by the pipeline, not treated as errors.
func (r *Region) Empty() bool { return len(r.Items) == 0 }
