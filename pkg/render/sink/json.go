package sink

import (
	"encoding/json"

	"github.com/marginlab/marginalia/pkg/margin"
	"github.com/marginlab/marginalia/pkg/pipeline"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	gap     float64
	focused string
	stats   bool
	content bool
}

// WithJSONGap records the gap used for the pass in the output, enabling
// reproducible re-resolution from the exported data.
func WithJSONGap(gap float64) JSONOption { return func(r *jsonRenderer) { r.gap = gap } }

// WithJSONFocused records which item was focused during the pass.
func WithJSONFocused(id string) JSONOption { return func(r *jsonRenderer) { r.focused = id } }

// WithJSONStats includes pass timing and size statistics in the output.
func WithJSONStats() JSONOption { return func(r *jsonRenderer) { r.stats = true } }

// WithJSONContent includes each item's annotation content. Off by default;
// layout consumers usually only need geometry.
func WithJSONContent() JSONOption { return func(r *jsonRenderer) { r.content = true } }

type jsonOutput struct {
	Mode    string       `json:"mode"`
	Gap     float64      `json:"gap,omitempty"`
	Focused string       `json:"focused,omitempty"`
	Regions []jsonRegion `json:"regions"`
	Stats   *jsonStats   `json:"stats,omitempty"`
}

type jsonRegion struct {
	ID    string     `json:"id"`
	Items []jsonItem `json:"items"`
}

type jsonItem struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	TargetTop  float64 `json:"target_top"`
	CurrentTop float64 `json:"current_top"`
	Height     float64 `json:"height"`
	Displaced  bool    `json:"displaced,omitempty"`
	Focused    bool    `json:"focused,omitempty"`
	Content    string  `json:"content,omitempty"`
}

type jsonStats struct {
	RegionCount   int   `json:"region_count"`
	ItemCount     int   `json:"item_count"`
	Displaced     int   `json:"displaced"`
	CollectTimeUS int64 `json:"collect_time_us"`
	MeasureTimeUS int64 `json:"measure_time_us"`
	ResolveTimeUS int64 `json:"resolve_time_us"`
	ApplyTimeUS   int64 `json:"apply_time_us"`
}

// RenderJSON exports the resolved layout as a pretty-printed JSON document.
// This is the primary data interchange format for Marginalia, serving:
//
//   - The preview server's layout endpoint
//   - The terminal inspector
//   - External tooling comparing resolved offsets across runs
//
// RenderJSON returns an error only if JSON marshaling fails. It does not
// modify the result and is safe to call concurrently.
func RenderJSON(result *pipeline.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Mode:    result.Mode,
		Gap:     r.gap,
		Focused: r.focused,
		Regions: buildJSONRegions(result.Regions, r.content),
	}
	if r.stats {
		out.Stats = &jsonStats{
			RegionCount:   result.Stats.RegionCount,
			ItemCount:     result.Stats.ItemCount,
			Displaced:     result.Stats.Displaced,
			CollectTimeUS: result.Stats.CollectTime.Microseconds(),
			MeasureTimeUS: result.Stats.MeasureTime.Microseconds(),
			ResolveTimeUS: result.Stats.ResolveTime.Microseconds(),
			ApplyTimeUS:   result.Stats.ApplyTime.Microseconds(),
		}
	}

	return json.MarshalIndent(out, "", "  ")
}

func buildJSONRegions(regions []margin.Region, content bool) []jsonRegion {
	out := make([]jsonRegion, 0, len(regions))
	for _, region := range regions {
		jr := jsonRegion{ID: region.ID, Items: make([]jsonItem, 0, len(region.Items))}
		for _, it := range region.Items {
			ji := jsonItem{
				ID:         it.ID,
				Kind:       string(it.Kind),
				TargetTop:  it.TargetTop,
				CurrentTop: it.CurrentTop,
				Height:     it.Height,
				Displaced:  it.Displaced(),
				Focused:    it.Priority == margin.PriorityFocused,
			}
			if content {
				ji.Content = it.Content
			}
			jr.Items = append(jr.Items, ji)
		}
		out = append(out, jr)
	}
	return out
}
