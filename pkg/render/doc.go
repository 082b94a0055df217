// Package render provides snapshot rendering for resolved margin layouts.
//
// # Overview
//
// This package contains the sinks that transform a resolved layout pass
// into inspectable outputs:
//
//   - SVG: a two-column page snapshot with hover interactivity
//   - JSON: layout data export for external tools
//
// # SVG Snapshots
//
// The [sink.RenderSVG] function draws the prose column on the left and the
// margin column on the right, with every annotation at its resolved offset
// and a connector back to its anchor. Hovering an annotation highlights the
// pair, mirroring the focus behavior of the live page.
//
//	svg := sink.RenderSVG(result, sink.WithTitle("essay.html"))
//
// # JSON Export
//
// The [sink.RenderJSON] function exports the complete resolved layout,
// including per-item targets, final offsets, and displacement flags. The
// preview server serves this format from its layout endpoint.
//
// [sink.RenderSVG]: github.com/marginlab/marginalia/pkg/render/sink.RenderSVG
// [sink.RenderJSON]: github.com/marginlab/marginalia/pkg/render/sink.RenderJSON
package render
