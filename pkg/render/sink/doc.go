// Package sink provides output format renderers for resolved margin layouts.
//
// # Overview
//
// A "sink" transforms a [pipeline.Result] into a final output format.
// This package provides renderers for:
//
//   - SVG: a page snapshot with hover interactivity
//   - JSON: layout data export for external tools
//
// # SVG Output
//
// [RenderSVG] produces an interactive SVG with:
//
//   - The prose column on the left, anchors drawn as ticks
//   - The margin column on the right, annotations at resolved offsets
//   - Connectors from each annotation back to its anchor
//   - Hover highlighting of annotation/anchor pairs
//   - The focused annotation, if any, drawn with a heavier stroke
//
// Basic usage:
//
//	svg := sink.RenderSVG(result,
//	    sink.WithTitle("essay.html"),
//	    sink.WithMarginWidth(280),
//	)
//
// # JSON Output
//
// [RenderJSON] exports the complete resolved layout: per-item targets,
// final offsets, kinds, and displacement flags. The preview server serves
// this from its layout endpoint, and the inspector consumes it as well.
//
// # Adding New Formats
//
// To add a new output format:
//
//  1. Create a renderer function: func RenderFoo(result *pipeline.Result, opts ...FooOption) ([]byte, error)
//  2. Define option types for configuration
//  3. Walk result.Regions for items with resolved offsets
//  4. Register in internal/cli/render.go for CLI support
//
// [pipeline.Result]: github.com/marginlab/marginalia/pkg/pipeline.Result
package sink
