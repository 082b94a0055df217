// Package pkg provides the core libraries for Marginalia margin layout.
//
// # Overview
//
// Marginalia positions margin annotations (sidenotes and citation cards)
// next to their anchors in the prose without letting them overlap. The
// pkg directory is organized into four main areas:
//
//  1. [margin] - Domain logic (item registry, target calculation, collision resolution)
//  2. [document] - Content-model collaborator (HTML scan, geometry measurement)
//  3. [pipeline] - Orchestration (collect → measure → resolve → apply)
//  4. [render] - Snapshot sinks (SVG, JSON)
//
// # Architecture
//
// The typical data flow through Marginalia:
//
//	Annotated document
//	         ↓
//	margin.Registry (collect items per region, document order)
//	         ↓
//	margin.Calculator (measure anchors, compute ideal offsets)
//	         ↓
//	margin.Resolve (collision-free offsets, focus-aware)
//	         ↓
//	pipeline.Applier (write offsets to the presentation layer)
//
// The [margin/mode] subpackage decides whether the margin layout runs at
// all: below the configured viewport breakpoint annotations open as modal
// overlays instead. The [margin/schedule] subpackage turns page events
// (hover, resize, visibility, mutation) into serialized layout passes.
//
// Supporting packages: [geometry] for measured rectangles and their
// sanitization, [config] for TOML-backed constants, [errors] for coded
// errors, [observability] for instrumentation hooks, [buildinfo] for
// ldflags version data.
//
// [margin]: github.com/marginlab/marginalia/pkg/margin
// [margin/mode]: github.com/marginlab/marginalia/pkg/margin/mode
// [margin/schedule]: github.com/marginlab/marginalia/pkg/margin/schedule
// [document]: github.com/marginlab/marginalia/pkg/document
// [pipeline]: github.com/marginlab/marginalia/pkg/pipeline
// [render]: github.com/marginlab/marginalia/pkg/render
// [geometry]: github.com/marginlab/marginalia/pkg/geometry
// [config]: github.com/marginlab/marginalia/pkg/config
// [errors]: github.com/marginlab/marginalia/pkg/errors
// [observability]: github.com/marginlab/marginalia/pkg/observability
// [buildinfo]: github.com/marginlab/marginalia/pkg/buildinfo
package pkg
