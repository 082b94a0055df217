package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/marginlab/marginalia/pkg/margin"
	"github.com/marginlab/marginalia/pkg/margin/mode"
	"github.com/marginlab/marginalia/pkg/pipeline"
)

const itemInteractionCSS = `
    .item { transition: stroke-width 0.2s ease; }
    .item.highlight { stroke-width: 3; }
    .anchor { transition: stroke-width 0.2s ease; }
    .anchor.highlight { stroke-width: 4; }
    .connector { transition: stroke-opacity 0.2s ease; stroke-opacity: 0.35; }
    .connector.highlight { stroke-opacity: 1; }`

const itemInteractionJS = `
    function highlight(id) {
      document.querySelectorAll('.item, .anchor, .connector').forEach(el =>
        el.classList.toggle('highlight', el.dataset.item === id));
    }
    function clearHighlight() {
      document.querySelectorAll('.item, .anchor, .connector').forEach(el =>
        el.classList.remove('highlight'));
    }
    document.querySelectorAll('.item').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.dataset.item));
      el.addEventListener('mouseleave', clearHighlight);
    });`

const (
	defaultTextWidth   = 560.0
	defaultMarginWidth = 280.0
	columnGap          = 32.0
	framePadding       = 24.0
	regionGap          = 40.0
	titleHeight        = 28.0
	anchorTickWidth    = 36.0
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title       string
	textWidth   float64
	marginWidth float64
	connectors  bool
}

// WithTitle draws the given title above the snapshot, typically the source
// document's name.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithTextWidth overrides the prose column width.
func WithTextWidth(w float64) SVGOption { return func(r *svgRenderer) { r.textWidth = w } }

// WithMarginWidth overrides the margin column width.
func WithMarginWidth(w float64) SVGOption { return func(r *svgRenderer) { r.marginWidth = w } }

// WithoutConnectors suppresses the anchor-to-annotation connector lines.
func WithoutConnectors() SVGOption { return func(r *svgRenderer) { r.connectors = false } }

// RenderSVG draws the resolved layout as a two-column page snapshot. Each
// region is stacked vertically; within a region every annotation is drawn
// at its resolved offset in the margin column, with a tick in the prose
// column marking its anchor. In modal mode the snapshot carries a banner
// instead of positioned annotations.
func RenderSVG(result *pipeline.Result, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	frameWidth := framePadding + r.textWidth + columnGap + r.marginWidth + framePadding
	frameHeight := framePadding
	if r.title != "" {
		frameHeight += titleHeight
	}

	regionTops := make([]float64, len(result.Regions))
	for i := range result.Regions {
		regionTops[i] = frameHeight
		frameHeight += regionHeight(&result.Regions[i]) + regionGap
	}
	if len(result.Regions) > 0 {
		frameHeight -= regionGap
	} else {
		frameHeight += 120
	}
	frameHeight += framePadding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		frameWidth, frameHeight, frameWidth, frameHeight)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", itemInteractionCSS)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="#fffdf7"/>`+"\n", frameWidth, frameHeight)

	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-family="Georgia, serif" font-size="16" fill="#3a3a3a">%s</text>`+"\n",
			framePadding, framePadding+16, escapeXML(r.title))
	}

	if result.Mode != mode.ModeMargin {
		renderModalBanner(&buf, frameWidth, frameHeight)
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	for i := range result.Regions {
		r.renderRegion(&buf, &result.Regions[i], regionTops[i])
	}

	fmt.Fprintf(&buf, "  <script><![CDATA[%s\n  ]]></script>\n", itemInteractionJS)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		textWidth:   defaultTextWidth,
		marginWidth: defaultMarginWidth,
		connectors:  true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// regionHeight spans from the region's top to the lowest of any item's
// resolved bottom or target, so overflowing items stay inside the frame.
func regionHeight(region *margin.Region) float64 {
	h := 80.0
	for _, it := range region.Items {
		h = math.Max(h, it.Bottom()+8)
		h = math.Max(h, it.TargetTop+8)
	}
	return h
}

func (r *svgRenderer) renderRegion(buf *bytes.Buffer, region *margin.Region, top float64) {
	textX := framePadding
	marginX := framePadding + r.textWidth + columnGap
	height := regionHeight(region)

	fmt.Fprintf(buf, `  <g id="region-%s">`+"\n", escapeXML(region.ID))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#f4f1e8" stroke="#d8d2c0"/>`+"\n",
		textX, top, r.textWidth, height)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#d8d2c0" stroke-dasharray="4 3"/>`+"\n",
		marginX, top, r.marginWidth, height)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="Georgia, serif" font-size="11" fill="#8a8474">%s</text>`+"\n",
		textX+6, top+14, escapeXML(region.ID))

	for _, it := range region.Items {
		r.renderItem(buf, it, top, textX, marginX)
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderItem(buf *bytes.Buffer, it *margin.Item, regionTop, textX, marginX float64) {
	anchorY := regionTop + it.TargetTop
	itemY := regionTop + it.CurrentTop
	id := escapeXML(it.ID)

	fill := "#e8ecf4"
	stroke := "#6b7a99"
	if it.Kind == margin.KindCitationCard {
		fill = "#efe8f4"
		stroke = "#8a6b99"
	}
	strokeWidth := 1.0
	if it.Priority == margin.PriorityFocused {
		strokeWidth = 2.5
	}

	if r.connectors {
		fmt.Fprintf(buf, `    <line class="connector" data-item="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
			id, textX+r.textWidth, anchorY, marginX, itemY+1, stroke)
	}

	fmt.Fprintf(buf, `    <line class="anchor" data-item="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
		id, textX+r.textWidth-anchorTickWidth, anchorY, textX+r.textWidth, anchorY, stroke)

	fmt.Fprintf(buf, `    <rect class="item" data-item="%s" id="item-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="%.1f" rx="3"/>`+"\n",
		id, id, marginX+4, itemY, r.marginWidth-8, math.Max(it.Height, 4), fill, stroke, strokeWidth)

	label := it.ID
	if it.Content != "" {
		label = it.Content
	}
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="Georgia, serif" font-size="11" fill="#3a3a3a">%s</text>`+"\n",
		marginX+10, itemY+13, escapeXML(truncate(label, 40)))
}

func renderModalBanner(buf *bytes.Buffer, frameWidth, frameHeight float64) {
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="48" fill="#3a3a3a" rx="6"/>`+"\n",
		framePadding, frameHeight/2-24, frameWidth-2*framePadding)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="Georgia, serif" font-size="14" fill="#fffdf7">modal mode: annotations open as overlays</text>`+"\n",
		framePadding+16, frameHeight/2+5)
}

// truncate shortens s to at most n runes, never splitting a multibyte
// character.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string { return xmlEscaper.Replace(s) }
