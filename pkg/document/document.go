// Package document provides the content-model collaborator for margin
// layout: a scanned HTML page exposing margin regions, annotation anchors,
// and measured geometry.
//
// The scanner is a headless stand-in for a browser measurement API.
// Geometry is read from data-top / data-height attributes that a real
// deployment would obtain from the rendering engine; everything else
// (document order, anchor classes, annotation content) matches what the
// page's markup carries anyway.
//
// Recognized markup:
//
//	<section id="intro" data-top="0" data-height="900">
//	  <sup class="sidenote-ref" id="ref-1" data-item="sn-1" data-top="150"
//	       data-height="18" data-item-height="64" data-content="...">1</sup>
//	  <a class="citation-ref" id="cref-1" data-item="cite-1" ...>[1]</a>
//	</section>
package document

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/marginlab/marginalia/pkg/errors"
	"github.com/marginlab/marginalia/pkg/geometry"
	"github.com/marginlab/marginalia/pkg/margin"
)

// Anchor classes mapping onto annotation kinds.
const (
	classSidenoteRef = "sidenote-ref"
	classCitationRef = "citation-ref"
)

// element is one measurable node of the scanned page.
type element struct {
	ref  geometry.ElementRef
	rect geometry.Rect
}

// annotation is one collected anchor with its item payload.
type annotation struct {
	item      margin.CollectedItem
	regionRef geometry.ElementRef
}

// Document is a scanned page. It implements margin.Collector and
// geometry.Measurer over the markup it was parsed from.
type Document struct {
	regions     []margin.RegionInfo
	annotations []annotation
	elements    map[geometry.ElementRef]element
}

// LoadFile parses the HTML file at path. regionSelector names the element
// treated as a margin region ("section" by default).
func LoadFile(path, regionSelector string) (*Document, error) {
	if err := errors.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open document %s", path)
	}
	defer f.Close()
	return Parse(f, regionSelector)
}

// Parse scans an HTML document from r.
func Parse(r io.Reader, regionSelector string) (*Document, error) {
	if regionSelector == "" {
		regionSelector = "section"
	}

	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse html")
	}

	doc := &Document{elements: make(map[geometry.ElementRef]element)}
	doc.scan(root, regionSelector, geometry.ElementRefNone)
	return doc, nil
}

// scan walks the tree in document order, tracking the enclosing region.
func (d *Document) scan(n *html.Node, regionSelector string, region geometry.ElementRef) {
	if n.Type == html.ElementNode {
		switch {
		case n.Data == regionSelector:
			region = d.addRegion(n)
		case hasClass(n, classSidenoteRef):
			d.addAnchor(n, region, margin.KindSidenote)
		case hasClass(n, classCitationRef):
			d.addAnchor(n, region, margin.KindCitationCard)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.scan(c, regionSelector, region)
	}
}

func (d *Document) addRegion(n *html.Node) geometry.ElementRef {
	id := attr(n, "id")
	if id == "" {
		id = fmt.Sprintf("region-%d", len(d.regions)+1)
	}
	ref := geometry.ElementRef(id)
	d.regions = append(d.regions, margin.RegionInfo{ID: id, Ref: ref})
	d.elements[ref] = element{ref: ref, rect: rectOf(n)}
	return ref
}

func (d *Document) addAnchor(n *html.Node, region geometry.ElementRef, kind margin.Kind) {
	if region.IsNone() {
		// Anchor outside any region cannot be laid out; skip it.
		return
	}

	anchorID := attr(n, "id")
	if anchorID == "" {
		anchorID = fmt.Sprintf("anchor-%d", len(d.annotations)+1)
	}
	ref := geometry.ElementRef(anchorID)
	d.elements[ref] = element{ref: ref, rect: rectOf(n)}

	content := attr(n, "data-content")
	if content == "" {
		content = text(n)
	}

	d.annotations = append(d.annotations, annotation{
		regionRef: region,
		item: margin.CollectedItem{
			ID:        attr(n, "data-item"),
			Kind:      kind,
			AnchorRef: ref,
			Height:    floatAttr(n, "data-item-height"),
			Content:   content,
		},
	})
}

// Regions implements margin.Collector.
func (d *Document) Regions() ([]margin.RegionInfo, error) {
	return d.regions, nil
}

// Collect implements margin.Collector. Items come back in document order.
func (d *Document) Collect(region geometry.ElementRef) ([]margin.CollectedItem, error) {
	var items []margin.CollectedItem
	for _, a := range d.annotations {
		if a.regionRef == region {
			items = append(items, a.item)
		}
	}
	return items, nil
}

// Measure implements geometry.Measurer.
func (d *Document) Measure(ref geometry.ElementRef) (geometry.Rect, error) {
	el, ok := d.elements[ref]
	if !ok {
		return geometry.Rect{}, errors.New(errors.ErrCodeMissingAnchor, "no element %q in document", ref)
	}
	return el.rect, nil
}

// Detach removes an element, simulating its removal from the live page.
// The next collection pass will no longer see annotations anchored to it.
func (d *Document) Detach(ref geometry.ElementRef) {
	delete(d.elements, ref)
	for i := range d.annotations {
		if d.annotations[i].item.AnchorRef == ref {
			d.annotations[i].item.AnchorRef = geometry.ElementRefNone
		}
	}
}

// SetItemHeight updates an annotation's measured height in place,
// simulating a content mutation such as an expanding author-bio panel.
func (d *Document) SetItemHeight(itemID string, height float64) {
	for i := range d.annotations {
		if d.annotations[i].item.ID == itemID {
			d.annotations[i].item.Height = height
		}
	}
}

func rectOf(n *html.Node) geometry.Rect {
	return geometry.Rect{
		Top:    floatAttr(n, "data-top"),
		Height: floatAttr(n, "data-height"),
	}.Sanitize()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func floatAttr(n *html.Node, name string) float64 {
	v, err := strconv.ParseFloat(attr(n, name), 64)
	if err != nil {
		return 0
	}
	return v
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
