package document

import (
	"strings"
	"testing"

	"github.com/marginlab/marginalia/pkg/geometry"
	"github.com/marginlab/marginalia/pkg/margin"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<section id="intro" data-top="0" data-height="600">
  <p>Opening text
    <sup class="sidenote-ref" id="ref-1" data-item="sn-1" data-top="120"
         data-height="18" data-item-height="64" data-content="A note on sources.">1</sup>
    and a claim
    <a class="citation-ref" id="cref-1" data-item="cite-1" data-top="240"
       data-height="18" data-item-height="120" data-content="Doe 2021, Ch. 3.">[1]</a>.
  </p>
</section>
<section id="body" data-top="600" data-height="900">
  <p>More text
    <sup class="sidenote-ref" id="ref-2" data-item="sn-2" data-top="700"
         data-height="18" data-item-height="40">2</sup>
  </p>
</section>
<p>Stray anchor outside any region
  <sup class="sidenote-ref" id="ref-stray" data-item="sn-stray" data-top="9000">s</sup>
</p>
</body></html>`

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(samplePage), "section")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestParseRegions(t *testing.T) {
	doc := parseSample(t)

	regions, err := doc.Regions()
	if err != nil {
		t.Fatalf("Regions() error = %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("Regions() = %d, want 2", len(regions))
	}
	if regions[0].ID != "intro" || regions[1].ID != "body" {
		t.Errorf("region order = %s, %s; want intro, body", regions[0].ID, regions[1].ID)
	}
}

func TestCollectDocumentOrder(t *testing.T) {
	doc := parseSample(t)

	items, err := doc.Collect("intro")
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Collect(intro) = %d items, want 2", len(items))
	}
	if items[0].ID != "sn-1" || items[1].ID != "cite-1" {
		t.Errorf("document order = %s, %s; want sn-1, cite-1", items[0].ID, items[1].ID)
	}
	if items[0].Kind != margin.KindSidenote || items[1].Kind != margin.KindCitationCard {
		t.Errorf("kinds = %v, %v", items[0].Kind, items[1].Kind)
	}
	if items[0].Height != 64 {
		t.Errorf("sn-1 height = %v, want 64", items[0].Height)
	}
	if items[1].Content != "Doe 2021, Ch. 3." {
		t.Errorf("cite-1 content = %q", items[1].Content)
	}
}

func TestCollectFallsBackToInnerText(t *testing.T) {
	doc, err := Parse(strings.NewReader(
		`<section id="s"><span class="sidenote-ref" id="r" data-item="sn">inline body</span></section>`),
		"section")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	items, _ := doc.Collect("s")
	if len(items) != 1 || items[0].Content != "inline body" {
		t.Errorf("Collect() = %+v, want content from inner text", items)
	}
}

func TestAnchorOutsideRegionSkipped(t *testing.T) {
	doc := parseSample(t)

	for _, region := range []string{"intro", "body"} {
		items, _ := doc.Collect(geometry.ElementRef(region))
		for _, it := range items {
			if it.ID == "sn-stray" {
				t.Errorf("stray anchor collected into region %s", region)
			}
		}
	}
}

func TestMeasure(t *testing.T) {
	doc := parseSample(t)

	rect, err := doc.Measure("ref-2")
	if err != nil {
		t.Fatalf("Measure(ref-2) error = %v", err)
	}
	if rect.Top != 700 || rect.Height != 18 {
		t.Errorf("Measure(ref-2) = %+v, want {700 18}", rect)
	}

	rect, err = doc.Measure("body")
	if err != nil {
		t.Fatalf("Measure(body) error = %v", err)
	}
	if rect.Top != 600 {
		t.Errorf("Measure(body).Top = %v, want 600", rect.Top)
	}

	if _, err := doc.Measure("nope"); err == nil {
		t.Error("Measure(unknown) error = nil, want error")
	}
}

func TestDetach(t *testing.T) {
	doc := parseSample(t)

	doc.Detach("ref-1")

	if _, err := doc.Measure("ref-1"); err == nil {
		t.Error("Measure(detached) error = nil, want error")
	}

	// The detached annotation surfaces with a none anchor; the registry
	// will drop it from the next snapshot without error.
	items, _ := doc.Collect("intro")
	for _, it := range items {
		if it.ID == "sn-1" && !it.AnchorRef.IsNone() {
			t.Errorf("detached annotation still has anchor %q", it.AnchorRef)
		}
	}
}

func TestSetItemHeight(t *testing.T) {
	doc := parseSample(t)

	doc.SetItemHeight("sn-2", 210)

	items, _ := doc.Collect("body")
	if items[0].Height != 210 {
		t.Errorf("height after mutation = %v, want 210", items[0].Height)
	}
}

func TestParseDefaultSelector(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<section id="s"></section>`), "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	regions, _ := doc.Regions()
	if len(regions) != 1 {
		t.Errorf("Regions() = %d, want 1 with default selector", len(regions))
	}
}

func TestParseBadGeometryClamped(t *testing.T) {
	doc, err := Parse(strings.NewReader(
		`<section id="s" data-top="NaN" data-height="-4"><span class="sidenote-ref" id="r" data-item="sn" data-top="oops">x</span></section>`),
		"section")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	rect, err := doc.Measure("s")
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if rect.Top != 0 || rect.Height != 0 {
		t.Errorf("Measure(s) = %+v, want zeroed bad geometry", rect)
	}
}
