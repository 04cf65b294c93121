package editing

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

const sampleTemplate = `<!DOCTYPE html>
<html>
<head><title>Acme Plumbing</title></head>
<body>
  <header class="hero" style="background-color: #336699">
    <h1>Fast Local Plumbing</h1>
    <p>Call us any time, day or night.</p>
    <a href="#contact" class="btn">Get Started</a>
  </header>
  <section id="services">
    <h2 style="color: #222222">Our Services</h2>
    <img src="/img/pipes.jpg" alt="pipes">
  </section>
  <footer class="bg-dark" bgcolor="#111111">
    <span>All rights reserved</span>
  </footer>
</body>
</html>`

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func descriptorByID(descriptors []ElementDescriptor, id string) (ElementDescriptor, bool) {
	for _, d := range descriptors {
		if d.ID == id {
			return d, true
		}
	}
	return ElementDescriptor{}, false
}

func TestClassifySample(t *testing.T) {
	doc := mustParse(t, sampleTemplate)
	descriptors := Classify(doc)

	heading, ok := descriptorByID(descriptors, "text-0")
	if !ok {
		t.Fatal("text-0 not classified")
	}
	if heading.Kind != KindText || heading.CurrentValue != "Fast Local Plumbing" {
		t.Errorf("text-0 = %+v", heading)
	}
	if heading.Label != "Heading" {
		t.Errorf("text-0 label = %q", heading.Label)
	}

	// The shared text counter runs in document order: h1, p, a, h2, span.
	if d, ok := descriptorByID(descriptors, "text-3"); !ok || d.CurrentValue != "Our Services" {
		t.Errorf("text-3 = %+v (found=%t)", d, ok)
	}

	// The header node itself carries no text identity, so the color pass
	// claims its inline background.
	bg, ok := descriptorByID(descriptors, "bg-0")
	if !ok {
		t.Fatal("bg-0 not classified")
	}
	if bg.CurrentValue != "#336699" {
		t.Errorf("bg-0 value = %q", bg.CurrentValue)
	}

	if img, ok := descriptorByID(descriptors, "img-0"); !ok || img.CurrentValue != "/img/pipes.jpg" {
		t.Errorf("img-0 = %+v (found=%t)", img, ok)
	}

	// The footer has no inline style but carries a bgcolor attribute, so the
	// section pass picks it up.
	if _, ok := descriptorByID(descriptors, "section-bg-0"); !ok {
		t.Error("section-bg-0 not classified")
	}
}

func TestClassifyTagsNodes(t *testing.T) {
	doc := mustParse(t, sampleTemplate)
	Classify(doc)

	h1 := doc.Find("h1").First()
	if id, _ := h1.Attr(attrElementID); id != "text-0" {
		t.Errorf("h1 %s = %q", attrElementID, id)
	}
	if idx, _ := h1.Attr(attrElementIndex); idx != "0" {
		t.Errorf("h1 %s = %q", attrElementIndex, idx)
	}
}

// A node claimed by the text pass keeps its identity through the later
// passes even when it also carries an inline color.
func TestClassifyTextIdentityWinsOverColor(t *testing.T) {
	doc := mustParse(t, `<html><body><h2 style="color: red">Styled Heading</h2></body></html>`)
	descriptors := Classify(doc)

	if _, ok := descriptorByID(descriptors, "text-0"); !ok {
		t.Fatal("text-0 not classified")
	}
	if _, ok := descriptorByID(descriptors, "color-0"); ok {
		t.Error("color pass stole a text-owned node")
	}
	if id, _ := doc.Find("h2").Attr(attrElementID); id != "text-0" {
		t.Errorf("h2 %s = %q", attrElementID, id)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	first := Classify(mustParse(t, sampleTemplate))
	second := Classify(mustParse(t, sampleTemplate))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("classification of identical input diverged (-first +second):\n%s", diff)
	}
}

func TestClassifySkipsEmptyText(t *testing.T) {
	doc := mustParse(t, `<html><body><p>   </p><p>Real content</p></body></html>`)
	descriptors := Classify(doc)

	d, ok := descriptorByID(descriptors, "text-0")
	if !ok {
		t.Fatal("text-0 not classified")
	}
	if d.CurrentValue != "Real content" {
		t.Errorf("text-0 value = %q, empty paragraph consumed the counter", d.CurrentValue)
	}
}

func TestClassifyTransparentSectionSkipped(t *testing.T) {
	doc := mustParse(t, `<html><body><section class="hero" style="background: transparent"></section></body></html>`)
	descriptors := Classify(doc)
	if _, ok := descriptorByID(descriptors, "section-bg-0"); ok {
		t.Error("transparent section classified as a background")
	}
}
