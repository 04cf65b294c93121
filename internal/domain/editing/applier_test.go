package editing

import (
	"strings"
	"testing"
)

func TestApplyTextSanitizes(t *testing.T) {
	doc := mustParse(t, sampleTemplate)
	Classify(doc)
	a := NewApplier(discardLogger())

	key := DecodeKey("text-0-0")
	if !a.Apply(doc, key, `Hello <b>World</b>`, nil) {
		t.Fatal("text edit did not apply")
	}
	if got := doc.Find("h1").Text(); got != "Hello World" {
		t.Errorf("h1 text = %q", got)
	}

	if !a.Apply(doc, key, `<script>alert(1)</script>Safe`, nil) {
		t.Fatal("text edit did not apply")
	}
	html, _ := doc.Find("h1").Html()
	if strings.Contains(html, "<script") {
		t.Errorf("markup survived sanitization: %q", html)
	}
	if got := doc.Find("h1").Text(); got != "Safe" {
		t.Errorf("h1 text = %q", got)
	}
}

func TestApplyColor(t *testing.T) {
	doc := mustParse(t, sampleTemplate)
	Classify(doc)
	a := NewApplier(discardLogger())

	key := DecodeKey("text-0-0-color")
	if !a.Apply(doc, key, "#ff0000", nil) {
		t.Fatal("color edit did not apply")
	}
	if got, _ := styleProp(doc.Find("h1"), "color"); got != "#ff0000" {
		t.Errorf("color = %q", got)
	}

	// Empty value removes the declaration instead of writing "color: ".
	a.Apply(doc, key, "", nil)
	if _, ok := styleProp(doc.Find("h1"), "color"); ok {
		t.Error("empty value left a color declaration behind")
	}
}

func TestApplyBackgroundColor(t *testing.T) {
	doc := mustParse(t, `<html><body><section id="hero"></section></body></html>`)
	a := NewApplier(discardLogger())

	if !a.Apply(doc, DecodeKey("hero-background-color-0"), "#00aa00", nil) {
		t.Fatal("background edit did not apply")
	}
	sel := doc.Find("#hero")
	style, _ := sel.Attr("style")
	if !strings.Contains(style, "background-color: #00aa00 !important") {
		t.Errorf("style = %q", style)
	}
	if got, _ := styleProp(sel, varBgColor); got != "#00aa00" {
		t.Errorf("%s = %q", varBgColor, got)
	}
}

func TestApplyLinkUsesDataAttribute(t *testing.T) {
	doc := mustParse(t, `<html><body><button class="cta">Get Started</button></body></html>`)
	a := NewApplier(discardLogger())

	if !a.Apply(doc, DecodeKey("button-link-ctrl-get-started"), "https://example.com/book", nil) {
		t.Fatal("link edit did not apply")
	}
	sel := doc.Find("button")
	if got, _ := sel.Attr(attrNavTarget); got != "https://example.com/book" {
		t.Errorf("%s = %q", attrNavTarget, got)
	}
	if _, ok := sel.Attr("href"); ok {
		t.Error("link edit wrote a real href")
	}
}

func TestApplyImageSource(t *testing.T) {
	doc := mustParse(t, sampleTemplate)
	Classify(doc)
	a := NewApplier(discardLogger())

	if !a.Apply(doc, DecodeKey("img-0-0"), "/uploads/new.webp", nil) {
		t.Fatal("image edit did not apply")
	}
	if got, _ := doc.Find("img").Attr("src"); got != "/uploads/new.webp" {
		t.Errorf("src = %q", got)
	}
}

// A gradient needs both stops; a lone start leaves the background untouched.
func TestApplyGradientRequiresBothStops(t *testing.T) {
	doc := mustParse(t, `<html><body><header id="hero"></header></body></html>`)
	a := NewApplier(discardLogger())

	lone := map[string]string{"bg-ctrl-hero-gradient-start": "#ff0000"}
	a.Apply(doc, DecodeKey("bg-ctrl-hero-gradient-start"), "#ff0000", lone)
	if _, ok := styleProp(doc.Find("#hero"), "background"); ok {
		t.Error("lone gradient stop wrote a background")
	}

	full := map[string]string{
		"bg-ctrl-hero-gradient-start": "#ff0000",
		"bg-ctrl-hero-gradient-end":   "#0000ff",
	}
	a.Apply(doc, DecodeKey("bg-ctrl-hero-gradient-end"), "#0000ff", full)
	got, _ := styleProp(doc.Find("#hero"), "background")
	want := "linear-gradient(135deg, #ff0000, #0000ff)"
	if got != want {
		t.Errorf("background = %q, want %q", got, want)
	}
}

func TestApplyBackgroundTypeSwitch(t *testing.T) {
	doc := mustParse(t, `<html><body><header id="hero"></header></body></html>`)
	a := NewApplier(discardLogger())

	all := map[string]string{
		"bg-ctrl-hero-bg-color":       "#112233",
		"bg-ctrl-hero-gradient-start": "#ff0000",
		"bg-ctrl-hero-gradient-end":   "#0000ff",
		"bg-ctrl-hero-bgType":         "gradient",
	}
	a.Apply(doc, DecodeKey("bg-ctrl-hero-bgType"), "gradient", all)
	sel := doc.Find("#hero")
	if _, ok := styleProp(sel, "background"); !ok {
		t.Error("gradient mode did not write a background")
	}
	if _, ok := styleProp(sel, "background-color"); ok {
		t.Error("gradient mode left the solid color behind")
	}

	a.Apply(doc, DecodeKey("bg-ctrl-hero-bgType"), "solid", all)
	if got, _ := styleProp(sel, "background-color"); got != "#112233" {
		t.Errorf("solid mode background-color = %q", got)
	}
	if _, ok := styleProp(sel, "background"); ok {
		t.Error("solid mode left the gradient behind")
	}
}

func TestApplyTagsBackgroundIdentity(t *testing.T) {
	doc := mustParse(t, `<html><body><header><h1>Hi</h1></header></body></html>`)
	a := NewApplier(discardLogger())

	a.Apply(doc, DecodeKey("bg-ctrl-header-bg-color"), "#abc", nil)
	if got, _ := doc.Find("header").Attr(attrBgID); got != "header" {
		t.Errorf("%s = %q", attrBgID, got)
	}
}

func TestReplayAllCountsSkips(t *testing.T) {
	doc := mustParse(t, sampleTemplate)
	Classify(doc)
	a := NewApplier(discardLogger())

	all := map[string]string{
		"text-0-0":           "New Headline",
		"text-0-0-color":     "#ffffff",
		"text-99-0":          "orphan",
		"unknowable-thing-x": "orphan",
	}
	applied, skipped := a.ReplayAll(doc, all)
	if applied != 2 || skipped != 2 {
		t.Errorf("applied=%d skipped=%d, want 2/2", applied, skipped)
	}
	if got := doc.Find("h1").Text(); got != "New Headline" {
		t.Errorf("h1 text = %q", got)
	}
}
