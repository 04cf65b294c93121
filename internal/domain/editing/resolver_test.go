package editing

import "testing"

func TestResolveByTaggedIndex(t *testing.T) {
	doc := mustParse(t, sampleTemplate)
	Classify(doc)

	sel := Resolve(doc, DecodeKey("text-0-0"))
	if sel == nil || sel.Length() == 0 {
		t.Fatal("text-0-0 did not resolve")
	}
	if got := sel.Get(0).Data; got != "h1" {
		t.Errorf("resolved tag = %q, want h1", got)
	}
}

func TestResolveByHTMLId(t *testing.T) {
	doc := mustParse(t, `<html><body><nav id="main-nav" style="color: blue"></nav></body></html>`)

	sel := Resolve(doc, DecodeKey("main-nav-color-0"))
	if sel == nil || sel.Length() == 0 {
		t.Fatal("main-nav-color-0 did not resolve")
	}
	if got := sel.Get(0).Data; got != "nav" {
		t.Errorf("resolved tag = %q, want nav", got)
	}
}

func TestResolveByClass(t *testing.T) {
	doc := mustParse(t, `<html><body><div class="promo-box">Sale</div></body></html>`)

	sel := Resolve(doc, DecodeKey("promo-box-color-0"))
	if sel == nil || sel.Length() == 0 {
		t.Fatal("promo-box-color-0 did not resolve")
	}
}

// A key whose index drifted away from the live attribute still lands on the
// node through the bare data-element-id fallback.
func TestResolveIndexDriftFallsBack(t *testing.T) {
	doc := mustParse(t, sampleTemplate)
	Classify(doc)

	sel := Resolve(doc, Key{Raw: "text-0-7", Family: FamilyText, ElementID: "text-0", Property: "text", Index: 7, HasIndex: true})
	if sel == nil || sel.Length() == 0 {
		t.Fatal("drifted key did not resolve")
	}
	if got := sel.Get(0).Data; got != "h1" {
		t.Errorf("resolved tag = %q, want h1", got)
	}
}

func TestResolveButtonLinkByText(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<a class="btn" href="#">Learn More</a>
		<button>Get Started Today</button>
	</body></html>`)

	sel := Resolve(doc, DecodeKey("button-link-ctrl-get-started"))
	if sel == nil || sel.Length() == 0 {
		t.Fatal("button-link-ctrl-get-started did not resolve")
	}
	if got := sel.Get(0).Data; got != "button" {
		t.Errorf("resolved tag = %q, want button", got)
	}
}

func TestResolveButtonLinkStripsTrailingIndex(t *testing.T) {
	doc := mustParse(t, `<html><body><button>Contact Us</button></body></html>`)

	sel := Resolve(doc, DecodeKey("button-link-ctrl-contact-us-0-hover-color"))
	if sel == nil || sel.Length() == 0 {
		t.Fatal("indexed button-link key did not resolve")
	}
}

func TestResolveBackgroundByBgID(t *testing.T) {
	doc := mustParse(t, `<html><body><section data-bg-id="hero-area"><h1>Hi</h1></section></body></html>`)

	sel := Resolve(doc, DecodeKey("bg-ctrl-hero-area-bg-color"))
	if sel == nil || sel.Length() == 0 {
		t.Fatal("bg-ctrl key did not resolve via data-bg-id")
	}
	if got := sel.Get(0).Data; got != "section" {
		t.Errorf("resolved tag = %q, want section", got)
	}
}

func TestResolveBackgroundBySectionTag(t *testing.T) {
	doc := mustParse(t, `<html><body><header><h1>Hi</h1></header></body></html>`)

	sel := Resolve(doc, DecodeKey("bg-ctrl-header-bg-color"))
	if sel == nil || sel.Length() == 0 {
		t.Fatal("bg-ctrl tag-name fallback did not resolve")
	}
	if got := sel.Get(0).Data; got != "header" {
		t.Errorf("resolved tag = %q, want header", got)
	}
}

// Hostile identities never reach cascadia, so resolution degrades to a miss
// instead of a panic.
func TestResolveMalformedIdentity(t *testing.T) {
	doc := mustParse(t, sampleTemplate)
	Classify(doc)

	for _, raw := range []string{
		`x"]-color-0`,
		"bg-ctrl-a\\b-bg-color",
		"button-link-ctrl-" + string(rune(0x01)),
	} {
		sel := Resolve(doc, DecodeKey(raw))
		if sel != nil && sel.Length() > 0 {
			t.Errorf("hostile key %q resolved unexpectedly", raw)
		}
	}
}

func TestResolveMiss(t *testing.T) {
	doc := mustParse(t, sampleTemplate)
	Classify(doc)

	if sel := Resolve(doc, DecodeKey("text-99-0")); sel != nil && sel.Length() > 0 {
		t.Error("nonexistent element resolved")
	}
	if sel := Resolve(doc, DecodeKey("")); sel != nil && sel.Length() > 0 {
		t.Error("empty key resolved")
	}
}
