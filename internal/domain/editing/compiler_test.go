package editing

import (
	"strings"
	"testing"
)

func TestCompileRoundTrip(t *testing.T) {
	template := `<html><body><h1>Hello</h1></body></html>`
	committed := map[string]string{"text-0-0": "Goodbye"}

	out, err := Compile(template, committed, discardLogger())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(out, "Goodbye") {
		t.Errorf("compiled snapshot missing applied text:\n%s", out)
	}
	if strings.Contains(out, "Hello") {
		t.Errorf("compiled snapshot kept the original text:\n%s", out)
	}
}

func TestCompilePure(t *testing.T) {
	committed := map[string]string{
		"text-0-0":                     "New Headline",
		"text-0-0-color":               "#ffffff",
		"bg-ctrl-header-bg-color":      "#123456",
		"button-link-ctrl-get-started": "https://example.com/book",
		"img-0-0":                      "/uploads/hero.webp",
	}

	first, err := Compile(sampleTemplate, committed, discardLogger())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	second, err := Compile(sampleTemplate, committed, discardLogger())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if first != second {
		t.Error("identical inputs compiled to different snapshots")
	}
}

// The compiler and a live editor must agree: what the editor shows after a
// commit is what the snapshot contains.
func TestCompileMatchesEditor(t *testing.T) {
	committed := map[string]string{
		"text-0-0":       "Edited Headline",
		"text-0-0-color": "#fafafa",
	}

	e := newTestEditor(t, committed)
	live, err := e.HTML()
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	snapshot, err := Compile(sampleTemplate, committed, discardLogger())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if live != snapshot {
		t.Error("live document and compiled snapshot diverged for identical values")
	}
}

func TestCompileEnsuresDoctype(t *testing.T) {
	out, err := Compile(`<html><body><p>x</p></body></html>`, nil, discardLogger())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.HasPrefix(strings.ToLower(out), "<!doctype html>") {
		t.Errorf("snapshot missing doctype: %q", out[:40])
	}
}

func TestCompileSkipsOrphanKeys(t *testing.T) {
	committed := map[string]string{
		"text-0-0":  "Applied",
		"text-99-0": "orphan after template change",
	}
	out, err := Compile(`<html><body><h1>Hello</h1></body></html>`, committed, discardLogger())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(out, "Applied") {
		t.Error("valid key not applied alongside an orphan")
	}
}

func TestClassifyHTML(t *testing.T) {
	descriptors, err := ClassifyHTML(sampleTemplate)
	if err != nil {
		t.Fatalf("ClassifyHTML: %v", err)
	}
	if len(descriptors) == 0 {
		t.Fatal("no descriptors")
	}
	if descriptors[0].ID != "text-0" {
		t.Errorf("first descriptor = %q", descriptors[0].ID)
	}
}

func TestTemplateHash(t *testing.T) {
	a := TemplateHash(sampleTemplate)
	b := TemplateHash(sampleTemplate)
	if a != b {
		t.Error("hash of identical input diverged")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d", len(a))
	}
	if TemplateHash(sampleTemplate+" ") == a {
		t.Error("hash ignored a content change")
	}
}
