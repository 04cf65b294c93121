package editing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// buttonLinkCandidates is the pool searched by the content-identity fallback.
var buttonLinkCandidates = "button, a.btn, a.button"

// ident guards values interpolated into CSS selectors. Identities that fail
// the pattern skip selector-based strategies and rely on the scan fallbacks.
var identRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

var trailingNumRe = regexp.MustCompile(`-\d+$`)

// attrValueRe guards values embedded in attribute selectors; quotes,
// backslashes and control characters would make cascadia reject (and goquery
// panic on) the compiled selector.
var attrValueRe = regexp.MustCompile(`^[\x20-\x21\x23-\x5b\x5d-\x7e]*$`)

// findByAttr runs an [attr="value"] query, skipping values that cannot be
// embedded safely in a selector.
func findByAttr(doc *goquery.Document, attr, value string) *goquery.Selection {
	if !attrValueRe.MatchString(value) {
		return nil
	}
	return doc.Find(fmt.Sprintf(`[%s=%q]`, attr, value))
}

// Resolve finds the live node a decoded key addresses in the given document.
// Strategies run in fixed order, stopping at the first match:
//
//  1. data-element-id + data-element-index (only when the key carries an index)
//  2. #elementId
//  3. .elementId
//  4. data-element-id alone
//  5. button-link-ctrl identities: id, class, then normalized-text containment
//  6. bg-ctrl identities: data-bg-id, then id/class/tag on the bare identity
//
// Resolution failure is not an error: the caller skips the mutation for that
// key. Nothing here ever panics on a malformed identity.
func Resolve(doc *goquery.Document, key Key) *goquery.Selection {
	id := key.ElementID
	if id == "" {
		return nil
	}

	if key.HasIndex && attrValueRe.MatchString(id) {
		sel := doc.Find(fmt.Sprintf(`[%s=%q][%s="%d"]`, attrElementID, id, attrElementIndex, key.Index))
		if sel.Length() > 0 {
			return sel.First()
		}
	}

	if identRe.MatchString(id) {
		if sel := doc.Find("#" + id); sel.Length() > 0 {
			return sel.First()
		}
		if sel := doc.Find("." + id); sel.Length() > 0 {
			return sel.First()
		}
	}

	if sel := findByAttr(doc, attrElementID, id); sel != nil && sel.Length() > 0 {
		return sel.First()
	}

	switch key.Family {
	case FamilyButtonLink:
		return resolveButtonLink(doc, id)
	case FamilyBackground:
		return resolveBackground(doc, id)
	}
	return nil
}

// resolveButtonLink matches by content identity rather than position because
// buttons and links are the elements most likely to be re-rendered or
// reordered. The identity's numeric suffix is stripped before matching.
func resolveButtonLink(doc *goquery.Document, identity string) *goquery.Selection {
	identity = trailingNumRe.ReplaceAllString(identity, "")
	if identity == "" {
		return nil
	}

	if identRe.MatchString(identity) {
		if sel := doc.Find("#" + identity); sel.Length() > 0 {
			return sel.First()
		}
		if sel := doc.Find("." + identity); sel.Length() > 0 {
			return sel.First()
		}
	}

	want := normalizeIdentity(identity)
	if want == "" {
		return nil
	}
	var match *goquery.Selection
	doc.Find(buttonLinkCandidates).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		have := normalizeIdentity(s.Text())
		if have == "" {
			return true
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			match = s
			return false
		}
		return true
	})
	return match
}

func resolveBackground(doc *goquery.Document, identity string) *goquery.Selection {
	if sel := findByAttr(doc, attrBgID, identity); sel != nil && sel.Length() > 0 {
		return sel.First()
	}
	if identRe.MatchString(identity) {
		if sel := doc.Find("#" + identity); sel.Length() > 0 {
			return sel.First()
		}
		if sel := doc.Find("." + identity); sel.Length() > 0 {
			return sel.First()
		}
		if isSectionTag(identity) {
			if sel := doc.Find(identity); sel.Length() > 0 {
				return sel.First()
			}
		}
	}
	return nil
}

// normalizeIdentity folds a click-time identity or an element's text down to
// lowercase space-separated words so either side can contain the other.
func normalizeIdentity(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func isSectionTag(name string) bool {
	switch strings.ToLower(name) {
	case "header", "footer", "section", "main", "body", "nav", "aside", "div":
		return true
	}
	return false
}
