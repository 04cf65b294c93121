package editing

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// parseStyle parses an inline style attribute into CSS declarations.
// Declarations parsed before a malformed one are kept; the remainder of the
// attribute is dropped.
func parseStyle(style string) []*css.Declaration {
	decls, _ := parser.NewParser(style).ParseDeclarations()
	return decls
}

// renderStyle serializes declarations back into an attribute value. Order is
// preserved so that rewriting an untouched attribute reproduces it byte for
// byte.
func renderStyle(decls []*css.Declaration) string {
	var sb strings.Builder
	for i, d := range decls {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(d.Property)
		sb.WriteString(": ")
		sb.WriteString(d.Value)
		if d.Important {
			sb.WriteString(" !important")
		}
	}
	return sb.String()
}

// setStyleProp sets one declaration on the selection's inline style,
// replacing an existing declaration in place or appending a new one.
func setStyleProp(sel *goquery.Selection, prop, value string, important bool) {
	style, _ := sel.Attr("style")
	decls := parseStyle(style)

	replaced := false
	for i := range decls {
		if strings.EqualFold(decls[i].Property, prop) {
			decls[i].Value = value
			decls[i].Important = important
			replaced = true
			break
		}
	}
	if !replaced {
		decls = append(decls, &css.Declaration{Property: prop, Value: value, Important: important})
	}
	sel.SetAttr("style", renderStyle(decls))
}

// styleProp reads one declaration value from the selection's inline style.
func styleProp(sel *goquery.Selection, prop string) (string, bool) {
	style, ok := sel.Attr("style")
	if !ok {
		return "", false
	}
	for _, d := range parseStyle(style) {
		if strings.EqualFold(d.Property, prop) {
			return d.Value, true
		}
	}
	return "", false
}

// removeStyleProps deletes the named declarations from the inline style.
// The style attribute itself is removed when nothing is left.
func removeStyleProps(sel *goquery.Selection, props ...string) {
	style, ok := sel.Attr("style")
	if !ok {
		return
	}
	decls := parseStyle(style)
	kept := decls[:0]
	for _, d := range decls {
		drop := false
		for _, p := range props {
			if strings.EqualFold(d.Property, p) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		sel.RemoveAttr("style")
		return
	}
	sel.SetAttr("style", renderStyle(kept))
}

// isTransparent reports whether an inline background value paints nothing.
func isTransparent(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "" || v == "transparent" || v == "none" ||
		v == "rgba(0,0,0,0)" || v == "rgba(0, 0, 0, 0)" || v == "initial" || v == "inherit"
}
