package editing

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Custom properties written alongside direct style mutations so the applied
// value survives hover-state CSS that would otherwise win by specificity.
const (
	varBgColor    = "--sw-bg-color"
	varHoverColor = "--sw-hover-color"
)

const defaultGradientAngle = "135deg"

// Applier performs the typed mutation a decoded edit describes against a
// resolved node. The target document is always an explicit argument so the
// same code path serves the live editing document and the compiler's
// detached document.
type Applier struct {
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
}

func NewApplier(logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Applier{
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
}

// Apply decodes, resolves and mutates for a single customization key. The
// full customization map is passed alongside because gradient and
// background-type edits must read sibling keys for the same element.
// Returns false when the key resolved to no target (skipped, logged).
func (a *Applier) Apply(doc *goquery.Document, key Key, value string, all map[string]string) bool {
	sel := Resolve(doc, key)
	if sel == nil || sel.Length() == 0 {
		a.logger.Debug("customization key resolved to no target, skipping",
			"key", key.Raw, "elementId", key.ElementID, "family", key.Family.String())
		return false
	}

	edit := NewEdit(key, value)
	switch edit.Kind {
	case EditText:
		// The strict policy strips markup and entity-escapes what remains,
		// so the sanitized output is inserted as HTML, not re-escaped text.
		sel.SetHtml(a.sanitizer.Sanitize(value))

	case EditColor:
		if value == "" {
			removeStyleProps(sel, "color")
		} else {
			setStyleProp(sel, "color", value, false)
		}

	case EditBackgroundColor:
		if value == "" {
			removeStyleProps(sel, "background-color", varBgColor)
		} else {
			setStyleProp(sel, "background-color", value, true)
			setStyleProp(sel, varBgColor, value, false)
		}

	case EditHoverColor:
		if value == "" {
			removeStyleProps(sel, varHoverColor)
		} else {
			setStyleProp(sel, varHoverColor, value, false)
		}

	case EditLink:
		// A data attribute, not a real href: the click router consumes it so
		// in-editor clicks never navigate.
		if value == "" {
			sel.RemoveAttr(attrNavTarget)
		} else {
			sel.SetAttr(attrNavTarget, value)
		}

	case EditBackgroundImage:
		if value == "" {
			removeStyleProps(sel, "background-image")
		} else {
			setStyleProp(sel, "background-image", cssURL(value), false)
		}

	case EditImageSource:
		sel.SetAttr("src", value)

	case EditGradientPart:
		a.applyGradient(sel, key, all)

	case EditBackgroundType:
		a.applyBackgroundType(sel, key, value, all)

	case EditStyleProp, EditOverlay:
		if value == "" {
			removeStyleProps(sel, edit.CSSProp)
		} else {
			setStyleProp(sel, edit.CSSProp, value, false)
		}

	default:
		a.logger.Debug("unrecognized customization property, skipping",
			"key", key.Raw, "property", key.Property)
		return false
	}

	if key.Family == FamilyBackground {
		// Mirror the click-time tagging so later bg-ctrl keys for the same
		// identity resolve directly.
		sel.SetAttr(attrBgID, key.ElementID)
	}
	return true
}

// ReplayAll replays a full committed customization map against a document in
// deterministic (sorted key) order. Returns how many keys applied and how
// many were skipped.
func (a *Applier) ReplayAll(doc *goquery.Document, all map[string]string) (applied, skipped int) {
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, raw := range keys {
		if a.Apply(doc, DecodeKey(raw), all[raw], all) {
			applied++
		} else {
			skipped++
		}
	}
	return applied, skipped
}

// applyGradient synthesizes a linear-gradient background from the sibling
// gradient keys of the same element. A lone start or end stop leaves the
// background untouched rather than producing a malformed gradient.
func (a *Applier) applyGradient(sel *goquery.Selection, key Key, all map[string]string) {
	start, end, angle := gradientSiblings(key.ElementID, all)
	if start == "" || end == "" {
		a.logger.Debug("incomplete gradient, leaving background unset",
			"elementId", key.ElementID, "start", start, "end", end)
		return
	}
	if angle == "" {
		angle = defaultGradientAngle
	}
	removeStyleProps(sel, "background-color", varBgColor)
	setStyleProp(sel, "background", "linear-gradient("+angle+", "+start+", "+end+")", false)
}

// applyBackgroundType switches between the mutually exclusive background
// modes. Only the sibling keys belonging to the selected mode contribute;
// the others are ignored and their style properties removed.
func (a *Applier) applyBackgroundType(sel *goquery.Selection, key Key, value string, all map[string]string) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "solid":
		removeStyleProps(sel, "background", "background-image")
		if color := siblingValue(key.ElementID, all, EditBackgroundColor); color != "" {
			setStyleProp(sel, "background-color", color, true)
			setStyleProp(sel, varBgColor, color, false)
		}
	case "gradient":
		removeStyleProps(sel, "background-image")
		a.applyGradient(sel, key, all)
	case "image":
		removeStyleProps(sel, "background", "background-color", varBgColor)
		if img := siblingValue(key.ElementID, all, EditBackgroundImage); img != "" {
			setStyleProp(sel, "background-image", cssURL(img), false)
		}
	default:
		a.logger.Debug("unknown background type, skipping", "key", key.Raw, "value", value)
	}
}

// gradientSiblings scans the full customization map for the gradient parts of
// one element. The scan decodes every key so it works across families: both
// "bg-ctrl-hero-gradient-start" and "hero-gradient-start-0" feed the same
// element identity.
func gradientSiblings(elementID string, all map[string]string) (start, end, angle string) {
	for raw, value := range all {
		k := DecodeKey(raw)
		if k.ElementID != elementID {
			continue
		}
		switch k.Property {
		case "gradient-start":
			start = value
		case "gradient-end":
			end = value
		case "gradient-angle":
			angle = value
		}
	}
	return start, end, angle
}

// siblingValue finds the first sibling key of the given kind for an element.
// Iteration is order-insensitive because at most one key per (element, kind)
// pair exists in a well-formed map; ties are broken by sorted raw key for
// determinism.
func siblingValue(elementID string, all map[string]string, kind EditKind) string {
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, raw := range keys {
		k := DecodeKey(raw)
		if k.ElementID != elementID {
			continue
		}
		if NewEdit(k, all[raw]).Kind == kind {
			return all[raw]
		}
	}
	return ""
}

func cssURL(value string) string {
	v := strings.TrimSpace(value)
	if strings.HasPrefix(v, "url(") || strings.HasPrefix(v, "linear-gradient(") {
		return v
	}
	return `url("` + v + `")`
}
