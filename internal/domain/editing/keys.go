package editing

import (
	"strconv"
	"strings"
)

// Family identifies which prefix grammar a customization key belongs to.
// Each family carries its own decoding rules and resolver fallbacks.
type Family int

const (
	FamilyDefault Family = iota
	FamilyText
	FamilyImage
	FamilyBackground // bg-ctrl-* keys, selected interactively
	FamilyButtonLink // button-link-ctrl-* keys, addressed by content identity
)

func (f Family) String() string {
	switch f {
	case FamilyText:
		return "text"
	case FamilyImage:
		return "image"
	case FamilyBackground:
		return "background"
	case FamilyButtonLink:
		return "button-link"
	default:
		return "default"
	}
}

// Key is the decoded form of one customization map key. ElementID holds the
// bare identity for the bg-ctrl and button-link-ctrl families (prefix already
// stripped); for the positional families it is the full classifier id such as
// "text-93".
type Key struct {
	Raw       string
	Family    Family
	ElementID string
	Property  string
	Index     int
	HasIndex  bool
}

const (
	prefixBackground = "bg-ctrl-"
	prefixButtonLink = "button-link-ctrl-"
	prefixText       = "text-"
	prefixImage      = "img-"
)

// Property tokens that may appear as the last two dash segments of a key.
var twoSegmentProps = map[string]bool{
	"gradient-start":   true,
	"gradient-end":     true,
	"gradient-angle":   true,
	"bg-color":         true,
	"bg-image":         true,
	"bg-size":          true,
	"bg-position":      true,
	"bg-overlay":       true,
	"overlay-color":    true,
	"overlay-opacity":  true,
	"background-color": true,
	"background-image": true,
	"hover-color":      true,
	"font-size":        true,
	"font-weight":      true,
	"font-style":       true,
	"text-decoration":  true,
}

// Property tokens that may appear as the single last dash segment.
var oneSegmentProps = map[string]bool{
	"text":       true,
	"color":      true,
	"bg":         true,
	"link":       true,
	"background": true,
	"hover":      true,
	"bgType":     true,
}

// DecodeKey decodes a raw customization key into its (elementId, property,
// index) triple. Decoding is total: unrecognized shapes fall back to the
// default grammar rather than failing, so one malformed key never aborts a
// full replay.
func DecodeKey(raw string) Key {
	switch {
	case strings.HasPrefix(raw, prefixBackground):
		return decodeBackgroundKey(raw)
	case strings.HasPrefix(raw, prefixButtonLink):
		return decodeButtonLinkKey(raw)
	case strings.HasPrefix(raw, prefixText):
		return decodePositionalKey(raw, FamilyText, "text")
	case strings.HasPrefix(raw, prefixImage):
		return decodePositionalKey(raw, FamilyImage, "image")
	default:
		return decodeDefaultKey(raw)
	}
}

// EncodeKey builds a default-grammar key: <elementId>-<property>-<index>.
// Re-decoding the result yields the same triple.
func EncodeKey(elementID, property string, index int) string {
	return elementID + "-" + property + "-" + strconv.Itoa(index)
}

func decodeBackgroundKey(raw string) Key {
	rest := strings.TrimPrefix(raw, prefixBackground)
	key := Key{Raw: raw, Family: FamilyBackground, ElementID: rest, Property: "background"}

	segs := strings.Split(rest, "-")
	last := segs[len(segs)-1]

	if n, err := strconv.Atoi(last); err == nil && len(segs) > 1 {
		key.Index = n
		key.HasIndex = true
		key.ElementID = strings.Join(segs[:len(segs)-1], "-")
		return key
	}

	// "start"/"end" shorthand may follow an embedded "-gradient" segment.
	if last == "start" || last == "end" {
		key.Property = "gradient-" + last
		trim := 1
		if len(segs) >= 2 && segs[len(segs)-2] == "gradient" {
			trim = 2
		}
		key.ElementID = strings.Join(segs[:len(segs)-trim], "-")
		return key
	}

	if prop, rest, ok := splitProperty(segs); ok {
		key.Property = prop
		key.ElementID = rest
		return key
	}

	return key
}

func decodeButtonLinkKey(raw string) Key {
	rest := strings.TrimPrefix(raw, prefixButtonLink)
	key := Key{Raw: raw, Family: FamilyButtonLink, ElementID: rest, Property: "link"}

	segs := strings.Split(rest, "-")
	if prop, remainder, ok := splitProperty(segs); ok {
		key.Property = prop
		key.ElementID = remainder
		// An index may precede the property token.
		idSegs := strings.Split(remainder, "-")
		if len(idSegs) > 1 {
			if n, err := strconv.Atoi(idSegs[len(idSegs)-1]); err == nil {
				key.Index = n
				key.HasIndex = true
				key.ElementID = strings.Join(idSegs[:len(idSegs)-1], "-")
			}
		}
	}
	return key
}

// decodePositionalKey handles the text-<n> and img-<n> families: a trailing
// numeric token is a pure index; a trailing property token shifts the index to
// the segment before it. This is what distinguishes "text-93-1" (index 1,
// plain text) from "text-93-0-color" (index 0, color property).
func decodePositionalKey(raw string, family Family, defaultProp string) Key {
	key := Key{Raw: raw, Family: family, ElementID: raw, Property: defaultProp}

	segs := strings.Split(raw, "-")
	if len(segs) < 2 {
		return key
	}

	last := segs[len(segs)-1]
	if n, err := strconv.Atoi(last); err == nil {
		if len(segs) == 2 {
			// Bare classifier id such as "img-4": the trailing number is the
			// identity, not an index.
			return key
		}
		key.Index = n
		key.HasIndex = true
		key.ElementID = strings.Join(segs[:len(segs)-1], "-")
		return key
	}

	prop, remainder, ok := splitProperty(segs)
	if !ok {
		return key
	}
	key.Property = prop
	key.ElementID = remainder

	idSegs := strings.Split(remainder, "-")
	if len(idSegs) > 2 {
		if n, err := strconv.Atoi(idSegs[len(idSegs)-1]); err == nil {
			key.Index = n
			key.HasIndex = true
			key.ElementID = strings.Join(idSegs[:len(idSegs)-1], "-")
		}
	}
	return key
}

// decodeDefaultKey implements the fallback grammar: the last two dash
// segments are property then index, the remainder is the element id.
func decodeDefaultKey(raw string) Key {
	key := Key{Raw: raw, Family: FamilyDefault, ElementID: raw}

	segs := strings.Split(raw, "-")
	if len(segs) < 2 {
		return key
	}

	last := segs[len(segs)-1]
	if n, err := strconv.Atoi(last); err == nil && len(segs) >= 3 {
		key.Index = n
		key.HasIndex = true
		segs = segs[:len(segs)-1]
		if prop, remainder, ok := splitProperty(segs); ok {
			key.Property = prop
			key.ElementID = remainder
		} else {
			key.Property = segs[len(segs)-1]
			key.ElementID = strings.Join(segs[:len(segs)-1], "-")
		}
		return key
	}

	if prop, remainder, ok := splitProperty(segs); ok {
		key.Property = prop
		key.ElementID = remainder
	}
	return key
}

// splitProperty peels a known property token off the end of the segments,
// preferring two-segment tokens (e.g. "gradient-start") over one-segment
// ones. Returns the property, the joined remainder, and whether a token
// matched.
func splitProperty(segs []string) (string, string, bool) {
	if len(segs) >= 3 {
		tail := segs[len(segs)-2] + "-" + segs[len(segs)-1]
		if twoSegmentProps[tail] {
			return tail, strings.Join(segs[:len(segs)-2], "-"), true
		}
	}
	if len(segs) >= 2 {
		tail := segs[len(segs)-1]
		if oneSegmentProps[tail] {
			return tail, strings.Join(segs[:len(segs)-1], "-"), true
		}
	}
	return "", "", false
}
