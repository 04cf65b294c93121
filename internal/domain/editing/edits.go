package editing

// EditKind is the closed set of typed mutations the applier knows how to
// perform. Keys are lifted into an Edit immediately after decoding so the
// applier is an exhaustive switch instead of string-prefix sniffing.
type EditKind int

const (
	EditUnknown EditKind = iota
	EditText
	EditColor
	EditBackgroundColor
	EditHoverColor
	EditLink
	EditBackgroundImage
	EditImageSource
	EditGradientPart   // gradient-start, gradient-end, gradient-angle
	EditBackgroundType // bgType: solid | gradient | image
	EditStyleProp      // direct CSS property passthrough (font-size, ...)
	EditOverlay        // bg-overlay, overlay-color, overlay-opacity
)

func (k EditKind) String() string {
	switch k {
	case EditText:
		return "text"
	case EditColor:
		return "color"
	case EditBackgroundColor:
		return "background-color"
	case EditHoverColor:
		return "hover-color"
	case EditLink:
		return "link"
	case EditBackgroundImage:
		return "background-image"
	case EditImageSource:
		return "image-source"
	case EditGradientPart:
		return "gradient"
	case EditBackgroundType:
		return "background-type"
	case EditStyleProp:
		return "style"
	case EditOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Edit pairs a decoded key with its typed mutation and value. CSSProp is only
// set for EditStyleProp and EditOverlay kinds.
type Edit struct {
	Key     Key
	Kind    EditKind
	Value   string
	CSSProp string
}

// NewEdit classifies a decoded key + value into a typed Edit.
func NewEdit(key Key, value string) Edit {
	e := Edit{Key: key, Value: value}

	switch key.Property {
	case "text":
		e.Kind = EditText
	case "color":
		e.Kind = EditColor
	case "bg", "bg-color", "background", "background-color":
		e.Kind = EditBackgroundColor
	case "hover", "hover-color":
		e.Kind = EditHoverColor
	case "link":
		e.Kind = EditLink
	case "background-image", "bg-image":
		e.Kind = EditBackgroundImage
	case "image":
		e.Kind = EditImageSource
	case "gradient-start", "gradient-end", "gradient-angle":
		e.Kind = EditGradientPart
	case "bgType":
		e.Kind = EditBackgroundType
	case "font-size", "font-weight", "font-style", "text-decoration":
		e.Kind = EditStyleProp
		e.CSSProp = key.Property
	case "bg-size":
		e.Kind = EditStyleProp
		e.CSSProp = "background-size"
	case "bg-position":
		e.Kind = EditStyleProp
		e.CSSProp = "background-position"
	case "bg-overlay", "overlay-color":
		e.Kind = EditOverlay
		e.CSSProp = "--sw-overlay-color"
	case "overlay-opacity":
		e.Kind = EditOverlay
		e.CSSProp = "--sw-overlay-opacity"
	default:
		e.Kind = EditUnknown
	}
	return e
}
