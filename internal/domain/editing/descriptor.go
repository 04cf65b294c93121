// Package editing implements the customization encoding and snapshot
// compilation engine: it assigns stable identifiers to editable regions of
// arbitrary uploaded HTML, records user edits as flat key/value pairs, and
// replays those pairs deterministically against a fresh parse of the original
// template to produce a standalone, publishable document.
package editing

// ElementKind categorizes an editable region discovered by the classifier.
type ElementKind string

const (
	KindText  ElementKind = "text"
	KindImage ElementKind = "image"
	KindColor ElementKind = "color"
	KindStyle ElementKind = "style"
)

// Data attributes written onto live nodes so the resolver can find them again
// without re-parsing. These names are part of the persisted key contract.
const (
	attrElementID    = "data-element-id"
	attrElementIndex = "data-element-index"
	attrBgID         = "data-bg-id"
	attrNavTarget    = "data-nav-target"
	attrPaymentID    = "data-payment-id"
	attrSynced       = "data-synced"
)

// ElementDescriptor identifies one editable region of a parsed document. It is
// ephemeral: recomputed on every parse and never persisted. Classifying
// byte-identical HTML twice yields byte-identical descriptors in the same
// order; the snapshot compiler depends on that.
type ElementDescriptor struct {
	ID           string      `json:"id"`
	Kind         ElementKind `json:"type"`
	Selector     string      `json:"selector"`
	Index        int         `json:"index"`
	Label        string      `json:"label"`
	CurrentValue string      `json:"currentValue"`
}
