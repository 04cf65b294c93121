package editing

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Editor owns the live working document for one website plus its committed
// customization values. All classification, resolution and mutation run
// synchronously under one lock; the live document and the compiler's
// detached document are always distinct instances.
type Editor struct {
	mu          sync.Mutex
	doc         *goquery.Document
	committed   map[string]string
	descriptors []ElementDescriptor
	open        *Session
	applier     *Applier
	logger      *slog.Logger
}

// NewEditor parses the template, classifies and tags its editable elements,
// and replays any previously committed values so the working document
// reflects the saved state.
func NewEditor(templateHTML string, committed map[string]string, logger *slog.Logger) (*Editor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(templateHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	e := &Editor{
		doc:       doc,
		committed: make(map[string]string, len(committed)),
		applier:   NewApplier(logger),
		logger:    logger,
	}
	for k, v := range committed {
		e.committed[k] = v
	}

	e.descriptors = Classify(doc)
	applied, skipped := e.applier.ReplayAll(doc, e.committed)
	logger.Info("editor initialized",
		"descriptors", len(e.descriptors), "applied", applied, "skipped", skipped)
	return e, nil
}

// Descriptors returns the classifier output for the working document.
func (e *Editor) Descriptors() []ElementDescriptor {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]ElementDescriptor, len(e.descriptors))
	copy(out, e.descriptors)
	return out
}

// Committed returns a copy of the durable customization map.
func (e *Editor) Committed() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.committed))
	for k, v := range e.committed {
		out[k] = v
	}
	return out
}

// HTML serializes the current working document, customizations included.
func (e *Editor) HTML() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return serializeDocument(e.doc)
}

// OpenSession returns the currently open session, or nil.
func (e *Editor) OpenSession() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// Begin opens an edit session scoped to one element's composite key prefix.
// Exactly one session may be open at a time; a second Begin fails until the
// first commits or rolls back. Existing committed values under the prefix
// pre-populate the session's temporary values.
func (e *Editor) Begin(elementKey string) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if elementKey == "" {
		return nil, fmt.Errorf("element key cannot be empty")
	}
	if e.open != nil {
		return nil, fmt.Errorf("edit session already open for %s", e.open.elementKey)
	}

	s := &Session{
		editor:     e,
		elementKey: elementKey,
		staged:     make(map[string]string),
		baselines:  make(map[string]nodeBaseline),
	}
	for k, v := range e.committed {
		if strings.HasPrefix(k, elementKey) {
			s.staged[k] = v
		}
	}
	e.open = s
	e.logger.Debug("edit session opened", "elementKey", elementKey, "prepopulated", len(s.staged))
	return s, nil
}

// nodeBaseline captures the pre-session state of everything one staged key
// could have changed, so cancel can restore the committed appearance exactly.
type nodeBaseline struct {
	kind      EditKind
	styleVal  string
	hadStyle  bool
	innerHTML string
	attrName  string
	attrVal   string
	hadAttr   bool
}

// Session is the two-phase transaction for a single element's edit modal:
// every staged value mutates the live document immediately for preview, and
// only Commit makes the change durable.
type Session struct {
	editor     *Editor
	elementKey string
	staged     map[string]string
	touched    []string
	baselines  map[string]nodeBaseline
	closed     bool
}

// ElementKey returns the composite key prefix this session is scoped to.
func (s *Session) ElementKey() string { return s.elementKey }

// TemporaryValues returns a copy of the staged key/value pairs.
func (s *Session) TemporaryValues() map[string]string {
	s.editor.mu.Lock()
	defer s.editor.mu.Unlock()
	out := make(map[string]string, len(s.staged))
	for k, v := range s.staged {
		out[k] = v
	}
	return out
}

// Stage records a temporary value and applies it to the live document for
// instant feedback. Keys outside the session's element prefix are rejected.
func (s *Session) Stage(key, value string) error {
	e := s.editor
	e.mu.Lock()
	defer e.mu.Unlock()

	if s.closed {
		return fmt.Errorf("edit session is closed")
	}
	if !strings.HasPrefix(key, s.elementKey) {
		return fmt.Errorf("key %s is outside edit session scope %s", key, s.elementKey)
	}

	decoded := DecodeKey(key)
	if _, seen := s.baselines[key]; !seen {
		s.baselines[key] = captureBaseline(e.doc, decoded)
		s.touched = append(s.touched, key)
	}
	s.staged[key] = value

	merged := make(map[string]string, len(e.committed)+len(s.staged))
	for k, v := range e.committed {
		merged[k] = v
	}
	for k, v := range s.staged {
		merged[k] = v
	}
	e.applier.Apply(e.doc, decoded, value, merged)
	return nil
}

// Commit merges the temporary values into the committed map and closes the
// session. Committing the same staged values twice in a row is idempotent.
func (s *Session) Commit() (map[string]string, error) {
	e := s.editor
	e.mu.Lock()
	defer e.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("edit session is closed")
	}
	staged := len(s.staged)
	for k, v := range s.staged {
		e.committed[k] = v
	}
	s.close()

	out := make(map[string]string, len(e.committed))
	for k, v := range e.committed {
		out[k] = v
	}
	e.logger.Debug("edit session committed", "elementKey", s.elementKey, "keys", staged)
	return out, nil
}

// Rollback undoes every live preview mutation by restoring the captured
// pre-session node state, then closes the session. Baselines are restored in
// reverse touch order so the first capture (the committed appearance) wins.
func (s *Session) Rollback() error {
	e := s.editor
	e.mu.Lock()
	defer e.mu.Unlock()

	if s.closed {
		return fmt.Errorf("edit session is closed")
	}
	for i := len(s.touched) - 1; i >= 0; i-- {
		raw := s.touched[i]
		restoreBaseline(e.doc, DecodeKey(raw), s.baselines[raw])
	}
	s.close()
	e.logger.Debug("edit session rolled back", "elementKey", s.elementKey, "keys", len(s.touched))
	return nil
}

func (s *Session) close() {
	s.staged = make(map[string]string)
	s.closed = true
	s.editor.open = nil
}

func captureBaseline(doc *goquery.Document, key Key) nodeBaseline {
	b := nodeBaseline{kind: NewEdit(key, "").Kind}
	sel := Resolve(doc, key)
	if sel == nil || sel.Length() == 0 {
		return b
	}
	b.styleVal, b.hadStyle = sel.Attr("style")

	switch b.kind {
	case EditText:
		// Text edits replace the node's children wholesale, so the baseline
		// must hold the inner markup, not the flattened text.
		b.innerHTML, _ = sel.Html()
	case EditLink:
		b.attrName = attrNavTarget
		b.attrVal, b.hadAttr = sel.Attr(attrNavTarget)
	case EditImageSource:
		b.attrName = "src"
		b.attrVal, b.hadAttr = sel.Attr("src")
	}
	return b
}

func restoreBaseline(doc *goquery.Document, key Key, b nodeBaseline) {
	sel := Resolve(doc, key)
	if sel == nil || sel.Length() == 0 {
		return
	}

	switch b.kind {
	case EditText:
		sel.SetHtml(b.innerHTML)
	case EditLink, EditImageSource:
		if b.hadAttr {
			sel.SetAttr(b.attrName, b.attrVal)
		} else {
			sel.RemoveAttr(b.attrName)
		}
	default:
		if b.hadStyle {
			sel.SetAttr("style", b.styleVal)
		} else {
			sel.RemoveAttr("style")
		}
	}
}
