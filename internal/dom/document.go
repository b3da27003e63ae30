package dom

import "strings"

// Event types used by input widgets.
const (
	EventInput     = "input"
	EventKeyDown   = "keydown"
	EventMouseDown = "mousedown"
)

// Key names carried by keydown events.
const (
	KeyArrowDown = "ArrowDown"
	KeyArrowUp   = "ArrowUp"
	KeyTab       = "Tab"
	KeyEnter     = "Enter"
	KeyEscape    = "Escape"
	KeyBackspace = "Backspace"
)

// Event is delivered to listeners by Element.Dispatch.
type Event struct {
	Type string
	// Key is set for keydown events.
	Key string

	Target        *Element
	CurrentTarget *Element

	defaultPrevented bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// NewKeyEvent creates a keydown event for key.
func NewKeyEvent(key string) *Event {
	return &Event{Type: EventKeyDown, Key: key}
}

// PreventDefault suppresses the host's default action for the event.
func (ev *Event) PreventDefault() {
	ev.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (ev *Event) DefaultPrevented() bool {
	return ev.defaultPrevented
}

// Loop runs callbacks on the thread that owns the document. Timer firings
// and network completions must go through it.
type Loop interface {
	Post(fn func())
}

// LoopFunc adapts a function to the Loop interface.
type LoopFunc func(fn func())

// Post calls f(fn).
func (f LoopFunc) Post(fn func()) {
	f(fn)
}

// Immediate runs posted callbacks synchronously on the caller's goroutine.
var Immediate Loop = LoopFunc(func(fn func()) { fn() })

// Document is a tree of elements rooted at Body.
type Document struct {
	Body *Element
	Loop Loop
}

// NewDocument returns an empty document whose callbacks go through loop.
func NewDocument(loop Loop) *Document {
	if loop == nil {
		loop = Immediate
	}
	return &Document{
		Body: NewElement("body"),
		Loop: loop,
	}
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) *Element {
	return NewElement(tag)
}

// Post schedules fn on the document's loop.
func (d *Document) Post(fn func()) {
	d.Loop.Post(fn)
}

// QuerySelector returns the first element in document order matching sel, or
// nil. Supported forms: "tag", "#id", ".class", "tag.class", "tag#id", and
// any combination of one tag, one id and several classes.
func (d *Document) QuerySelector(sel string) *Element {
	s, ok := parseSelector(sel)
	if !ok {
		return nil
	}
	var found *Element
	d.Body.walk(func(e *Element) bool {
		if s.matches(e) {
			found = e
			return false
		}
		return true
	})
	return found
}

// QuerySelectorAll returns every element matching sel in document order.
func (d *Document) QuerySelectorAll(sel string) []*Element {
	s, ok := parseSelector(sel)
	if !ok {
		return nil
	}
	var found []*Element
	d.Body.walk(func(e *Element) bool {
		if s.matches(e) {
			found = append(found, e)
		}
		return true
	})
	return found
}

type selector struct {
	tag     string
	id      string
	classes []string
}

func parseSelector(sel string) (selector, bool) {
	sel = strings.TrimSpace(sel)
	if sel == "" || strings.ContainsAny(sel, " >+~[]:,") {
		return selector{}, false
	}

	var s selector
	i := strings.IndexAny(sel, ".#")
	if i < 0 {
		s.tag = strings.ToLower(sel)
		return s, true
	}
	s.tag = strings.ToLower(sel[:i])
	rest := sel[i:]
	for rest != "" {
		kind := rest[0]
		rest = rest[1:]
		j := strings.IndexAny(rest, ".#")
		if j < 0 {
			j = len(rest)
		}
		name := rest[:j]
		rest = rest[j:]
		if name == "" {
			return selector{}, false
		}
		if kind == '#' {
			if s.id != "" {
				return selector{}, false
			}
			s.id = name
		} else {
			s.classes = append(s.classes, name)
		}
	}
	return s, true
}

func (s selector) matches(e *Element) bool {
	if s.tag != "" && s.tag != "*" && e.Tag != s.tag {
		return false
	}
	if s.id != "" && e.ID != s.id {
		return false
	}
	for _, c := range s.classes {
		if !e.HasClass(c) {
			return false
		}
	}
	return true
}
