// Package dom is a minimal document tree for hosting input widgets: element
// creation, tree insertion, class lists, selector lookup and event dispatch.
package dom

import (
	"slices"
	"strings"
)

// Listener handles an event delivered to an element.
type Listener func(*Event)

// Element is a node in a Document.
type Element struct {
	Tag string
	ID  string

	// Value is the editable text of input elements.
	Value string
	// Width is the rendered width in cells.
	Width int

	text      string
	classes   []string
	parent    *Element
	children  []*Element
	listeners map[string][]Listener
}

// NewElement creates a detached element.
func NewElement(tag string) *Element {
	return &Element{Tag: strings.ToLower(tag)}
}

// Parent returns the parent element, or nil when detached.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

// LastChild returns the last child, or nil.
func (e *Element) LastChild() *Element {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[len(e.children)-1]
}

// AppendChild adds child as the last child of e, detaching it from its
// current parent first.
func (e *Element) AppendChild(child *Element) *Element {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = e
	e.children = append(e.children, child)
	return child
}

// RemoveChild detaches child from e. It is a no-op if child is not a child
// of e.
func (e *Element) RemoveChild(child *Element) {
	i := slices.Index(e.children, child)
	if i < 0 {
		return
	}
	e.children = slices.Delete(e.children, i, i+1)
	child.parent = nil
}

// RemoveChildren detaches every child of e.
func (e *Element) RemoveChildren() {
	for e.LastChild() != nil {
		e.RemoveChild(e.LastChild())
	}
}

// TextContent returns the element's own text followed by the text of its
// descendants in document order.
func (e *Element) TextContent() string {
	if len(e.children) == 0 {
		return e.text
	}
	var sb strings.Builder
	sb.WriteString(e.text)
	for _, c := range e.children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// SetTextContent replaces all children with the given text.
func (e *Element) SetTextContent(text string) {
	e.RemoveChildren()
	e.text = text
}

// AddClass adds class names that are not already present.
func (e *Element) AddClass(names ...string) {
	for _, n := range names {
		if !e.HasClass(n) {
			e.classes = append(e.classes, n)
		}
	}
}

// RemoveClass removes class names.
func (e *Element) RemoveClass(names ...string) {
	e.classes = slices.DeleteFunc(e.classes, func(c string) bool {
		return slices.Contains(names, c)
	})
}

// HasClass reports whether the element carries the class.
func (e *Element) HasClass(name string) bool {
	return slices.Contains(e.classes, name)
}

// Classes returns a copy of the class list.
func (e *Element) Classes() []string {
	return slices.Clone(e.classes)
}

// AddEventListener registers fn for events of the given type.
func (e *Element) AddEventListener(typ string, fn Listener) {
	if e.listeners == nil {
		e.listeners = make(map[string][]Listener)
	}
	e.listeners[typ] = append(e.listeners[typ], fn)
}

// Dispatch delivers ev to e and then to each ancestor. It returns false if a
// listener called PreventDefault.
func (e *Element) Dispatch(ev *Event) bool {
	ev.Target = e
	for cur := e; cur != nil; cur = cur.parent {
		ev.CurrentTarget = cur
		for _, fn := range slices.Clone(cur.listeners[ev.Type]) {
			fn(ev)
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == e {
			return true
		}
	}
	return false
}

// walk visits e and its descendants in document order until fn returns false.
func (e *Element) walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}
