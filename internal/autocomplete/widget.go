// Package autocomplete augments a text input with a suggestion list and an
// inline ghost-text completion backed by a remote lookup.
package autocomplete

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhath/ezcomplete/internal/delayguard"
	"github.com/nhath/ezcomplete/internal/dom"
)

const (
	// DefaultSelector locates the input Attach binds to.
	DefaultSelector = "input"
	// DefaultEndpoint is the lookup template Attach uses.
	DefaultEndpoint = "/countries?matching="
	// DefaultOrigin resolves relative endpoints when no WithOrigin is given.
	// It is where `ezcomplete serve` listens by default.
	DefaultOrigin = "http://127.0.0.1:3000"

	// QuietPeriod is how long typing must pause before a lookup is issued.
	QuietPeriod = 300 * time.Millisecond
)

// Class names of the generated elements.
const (
	ClassWrapper  = "autocomplete-wrapper"
	ClassList     = "autocomplete-ui"
	ClassChoice   = "autocomplete-ui-choice"
	ClassOverlay  = "autocomplete-overlay"
	ClassSelected = "selected"
)

// ErrInputNotFound is returned when the selector matches no element.
var ErrInputNotFound = errors.New("autocomplete input not found")

// Widget drives one input element. All methods and listeners run on the
// document's loop.
type Widget struct {
	doc     *dom.Document
	input   *dom.Element
	listUI  *dom.Element
	overlay *dom.Element
	url     string

	state State

	valueChanged *delayguard.Guard[*dom.Event]
	fetcher      Fetcher
	logger       *log.Logger
}

type options struct {
	scheduler delayguard.Scheduler
	fetcher   Fetcher
	logger    *log.Logger
	origin    string
	endpoint  string
	selector  string
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Widget.
type Option func(*options)

// WithScheduler sets the scheduler used for the quiet period. The default
// runs timers on the wall clock and delivers them through the document loop.
func WithScheduler(s delayguard.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithFetcher sets the lookup transport.
func WithFetcher(f Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOrigin sets the base URL the default HTTP fetcher resolves relative
// endpoints against. It has no effect together with WithFetcher.
func WithOrigin(origin string) Option {
	return func(o *options) { o.origin = origin }
}

// WithEndpoint overrides DefaultEndpoint for Attach.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithSelector overrides DefaultSelector for Attach.
func WithSelector(selector string) Option {
	return func(o *options) { o.selector = selector }
}

// Attach creates a widget with DefaultEndpoint and DefaultSelector unless
// WithEndpoint or WithSelector say otherwise. Hosts call it once the
// document is ready.
func Attach(doc *dom.Document, opts ...Option) (*Widget, error) {
	o := applyOptions(opts)
	endpoint, selector := o.endpoint, o.selector
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if selector == "" {
		selector = DefaultSelector
	}
	return New(doc, endpoint, selector, opts...)
}

// New binds a widget to the element matched by selector. Lookups go to url
// followed by the escaped input value. Without WithFetcher they are made
// over HTTP, with relative urls resolved against WithOrigin or
// DefaultOrigin; an invalid origin is an error.
func New(doc *dom.Document, url, selector string, opts ...Option) (*Widget, error) {
	o := applyOptions(opts)
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if doc.Loop == nil {
		doc.Loop = dom.Immediate
	}
	if o.scheduler == nil {
		o.scheduler = loopScheduler{loop: doc.Loop}
	}

	input := doc.QuerySelector(selector)
	if input == nil {
		return nil, fmt.Errorf("%w: %q", ErrInputNotFound, selector)
	}

	if o.fetcher == nil {
		origin := o.origin
		if origin == "" {
			origin = DefaultOrigin
		}
		f, err := NewHTTPFetcher(HTTPFetcherConfig{Origin: origin, Loop: doc.Loop, Logger: o.logger})
		if err != nil {
			return nil, err
		}
		o.fetcher = f
	}

	w := &Widget{
		doc:     doc,
		input:   input,
		url:     url,
		fetcher: o.fetcher,
		logger:  o.logger,
	}

	w.wrapInput()
	w.createUI()
	w.valueChanged = delayguard.New(QuietPeriod, w.onValueChanged, delayguard.WithScheduler(o.scheduler))
	w.bindEvents()
	w.reset()

	return w, nil
}

// State returns the current interaction state.
func (w *Widget) State() State {
	return w.state
}

// Input returns the managed input element.
func (w *Widget) Input() *dom.Element {
	return w.input
}

// List returns the suggestion list element.
func (w *Widget) List() *dom.Element {
	return w.listUI
}

// Overlay returns the ghost-text element.
func (w *Widget) Overlay() *dom.Element {
	return w.overlay
}

// URL returns the lookup endpoint template.
func (w *Widget) URL() string {
	return w.url
}

// wrapInput moves the input into a wrapper appended to its old parent.
func (w *Widget) wrapInput() {
	wrapper := w.doc.CreateElement("div")
	wrapper.AddClass(ClassWrapper)
	if parent := w.input.Parent(); parent != nil {
		parent.AppendChild(wrapper)
	}
	wrapper.AppendChild(w.input)
}

func (w *Widget) createUI() {
	parent := w.input.Parent()

	listUI := w.doc.CreateElement("ul")
	listUI.AddClass(ClassList)
	parent.AppendChild(listUI)
	w.listUI = listUI

	overlay := w.doc.CreateElement("div")
	overlay.AddClass(ClassOverlay)
	overlay.Width = w.input.Width
	parent.AppendChild(overlay)
	w.overlay = overlay
}

func (w *Widget) bindEvents() {
	w.input.AddEventListener(dom.EventInput, w.valueChanged.Call)
	w.input.AddEventListener(dom.EventKeyDown, w.handleKeydown)
	w.listUI.AddEventListener(dom.EventMouseDown, w.fillInput)
}

// draw rebuilds the list and overlay from the current state.
func (w *Widget) draw() {
	w.listUI.RemoveChildren()

	var f Frame
	w.state, f = w.state.Frame(w.input.Value)
	w.overlay.SetTextContent(f.Overlay)

	for _, c := range f.Choices {
		li := w.doc.CreateElement("li")
		li.AddClass(ClassChoice)
		if c.Selected {
			li.AddClass(ClassSelected)
		}
		li.SetTextContent(c.Name)
		w.listUI.AppendChild(li)
	}
	w.input.Value = f.Value
}

// reset hides the suggestions. The input value is kept.
func (w *Widget) reset() {
	w.state = w.state.Reset()
	w.draw()
}

func (w *Widget) fetchMatches(query string, callback func([]Match)) {
	w.fetcher.Fetch(w.url+EncodeQuery(query), callback)
}

// onValueChanged runs once typing has paused for QuietPeriod.
func (w *Widget) onValueChanged(*dom.Event) {
	value := w.input.Value
	w.state = w.state.Remember(value)

	if value == "" {
		w.reset()
		return
	}

	w.logger.Debug("looking up matches", "query", value)
	w.fetchMatches(value, func(matches []Match) {
		w.state = w.state.Suggest(matches)
		w.draw()
	})
}

func (w *Widget) handleKeydown(ev *dom.Event) {
	switch ev.Key {
	case dom.KeyArrowDown:
		ev.PreventDefault()
		w.state = w.state.MoveDown()
		w.draw()
	case dom.KeyArrowUp:
		ev.PreventDefault()
		w.state = w.state.MoveUp()
		w.draw()
	case dom.KeyTab:
		if m, ok := w.state.Completion(); ok {
			w.input.Value = m.Name
			ev.PreventDefault()
		}
		w.reset()
	case dom.KeyEnter:
		w.reset()
	case dom.KeyEscape:
		w.input.Value = w.state.PreviousValue
		w.reset()
	}
}

func (w *Widget) fillInput(ev *dom.Event) {
	w.input.Value = ev.Target.TextContent()
	w.reset()
}

// loopScheduler runs timers on the wall clock and hands their callbacks to
// the document loop.
type loopScheduler struct {
	loop dom.Loop
}

func (s loopScheduler) AfterFunc(d time.Duration, f func()) delayguard.Timer {
	return time.AfterFunc(d, func() {
		s.loop.Post(f)
	})
}
