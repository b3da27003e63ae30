// Package ui hosts the autocomplete widget in a terminal page. The page owns
// a small document tree, turns key and mouse messages into document events
// and renders the tree with lipgloss.
package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhath/ezcomplete/internal/autocomplete"
	"github.com/nhath/ezcomplete/internal/config"
	"github.com/nhath/ezcomplete/internal/delayguard"
	"github.com/nhath/ezcomplete/internal/dom"
	"github.com/nhath/ezcomplete/internal/logging"
)

const (
	pageTitle = "ezcomplete"
	inputID   = "country"
)

type pageOptions struct {
	scheduler delayguard.Scheduler
	fetcher   autocomplete.Fetcher
	logger    *log.Logger
}

// Option configures a Page
type Option func(*pageOptions)

// WithScheduler replaces the wall-clock quiet-period timer
func WithScheduler(s delayguard.Scheduler) Option {
	return func(o *pageOptions) { o.scheduler = s }
}

// WithFetcher replaces the HTTP lookup
func WithFetcher(f autocomplete.Fetcher) Option {
	return func(o *pageOptions) { o.fetcher = f }
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(o *pageOptions) { o.logger = l }
}

// Page is the root Bubble Tea model
type Page struct {
	cfg    *config.Config
	opts   pageOptions
	logger *log.Logger

	doc    *dom.Document
	loop   *programLoop
	input  *dom.Element
	widget *autocomplete.Widget

	editor textinput.Model

	width, height int
	statusMsg     string
	errorMsg      string
	submitted     []string
}

// NewPage builds the page document: body > form > [h1, label, input#country]
func NewPage(cfg *config.Config, opts ...Option) Page {
	o := pageOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}

	loop := &programLoop{}
	doc := dom.NewDocument(loop)

	form := doc.Body.AppendChild(doc.CreateElement("form"))
	h1 := doc.CreateElement("h1")
	h1.SetTextContent(pageTitle)
	form.AppendChild(h1)
	label := doc.CreateElement("label")
	label.SetTextContent("Country")
	form.AppendChild(label)
	input := doc.CreateElement("input")
	input.ID = inputID
	input.Width = cfg.InputWidth
	form.AppendChild(input)

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Start typing a country..."
	ti.CharLimit = 256
	ti.Focus()

	InitStyles(cfg.Theme)

	return Page{
		cfg:    cfg,
		opts:   o,
		logger: o.logger,
		doc:    doc,
		loop:   loop,
		input:  input,
		editor: ti,
	}
}

// Bind connects the page's event loop to a running program. Call it after
// tea.NewProgram and before Run.
func (m Page) Bind(s Sender) {
	m.loop.bind(s)
}

// Init initializes the model
func (m Page) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		func() tea.Msg { return pageReadyMsg{} },
	)
}

// Document returns the page document
func (m Page) Document() *dom.Document {
	return m.doc
}

// Widget returns the attached widget, nil before the page is ready
func (m Page) Widget() *autocomplete.Widget {
	return m.widget
}

// Submitted returns the values submitted with Enter, oldest first
func (m Page) Submitted() []string {
	return m.submitted
}

// attach binds the widget once the page is ready
func (m Page) attach() Page {
	if m.widget != nil {
		return m
	}

	opts := []autocomplete.Option{
		autocomplete.WithLogger(m.logger),
		autocomplete.WithOrigin(m.cfg.Origin),
		autocomplete.WithEndpoint(m.cfg.Endpoint),
		autocomplete.WithSelector(m.cfg.Selector),
	}
	if m.opts.scheduler != nil {
		opts = append(opts, autocomplete.WithScheduler(m.opts.scheduler))
	}
	if m.opts.fetcher != nil {
		opts = append(opts, autocomplete.WithFetcher(m.opts.fetcher))
	}

	w, err := autocomplete.Attach(m.doc, opts...)
	if err != nil {
		m.logger.Error("attach autocomplete", "selector", m.cfg.Selector, "origin", m.cfg.Origin, "error", err)
		m.errorMsg = err.Error()
		return m
	}
	m.logger.Debug("autocomplete attached", "endpoint", w.URL(), "selector", m.cfg.Selector)
	m.widget = w
	return m
}
