package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezcomplete/internal/dom"
)

// Update handles messages
func (m Page) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case pageReadyMsg:
		m = m.attach()
		return m, nil

	case postedMsg:
		msg.fn()
		m = m.syncEditor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// handleKey dispatches keydown on the input, then runs the default action
// unless a listener prevented it
func (m Page) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	key := domKey(msg)
	if !m.input.Dispatch(dom.NewKeyEvent(key)) {
		return m.syncEditor(), nil
	}

	var cmd tea.Cmd
	switch {
	case key == dom.KeyEnter:
		m = m.submit()
	case hasDefaultEdit(key):
		m = m.syncEditor()
		before := m.editor.Value()
		m.editor, cmd = m.editor.Update(msg)
		if after := m.editor.Value(); after != before {
			m.input.Value = after
			m.input.Dispatch(dom.NewEvent(dom.EventInput))
		}
	}
	return m.syncEditor(), cmd
}

func (m Page) submit() Page {
	value := m.input.Value
	m.submitted = append(m.submitted, value)
	m.statusMsg = "Submitted " + value
	m.logger.Info("form submitted", "value", value)
	return m
}

// handleMouse hit-tests a left press against the dropdown. A row targets
// its list item, the frame targets the list itself.
func (m Page) handleMouse(msg tea.MouseMsg) Page {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || m.widget == nil {
		return m
	}

	l := m.layout()
	hit := l.dropdown.HitTest(msg.X-l.dropX, msg.Y-l.dropY)
	if !hit.Inside {
		return m
	}

	target := m.widget.List()
	if items := target.Children(); hit.Row >= 0 && hit.Row < len(items) {
		target = items[hit.Row]
	}
	target.Dispatch(dom.NewEvent(dom.EventMouseDown))
	return m.syncEditor()
}

// syncEditor copies the element value into the editor after listeners
// changed it
func (m Page) syncEditor() Page {
	if m.editor.Value() != m.input.Value {
		m.editor.SetValue(m.input.Value)
		m.editor.CursorEnd()
	}
	return m
}
