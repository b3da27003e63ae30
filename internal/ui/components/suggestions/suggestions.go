// Package suggestions renders the autocomplete dropdown and maps pointer
// positions back to its rows.
package suggestions

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezcomplete/internal/ui/icons"
)

// Styles for the suggestions dropdown
type Styles struct {
	Box      lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4C566A")),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D8DEE9")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2E3440")).
			Background(lipgloss.Color("#88C0D0")),
	}
}

// Model is an immutable view of the dropdown
type Model struct {
	items    []string
	selected int
	maxShow  int
	minWidth int
	styles   Styles
}

// New creates an empty dropdown
func New() Model {
	return Model{
		selected: -1,
		maxShow:  8,
		styles:   DefaultStyles(),
	}
}

// SetItems sets the rows and the selected row (-1 for none)
func (m Model) SetItems(items []string, selected int) Model {
	m.items = items
	if selected < 0 || selected >= len(items) {
		selected = -1
	}
	m.selected = selected
	return m
}

// SetStyles sets custom styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m
}

// SetMaxShow sets maximum visible rows
func (m Model) SetMaxShow(n int) Model {
	if n > 0 {
		m.maxShow = n
	}
	return m
}

// SetMinWidth sets the minimum inner width, usually the input width
func (m Model) SetMinWidth(w int) Model {
	m.minWidth = w
	return m
}

// Selected returns the selected index, -1 for none
func (m Model) Selected() int {
	return m.selected
}

// Len returns number of items
func (m Model) Len() int {
	return len(m.items)
}

// Window returns the half-open range of rows currently shown, keeping the
// selected row near the middle
func (m Model) Window() (start, end int) {
	if m.selected > m.maxShow/2 {
		start = m.selected - m.maxShow/2
	}
	end = start + m.maxShow
	if end > len(m.items) {
		end = len(m.items)
		start = max(end-m.maxShow, 0)
	}
	return start, end
}

// View renders the dropdown, or "" when there is nothing to show
func (m Model) View() string {
	if len(m.items) == 0 {
		return ""
	}

	start, end := m.Window()
	width := m.minWidth
	for _, item := range m.items[start:end] {
		width = max(width, lipgloss.Width(item)+2)
	}

	views := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		style := m.styles.Item
		prefix := "  "
		if i == m.selected {
			style = m.styles.Selected
			prefix = icons.IconSelect + " "
		}
		views = append(views, style.Width(width).Render(prefix+m.items[i]))
	}

	return m.styles.Box.Render(strings.Join(views, "\n"))
}

// Hit classifies a point relative to the dropdown's top-left corner
type Hit struct {
	Inside bool
	// Row is the item index under the point, -1 on the border
	Row int
}

// HitTest maps a point relative to the rendered box to an item
func (m Model) HitTest(x, y int) Hit {
	view := m.View()
	if view == "" || x < 0 || y < 0 || x >= lipgloss.Width(view) || y >= lipgloss.Height(view) {
		return Hit{Row: -1}
	}

	top := m.styles.Box.GetBorderTopSize() + m.styles.Box.GetPaddingTop()
	left := m.styles.Box.GetBorderLeftSize() + m.styles.Box.GetPaddingLeft()
	right := lipgloss.Width(view) - m.styles.Box.GetBorderRightSize() - m.styles.Box.GetPaddingRight()

	start, end := m.Window()
	row := start + y - top
	if x < left || x >= right || y < top || row >= end {
		return Hit{Inside: true, Row: -1}
	}
	return Hit{Inside: true, Row: row}
}
