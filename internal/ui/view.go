package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/nhath/ezcomplete/internal/autocomplete"
	"github.com/nhath/ezcomplete/internal/ui/components/suggestions"
	"github.com/nhath/ezcomplete/internal/ui/icons"
)

// pageLayout is the rendered page plus where the dropdown sits on it
type pageLayout struct {
	header   string
	inputBox string
	dropdown suggestions.Model
	dropX    int
	dropY    int
}

func (m Page) layout() pageLayout {
	var l pageLayout

	title, label := "", ""
	if h1 := m.doc.QuerySelector("h1"); h1 != nil {
		title = h1.TextContent()
	}
	if lb := m.doc.QuerySelector("label"); lb != nil {
		label = lb.TextContent()
	}
	l.header = lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(title),
		"",
		LabelStyle.Render(label),
	)

	l.inputBox = InputBoxStyle.
		Width(m.input.Width + InputBoxStyle.GetHorizontalPadding()).
		Render(m.renderInputLine())

	l.dropdown = m.dropdown()
	l.dropX = 0
	l.dropY = lipgloss.Height(l.header) + lipgloss.Height(l.inputBox)
	return l
}

// renderInputLine shows the editor followed by the faint remainder of the
// overlay text
func (m Page) renderInputLine() string {
	line := m.editor.View()
	if m.widget == nil {
		return line
	}
	if rest := ghostSuffix(m.input.Value, m.widget.Overlay().TextContent()); rest != "" {
		line += GhostStyle.Render(rest)
	}
	return line
}

// ghostSuffix returns the part of the overlay text past the typed value,
// counted in runes
func ghostSuffix(value, overlayText string) string {
	v, o := []rune(value), []rune(overlayText)
	if len(o) <= len(v) {
		return ""
	}
	return string(o[len(v):])
}

// dropdown mirrors the list element into the dropdown component
func (m Page) dropdown() suggestions.Model {
	d := suggestions.New().
		SetStyles(DropdownStyles).
		SetMaxShow(m.cfg.MaxShow).
		SetMinWidth(m.input.Width)
	if m.widget == nil {
		return d
	}

	items := m.widget.List().Children()
	names := make([]string, len(items))
	selected := -1
	for i, li := range items {
		names[i] = li.TextContent()
		if li.HasClass(autocomplete.ClassSelected) {
			selected = i
		}
	}
	return d.SetItems(names, selected)
}

// View renders the UI
func (m Page) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	l := m.layout()
	statusBar := m.renderStatusBar()
	help := m.renderHelp()

	body := lipgloss.JoinVertical(lipgloss.Left, l.header, l.inputBox)
	if gap := m.height - lipgloss.Height(body) - lipgloss.Height(statusBar) - lipgloss.Height(help); gap > 0 {
		body += strings.Repeat("\n", gap)
	}
	main := lipgloss.JoinVertical(lipgloss.Left, body, statusBar, help)

	if dd := l.dropdown.View(); dd != "" {
		main = overlay.Composite(dd, main, overlay.Left, overlay.Top, l.dropX, l.dropY)
	}
	return main
}

func (m Page) renderStatusBar() string {
	parts := []string{EndpointStyle.Render(m.cfg.Origin + m.cfg.Endpoint)}

	if m.statusMsg != "" {
		parts = append(parts, SuccessStyle.Render(icons.IconSuccess+" "+m.statusMsg))
	}
	if m.errorMsg != "" {
		truncated := m.errorMsg
		if len(truncated) > 60 {
			truncated = truncated[:57] + "..."
		}
		parts = append(parts, ErrorStyle.Render(icons.IconError+" "+truncated))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return StatusBarStyle.Width(m.width).Render(content)
}

func (m Page) renderHelp() string {
	hint := func(key, desc string) string {
		return KeyStyle.Render(key) + DescStyle.Render(" "+desc)
	}
	return strings.Join([]string{
		hint("↑/↓", "Choose"),
		hint("tab", "Complete"),
		hint("esc", "Revert"),
		hint("enter", "Submit"),
		hint("click", "Pick"),
		hint("ctrl+c", "Quit"),
	}, DescStyle.Render(" "+icons.IconBullet+" "))
}
