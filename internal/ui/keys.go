package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezcomplete/internal/dom"
)

// domKey names a key press the way keydown events do
func domKey(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyDown:
		return dom.KeyArrowDown
	case tea.KeyUp:
		return dom.KeyArrowUp
	case tea.KeyTab:
		return dom.KeyTab
	case tea.KeyEnter:
		return dom.KeyEnter
	case tea.KeyEsc:
		return dom.KeyEscape
	case tea.KeyBackspace:
		return dom.KeyBackspace
	case tea.KeySpace:
		return " "
	case tea.KeyRunes:
		if !msg.Alt {
			return string(msg.Runes)
		}
	}
	return msg.String()
}

// hasDefaultEdit reports whether the key's default action edits the text
func hasDefaultEdit(key string) bool {
	switch key {
	case dom.KeyArrowDown, dom.KeyArrowUp, dom.KeyTab, dom.KeyEnter, dom.KeyEscape:
		return false
	}
	return true
}
