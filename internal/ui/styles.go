// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezcomplete/internal/config"
	"github.com/nhath/ezcomplete/internal/ui/components/suggestions"
)

var (
	textPrimary    lipgloss.Color
	textSecondary  lipgloss.Color
	textFaint      lipgloss.Color
	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	bgSecondary    lipgloss.Color
	borderColor    lipgloss.Color

	TitleStyle     lipgloss.Style
	LabelStyle     lipgloss.Style
	InputBoxStyle  lipgloss.Style
	GhostStyle     lipgloss.Style
	StatusBarStyle lipgloss.Style
	EndpointStyle  lipgloss.Style
	SuccessStyle   lipgloss.Style
	ErrorStyle     lipgloss.Style
	KeyStyle       lipgloss.Style
	DescStyle      lipgloss.Style

	DropdownStyles suggestions.Styles
)

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)
	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	bgSecondary = lipgloss.Color(theme.BgSecondary)
	borderColor = lipgloss.Color(theme.BorderColor)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor)

	LabelStyle = lipgloss.NewStyle().
		Foreground(textSecondary)

	InputBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)

	// Ghost text shares the input's cell grid, so it must not add width
	GhostStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Faint(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	EndpointStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(textPrimary).
		Background(bgSecondary)

	SuccessStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(successColor).
		Foreground(bgSecondary)

	ErrorStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(errorColor).
		Foreground(textPrimary)

	KeyStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary).
		Padding(0, 1).
		Bold(true)

	DescStyle = lipgloss.NewStyle().
		Foreground(textSecondary)

	DropdownStyles = suggestions.Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(textFaint),
		Item: lipgloss.NewStyle().
			Foreground(textPrimary),
		Selected: lipgloss.NewStyle().
			Foreground(bgSecondary).
			Background(highlightColor).
			Bold(true),
	}
}
