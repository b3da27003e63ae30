// Package table renders lookup results with bubble-table.
package table

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"
)

// Nord colors
const (
	ColorForeground = "#D8DEE9" // Nord4: Light gray
	ColorComment    = "#4C566A" // Nord3: Dark gray
	ColorGreen      = "#A3BE8C" // Nord14: Green
	ColorYellow     = "#EBCB8B" // Nord13: Yellow
	ColorTeal       = "#8FBCBB" // Nord7: Teal
)

const (
	colIndex = "#"
	colName  = "name"
	maxWidth = 40
)

// New creates a bubble-table with the Nord theme (no background)
func New(cols []bbtable.Column) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorForeground))).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorTeal)).
			Bold(true)).
		HighlightStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGreen)).
			Bold(true)).
		BorderRounded()
}

// FromNames builds a static table listing names in order, with the first
// row marked as the best match.
func FromNames(names []string) bbtable.Model {
	widths := calculateColumnWidths([]string{colIndex, colName}, names)
	cols := []bbtable.Column{
		bbtable.NewColumn(colIndex, colIndex, widths[colIndex]),
		bbtable.NewColumn(colName, colName, widths[colName]),
	}

	rows := make([]bbtable.Row, 0, len(names))
	for i, n := range names {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow))
		if i == 0 {
			style = style.Bold(true).Foreground(lipgloss.Color(ColorGreen))
		}
		rows = append(rows, bbtable.NewRow(bbtable.RowData{
			colIndex: bbtable.NewStyledCell(strconv.Itoa(i+1), lipgloss.NewStyle().Foreground(lipgloss.Color(ColorComment))),
			colName:  bbtable.NewStyledCell(n, style),
		}))
	}

	return New(cols).
		WithRows(rows).
		WithNoPagination()
}

// Summary describes a result set in one line.
func Summary(query string, n int) string {
	s := strconv.Itoa(n) + " match"
	if n != 1 {
		s += "es"
	}
	return s + " for " + strconv.Quote(query)
}

func calculateColumnWidths(headers []string, names []string) map[string]int {
	widths := map[string]int{
		colIndex: len(strconv.Itoa(len(names))),
		colName:  len(colName),
	}
	for _, h := range headers {
		if w := lipgloss.Width(h); w > widths[h] {
			widths[h] = w
		}
	}
	for _, n := range names {
		if w := lipgloss.Width(n); w > widths[colName] {
			widths[colName] = w
		}
	}

	// Add padding
	for h := range widths {
		widths[h] += 2
		if widths[h] > maxWidth {
			widths[h] = maxWidth
		}
	}
	return widths
}
