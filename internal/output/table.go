package output

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// RenderTable creates a table with aligned columns and a bold header.
// Column widths come from lipgloss/table. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var out strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle()
			if col < len(headers)-1 {
				style = style.PaddingRight(2)
			}
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			return style
		})

	out.WriteString(t.String())
	out.WriteString("\n")

	return out.String()
}

// Dim renders s in a muted color, for secondary information such as
// "(default)" markers.
func Dim(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(s)
}
