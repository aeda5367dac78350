package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true)
)

// Render formats the report as a title followed by a table of selections.
func (r *report) Render() string {
	title := titleStyle.Render(fmt.Sprintf("%s, backend %s", r.array, r.backend))
	summary := fmt.Sprintf("inferred shape %v, depth %d, dtype %s", r.inferred, r.depth, r.dtype)
	if !r.shape.Equal(r.inferred) {
		summary += fmt.Sprintf(", materialized shape %v", r.shape)
	}
	if len(r.rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, summary)
	}

	table := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Key", "Selection", "Shape", "Values")
	for _, row := range r.rows {
		table.Row(row.key, row.selection, fmt.Sprint(row.shape), row.values)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, summary, table.Render())
}
