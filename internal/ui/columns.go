package ui

// columns.go provides generic column width calculation for bubbles/table.
// Use ColumnSpec and CalculateColumns() instead of duplicating percentage-based math.

import (
	"github.com/charmbracelet/bubbles/table"
)

// ColumnSpec defines a table column with flexible or fixed width.
// Use FlexRatio for columns that should expand/contract with terminal width.
// Use FixedWidth for columns that should maintain constant width.
type ColumnSpec struct {
	Title      string
	MinWidth   int // Minimum width (0 = no minimum)
	FixedWidth int // If > 0, use this exact width (ignores FlexRatio)
	FlexRatio  int // Relative ratio for flexible columns (0 = fixed-only)
}

// CalculateColumns computes column widths from specs.
// Flexible columns split remaining space by ratio after fixed columns are allocated.
//
// Example:
//
//	columns := CalculateColumns([]ColumnSpec{
//	    {Title: "Place", FlexRatio: 60, MinWidth: 20},
//	    {Title: "Offset", FlexRatio: 40, MinWidth: 12},
//	    {Title: "Mag", FixedWidth: 5},
//	}, layout.TableWidth)
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	if totalWidth < 50 {
		totalWidth = 50
	}

	// First pass: allocate fixed widths and sum flex ratios
	fixedTotal := 0
	flexTotal := 0
	for _, s := range specs {
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}

	remaining := totalWidth - fixedTotal
	if remaining < 0 {
		remaining = 0
	}

	// Second pass: calculate final widths
	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		var width int
		if s.FixedWidth > 0 {
			width = s.FixedWidth
		} else if flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}

		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}

		columns[i] = table.Column{Title: s.Title, Width: width}
	}

	return columns
}

// QuakeColumns returns column specs for the earthquake list
func QuakeColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Mag", FixedWidth: 6},
		{Title: "Offset", FlexRatio: 30, MinWidth: 8},
		{Title: "Location", FlexRatio: 70, MinWidth: 16},
		{Title: "Date", FixedWidth: 12},
		{Title: "Time", FixedWidth: 9},
		{Title: "Age", FixedWidth: 14},
	}
}

// CalculateQuakeColumns sizes the quake columns, leaving one cell between each
func CalculateQuakeColumns(tableWidth int) []table.Column {
	specs := QuakeColumns()
	return CalculateColumns(specs, tableWidth-(len(specs)-1))
}

// QuakeTableRows converts view rows to plain table rows (no styling)
func QuakeTableRows(rows []QuakeRow) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{r.Magnitude, r.Offset, r.Primary, r.Date, r.Time, r.Age}
	}
	return out
}
