package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/quakewatch/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	reportBorderStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)
)

// reportColumnWidths is Mag, Offset, Location, Date, Time, Age
var reportColumnWidths = []int{4, 14, 34, 12, 8, 14}

// PrintHeader prints the report title and the active filter
func PrintHeader(w io.Writer, f models.Filter, count int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Recent Earthquakes"))
	fmt.Fprintln(w, subtitleStyle.Render(fmt.Sprintf(
		"order by %s, minimum magnitude %s, limit %s (%d shown)",
		f.OrderBy, f.MinMagnitude, f.Limit, count)))
	fmt.Fprintln(w)
}

// PrintQuakeTable prints rows as a bordered, non-interactive table.
//
// This is a CLI report: the table structure is built with string
// formatting and lipgloss is only used to colour the text.
func PrintQuakeTable(w io.Writer, rows []QuakeRow) {
	totalWidth := 2
	for _, cw := range reportColumnWidths {
		totalWidth += cw + 3
	}
	totalWidth--
	separator := strings.Repeat("─", totalWidth-2)

	fmt.Fprintln(w, reportBorderStyle.Render("┌"+separator+"┐"))
	fmt.Fprintln(w, headerStyle.Render(formatReportRow([]string{"Mag", "Offset", "Location", "Date", "Time", "Age"})))
	fmt.Fprintln(w, reportBorderStyle.Render("├"+separator+"┤"))

	for _, r := range rows {
		line := formatReportRow([]string{"", r.Offset, r.Primary, r.Date, r.Time, r.Age})
		// Swap the blank magnitude cell for a coloured one of equal width
		badge := MagnitudeStyle(r.Bucket).UnsetPadding().Render(padCell(r.Magnitude, reportColumnWidths[0]))
		blank := "│ " + strings.Repeat(" ", reportColumnWidths[0])
		fmt.Fprintln(w, "│ "+badge+NormalStyle.Render(strings.TrimPrefix(line, blank)))
	}

	fmt.Fprintln(w, reportBorderStyle.Render("└"+separator+"┘"))
	fmt.Fprintln(w)
}

func formatReportRow(cells []string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = padCell(c, reportColumnWidths[i])
	}
	return "│ " + strings.Join(parts, " │ ") + " │"
}

// PrintEmptyState prints the message shown instead of an empty list
func PrintEmptyState(w io.Writer, message string) {
	fmt.Fprintln(w, EmptyStateStyle.Render(message))
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	successStyle := lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	fmt.Fprintln(w, successStyle.Render(message))
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	errorStyle := lipgloss.NewStyle().
		Foreground(ColorBorder).
		Bold(true)
	fmt.Fprintln(w, errorStyle.Render("Error: "+message))
}
