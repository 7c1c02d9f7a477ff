package ui

// view_helpers.go provides common View() rendering helpers.
// Use these to build consistent two-box layouts.

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

// =============================================================================
// Quake Table Rendering with Full-Width Selection
// =============================================================================

// ScrollOffset returns the first visible row so that cursor stays inside a
// window of height rows, moving the window as little as possible from prev.
func ScrollOffset(prev, cursor, height, total int) int {
	if height <= 0 || total <= height {
		return 0
	}
	offset := prev
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+height {
		offset = cursor - height + 1
	}
	if maxOffset := total - height; offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// RenderQuakeTable renders the header, a divider and the visible rows.
// The magnitude cell carries its bucket colour; the cursor row gets the
// full-width selection highlight instead.
func RenderQuakeTable(rows []QuakeRow, columns []table.Column, cursor, offset, height int, layout Layout) string {
	var result []string

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = padCell(c.Title, c.Width)
	}
	result = append(result, TitleStyle.Render(strings.Join(headers, " ")))
	result = append(result, FullWidthDivider(layout.InnerWidth))

	end := offset + height
	if end > len(rows) {
		end = len(rows)
	}

	for i := offset; i < end; i++ {
		cells := QuakeTableRows(rows[i : i+1])[0]
		plain := make([]string, len(cells))
		for j, c := range cells {
			plain[j] = padCell(c, columns[j].Width)
		}

		if i == cursor {
			// Pad to exact width so the highlight spans the box
			result = append(result, RenderSelectedWidth(truncateToWidth(strings.Join(plain, " "), layout.InnerWidth), layout.InnerWidth))
			continue
		}

		badge := MagnitudeStyle(rows[i].Bucket).Render(strings.TrimSpace(plain[0]))
		if pad := columns[0].Width - StringWidth(badge); pad > 0 {
			badge += strings.Repeat(" ", pad)
		}
		result = append(result, badge+" "+NormalStyle.Render(strings.Join(plain[1:], " ")))
	}

	return strings.Join(result, "\n")
}

// padCell truncates or pads plain text to exactly width cells
func padCell(s string, width int) string {
	if StringWidth(s) > width {
		if width <= 1 {
			return truncateToWidth(s, width)
		}
		s = truncateToWidth(s, width-1) + "…"
	}
	return s + strings.Repeat(" ", width-StringWidth(s))
}

// =============================================================================
// View Header - Title + Divider Pattern
// =============================================================================

// ViewHeaderWithSubtitle renders title + subtitle + divider + spacing.
func ViewHeaderWithSubtitle(title, subtitle string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	if subtitle != "" {
		b.WriteString(RenderDim(subtitle))
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", innerWidth))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Text Centering
// =============================================================================

// CenterText centers text within given width.
// Uses StringWidth() for accurate ANSI-aware width calculation.
func CenterText(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	padding := (width - textW) / 2
	return strings.Repeat(" ", padding) + text
}

// CenterTextPadded centers text and pads to full width.
func CenterTextPadded(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	leftPad := (width - textW) / 2
	rightPad := width - textW - leftPad
	return strings.Repeat(" ", leftPad) + text + strings.Repeat(" ", rightPad)
}

// FullWidthDivider returns a horizontal divider spanning the inner width.
func FullWidthDivider(innerWidth int) string {
	return strings.Repeat("─", innerWidth)
}
