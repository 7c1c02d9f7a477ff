package ui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Layout constants - single source of truth for all viewport dimensions
const (
	MinViewportWidth = 80
	MaxViewportWidth = 140
	DefaultWidth     = 100 // Used when terminal size is unknown
	DefaultHeight    = 30
	MinTableHeight   = 5
	TwoBoxOverhead   = 7 // main box border (2) + header (3) + footer box (2)
	contentOverhead  = 4 // table header + divider + status line + spacing
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth  int // clamped terminal width
	ViewportHeight int // terminal height
	InnerWidth     int // ViewportWidth - 2 (EXACT width for content inside borders)
	TableWidth     int // sum of column widths + separators
	TableHeight    int // visible data rows
}

// NewLayout creates a Layout from the terminal size, clamping width to min/max
func NewLayout(terminalWidth, terminalHeight int) Layout {
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)
	if terminalHeight <= 0 {
		terminalHeight = DefaultHeight
	}
	tableHeight := terminalHeight - TwoBoxOverhead - contentOverhead
	if tableHeight < MinTableHeight {
		tableHeight = MinTableHeight
	}
	return Layout{
		ViewportWidth:  width,
		ViewportHeight: terminalHeight,
		InnerWidth:     width - 2, // minus border chars
		TableWidth:     width - 4, // minus border + padding
		TableHeight:    tableHeight,
	}
}

// DefaultLayout returns a layout using the default size
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

// clamp restricts a value to the given range
func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("196") // red
	ColorHighlight = lipgloss.Color("88")  // dark red background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("226") // bright yellow
	ColorTextDim   = lipgloss.Color("241") // gray
	ColorFooter    = lipgloss.Color("255") // white footer border
	ColorSuccess   = lipgloss.Color("82")  // green
)

// MagnitudeColors maps bucket 1..10 to its circle colour; index 0 is unused
var MagnitudeColors = [...]lipgloss.Color{
	"",
	lipgloss.Color("#4A7BA7"), // 0-2
	lipgloss.Color("#04B4B3"), // 2-3
	lipgloss.Color("#10CAC9"), // 3-4
	lipgloss.Color("#F5A623"), // 4-5
	lipgloss.Color("#FF7D50"), // 5-6
	lipgloss.Color("#FC6644"), // 6-7
	lipgloss.Color("#E75F40"), // 7-8
	lipgloss.Color("#E13A20"), // 8-9
	lipgloss.Color("#D93218"), // 9-10
	lipgloss.Color("#C03823"), // 10+
}

// Common styles - reusable style definitions
var (
	// Border style for main viewport; size with .Width(InnerWidth), no padding
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// Footer box for help text
	FooterStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFooter)

	// Title style for section headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	// Selected row/item style
	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	// Normal text style
	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// Dim text for secondary information
	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	// Hint/help text style
	HintStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Italic(true)

	// Accent style for highlighted text (yellow)
	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Empty-state message in the middle of the list area
	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Italic(true)
)

// MagnitudeStyle returns the badge style for a magnitude bucket
func MagnitudeStyle(bucket int) lipgloss.Style {
	if bucket < 1 || bucket >= len(MagnitudeColors) {
		bucket = BucketTenPlus
	}
	return lipgloss.NewStyle().
		Foreground(ColorText).
		Background(MagnitudeColors[bucket]).
		Bold(true).
		Padding(0, 1)
}

// ApplyTableStyles sets the standard header and cell styles on a table.
// Selection is drawn by RenderQuakeTable, so the built-in selected
// style stays neutral.
func ApplyTableStyles(t *table.Model) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(false).
		Bold(true).
		Foreground(ColorText)
	s.Cell = s.Cell.Foreground(ColorText)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
}

// NewAppSpinner creates the white dot spinner used for loading states
func NewAppSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorText)
	return s
}

// BuildTwoBoxView renders the main content box above a one-line help box
func BuildTwoBoxView(content, helpText string, layout Layout) string {
	main := BorderStyle.
		Width(layout.InnerWidth).
		Render(content)
	footer := FooterStyle.
		Width(layout.InnerWidth).
		Render(CenterTextPadded(helpText, layout.InnerWidth))
	return lipgloss.JoinVertical(lipgloss.Left, main, footer)
}

// PadContentToHeight pads content with newlines to fill target height
func PadContentToHeight(content string, targetHeight int) string {
	lines := strings.Count(content, "\n") + 1
	if lines >= targetHeight {
		return content
	}
	return content + strings.Repeat("\n", targetHeight-lines)
}

// RenderTitle renders a section title
func RenderTitle(s string) string {
	return TitleStyle.Render(s)
}

// RenderNormal renders plain white text
func RenderNormal(s string) string {
	return NormalStyle.Render(s)
}

// RenderDim renders secondary gray text
func RenderDim(s string) string {
	return DimStyle.Render(s)
}

// RenderHint renders italic help text
func RenderHint(s string) string {
	return HintStyle.Render(s)
}

// RenderSelectedWidth renders s with the selection background padded to width
func RenderSelectedWidth(s string, width int) string {
	if w := StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return SelectedStyle.Render(s)
}

// StringWidth returns the printable width of s, ignoring ANSI escapes
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// stripEscapeCodes removes ANSI escape sequences
func stripEscapeCodes(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// truncateToWidth cuts plain text to at most width cells
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > width {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String()
}

// NewAppTheme creates a huh theme matching the app's style guide
// White text, red highlights/selection
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Blurred.Description = t.Focused.Description

	t.Focused.Base = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Base = t.Focused.Base

	// Selected option - red background, white text
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.UnselectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(ColorBorder)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorBorder)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(ColorBorder)

	return t
}
