package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrollOffset(t *testing.T) {
	tests := []struct {
		name                        string
		prev, cursor, height, total int
		want                        int
	}{
		{"fits on screen", 0, 3, 10, 5, 0},
		{"cursor inside window", 2, 5, 5, 20, 2},
		{"cursor below window", 0, 7, 5, 20, 3},
		{"cursor above window", 6, 4, 5, 20, 4},
		{"jump to end", 0, 19, 5, 20, 15},
		{"offset past end after shrink", 18, 19, 5, 20, 15},
		{"zero height", 3, 4, 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScrollOffset(tt.prev, tt.cursor, tt.height, tt.total))
		})
	}
}

func TestCalculateQuakeColumns_FitsTableWidth(t *testing.T) {
	for _, width := range []int{MinViewportWidth, DefaultWidth, MaxViewportWidth} {
		layout := NewLayout(width, DefaultHeight)
		cols := CalculateQuakeColumns(layout.TableWidth)
		require.Len(t, cols, 6)

		total := len(cols) - 1
		for _, c := range cols {
			total += c.Width
		}
		assert.LessOrEqual(t, total, layout.TableWidth, "width %d", width)
	}
}

func TestRenderQuakeTable_VisibleWindow(t *testing.T) {
	layout := DefaultLayout()
	cols := CalculateQuakeColumns(layout.TableWidth)
	rows := []QuakeRow{
		{Magnitude: "1.0", Bucket: 1, Offset: NearThe, Primary: "Alpha"},
		{Magnitude: "2.0", Bucket: 1, Offset: NearThe, Primary: "Bravo"},
		{Magnitude: "3.0", Bucket: 2, Offset: NearThe, Primary: "Charlie"},
	}

	out := stripEscapeCodes(RenderQuakeTable(rows, cols, 1, 1, 2, layout))
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 4) // header, divider, two rows
	assert.Contains(t, lines[0], "Location")
	assert.NotContains(t, out, "Alpha")
	assert.Contains(t, lines[2], "Bravo")
	assert.Contains(t, lines[3], "Charlie")
	assert.Equal(t, layout.InnerWidth, StringWidth(lines[2]), "selected row spans the box")
}

func TestPadCell(t *testing.T) {
	assert.Equal(t, "ab   ", padCell("ab", 5))
	assert.Equal(t, "abcd…", padCell("abcdefgh", 5))
	assert.Equal(t, "a", padCell("abc", 1))
}

func TestCenterTextPadded(t *testing.T) {
	assert.Equal(t, "  hi  ", CenterTextPadded("hi", 6))
	assert.Equal(t, " hi  ", CenterTextPadded("hi", 5))
	assert.Equal(t, "toolong", CenterTextPadded("toolong", 3))
}

func TestHandleNavigationKeys(t *testing.T) {
	assert.Equal(t, 1, HandleNavigationKeys("down", 0, 3))
	assert.Equal(t, 2, HandleNavigationKeys("j", 2, 3))
	assert.Equal(t, 0, HandleNavigationKeys("k", 0, 3))
	assert.Equal(t, 2, HandleNavigationKeys("G", 0, 3))
	assert.Equal(t, 0, HandleNavigationKeys("g", 2, 3))
	assert.Equal(t, 0, HandleNavigationKeys("down", 0, 0))
}
