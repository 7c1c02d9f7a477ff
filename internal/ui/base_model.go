package ui

// base_model.go provides common key handling and table setup for Bubble Tea models.

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// InitTable creates a focused table with standard styling and dimensions.
// The quake list only uses it for cursor bookkeeping; rows are drawn by
// RenderQuakeTable.
func InitTable(columns []table.Column, rows []table.Row, layout Layout) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)
	ApplyTableStyles(&t)

	// Ensure cursor starts at the top for proper viewport positioning
	t.GotoTop()

	return t
}

// HandleQuitKeys returns true and Quit cmd for q/esc/ctrl+c keys.
//
// Example:
//
//	case tea.KeyMsg:
//	    if quit, cmd := HandleQuitKeys(msg.String()); quit {
//	        m.Quitting = true
//	        return m, cmd
//	    }
func HandleQuitKeys(key string) (bool, tea.Cmd) {
	switch key {
	case "q", "esc", "ctrl+c":
		return true, tea.Quit
	}
	return false, nil
}

// HandleNavigationKeys moves the cursor for up/down/j/k/g/G/home/end.
// Returns the new cursor position clamped to [0, maxItems).
func HandleNavigationKeys(key string, cursor, maxItems int) int {
	if maxItems <= 0 {
		return 0
	}
	switch key {
	case "up", "k":
		if cursor > 0 {
			return cursor - 1
		}
	case "down", "j":
		if cursor < maxItems-1 {
			return cursor + 1
		}
	case "g", "home":
		return 0
	case "G", "end":
		return maxItems - 1
	}
	return cursor
}
