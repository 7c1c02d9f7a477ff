package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SplashDuration is how long the splash stays up without a key press
const SplashDuration = time.Second

// SplashModel is the TUI model for the splash screen
type SplashModel struct {
	width  int
	height int
	done   bool
}

type splashTimeoutMsg struct{}

func waitForTimeout(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return splashTimeoutMsg{}
	})
}

func (m SplashModel) Init() tea.Cmd {
	return waitForTimeout(SplashDuration)
}

func (m SplashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg, splashTimeoutMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SplashModel) View() string {
	if m.done {
		return ""
	}

	layout := NewLayout(m.width, m.height)
	height := layout.ViewportHeight - 2
	if height < 10 {
		height = 10
	}

	lines := make([]string, height)
	mid := height / 2
	lines[mid-1] = CenterTextPadded(AccentStyle.Render("QUAKEWATCH"), layout.InnerWidth)
	lines[mid+1] = CenterTextPadded(RenderDim("recent earthquakes from the USGS feed"), layout.InnerWidth)

	return BorderStyle.
		Width(layout.InnerWidth).
		Render(strings.Join(lines, "\n"))
}

// ShowSplash displays the splash screen until it times out or a key is pressed
func ShowSplash() error {
	model := SplashModel{
		width:  DefaultWidth,
		height: DefaultHeight,
	}

	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
