package ui

// spinner.go shows a blocking spinner while a load cycle runs in plain mode.

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/thesavant42/quakewatch/internal/loader"
)

// loadDoneMsg carries the task outcome back to the spinner
type loadDoneMsg struct {
	result loader.Result
	ok     bool
}

// loadSpinnerModel runs a spinner until the task delivers
type loadSpinnerModel struct {
	spinner spinner.Model
	title   string
	task    *loader.Task
	result  loader.Result
	ok      bool
	done    bool
}

// RunWithSpinner waits for task while displaying a spinner.
// ctrl+c cancels the task; the bool is then false.
//
// Example:
//
//	task := l.Start(ctx, url)
//	res, ok, err := RunWithSpinner("Fetching earthquakes...", task)
func RunWithSpinner(title string, task *loader.Task) (loader.Result, bool, error) {
	m := loadSpinnerModel{
		spinner: NewAppSpinner(),
		title:   title,
		task:    task,
	}

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		task.Cancel()
		return loader.Result{}, false, fmt.Errorf("spinner program error: %w", err)
	}

	final := finalModel.(loadSpinnerModel)
	return final.result, final.ok, nil
}

func (m loadSpinnerModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.wait(),
	)
}

func (m loadSpinnerModel) wait() tea.Cmd {
	task := m.task
	return func() tea.Msg {
		res, ok := task.Wait()
		return loadDoneMsg{result: res, ok: ok}
	}
}

func (m loadSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		m.done = true
		m.result = msg.result
		m.ok = msg.ok
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Allow ctrl+c to cancel
		if msg.String() == "ctrl+c" {
			m.task.Cancel()
			m.done = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m loadSpinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), RenderNormal(m.title))
}
