package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/thesavant42/quakewatch/internal/api"
	"github.com/thesavant42/quakewatch/internal/loader"
	"github.com/thesavant42/quakewatch/internal/models"
)

// Empty-state and status messages
const (
	MessageNoEarthquakes = "No earthquakes found."
	MessageNoInternet    = "No internet connection."
	MessageLoading       = "Fetching earthquakes..."

	statusDuration = 3 * time.Second
)

// Action tells the caller what to do after the list exits
type Action int

const (
	// ActionQuit ends the program
	ActionQuit Action = iota
	// ActionSettings opens the preferences form, then reloads the list
	ActionSettings
)

// QuakeListOptions configures the earthquake list view
type QuakeListOptions struct {
	Context context.Context // parent of every load cycle; Background when nil
	Loader  *loader.Loader
	BaseURL string
	Filter  models.Filter

	// Connectivity reports whether the network is reachable.
	// Nil means always online.
	Connectivity func(ctx context.Context) bool

	Clock      clockwork.Clock // nil for the wall clock
	Location   *time.Location  // nil for time.Local
	Logger     *log.Logger     // may be nil
	ExportPath string          // empty for the dated default name
}

// QuakeListResult is returned when the list view exits
type QuakeListResult struct {
	Action Action
	Rows   []QuakeRow
}

// connectivityMsg is the outcome of the pre-load network check
type connectivityMsg struct {
	cycle  int
	online bool
}

// quakesLoadedMsg delivers a finished load cycle to the UI goroutine
type quakesLoadedMsg struct {
	cycle  int
	result loader.Result
}

// QuakeListModel shows the most recent earthquakes for a filter
type QuakeListModel struct {
	PageState
	opts QuakeListOptions

	ctx    context.Context
	cancel context.CancelFunc

	table    table.Model
	spinner  spinner.Model
	spinning bool
	rows     []QuakeRow
	offset   int

	cycle   int
	task    *loader.Task
	loading bool
	offline bool

	action Action
}

// NewQuakeListModel creates the list view. Nothing is fetched until the
// Init command runs.
func NewQuakeListModel(opts QuakeListOptions) QuakeListModel {
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	layout := DefaultLayout()
	return QuakeListModel{
		PageState: NewPageState(layout, opts.Clock),
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
		table:     InitTable(CalculateQuakeColumns(layout.TableWidth), nil, layout),
		spinner:   NewAppSpinner(),
		spinning:  true,
		cycle:     1,
		loading:   true,
	}
}

func (m QuakeListModel) Init() tea.Cmd {
	return tea.Batch(
		tea.WindowSize(),
		m.spinner.Tick,
		m.checkConnectivity(),
	)
}

// checkConnectivity runs the network check for the current cycle
func (m QuakeListModel) checkConnectivity() tea.Cmd {
	ctx, check, cycle := m.ctx, m.opts.Connectivity, m.cycle
	return func() tea.Msg {
		online := true
		if check != nil {
			online = check(ctx)
		}
		return connectivityMsg{cycle: cycle, online: online}
	}
}

// startLoad launches a load cycle for the current filter and returns the
// command that waits for it. Any previous cycle is cancelled first.
func (m *QuakeListModel) startLoad() tea.Cmd {
	if m.task != nil {
		m.task.Cancel()
	}
	rawURL := api.BuildQueryURL(m.opts.BaseURL, m.opts.Filter)
	task := m.opts.Loader.Start(m.ctx, rawURL)
	m.task = task

	cycle := m.cycle
	return func() tea.Msg {
		res, ok := task.Wait()
		if !ok {
			return nil
		}
		return quakesLoadedMsg{cycle: cycle, result: res}
	}
}

// refresh drops whatever is in flight and begins a new cycle
func (m *QuakeListModel) refresh() tea.Cmd {
	if m.task != nil {
		m.task.Cancel()
		m.task = nil
	}
	m.cycle++
	m.loading = true
	m.offline = false

	cmds := []tea.Cmd{m.checkConnectivity()}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// shutdown cancels the in-flight cycle and the model context
func (m *QuakeListModel) shutdown() {
	if m.task != nil {
		m.task.Cancel()
		m.task = nil
	}
	m.cancel()
}

func (m QuakeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.ClearExpiredStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.UpdateLayout(msg.Width, msg.Height) {
			m.table.SetColumns(CalculateQuakeColumns(m.Layout.TableWidth))
			m.table.SetHeight(m.Layout.TableHeight)
			m.offset = ScrollOffset(m.offset, m.table.Cursor(), m.Layout.TableHeight, len(m.rows))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case connectivityMsg:
		if msg.cycle != m.cycle {
			return m, nil
		}
		if !msg.online {
			m.loading = false
			m.offline = true
			m.setRows(nil)
			m.logWarn("Network unreachable, skipping load")
			return m, nil
		}
		return m, m.startLoad()

	case quakesLoadedMsg:
		if msg.cycle != m.cycle {
			return m, nil
		}
		m.task = nil
		m.loading = false
		m.setRows(NewQuakeRows(msg.result.Earthquakes, m.opts.Location, m.Clock.Now()))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}

	return m, nil
}

func (m QuakeListModel) handleKey(key string) (tea.Model, tea.Cmd) {
	if quit, cmd := HandleQuitKeys(key); quit {
		m.shutdown()
		m.Quitting = true
		m.action = ActionQuit
		return m, cmd
	}

	switch key {
	case "enter":
		if row, ok := m.SelectedRow(); ok && row.URL != "" {
			if err := openURL(row.URL); err != nil {
				m.logWarn("Failed to open browser", "url", row.URL, "err", err)
				m.SetStatus("Could not open browser: "+err.Error(), statusDuration)
			} else {
				m.SetStatus(fmt.Sprintf("Opening %s…", SourceDomain(row.URL)), statusDuration)
			}
		}
		return m, nil

	case "r":
		return m, m.refresh()

	case "s":
		m.shutdown()
		m.Quitting = true
		m.action = ActionSettings
		return m, tea.Quit

	case "x":
		if m.loading || len(m.rows) == 0 {
			m.SetStatus("Nothing to export", statusDuration)
			return m, nil
		}
		path, err := ExportQuakesToMarkdown(m.rows, m.opts.Filter, m.opts.ExportPath, m.Clock.Now())
		if err != nil {
			m.logWarn("Export failed", "err", err)
			m.SetStatus("Export failed: "+err.Error(), statusDuration)
		} else {
			m.SetStatus("Exported to "+path, statusDuration)
		}
		return m, nil
	}

	cursor := HandleNavigationKeys(key, m.table.Cursor(), len(m.rows))
	m.table.SetCursor(cursor)
	m.offset = ScrollOffset(m.offset, cursor, m.Layout.TableHeight, len(m.rows))
	return m, nil
}

// setRows replaces the list and moves the cursor to the top
func (m *QuakeListModel) setRows(rows []QuakeRow) {
	m.rows = rows
	m.table.SetRows(QuakeTableRows(rows))
	m.table.GotoTop()
	m.offset = 0
}

func (m QuakeListModel) logWarn(msg string, keyvals ...interface{}) {
	if m.opts.Logger != nil {
		m.opts.Logger.Warn(msg, keyvals...)
	}
}

// Rows returns the rows currently displayed
func (m QuakeListModel) Rows() []QuakeRow {
	return m.rows
}

// Loading reports whether a cycle is in flight
func (m QuakeListModel) Loading() bool {
	return m.loading
}

// SelectedRow returns the row under the cursor
func (m QuakeListModel) SelectedRow() (QuakeRow, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.rows) {
		return QuakeRow{}, false
	}
	return m.rows[c], true
}

// EmptyMessage is the text shown instead of the list, or "" when the list
// (or the loading indicator) is shown. An absent result and an empty one
// both read as MessageNoEarthquakes.
func (m QuakeListModel) EmptyMessage() string {
	switch {
	case m.offline:
		return MessageNoInternet
	case m.loading:
		return ""
	case len(m.rows) == 0:
		return MessageNoEarthquakes
	}
	return ""
}

func (m QuakeListModel) View() string {
	if m.Quitting {
		return ""
	}

	subtitle := fmt.Sprintf("order by %s • min magnitude %s • limit %s",
		m.opts.Filter.OrderBy, m.opts.Filter.MinMagnitude, m.opts.Filter.Limit)
	content := ViewHeaderWithSubtitle("Recent Earthquakes", subtitle, m.Layout.InnerWidth)

	switch {
	case m.loading:
		content += "\n" + CenterText(m.spinner.View()+" "+RenderNormal(MessageLoading), m.Layout.InnerWidth)
	case m.EmptyMessage() != "":
		content += "\n" + CenterText(EmptyStateStyle.Render(m.EmptyMessage()), m.Layout.InnerWidth)
	default:
		content += RenderQuakeTable(m.rows, m.table.Columns(), m.table.Cursor(), m.offset, m.Layout.TableHeight, m.Layout)
	}

	content = PadContentToHeight(content, m.Layout.ViewportHeight-6)
	if m.HasStatus() {
		content += "\n" + AccentStyle.Render(m.StatusMsg)
	} else {
		content += "\n"
	}

	help := "↑/↓ navigate • enter open • r refresh • s settings • x export • q quit"
	return BuildTwoBoxView(content, RenderHint(help), m.Layout)
}

// RunQuakeList runs the list view until the user quits or asks for settings
func RunQuakeList(opts QuakeListOptions) (QuakeListResult, error) {
	p := tea.NewProgram(NewQuakeListModel(opts), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return QuakeListResult{}, fmt.Errorf("quake list: %w", err)
	}

	final := finalModel.(QuakeListModel)
	final.shutdown()
	return QuakeListResult{Action: final.action, Rows: final.rows}, nil
}
