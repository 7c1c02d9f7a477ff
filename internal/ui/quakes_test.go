package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/quakewatch/internal/api"
	"github.com/thesavant42/quakewatch/internal/loader"
	"github.com/thesavant42/quakewatch/internal/models"
)

type recordingFetcher struct {
	mu     sync.Mutex
	quakes []models.Earthquake
	urls   []string
}

func (f *recordingFetcher) FetchEarthquakes(ctx context.Context, rawURL string) []models.Earthquake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, rawURL)
	return f.quakes
}

func (f *recordingFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.urls)
}

var sampleQuakes = []models.Earthquake{
	{Magnitude: 4.5, Location: "10km SE of Reno", Time: 1583020800000, URL: "https://earthquake.usgs.gov/earthquakes/eventpage/a"},
	{Magnitude: 2.1, Location: "Pacific-Antarctic Ridge", Time: 1583024400000, URL: "https://earthquake.usgs.gov/earthquakes/eventpage/b"},
}

func newTestModel(t *testing.T, fetcher loader.Fetcher, online bool) QuakeListModel {
	t.Helper()
	m := NewQuakeListModel(QuakeListOptions{
		Loader:       loader.New(fetcher, nil, nil),
		BaseURL:      api.DefaultEndpoint,
		Filter:       models.DefaultFilter(),
		Connectivity: func(context.Context) bool { return online },
		Clock:        clockwork.NewFakeClockAt(time.Date(2020, 3, 1, 3, 0, 0, 0, time.UTC)),
		Location:     time.UTC,
	})
	t.Cleanup(m.shutdown)
	return m
}

// update feeds msg to m and returns the new model
func update(t *testing.T, m QuakeListModel, msg tea.Msg) (QuakeListModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(QuakeListModel), cmd
}

// load runs the connectivity check and the load cycle it triggers
func load(t *testing.T, m QuakeListModel) QuakeListModel {
	t.Helper()
	m, cmd := update(t, m, m.checkConnectivity()())
	if cmd == nil {
		return m
	}
	msg := cmd()
	require.IsType(t, quakesLoadedMsg{}, msg)
	m, _ = update(t, m, msg)
	return m
}

func TestQuakeList_LoadsRows(t *testing.T) {
	fetcher := &recordingFetcher{quakes: sampleQuakes}
	m := newTestModel(t, fetcher, true)
	assert.True(t, m.Loading())

	m = load(t, m)

	assert.False(t, m.Loading())
	require.Len(t, m.Rows(), 2)
	assert.Equal(t, "Reno", m.Rows()[0].Primary)
	assert.Equal(t, "3 hours ago", m.Rows()[0].Age)
	assert.Empty(t, m.EmptyMessage())
	assert.Equal(t, []string{api.BuildQueryURL(api.DefaultEndpoint, models.DefaultFilter())}, fetcher.urls)

	view := stripEscapeCodes(m.View())
	assert.Contains(t, view, "Reno")
	assert.Contains(t, view, "Pacific-Antarctic Ridge")
}

func TestQuakeList_OfflineSkipsLoad(t *testing.T) {
	fetcher := &recordingFetcher{quakes: sampleQuakes}
	m := newTestModel(t, fetcher, false)

	m = load(t, m)

	assert.Equal(t, 0, fetcher.calls())
	assert.Equal(t, MessageNoInternet, m.EmptyMessage())
	assert.Contains(t, stripEscapeCodes(m.View()), MessageNoInternet)
}

func TestQuakeList_AbsentAndEmptyShareMessage(t *testing.T) {
	absent := load(t, newTestModel(t, &recordingFetcher{}, true))
	empty := load(t, newTestModel(t, &recordingFetcher{quakes: []models.Earthquake{}}, true))

	assert.Equal(t, MessageNoEarthquakes, absent.EmptyMessage())
	assert.Equal(t, MessageNoEarthquakes, empty.EmptyMessage())
}

func TestQuakeList_StaleCycleIgnored(t *testing.T) {
	m := newTestModel(t, &recordingFetcher{quakes: sampleQuakes}, true)

	m, _ = update(t, m, quakesLoadedMsg{cycle: m.cycle + 5, result: loader.Result{Earthquakes: sampleQuakes}})
	assert.True(t, m.Loading())
	assert.Empty(t, m.Rows())

	m, cmd := update(t, m, connectivityMsg{cycle: m.cycle - 1, online: true})
	assert.Nil(t, cmd)
	assert.Nil(t, m.task)
}

func TestQuakeList_RefreshStartsNewCycle(t *testing.T) {
	fetcher := &recordingFetcher{quakes: sampleQuakes}
	m := load(t, newTestModel(t, fetcher, true))
	first := m.cycle

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	assert.Equal(t, first+1, m.cycle)
	assert.True(t, m.Loading())

	// A late delivery from the first cycle must not land
	m, _ = update(t, m, quakesLoadedMsg{cycle: first, result: loader.Result{Earthquakes: []models.Earthquake{}}})
	assert.Len(t, m.Rows(), 2)

	m = load(t, m)
	assert.False(t, m.Loading())
	assert.Equal(t, 2, fetcher.calls())
}

func TestQuakeList_NavigationAndOpen(t *testing.T) {
	var opened []string
	orig := openURL
	openURL = func(u string) error {
		opened = append(opened, u)
		return nil
	}
	t.Cleanup(func() { openURL = orig })

	m := load(t, newTestModel(t, &recordingFetcher{quakes: sampleQuakes}, true))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	row, ok := m.SelectedRow()
	require.True(t, ok)
	assert.Equal(t, "Pacific-Antarctic Ridge", row.Primary)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{sampleQuakes[1].URL}, opened)
	assert.Equal(t, "Opening usgs.gov…", m.StatusMsg)

	// Status expires on the next update once the clock has moved on
	m.Clock.(*clockwork.FakeClock).Advance(statusDuration + time.Second)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.False(t, m.HasStatus())
	row, _ = m.SelectedRow()
	assert.Equal(t, "Reno", row.Primary)
}

func TestQuakeList_SettingsAndQuitCancelTask(t *testing.T) {
	m := newTestModel(t, &recordingFetcher{quakes: sampleQuakes}, true)
	m, cmd := update(t, m, m.checkConnectivity()())
	require.NotNil(t, cmd)
	task := m.task
	require.NotNil(t, task)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	require.NotNil(t, cmd)
	assert.Equal(t, ActionSettings, m.action)
	assert.True(t, task.Cancelled())
	assert.Empty(t, m.View())

	m2 := newTestModel(t, &recordingFetcher{}, true)
	m2, _ = update(t, m2, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, ActionQuit, m2.action)
	assert.True(t, m2.Quitting)
}

func TestQuakeList_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	m := newTestModel(t, &recordingFetcher{quakes: sampleQuakes}, true)
	m.opts.ExportPath = path

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, "Nothing to export", m.StatusMsg)

	m = load(t, m)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, "Exported to "+path, m.StatusMsg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "| 4.5 | 10km SE of | Reno |")
}

func TestQuakeList_EndToEndOverHTTP(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"features":[
			{"properties":{"mag":6.2,"place":"120km W of Somewhere","time":1583020800000,"url":"https://earthquake.usgs.gov/x"}}
		]}`))
	}))
	defer srv.Close()

	m := NewQuakeListModel(QuakeListOptions{
		Loader:   loader.New(api.NewClient(5*time.Second, nil, nil), nil, nil),
		BaseURL:  srv.URL,
		Filter:   models.Filter{OrderBy: models.SortByMagnitude, MinMagnitude: "6", Limit: "1"},
		Location: time.UTC,
	})
	defer m.shutdown()

	m = load(t, m)

	assert.Equal(t, "format=geojson&limit=1&minmag=6&orderby=magnitude", gotQuery)
	require.Len(t, m.Rows(), 1)
	assert.Equal(t, "6.2", m.Rows()[0].Magnitude)
	assert.Equal(t, 6, m.Rows()[0].Bucket)
	assert.Equal(t, "120km W of", m.Rows()[0].Offset)
}

func TestQuakeList_NotFoundShowsNoEarthquakes(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	m := NewQuakeListModel(QuakeListOptions{
		Loader:  loader.New(api.NewClient(5*time.Second, nil, nil), nil, nil),
		BaseURL: srv.URL,
		Filter:  models.DefaultFilter(),
	})
	defer m.shutdown()

	m = load(t, m)
	assert.Equal(t, MessageNoEarthquakes, m.EmptyMessage())
	assert.True(t, strings.Contains(stripEscapeCodes(m.View()), MessageNoEarthquakes))
}

func TestQuakeList_TwoFeatureBodyOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"mag": 4.5, "place": "10km SE of Reno", "time": 1583020800000, "url": "https://earthquake.usgs.gov/earthquakes/eventpage/nn1"}},
    {"type": "Feature", "properties": {"mag": 2.1, "place": "Pacific-Antarctic Ridge", "time": 1583024400000, "url": "https://earthquake.usgs.gov/earthquakes/eventpage/us2"}}
  ]
}`))
	}))
	defer srv.Close()

	m := NewQuakeListModel(QuakeListOptions{
		Loader:   loader.New(api.NewClient(5*time.Second, nil, nil), nil, nil),
		BaseURL:  srv.URL,
		Filter:   models.DefaultFilter(),
		Clock:    clockwork.NewFakeClockAt(time.Date(2020, 3, 1, 3, 0, 0, 0, time.UTC)),
		Location: time.UTC,
	})
	defer m.shutdown()

	m = load(t, m)

	rows := m.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "4.5", rows[0].Magnitude)
	assert.Equal(t, "10km SE of", rows[0].Offset)
	assert.Equal(t, "Reno", rows[0].Primary)
	assert.Equal(t, "Mar 01, 2020", rows[0].Date)
	assert.Equal(t, "12:00 AM", rows[0].Time)
	assert.Equal(t, "3 hours ago", rows[0].Age)

	assert.Equal(t, "2.1", rows[1].Magnitude)
	assert.Equal(t, 2, rows[1].Bucket)
	assert.Equal(t, NearThe, rows[1].Offset)
	assert.Equal(t, "Pacific-Antarctic Ridge", rows[1].Primary)
	assert.Equal(t, "1:00 AM", rows[1].Time)
	assert.Empty(t, m.EmptyMessage())
}
