package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/ecoscope/internal/analysis"
	"github.com/jask/ecoscope/internal/database/repository"
	"github.com/jask/ecoscope/internal/geo"
	"github.com/jask/ecoscope/internal/workflow"
)

type manualProvider struct {
	runs []chan workflow.Event
	subs []workflow.Submission
}

func (p *manualProvider) Start(_ context.Context, sub workflow.Submission) <-chan workflow.Event {
	ch := make(chan workflow.Event, 2)
	p.runs = append(p.runs, ch)
	p.subs = append(p.subs, sub)
	return ch
}

type fixedSource struct{ res geo.Resolution }

func (s fixedSource) Resolve(context.Context) geo.Resolution { return s.res }

type memPlaces []repository.Place

func (m memPlaces) Search(_ context.Context, q string, limit int) ([]repository.Place, error) {
	var out []repository.Place
	for _, p := range m {
		if q == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubLookup struct {
	coord geo.Coordinate
	err   error
}

func (s stubLookup) Lookup(context.Context, string) (geo.Coordinate, error) { return s.coord, s.err }

var hints = []string{"Rainfall trend in past month", "NDVI analysis for vegetation", "Air quality index trends"}

func flowKey(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// flowApplyMsg updates the app and returns the resulting command undrained;
// spinner and blink commands tick forever.
func flowApplyMsg(t *testing.T, a *App, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := a.Update(msg)
	require.Same(t, a, next)
	return cmd
}

func flowPress(t *testing.T, a *App, k string) tea.Cmd {
	t.Helper()
	return flowApplyMsg(t, a, flowKey(k))
}

func flowType(t *testing.T, a *App, input string) {
	t.Helper()
	for _, r := range input {
		flowPress(t, a, string(r))
	}
}

func newFlowApp(t *testing.T, opts Options) (*App, *manualProvider) {
	t.Helper()
	p := &manualProvider{}
	if opts.Hints == nil {
		opts.Hints = hints
	}
	a := New(context.Background(), p, opts)
	a.width = 100
	return a, p
}

func locate(t *testing.T, a *App, c geo.Coordinate, fallback bool) {
	t.Helper()
	flowApplyMsg(t, a, locationMsg{res: geo.Resolution{Coordinate: c, Fallback: fallback}})
}

func deliver(t *testing.T, a *App, ch chan workflow.Event, ev workflow.Event) tea.Cmd {
	t.Helper()
	ch <- ev
	return flowApplyMsg(t, a, listenCmd(ch)())
}

var london = geo.Coordinate{Latitude: 51.505, Longitude: -0.09}

func TestQueryScreenShowsFetchingThenLocation(t *testing.T) {
	t.Parallel()
	a, _ := newFlowApp(t, Options{Source: fixedSource{}})

	require.Contains(t, a.View(), "Fetching location...")
	locate(t, a, london, true)
	view := a.View()
	require.Contains(t, view, "51.5050, -0.0900")
	require.Contains(t, view, "default location")
}

func TestInitResolvesLocation(t *testing.T) {
	t.Parallel()
	a, _ := newFlowApp(t, Options{Source: fixedSource{res: geo.Resolution{Coordinate: london}}})

	msg := resolveLocationCmd(a.ctx, a.source)()
	flowApplyMsg(t, a, msg)
	require.Equal(t, london, *a.coord)
	require.False(t, a.usedDefault)
}

func TestHintsFillInput(t *testing.T) {
	t.Parallel()
	a, _ := newFlowApp(t, Options{})

	flowPress(t, a, "down")
	require.Equal(t, hints[0], a.input.Value())
	flowPress(t, a, "down")
	require.Equal(t, hints[1], a.input.Value())
	flowPress(t, a, "up")
	flowPress(t, a, "up")
	require.Equal(t, hints[2], a.input.Value(), "hints wrap around")
}

func TestSubmitWithoutLocationStaysOnQuery(t *testing.T) {
	t.Parallel()
	a, p := newFlowApp(t, Options{})

	flowType(t, a, "Rainfall trend")
	require.Nil(t, flowPress(t, a, "enter"))
	require.Equal(t, workflow.StageQuery, a.ctrl.Stage())
	require.Empty(t, p.runs)
	require.Contains(t, a.status, "waiting for a location")
}

func TestSubmitBlankStaysOnQuery(t *testing.T) {
	t.Parallel()
	a, p := newFlowApp(t, Options{})
	locate(t, a, london, false)

	flowType(t, a, "   ")
	flowPress(t, a, "enter")
	require.Equal(t, workflow.StageQuery, a.ctrl.Stage())
	require.Empty(t, p.runs)
}

func TestFullFlowThroughAnalysis(t *testing.T) {
	t.Parallel()
	a, p := newFlowApp(t, Options{})
	locate(t, a, london, false)

	flowType(t, a, "Rainfall trend")
	require.NotNil(t, flowPress(t, a, "enter"))
	require.Equal(t, workflow.StagePending, a.ctrl.Stage())
	require.Len(t, p.runs, 1)
	require.Equal(t, "Rainfall trend", p.subs[0].Text)
	require.Contains(t, a.View(), "Analyzing environmental data...")

	// continue refused before the full result
	flowPress(t, a, "enter")
	require.Equal(t, workflow.StagePending, a.ctrl.Stage())

	sub := p.subs[0]
	deliver(t, a, p.runs[0], workflow.InitialEvent{Submission: sub.ID, Result: analysis.Initial(sub)})
	require.Contains(t, a.View(), "Initial analysis indicates")
	require.NotContains(t, a.View(), "Press enter to continue")

	deliver(t, a, p.runs[0], workflow.FullEvent{Submission: sub.ID, Result: analysis.Full(sub)})
	require.NotContains(t, a.View(), "Press enter to continue", "prompt waits for pacing")
	flowApplyMsg(t, a, paceMsg{id: sub.ID})
	require.Contains(t, a.View(), "Press enter to continue")

	flowPress(t, a, "enter")
	require.Equal(t, workflow.StageAnalysis, a.ctrl.Stage())
	require.Equal(t, workflow.FacetChart, a.ctrl.Facet())
	view := a.View()
	require.Contains(t, view, "Query: Rainfall trend")
	require.Contains(t, view, "Jan 400")

	flowPress(t, a, "tab")
	require.Equal(t, workflow.FacetSummary, a.ctrl.Facet())
	require.Contains(t, a.View(), "sustainability metrics")
	flowPress(t, a, "3")
	require.Equal(t, workflow.FacetSuggestions, a.ctrl.Facet())
	require.Contains(t, a.View(), "water conservation")
	flowPress(t, a, "shift+tab")
	require.Equal(t, workflow.FacetSummary, a.ctrl.Facet())

	flowPress(t, a, "b")
	require.Equal(t, workflow.StagePending, a.ctrl.Stage())
	flowPress(t, a, "enter")
	require.Equal(t, workflow.FacetChart, a.ctrl.Facet(), "re-entering analysis focuses the chart")
	require.Len(t, p.runs, 1)
}

func TestFullBeforeInitialShowsPromptImmediately(t *testing.T) {
	t.Parallel()
	a, p := newFlowApp(t, Options{})
	locate(t, a, london, false)
	flowType(t, a, "Soil moisture")
	flowPress(t, a, "enter")

	sub := p.subs[0]
	deliver(t, a, p.runs[0], workflow.FullEvent{Submission: sub.ID, Result: analysis.Full(sub)})
	require.Contains(t, a.View(), "Press enter to continue")
	flowPress(t, a, "c")
	require.Equal(t, workflow.StageAnalysis, a.ctrl.Stage())
}

func TestRestartDropsStaleEvents(t *testing.T) {
	t.Parallel()
	a, p := newFlowApp(t, Options{})
	locate(t, a, london, false)
	flowType(t, a, "first")
	flowPress(t, a, "enter")
	first := p.subs[0]

	flowPress(t, a, "n")
	require.Equal(t, workflow.StageQuery, a.ctrl.Stage())
	require.Empty(t, a.input.Value())

	flowType(t, a, "second")
	flowPress(t, a, "enter")
	require.Len(t, p.runs, 2)

	deliver(t, a, p.runs[0], workflow.InitialEvent{Submission: first.ID, Result: workflow.InitialResult{Narrative: "stale narrative"}})
	require.Nil(t, a.ctrl.Initial())
	require.NotContains(t, a.View(), "stale narrative")

	flowApplyMsg(t, a, paceMsg{id: first.ID})
	require.False(t, a.paced, "pacing for an abandoned submission is ignored")
}

func TestPickerParsesCoordinate(t *testing.T) {
	t.Parallel()
	a, _ := newFlowApp(t, Options{})
	locate(t, a, london, true)

	flowPress(t, a, "ctrl+l")
	require.NotNil(t, a.picker)
	require.Contains(t, a.View(), "Change Location")

	flowType(t, a, "48.8566, 2.3522")
	cmd := flowPress(t, a, "enter")
	require.NotNil(t, cmd)
	flowApplyMsg(t, a, cmd())
	require.Nil(t, a.picker)
	require.Equal(t, geo.Coordinate{Latitude: 48.8566, Longitude: 2.3522}, *a.coord)
	require.Equal(t, workflow.StageQuery, a.ctrl.Stage())

	// a late sensor result does not overwrite the manual pick
	locate(t, a, london, false)
	require.Equal(t, 48.8566, a.coord.Latitude)
}

func TestPickerSearchesPlaces(t *testing.T) {
	t.Parallel()
	places := memPlaces{
		{Name: "London", Region: "United Kingdom", Latitude: 51.505, Longitude: -0.09},
		{Name: "Lima", Region: "Peru", Latitude: -12.0464, Longitude: -77.0428},
	}
	a, _ := newFlowApp(t, Options{Places: places})

	flowPress(t, a, "ctrl+l")
	flowApplyMsg(t, a, placesMsg{query: "", places: places})
	require.Len(t, a.picker.places, 2)

	flowType(t, a, "li")
	found, err := places.Search(context.Background(), "li", pickerResults)
	require.NoError(t, err)
	flowApplyMsg(t, a, placesMsg{query: "l", places: places}) // outdated query
	require.Len(t, a.picker.places, 2)
	flowApplyMsg(t, a, placesMsg{query: "li", places: found})
	require.Len(t, a.picker.places, 1)

	cmd := flowPress(t, a, "enter")
	flowApplyMsg(t, a, cmd())
	require.Equal(t, -12.0464, a.coord.Latitude)
	require.Contains(t, a.View(), "Lima, Peru")
}

func TestPickerGeocodes(t *testing.T) {
	t.Parallel()
	a, _ := newFlowApp(t, Options{Geocoder: stubLookup{coord: geo.Coordinate{Latitude: 40.7128, Longitude: -74.006}}})

	flowPress(t, a, "ctrl+l")
	flowType(t, a, "New York")
	cmd := flowPress(t, a, "ctrl+g")
	require.NotNil(t, cmd)
	next := flowApplyMsg(t, a, cmd())
	flowApplyMsg(t, a, next())
	require.Nil(t, a.picker)
	require.Equal(t, 40.7128, a.coord.Latitude)
}

func TestPickerGeocodeErrors(t *testing.T) {
	t.Parallel()
	a, _ := newFlowApp(t, Options{})
	flowPress(t, a, "ctrl+l")
	flowType(t, a, "Somewhere")
	require.Nil(t, flowPress(t, a, "ctrl+g"))
	require.Contains(t, a.picker.message, "disabled")

	b, _ := newFlowApp(t, Options{Geocoder: stubLookup{err: errors.New("quota exceeded")}})
	flowPress(t, b, "ctrl+l")
	flowType(t, b, "Somewhere")
	flowApplyMsg(t, b, flowPress(t, b, "ctrl+g")())
	require.NotNil(t, b.picker)
	require.Contains(t, b.picker.message, "quota exceeded")

	flowApplyMsg(t, b, flowPress(t, b, "esc")())
	require.Nil(t, b.picker)
}

func TestRenderAnalysisReport(t *testing.T) {
	t.Parallel()
	sub, err := workflow.NewSubmission("Rainfall trend", &london)
	require.NoError(t, err)
	initial := analysis.Initial(sub)

	out := RenderAnalysis(sub, &initial, analysis.Full(sub), 80)
	for _, want := range []string{"Rainfall trend", "51.5050, -0.0900", "Initial Analysis", "Chart", "Summary", "Suggestions", "Apr 800", "green spaces"} {
		require.Contains(t, out, want)
	}
}

func TestPointLabelFormatter(t *testing.T) {
	t.Parallel()
	series := []workflow.Point{{Label: "Jan", Value: 1}, {Label: "Feb", Value: 2}}
	f := pointLabelFormatter(series)

	require.Equal(t, "Jan", f(0, float64(pointTime(0).Unix())))
	require.Equal(t, "Feb", f(0, float64(pointTime(1).Unix())))
	require.Empty(t, f(0, float64(pointTime(0).Add(12*3600e9).Unix())))
	require.Empty(t, f(0, float64(pointTime(5).Unix())))
}
