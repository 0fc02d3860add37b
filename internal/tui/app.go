// Package tui is the terminal client: a query screen with a location picker,
// a pending screen and the analysis screen, all driven by one workflow.Controller.
package tui

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/ecoscope/internal/geo"
	"github.com/jask/ecoscope/internal/workflow"
)

// Options are the App's collaborators. Nil Places or Geocoder disable the
// matching picker features.
type Options struct {
	Source        geo.Source
	Places        PlaceSearcher
	Geocoder      geo.AddressLookup
	Hints         []string
	ContinueDelay time.Duration
}

// App ties together the screens.
type App struct {
	ctx      context.Context
	ctrl     *workflow.Controller
	source   geo.Source
	places   PlaceSearcher
	geocoder geo.AddressLookup
	keys     keyMap

	input   textinput.Model
	spinner spinner.Model
	help    help.Model

	hints      []string
	hintCursor int // -1 when no hint is highlighted

	coord       *geo.Coordinate
	coordLabel  string
	locating    bool
	manualPick  bool
	usedDefault bool

	events        <-chan workflow.Event
	continueDelay time.Duration
	paced         bool

	picker *locationPicker
	status string
	width  int
	height int
}

func New(ctx context.Context, provider workflow.Provider, opts Options) *App {
	inp := textinput.New()
	inp.Placeholder = "Ask about your environment... e.g. rainfall trend in the past month"
	inp.Prompt = "❯ "
	inp.CharLimit = 280
	inp.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = infoStyle

	return &App{
		ctx:           ctx,
		ctrl:          workflow.NewController(provider),
		source:        opts.Source,
		places:        opts.Places,
		geocoder:      opts.Geocoder,
		keys:          newKeyMap(),
		input:         inp,
		spinner:       sp,
		help:          help.New(),
		hints:         opts.Hints,
		hintCursor:    -1,
		locating:      opts.Source != nil,
		continueDelay: opts.ContinueDelay,
		width:         80,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, resolveLocationCmd(a.ctx, a.source))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		return a, nil
	case tea.KeyMsg:
		if a.picker != nil {
			return a.handlePickerKey(m)
		}
		switch a.ctrl.Stage() {
		case workflow.StagePending:
			return a.handlePendingKey(m)
		case workflow.StageAnalysis:
			return a.handleAnalysisKey(m)
		default:
			return a.handleQueryKey(m)
		}
	case locationMsg:
		a.locating = false
		if a.manualPick {
			log.Printf("tui: ignoring sensed location %s after manual pick", m.res.Coordinate)
			return a, nil
		}
		c := m.res.Coordinate
		a.coord = &c
		a.coordLabel = ""
		a.usedDefault = m.res.Fallback
		return a, nil
	case eventMsg:
		return a, a.applyEvent(m)
	case eventsDoneMsg:
		if m.ch == a.events {
			a.events = nil
		}
		return a, nil
	case paceMsg:
		if sub := a.ctrl.Submission(); sub != nil && sub.ID == m.id {
			a.paced = true
		}
		return a, nil
	case spinner.TickMsg:
		if a.ctrl.Stage() != workflow.StagePending || a.ctrl.Initial() != nil {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case placesMsg:
		if a.picker != nil {
			a.picker.applyPlaces(m)
		}
		return a, nil
	case geocodeMsg:
		if a.picker != nil {
			label := m.address
			return a, func() tea.Msg { return pickedMsg{coord: m.coord, label: label} }
		}
		return a, nil
	case pickedMsg:
		c := m.coord
		a.coord = &c
		a.coordLabel = m.label
		a.manualPick = true
		a.usedDefault = false
		a.picker = nil
		a.status = "location set to " + c.String()
		return a, a.input.Focus()
	case pickerClosedMsg:
		a.picker = nil
		return a, a.input.Focus()
	case statusMsg:
		a.status = string(m)
		return a, nil
	case errMsg:
		if a.picker != nil {
			a.picker.message = "error: " + m.Error()
			return a, nil
		}
		a.status = "error: " + m.Error()
		return a, nil
	}

	if a.picker != nil {
		var cmd tea.Cmd
		a.picker.input, cmd = a.picker.input.Update(msg)
		return a, cmd
	}
	if a.ctrl.Stage() == workflow.StageQuery {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleQueryKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.String() == "ctrl+c" || m.String() == "esc":
		return a, tea.Quit
	case key.Matches(m, a.keys.Location):
		a.input.Blur()
		return a, a.openPicker()
	case key.Matches(m, a.keys.Submit):
		return a, a.submit()
	case m.String() == "up":
		a.cycleHint(-1)
		return a, nil
	case m.String() == "down":
		a.cycleHint(1)
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	return a, cmd
}

func (a *App) handlePendingKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Continue):
		if !a.ctrl.Continue() {
			a.status = "analysis still running"
			return a, nil
		}
		a.status = ""
	case key.Matches(m, a.keys.Restart):
		return a, a.restart()
	}
	return a, nil
}

func (a *App) handleAnalysisKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Back):
		a.ctrl.Back()
	case key.Matches(m, a.keys.Restart):
		return a, a.restart()
	case key.Matches(m, a.keys.NextTab):
		a.ctrl.Select(a.ctrl.Facet().Next())
	case key.Matches(m, a.keys.PrevTab):
		a.ctrl.Select(a.ctrl.Facet().Prev())
	case key.Matches(m, a.keys.Chart):
		a.ctrl.Select(workflow.FacetChart)
	case key.Matches(m, a.keys.Summary):
		a.ctrl.Select(workflow.FacetSummary)
	case key.Matches(m, a.keys.Suggest):
		a.ctrl.Select(workflow.FacetSuggestions)
	}
	return a, nil
}

func (a *App) submit() tea.Cmd {
	_, ch, err := a.ctrl.Submit(a.ctx, a.input.Value(), a.coord)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrInvalidSubmission) && a.coord == nil:
			a.status = "waiting for a location; press ctrl+l to set one"
		case errors.Is(err, workflow.ErrInvalidSubmission):
			a.status = "type a question first"
		default:
			a.status = "error: " + err.Error()
		}
		return nil
	}
	a.status = ""
	a.events = ch
	a.paced = false
	a.input.Blur()
	return tea.Batch(listenCmd(ch), a.spinner.Tick)
}

func (a *App) restart() tea.Cmd {
	a.ctrl.Restart()
	a.events = nil
	a.paced = false
	a.status = ""
	a.input.Reset()
	a.hintCursor = -1
	return a.input.Focus()
}

// applyEvent hands the event to the controller and keeps listening on its
// channel until it closes. Events from an abandoned channel are drained and dropped.
func (a *App) applyEvent(m eventMsg) tea.Cmd {
	next := listenCmd(m.ch)
	if !a.ctrl.Apply(m.ev) {
		log.Printf("tui: dropped stale %T for submission %s", m.ev, m.ev.SubmissionID())
		return next
	}
	if _, ok := m.ev.(workflow.InitialEvent); ok {
		return tea.Batch(next, paceCmd(m.ev.SubmissionID(), a.continueDelay))
	}
	return next
}

func (a *App) cycleHint(step int) {
	if len(a.hints) == 0 {
		return
	}
	n := len(a.hints)
	switch {
	case a.hintCursor < 0 && step > 0:
		a.hintCursor = 0
	case a.hintCursor < 0:
		a.hintCursor = n - 1
	default:
		a.hintCursor = (a.hintCursor + step + n) % n
	}
	a.input.SetValue(a.hints[a.hintCursor])
	a.input.CursorEnd()
}

// continueVisible is when the pending screen offers Continue: the guard holds,
// and the narrative (if any) has been on screen for the pacing delay.
func (a *App) continueVisible() bool {
	if !a.ctrl.CanContinue() {
		return false
	}
	return a.paced || a.ctrl.Initial() == nil
}

// Controller exposes the stage machine for callers embedding the App.
func (a *App) Controller() *workflow.Controller { return a.ctrl }
