package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jask/ecoscope/internal/database/repository"
	"github.com/jask/ecoscope/internal/geo"
	"github.com/jask/ecoscope/internal/workflow"
)

type statusMsg string

type errMsg struct{ error }

// locationMsg carries the Coordinate Source outcome.
type locationMsg struct{ res geo.Resolution }

// eventMsg is one provider event read from ch.
type eventMsg struct {
	ch <-chan workflow.Event
	ev workflow.Event
}

// eventsDoneMsg reports that the provider closed ch.
type eventsDoneMsg struct{ ch <-chan workflow.Event }

// paceMsg ends the continue-prompt delay for one submission.
type paceMsg struct{ id uuid.UUID }

type placesMsg struct {
	query  string
	places []repository.Place
}

type geocodeMsg struct {
	address string
	coord   geo.Coordinate
}

func resolveLocationCmd(ctx context.Context, src geo.Source) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		return locationMsg{res: src.Resolve(ctx)}
	}
}

// listenCmd reads a single event; the handler re-arms it until ch closes.
func listenCmd(ch <-chan workflow.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsDoneMsg{ch: ch}
		}
		return eventMsg{ch: ch, ev: ev}
	}
}

func paceCmd(id uuid.UUID, d time.Duration) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return paceMsg{id: id} }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return paceMsg{id: id} })
}

func searchPlacesCmd(ctx context.Context, places PlaceSearcher, q string) tea.Cmd {
	if places == nil {
		return nil
	}
	return func() tea.Msg {
		found, err := places.Search(ctx, q, pickerResults)
		if err != nil {
			return errMsg{err}
		}
		return placesMsg{query: q, places: found}
	}
}

func geocodeCmd(ctx context.Context, lookup geo.AddressLookup, address string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		coord, err := lookup.Lookup(ctx, address)
		if err != nil {
			return errMsg{err}
		}
		return geocodeMsg{address: address, coord: coord}
	}
}
