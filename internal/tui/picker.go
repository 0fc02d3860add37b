package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/ecoscope/internal/database/repository"
	"github.com/jask/ecoscope/internal/geo"
)

const pickerResults = 8

// PlaceSearcher is the gazetteer lookup behind the location picker.
type PlaceSearcher interface {
	Search(ctx context.Context, q string, limit int) ([]repository.Place, error)
}

// locationPicker is the "Change Location" modal. It resolves to a coordinate
// typed as lat,lon, a gazetteer place, or a geocoded address.
type locationPicker struct {
	input   textinput.Model
	places  []repository.Place
	cursor  int
	message string
}

func newLocationPicker(current *geo.Coordinate) *locationPicker {
	inp := textinput.New()
	inp.Placeholder = "lat, lon or place name"
	inp.Prompt = "> "
	inp.CharLimit = 120
	inp.Focus()
	p := &locationPicker{input: inp}
	if current != nil {
		p.message = "current: " + current.String()
	}
	return p
}

// pickedMsg closes the picker with a chosen coordinate.
type pickedMsg struct {
	coord geo.Coordinate
	label string
}

type pickerClosedMsg struct{}

func (a *App) openPicker() tea.Cmd {
	a.picker = newLocationPicker(a.coord)
	return tea.Batch(textinput.Blink, searchPlacesCmd(a.ctx, a.places, ""))
}

func (a *App) handlePickerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := a.picker
	switch m.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		return a, func() tea.Msg { return pickerClosedMsg{} }
	case "up":
		if p.cursor > 0 {
			p.cursor--
		}
		return a, nil
	case "down":
		if p.cursor < len(p.places)-1 {
			p.cursor++
		}
		return a, nil
	case "ctrl+g":
		addr := strings.TrimSpace(p.input.Value())
		if a.geocoder == nil {
			p.message = geo.ErrGeocoderDisabled.Error()
			return a, nil
		}
		if addr == "" {
			p.message = "type an address first"
			return a, nil
		}
		p.message = "looking up " + addr + "..."
		return a, geocodeCmd(a.ctx, a.geocoder, addr)
	case "enter":
		raw := strings.TrimSpace(p.input.Value())
		if c, err := geo.ParseCoordinate(raw); err == nil {
			return a, func() tea.Msg { return pickedMsg{coord: c, label: c.String()} }
		}
		if len(p.places) > 0 {
			pl := p.places[p.cursor]
			return a, func() tea.Msg { return pickedMsg{coord: pl.Coordinate(), label: pl.Label()} }
		}
		if raw == "" {
			p.message = "enter a coordinate or search for a place"
		} else {
			p.message = fmt.Sprintf("no place matches %q", raw)
		}
		return a, nil
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(m)
	if p.input.Value() != before {
		return a, tea.Batch(cmd, searchPlacesCmd(a.ctx, a.places, p.input.Value()))
	}
	return a, cmd
}

// applyPlaces ignores results for a query the user has already typed past.
func (p *locationPicker) applyPlaces(m placesMsg) {
	if strings.TrimSpace(m.query) != strings.TrimSpace(p.input.Value()) {
		return
	}
	p.places = m.places
	if p.cursor >= len(p.places) {
		p.cursor = 0
	}
}

func (a *App) renderPicker() string {
	p := a.picker
	var b strings.Builder
	b.WriteString(titleStyle.Render("Change Location") + "\n")
	b.WriteString(p.input.View() + "\n\n")
	if len(p.places) == 0 {
		b.WriteString(subtleStyle.Render("no matching places") + "\n")
	}
	for i, pl := range p.places {
		prefix := "  "
		line := fmt.Sprintf("%s  %s", pl.Label(), subtleStyle.Render(pl.Coordinate().String()))
		if i == p.cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(prefix + line + "\n")
	}
	if p.message != "" {
		b.WriteString("\n" + infoStyle.Render(p.message) + "\n")
	}
	help := "[enter] use  [↑/↓] move  [esc] cancel"
	if a.geocoder != nil {
		help = "[enter] use  [ctrl+g] geocode address  [↑/↓] move  [esc] cancel"
	}
	b.WriteString("\n" + subtleStyle.Render(help))
	return modalStyle.Render(b.String())
}
