package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Submit   key.Binding
	Hint     key.Binding
	Location key.Binding
	Continue key.Binding
	Restart  key.Binding
	Back     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Chart    key.Binding
	Summary  key.Binding
	Suggest  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "analyze")),
		Hint:     key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "suggested queries")),
		Location: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "change location")),
		Continue: key.NewBinding(key.WithKeys("enter", "c"), key.WithHelp("enter", "continue")),
		Restart:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new query")),
		Back:     key.NewBinding(key.WithKeys("b", "esc"), key.WithHelp("b", "back")),
		NextTab:  key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next view")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev view")),
		Chart:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "chart")),
		Summary:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "summary")),
		Suggest:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "suggestions")),
	}
}

// queryKeys is the help shown while the text input has focus; q types a letter there.
type queryKeys struct{ keyMap }

func (k queryKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Hint, k.Location, quitCtrlC}
}

func (k queryKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

type pendingKeys struct{ keyMap }

func (k pendingKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Continue, k.Restart, k.Quit}
}

func (k pendingKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

type analysisKeys struct{ keyMap }

func (k analysisKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevTab, k.Back, k.Restart, k.Quit}
}

func (k analysisKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Chart, k.Summary, k.Suggest}}
}

var quitCtrlC = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
