package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset this client uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface0 lipgloss.Color = "#313244"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	subtleStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)
	textStyle     = lipgloss.NewStyle().Foreground(colorText)
	infoStyle     = lipgloss.NewStyle().Foreground(colorInfo)
	warnStyle     = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	successStyle  = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(colorMauve).Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface2)
	hintOnStyle   = hintStyle.BorderForeground(colorFocus).Foreground(colorFocus).Bold(true)
	tabStyle      = lipgloss.NewStyle().Foreground(colorOverlay1).Padding(0, 2)
	tabOnStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true).Padding(0, 2)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface2).Padding(0, 1)
	modalStyle    = panelStyle.BorderForeground(colorFocus)
	chartLine     = lipgloss.NewStyle().Foreground(colorPeach)
	chartAxis     = lipgloss.NewStyle().Foreground(colorSurface2)
	chartLabel    = lipgloss.NewStyle().Foreground(colorOverlay1)
	statusBarText = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0).Padding(0, 1)
)
