package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/ecoscope/internal/workflow"
)

func (a *App) View() string {
	var body string
	var keys help.KeyMap
	switch a.ctrl.Stage() {
	case workflow.StagePending:
		body = a.renderPending()
		keys = pendingKeys{a.keys}
	case workflow.StageAnalysis:
		body = a.renderAnalysis()
		keys = analysisKeys{a.keys}
	default:
		body = a.renderQuery()
		keys = queryKeys{a.keys}
	}
	if a.picker != nil {
		body += "\n\n" + a.renderPicker()
	}
	out := body + "\n\n" + a.help.View(keys)
	if a.status != "" {
		out += "\n" + statusBarText.Render(a.status)
	}
	return out
}

func (a *App) locationLine() string {
	switch {
	case a.coord == nil && a.locating:
		return subtleStyle.Render("Fetching location...")
	case a.coord == nil:
		return warnStyle.Render("No location yet. Press ctrl+l to choose one.")
	}
	line := "📍 " + a.coord.String()
	if a.coordLabel != "" && a.coordLabel != a.coord.String() {
		line += subtleStyle.Render("  (" + a.coordLabel + ")")
	}
	if a.usedDefault {
		line += warnStyle.Render("  default location")
	}
	return line
}

func (a *App) renderQuery() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("EcoScope") + "\n")
	b.WriteString(subtleStyle.Render("Environmental insights for where you are") + "\n\n")
	b.WriteString(a.locationLine() + "\n\n")
	b.WriteString(a.input.View() + "\n\n")
	if len(a.hints) > 0 {
		chips := make([]string, 0, len(a.hints))
		for i, h := range a.hints {
			if i == a.hintCursor {
				chips = append(chips, hintOnStyle.Render(h))
				continue
			}
			chips = append(chips, hintStyle.Render(h))
		}
		b.WriteString(wrapChips(chips, a.width))
	}
	return b.String()
}

// wrapChips lays rendered chips out in rows no wider than width.
func wrapChips(chips []string, width int) string {
	var rows []string
	var row []string
	rowWidth := 0
	for _, c := range chips {
		w := lipgloss.Width(c)
		if len(row) > 0 && rowWidth+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		row = append(row, c)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) renderPending() string {
	var b strings.Builder
	sub := a.ctrl.Submission()
	b.WriteString(titleStyle.Render("Initial Analysis") + "\n")
	if sub != nil {
		b.WriteString(subtleStyle.Render(fmt.Sprintf("%q at %s", sub.Text, sub.Coordinate)) + "\n")
	}
	b.WriteString("\n")

	initial := a.ctrl.Initial()
	if initial == nil {
		b.WriteString(a.spinner.View() + " Analyzing environmental data...\n")
	} else {
		b.WriteString(panelStyle.Width(panelWidth(a.width)).Render(textStyle.Render(initial.Narrative)) + "\n")
	}

	b.WriteString("\n")
	switch {
	case a.continueVisible():
		b.WriteString(successStyle.Render("Detailed analysis ready. Press enter to continue."))
	case a.ctrl.Full() == nil && initial != nil:
		b.WriteString(subtleStyle.Render("Preparing detailed analysis..."))
	}
	return b.String()
}

func (a *App) renderAnalysis() string {
	var b strings.Builder
	sub := a.ctrl.Submission()
	b.WriteString(titleStyle.Render("Analysis Results") + "\n")
	if sub != nil {
		b.WriteString(subtleStyle.Render("Query: ") + sub.Text + "\n")
		b.WriteString(subtleStyle.Render("Location: ") + sub.Coordinate.String() + "\n")
	}
	b.WriteString("\n" + renderTabs(a.ctrl.Facet()) + "\n\n")
	b.WriteString(RenderFacet(a.ctrl.Full(), a.ctrl.Facet(), panelWidth(a.width)))
	return b.String()
}

func renderTabs(active workflow.Facet) string {
	tabs := make([]string, 0, 3)
	for i, f := range workflow.Facets() {
		label := fmt.Sprintf("%d %s", i+1, f.Title())
		if f == active {
			tabs = append(tabs, tabOnStyle.Render(label))
			continue
		}
		tabs = append(tabs, tabStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// RenderFacet renders one facet of a full result at the given width.
func RenderFacet(full *workflow.FullResult, f workflow.Facet, width int) string {
	if full == nil {
		return subtleStyle.Render("no analysis available")
	}
	switch f {
	case workflow.FacetSummary:
		return panelStyle.Width(width).Render(textStyle.Render(full.Summary))
	case workflow.FacetSuggestions:
		var b strings.Builder
		for i, s := range full.Suggestions {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(fmt.Sprintf("%s %s", cursorStyle.Render(fmt.Sprintf("%d.", i+1)), s))
		}
		return panelStyle.Width(width).Render(b.String())
	default:
		return renderChart(full.Series, width)
	}
}

// RenderAnalysis is the non-interactive report: narrative, then every facet.
func RenderAnalysis(sub workflow.Submission, initial *workflow.InitialResult, full *workflow.FullResult, width int) string {
	width = panelWidth(width)
	var b strings.Builder
	b.WriteString(titleStyle.Render("Analysis Results") + "\n")
	b.WriteString(subtleStyle.Render("Query: ") + sub.Text + "\n")
	b.WriteString(subtleStyle.Render("Location: ") + sub.Coordinate.String() + "\n\n")
	if initial != nil {
		b.WriteString(titleStyle.Render("Initial Analysis") + "\n")
		b.WriteString(panelStyle.Width(width).Render(initial.Narrative) + "\n\n")
	}
	for _, f := range workflow.Facets() {
		b.WriteString(titleStyle.Render(f.Title()) + "\n")
		b.WriteString(RenderFacet(full, f, width) + "\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func panelWidth(termWidth int) int {
	w := termWidth - 4
	if w < minChartWidth {
		return minChartWidth
	}
	if w > 100 {
		return 100
	}
	return w
}
