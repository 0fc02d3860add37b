package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"

	"github.com/jask/ecoscope/internal/workflow"
)

const (
	chartHeight   = 12
	minChartWidth = 24
)

// seriesEpoch anchors point i at seriesEpoch + i days on the time axis.
var seriesEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// renderChart draws the series as a braille line chart with a legend of the
// raw values underneath.
func renderChart(series []workflow.Point, width int) string {
	if len(series) == 0 {
		return subtleStyle.Render("no data points")
	}
	if width < minChartWidth {
		width = minChartWidth
	}

	maxVal := 0.0
	for _, p := range series {
		maxVal = math.Max(maxVal, p.Value)
	}
	if maxVal <= 0 {
		maxVal = 1
	}
	yMax := niceCeil(maxVal)

	start := seriesEpoch
	end := pointTime(len(series) - 1)
	if len(series) == 1 {
		end = pointTime(1)
	}

	chart := tslc.New(width, chartHeight)
	chart.SetXStep(1)
	chart.SetYStep(2)
	chart.SetStyle(chartLine)
	chart.AxisStyle = chartAxis
	chart.LabelStyle = chartLabel
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(0, yMax)
	chart.SetViewYRange(0, yMax)
	chart.Model.XLabelFormatter = pointLabelFormatter(series)
	chart.Model.YLabelFormatter = func(_ int, v float64) string { return formatValue(v) }

	for i, p := range series {
		chart.Push(tslc.TimePoint{Time: pointTime(i), Value: p.Value})
	}
	chart.DrawBraille()

	return chart.View() + "\n" + legend(series)
}

func pointTime(i int) time.Time { return seriesEpoch.AddDate(0, 0, i) }

// pointLabelFormatter labels only the columns that land on a data point.
func pointLabelFormatter(series []workflow.Point) linechart.LabelFormatter {
	return func(_ int, v float64) string {
		days := time.Unix(int64(v), 0).UTC().Sub(seriesEpoch).Hours() / 24
		i := int(math.Round(days))
		if i < 0 || i >= len(series) || math.Abs(days-float64(i)) > 0.25 {
			return ""
		}
		return series[i].Label
	}
}

func legend(series []workflow.Point) string {
	parts := make([]string, 0, len(series))
	for _, p := range series {
		parts = append(parts, fmt.Sprintf("%s %s", p.Label, formatValue(p.Value)))
	}
	return chartLabel.Render(strings.Join(parts, "  ·  "))
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func niceCeil(v float64) float64 {
	pow := math.Pow(10, math.Floor(math.Log10(v)))
	f := v / pow
	switch {
	case f <= 1:
		return pow
	case f <= 2:
		return 2 * pow
	case f <= 5:
		return 5 * pow
	default:
		return 10 * pow
	}
}
