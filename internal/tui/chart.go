package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/blackwell-systems/libcat/internal/analytics"
)

// Bar is one labelled value in a bar chart.
type Bar struct {
	Label string
	Value float64
}

const (
	maxLabelWidth = 24
	minChartWidth = 30
	barRune       = "█"
)

// RenderBarChart draws a horizontal bar chart no wider than width columns.
// Bars scale to the largest value; negative values draw as empty bars.
func RenderBarChart(title string, bars []Bar, width int) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleHeader.Render(title))
		sb.WriteString("\n")
	}
	if len(bars) == 0 {
		sb.WriteString(StyleHelp.Render("  (no data)"))
		sb.WriteString("\n")
		return sb.String()
	}

	width = max(width, minChartWidth)
	labelWidth := 0
	valueWidth := 0
	maxValue := 0.0
	values := make([]string, len(bars))
	for i, b := range bars {
		labelWidth = max(labelWidth, xansi.StringWidth(b.Label))
		values[i] = formatValue(b.Value)
		valueWidth = max(valueWidth, len(values[i]))
		maxValue = math.Max(maxValue, b.Value)
	}
	labelWidth = min(labelWidth, maxLabelWidth)
	barSpace := max(width-labelWidth-valueWidth-4, 1)

	labelStyle := lipgloss.NewStyle().Width(labelWidth)
	for i, b := range bars {
		n := 0
		if maxValue > 0 && b.Value > 0 {
			n = int(math.Round(b.Value / maxValue * float64(barSpace)))
			n = max(n, 1)
		}
		label := labelStyle.Render(xansi.Truncate(b.Label, labelWidth, "…"))
		bar := StyleBar.Render(strings.Repeat(barRune, n))
		pad := strings.Repeat(" ", barSpace-n)
		fmt.Fprintf(&sb, "  %s %s%s %*s\n", label, bar, pad, valueWidth, values[i])
	}
	return sb.String()
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Chart kinds accepted by ChartBars.
const (
	ChartGenres       = "genres"
	ChartYears        = "years"
	ChartAvailability = "availability"
	ChartRatings      = "ratings"
)

// ChartKinds lists the supported chart kinds.
func ChartKinds() []string {
	return []string{ChartGenres, ChartYears, ChartAvailability, ChartRatings}
}

// ChartBars turns an analytics summary into a titled bar series.
func ChartBars(kind string, s analytics.Summary) (string, []Bar, error) {
	switch kind {
	case ChartGenres:
		bars := make([]Bar, len(s.Genres))
		for i, g := range s.Genres {
			bars[i] = Bar{Label: g.Genre, Value: float64(g.Count)}
		}
		return "Books per genre", bars, nil
	case ChartYears:
		bars := make([]Bar, len(s.Years))
		for i, y := range s.Years {
			bars[i] = Bar{Label: strconv.Itoa(y.Year), Value: float64(y.Count)}
		}
		return "Books released per year", bars, nil
	case ChartAvailability:
		return "Availability", []Bar{
			{Label: analytics.LabelAvailable, Value: float64(s.Available)},
			{Label: analytics.LabelCheckedOut, Value: float64(s.CheckedOut)},
		}, nil
	case ChartRatings:
		bars := make([]Bar, len(s.WeightedRating))
		for i, g := range s.WeightedRating {
			bars[i] = Bar{Label: g.Genre, Value: g.Value}
		}
		return "Weighted rating per genre", bars, nil
	}
	return "", nil, fmt.Errorf("unknown chart %q (want one of %s)", kind, strings.Join(ChartKinds(), ", "))
}
