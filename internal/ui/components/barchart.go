package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/carescreen/internal/ui/theme"
)

// Bar is one labelled value of a BarChart.
type Bar struct {
	Label string
	Value float64
}

// BarChart displays labelled horizontal bars scaled to Max.
type BarChart struct {
	Title string
	Bars  []Bar
	Max   float64
	Width int
}

// NewBarChart creates a chart of width columns.
func NewBarChart(title string, bars []Bar, max float64, width int) BarChart {
	return BarChart{
		Title: title,
		Bars:  bars,
		Max:   max,
		Width: width,
	}
}

// View renders the chart, one bar per line.
func (c BarChart) View() string {
	labelWidth := 0
	for _, b := range c.Bars {
		if w := lipgloss.Width(b.Label); w > labelWidth {
			labelWidth = w
		}
	}

	valueWidth := 5 // "  1.0"
	barWidth := c.Width - labelWidth - valueWidth - 2
	if barWidth < 4 {
		barWidth = 4
	}

	var sb strings.Builder
	if c.Title != "" {
		sb.WriteString(theme.Heading.Render(c.Title))
		sb.WriteString("\n")
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.Text).Width(labelWidth)
	valueStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	for i, b := range c.Bars {
		filled := 0
		if c.Max > 0 {
			filled = int(float64(barWidth) * b.Value / c.Max)
		}
		if filled > barWidth {
			filled = barWidth
		}
		if filled < 0 {
			filled = 0
		}

		sb.WriteString(labelStyle.Render(b.Label))
		sb.WriteString("  ")
		sb.WriteString(theme.BarFilled.Render(strings.Repeat(" ", filled)))
		sb.WriteString(theme.BarEmpty.Render(strings.Repeat(" ", barWidth-filled)))
		sb.WriteString(valueStyle.Render(fmt.Sprintf("  %.1f", b.Value)))
		if i < len(c.Bars)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
