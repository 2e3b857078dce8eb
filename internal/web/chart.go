package web

import "github.com/abhisek/carescreen/internal/questionnaire"

// Horizontal bar chart geometry, in SVG user units.
const (
	chartLabelWidth = 210
	chartBarWidth   = 300
	chartRowHeight  = 26
	chartBarHeight  = 18
	chartPadding    = 8
)

type chartBar struct {
	Label  string
	Value  float64
	Y      int // top of the row
	TextY  int
	Width  int
	Height int
}

// barChart is the (key, 0/1) chart of the results page.
type barChart struct {
	Title   string
	Width   int
	Height  int
	BarX    int
	TickX   int // x of the "1" gridline
	Bars    []chartBar
	AxisMax float64
}

func newBarChart(title string, f questionnaire.Features) barChart {
	keys := questionnaire.Keys()
	c := barChart{
		Title:   title,
		Width:   chartLabelWidth + chartBarWidth + 2*chartPadding,
		Height:  len(keys)*chartRowHeight + 2*chartPadding,
		BarX:    chartLabelWidth + chartPadding,
		TickX:   chartLabelWidth + chartPadding + chartBarWidth,
		AxisMax: 1,
	}
	for i, k := range keys {
		y := chartPadding + i*chartRowHeight
		c.Bars = append(c.Bars, chartBar{
			Label:  string(k),
			Value:  f[i],
			Y:      y + (chartRowHeight-chartBarHeight)/2,
			TextY:  y + chartRowHeight/2 + 4,
			Width:  int(f[i] * chartBarWidth),
			Height: chartBarHeight,
		})
	}
	return c
}
