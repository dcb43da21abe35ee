// Package raster draws a laid out chart as a PNG image, without a browser.
package raster

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/Quartz/county-wages/internal/pkg/layout"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Colors of the published graphic.
var (
	colorLine  = drawing.ColorFromHex("bbbbbb")
	colorGrid  = drawing.ColorFromHex("e4e4e4")
	colorAxis  = drawing.ColorFromHex("999999")
	colorYears = [2]drawing.Color{
		drawing.ColorFromHex("9fb4c7"),
		drawing.ColorFromHex("d9534f"),
	}
)

const (
	lineWidth = 2
	fontSize  = 9
)

// Renderer draws a [layout.Scene] as a PNG image.
type Renderer struct{}

// New builds a PNG [Renderer].
func New() *Renderer {
	return &Renderer{}
}

// ContentType of the drawing.
func (r *Renderer) ContentType() string {
	return "image/png"
}

// Draw the scene as a PNG image.
//
// The image has the size of the scene. Rows are laid out from the top, so vertical positions are flipped
// onto the upward y axis of the plot.
func (r *Renderer) Draw(w io.Writer, scene layout.Scene) error {
	ch := Chart(scene)

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("drawing image: %w", err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}

	return nil
}

// Chart converts a [layout.Scene] into a go-chart [chart.Chart], one series per row.
func Chart(scene layout.Scene) chart.Chart {
	height := scene.Axis.Y
	flip := func(y float64) float64 { return height - y }

	xTicks := make([]chart.Tick, 0, len(scene.Axis.Ticks))
	for _, tick := range scene.Axis.Ticks {
		xTicks = append(xTicks, chart.Tick{Value: tick.X, Label: tick.Label})
	}

	grid := make([]chart.GridLine, 0, len(scene.Grid))
	for _, line := range scene.Grid {
		grid = append(grid, chart.GridLine{Value: line.X})
	}

	yTicks := make([]chart.Tick, 0, len(scene.Labels))
	for _, label := range scene.Labels {
		yTicks = append(yTicks, chart.Tick{Value: flip(label.DY), Label: label.Text})
	}

	radius := 0.0
	if len(scene.Dots) > 0 && len(scene.Dots[0].Dots) > 0 {
		radius = scene.Dots[0].Dots[0].R
	}

	series := make([]chart.Series, 0, len(scene.Lines))
	for _, line := range scene.Lines {
		series = append(series, chart.ContinuousSeries{
			Name:    line.Area,
			XValues: []float64{line.X1, line.X2},
			YValues: []float64{flip(line.Y), flip(line.Y)},
			Style: chart.Style{
				StrokeWidth:      lineWidth,
				StrokeColor:      colorLine,
				DotWidth:         radius,
				DotColorProvider: yearColor,
			},
		})
	}

	return chart.Chart{
		Width:  int(math.Ceil(scene.Width)),
		Height: int(math.Ceil(scene.Height)),
		Background: chart.Style{
			Padding: chart.Box{
				Top:    int(scene.Margins.Top),
				Left:   int(scene.Margins.Left + scene.BodyOffset),
				Right:  int(scene.Margins.Right),
				Bottom: int(scene.Margins.Bottom),
			},
		},
		XAxis: chart.XAxis{
			Style: chart.Style{
				StrokeColor: colorAxis,
				FontSize:    fontSize,
			},
			Range:          &chart.ContinuousRange{Min: 0, Max: scene.Axis.Width},
			Ticks:          xTicks,
			GridLines:      grid,
			GridMajorStyle: chart.Style{StrokeColor: colorGrid, StrokeWidth: 1},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				StrokeColor: colorAxis,
				FontSize:    fontSize,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: height},
			Ticks: yTicks,
		},
		Series: series,
	}
}

// yearColor colors the first point of a row as 1990 and the second as 2015.
func yearColor(_, _ chart.Range, index int, _, _ float64) drawing.Color {
	if index > 0 {
		return colorYears[1]
	}

	return colorYears[0]
}
