package layout

import (
	"errors"
	"fmt"

	"github.com/Quartz/county-wages/internal/pkg/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to render")

// Years of the two marker layers, in drawing order.
var Years = [2]string{"1990", "2015"}

// Scene is the complete set of positioned shapes for one rendering of the chart.
//
// Coordinates of the axis, grid, lines and dots are relative to the plot body, which sits at
// (Margins.Left + BodyOffset, Margins.Top) in the graphic. Labels are relative to (Margins.Left, Margins.Top).
type Scene struct {
	Width      float64
	Height     float64
	Margins    Margins
	BodyOffset float64
	IsMobile   bool
	Base       model.LineBase

	Axis   Axis
	Grid   []GridLine
	Lines  []Segment
	Dots   []DotLayer
	Labels []Label
}

// Axis is the horizontal value axis drawn at the bottom of the plot.
type Axis struct {
	Y     float64
	Width float64
	Ticks []Tick
}

// Tick is a labeled position on the [Axis].
type Tick struct {
	X     float64
	Value float64
	Label string
}

// GridLine is an unlabeled vertical line spanning the plot height.
type GridLine struct {
	X      float64
	Top    float64
	Bottom float64
}

// Segment is the horizontal line connecting the two markers of a row.
type Segment struct {
	Area string
	X1   float64
	X2   float64
	Y    float64
}

// DotLayer holds the markers of one year.
type DotLayer struct {
	Year string
	Dots []Dot
}

// Dot is a round marker.
type Dot struct {
	Area string
	CX   float64
	CY   float64
	R    float64
}

// Label is the area title displayed in front of a row.
type Label struct {
	Text string
	DY   float64
}

// Build lays out the records, in their current order, for the given baseline mode.
//
// Build is pure: the same inputs always produce the same [Scene].
func Build(p Params, l Layout, records []model.Record, base model.LineBase) (Scene, error) {
	if !base.IsValid() {
		return Scene{}, fmt.Errorf("%w: %q", model.ErrUnknownBase, base)
	}

	if len(records) == 0 {
		return Scene{}, ErrNoData
	}

	scene := Scene{
		Width:      l.SVGWidth(p),
		Height:     l.SVGHeight(p),
		Margins:    p.Margins,
		BodyOffset: p.LabelWidth + p.LabelGap,
		IsMobile:   l.IsMobile,
		Base:       base,
		Axis: Axis{
			Y:     l.ChartHeight,
			Width: l.ChartWidth,
			Ticks: make([]Tick, 0, len(p.Ticks)),
		},
		Grid:   make([]GridLine, 0, len(p.Ticks)),
		Lines:  make([]Segment, 0, len(records)),
		Dots:   make([]DotLayer, 0, len(Years)),
		Labels: make([]Label, 0, len(records)),
	}

	printer := message.NewPrinter(language.English)
	for _, v := range p.Ticks {
		x := l.Scale.Scale(v)
		scene.Axis.Ticks = append(scene.Axis.Ticks, Tick{
			X:     x,
			Value: v,
			Label: FormatTick(printer, v),
		})
		scene.Grid = append(scene.Grid, GridLine{X: x, Top: 0, Bottom: l.ChartHeight})
	}

	for i, rec := range records {
		x1, x2 := Endpoints(l.Scale, rec, base)
		scene.Lines = append(scene.Lines, Segment{
			Area: rec.AreaTitle,
			X1:   x1,
			X2:   x2,
			Y:    p.RowCenter(i),
		})
	}

	for year, name := range Years {
		layer := DotLayer{Year: name, Dots: make([]Dot, 0, len(records))}
		for _, line := range scene.Lines {
			cx := line.X1
			if year == 1 {
				cx = line.X2
			}

			layer.Dots = append(layer.Dots, Dot{
				Area: line.Area,
				CX:   cx,
				CY:   line.Y,
				R:    p.DotRadius,
			})
		}

		scene.Dots = append(scene.Dots, layer)
	}

	for i, rec := range records {
		scene.Labels = append(scene.Labels, Label{Text: rec.AreaTitle, DY: p.RowCenter(i)})
	}

	return scene, nil
}

// Endpoints returns the horizontal extent of a record's line: the 1990 end first, the 2015 end second.
//
// With [model.LineBaseStart] the line spans the scaled 1990 and 2015 wages.
// With [model.LineBaseChange] it starts at the left edge and ends at the scaled wage change.
func Endpoints(s Linear, rec model.Record, base model.LineBase) (x1, x2 float64) {
	if base == model.LineBaseChange {
		return 0, s.Scale(rec.WagesChange)
	}

	return s.Scale(rec.Wages1990), s.Scale(rec.Wages2015)
}

// FormatTick formats an axis value with thousands separators.
func FormatTick(printer *message.Printer, v float64) string {
	if printer == nil {
		printer = message.NewPrinter(language.English)
	}

	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2))) //nolint:mnd
}
