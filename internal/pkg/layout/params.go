package layout

import "github.com/Quartz/county-wages/internal/pkg/config"

// Margins around the plot area, in pixels.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Params holds the fixed geometry of the chart.
type Params struct {
	MinWidth         int
	MaxWidth         int
	MobileBreakpoint int
	BarHeight        float64
	BarGap           float64
	LabelWidth       float64
	LabelGap         float64
	DotRadius        float64
	Margins          Margins
	Domain           [2]float64
	Ticks            []float64
}

// DefaultParams returns the geometry of the published graphic.
func DefaultParams() Params {
	return Params{
		MinWidth:         200,
		MaxWidth:         4096,
		MobileBreakpoint: 600,
		BarHeight:        20,
		BarGap:           5,
		LabelWidth:       100,
		LabelGap:         10,
		DotRadius:        2,
		Margins:          Margins{Top: 10, Right: 30, Bottom: 50, Left: 10},
		Domain:           [2]float64{0, 1500},
		Ticks:            []float64{0, 500, 1000, 1500},
	}
}

// NewParams builds the chart geometry from the rendering configuration.
func NewParams(r config.Rendering) Params {
	return Params{
		MinWidth:         r.MinWidth,
		MaxWidth:         r.MaxWidth,
		MobileBreakpoint: r.MobileBreakpoint,
		BarHeight:        r.BarHeight,
		BarGap:           r.BarGap,
		LabelWidth:       r.LabelWidth,
		LabelGap:         r.LabelGap,
		DotRadius:        r.DotRadius,
		Margins: Margins{
			Top:    r.Margins.Top,
			Right:  r.Margins.Right,
			Bottom: r.Margins.Bottom,
			Left:   r.Margins.Left,
		},
		Domain: [2]float64{r.Domain.Min, r.Domain.Max},
		Ticks:  append([]float64(nil), r.Ticks...),
	}
}

// RowStep is the vertical distance between two consecutive rows.
func (p Params) RowStep() float64 {
	return p.BarHeight + p.BarGap
}

// RowCenter is the vertical position of the i-th row, relative to the top of the plot.
func (p Params) RowCenter(i int) float64 {
	return float64(i)*p.RowStep() + p.BarHeight/2 //nolint:mnd
}

// Gutter is the horizontal space taken by margins and labels.
func (p Params) Gutter() float64 {
	return p.Margins.Left + p.Margins.Right + p.LabelWidth + p.LabelGap
}
