// Package layout computes the geometry of the wages chart.
//
// Everything here is pure: a [Layout] is derived from the container width and the number of records,
// then [Build] turns records into a [Scene], i.e. the positioned shapes to draw.
// Drawing a [Scene] is left to other packages.
package layout

// Layout holds the pixel dimensions of the chart for a given container width.
type Layout struct {
	// RequestedWidth is the container width the layout was asked for.
	RequestedWidth int
	// Width is the width actually laid out, never below the minimum width.
	Width int
	// Clamped is true when the requested width was below the minimum width.
	Clamped bool
	// IsMobile is true when the container is not wider than the mobile breakpoint.
	IsMobile bool

	Rows        int
	ChartWidth  float64
	ChartHeight float64
	Scale       Linear
}

// Compute the layout of n rows in a container of the given width.
func Compute(p Params, width, n int) Layout {
	l := Layout{
		RequestedWidth: width,
		Width:          width,
		IsMobile:       width <= p.MobileBreakpoint,
		Rows:           max(n, 0),
	}

	switch {
	case width < p.MinWidth:
		l.Width = p.MinWidth
		l.Clamped = true
	case p.MaxWidth > 0 && width > p.MaxWidth:
		l.Width = p.MaxWidth
		l.Clamped = true
	}

	l.ChartWidth = max(float64(l.Width)-p.Gutter(), 0)
	l.ChartHeight = float64(l.Rows) * p.RowStep()
	l.Scale = NewLinear(p.Domain, [2]float64{0, l.ChartWidth})

	return l
}

// SVGWidth is the width of the whole graphic.
func (l Layout) SVGWidth(p Params) float64 {
	return l.ChartWidth + p.Gutter()
}

// SVGHeight is the height of the whole graphic, i.e. the content height reported to an embedding page.
func (l Layout) SVGHeight(p Params) float64 {
	return l.ChartHeight + p.Margins.Top + p.Margins.Bottom
}

// Linear maps a continuous domain onto a pixel range.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLinear builds a [Linear] scale.
func NewLinear(domain, rng [2]float64) Linear {
	return Linear{Domain: domain, Range: rng}
}

// Scale maps a domain value to a pixel position. Values outside the domain are extrapolated.
func (s Linear) Scale(v float64) float64 {
	span := s.Domain[1] - s.Domain[0]
	if span == 0 {
		return s.Range[0]
	}

	return s.Range[0] + (v-s.Domain[0])/span*(s.Range[1]-s.Range[0])
}

// Invert maps a pixel position back to a domain value.
func (s Linear) Invert(x float64) float64 {
	span := s.Range[1] - s.Range[0]
	if span == 0 {
		return s.Domain[0]
	}

	return s.Domain[0] + (x-s.Range[0])/span*(s.Domain[1]-s.Domain[0])
}
