package chart

import (
	"github.com/Quartz/county-wages/internal/pkg/layout"
	"github.com/Quartz/county-wages/internal/pkg/model"
	"github.com/go-echarts/go-echarts/v2/charts"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"
)

const (
	defaultFontSize = 12
	axisNameGap     = 32
	stackName       = "wages"
	transparent     = "transparent"
	lineColor       = "#999999"
)

// Row is one area of the chart: a line running from From to To, in data units.
type Row struct {
	Area string
	From float64
	To   float64
}

// Chart represents a dumbbell chart of wages, drawn as stacked horizontal bars.
//
// Each row stacks a transparent bar up to the leftmost end of the line, then a thin visible bar
// spanning the line. The yearly markers are overlaid as scatter series.
type Chart struct {
	options

	Base model.LineBase
	Rows []Row
}

// NewChart creates a new chart.
func NewChart(opts ...Option) *Chart {
	return &Chart{
		options: optionsWithDefaults(opts),
		Base:    model.LineBaseStart,
	}
}

// AddRecords adds one row per record, in the order of the records.
func (c *Chart) AddRecords(records []model.Record, base model.LineBase) {
	identity := layout.NewLinear(c.Domain, c.Domain)
	c.Base = base

	for _, rec := range records {
		from, to := layout.Endpoints(identity, rec, base)
		c.Rows = append(c.Rows, Row{Area: rec.AreaTitle, From: from, To: to})
	}
}

// Build creates the ECharts bar chart from the accumulated configuration.
//
// ECharts draws the first category at the bottom: rows are reversed so the first row shows at the top.
func (c *Chart) Build() *charts.Bar {
	bar := charts.NewBar()

	titleOpts := echartsopts.Title{
		Title: c.Title,
	}
	if c.Subtitle != "" {
		titleOpts.Subtitle = c.Subtitle
		titleOpts.SubtitleStyle = &echartsopts.TextStyle{
			FontStyle: "italic",
			FontSize:  defaultFontSize,
		}
	}

	legendOpts := echartsopts.Legend{
		Show: echartsopts.Bool(c.ShowLegend),
	}
	if c.ShowLegend {
		legendOpts.X = "right"
		legendOpts.Y = "bottom"
	}

	xAxisOpts, yAxisOpts := c.setAxes()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(echartsopts.Initialization{Theme: c.Theme}),
		charts.WithToolboxOpts(echartsopts.Toolbox{
			Left: "right",
			Feature: &echartsopts.ToolBoxFeature{
				SaveAsImage: &echartsopts.ToolBoxFeatureSaveAsImage{
					Title: "Save as image",
				},
			},
		}),
		charts.WithTitleOpts(titleOpts),
		charts.WithLegendOpts(legendOpts),
		charts.WithGridOpts(echartsopts.Grid{
			Bottom: "60",
			Top:    "80",
			Left:   "120",
		}),
		charts.WithXAxisOpts(xAxisOpts),
		charts.WithYAxisOpts(yAxisOpts),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "item",
		}),
	)

	labels, offsets, spans := c.bars()
	bar.SetXAxis(labels)
	bar.AddSeries("offset", offsets,
		charts.WithBarChartOpts(echartsopts.BarChart{Stack: stackName}),
		charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: transparent}),
	)
	bar.AddSeries("line", spans,
		charts.WithBarChartOpts(echartsopts.BarChart{Stack: stackName}),
		charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: lineColor}),
	)

	markers := charts.NewScatter()
	for year, name := range layout.Years {
		markers.AddSeries(name, c.markers(year))
	}
	bar.Overlap(markers)

	return bar.XYReversal()
}

// bars returns the category labels, the transparent offsets and the visible spans, bottom row first.
//
// A line running leftwards from zero is stacked as a single negative span.
func (c *Chart) bars() ([]string, []echartsopts.BarData, []echartsopts.BarData) {
	n := len(c.Rows)
	labels := make([]string, 0, n)
	offsets := make([]echartsopts.BarData, 0, n)
	spans := make([]echartsopts.BarData, 0, n)

	for i := n - 1; i >= 0; i-- {
		row := c.Rows[i]
		low, high := min(row.From, row.To), max(row.From, row.To)
		offset, span := low, high-low
		if low < 0 {
			offset, span = 0, low
		}

		labels = append(labels, row.Area)
		offsets = append(offsets, echartsopts.BarData{Name: row.Area, Value: offset})
		spans = append(spans, echartsopts.BarData{Name: row.Area, Value: span})
	}

	return labels, offsets, spans
}

// markers returns the points of one year, as (value, category index) pairs, bottom row first.
func (c *Chart) markers(year int) []echartsopts.ScatterData {
	n := len(c.Rows)
	points := make([]echartsopts.ScatterData, 0, n)

	for i := n - 1; i >= 0; i-- {
		row := c.Rows[i]
		x := row.From
		if year == 1 {
			x = row.To
		}

		points = append(points, echartsopts.ScatterData{
			Name:       row.Area,
			Value:      []any{x, n - 1 - i},
			SymbolSize: c.DotSize,
		})
	}

	return points
}

func (c *Chart) setAxes() (echartsopts.XAxis, echartsopts.YAxis) {
	valueFormatter := echartsopts.FuncOpts("function (value,index) { return value.toLocaleString('en-US');}")

	xAxisOpts := echartsopts.XAxis{
		Name:         c.XAxisLabel,
		NameLocation: "center",
		NameGap:      axisNameGap,
		Type:         "value",
		Min:          c.Domain[0],
		Max:          c.Domain[1],
		AxisLabel: &echartsopts.AxisLabel{
			Formatter: valueFormatter,
		},
	}

	if len(c.Ticks) > 1 {
		xAxisOpts.SplitNumber = len(c.Ticks) - 1
	}

	yAxisOpts := echartsopts.YAxis{
		Type: "category",
		AxisLabel: &echartsopts.AxisLabel{
			Interval:     "0",
			ShowMinLabel: echartsopts.Bool(true),
			ShowMaxLabel: echartsopts.Bool(true),
		},
	}

	return xAxisOpts, yAxisOpts
}
