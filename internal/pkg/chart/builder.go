package chart

import (
	"log/slog"

	"github.com/Quartz/county-wages/internal/pkg/config"
	"github.com/Quartz/county-wages/internal/pkg/model"
)

// Builder constructs an ECharts rendering of the wages chart.
type Builder struct {
	cfg     *config.Config
	records []model.Record
	base    model.LineBase
	l       *slog.Logger
}

// New creates a new chart [Builder], given a [config.Config] and records already in display order.
//
// The builder embeds a [slog.Logger] to croak about warnings and issues.
func New(cfg *config.Config, records []model.Record, base model.LineBase) *Builder {
	return &Builder{
		cfg:     cfg,
		records: records,
		base:    base,
		l:       slog.Default().With(slog.String("module", "chart")),
	}
}

// BuildPage creates a page with the wages chart.
//
// The page is empty when there are no records.
func (b *Builder) BuildPage() *Page {
	page := NewPage(b.cfg.Render.Title)

	if len(b.records) == 0 {
		b.l.Warn("empty chart skipped")

		return page
	}

	render := b.cfg.Render
	xAxis := "Average weekly wages (USD)"
	if b.base == model.LineBaseChange {
		xAxis = "Change in average weekly wages since 1990 (USD)"
	}

	chart := NewChart(
		WithTitle(render.Title),
		WithSubtitle(render.Subtitle),
		WithTheme(render.Theme),
		WithXAxisLabel(xAxis),
		WithDomain([2]float64{render.Domain.Min, render.Domain.Max}),
		WithTicks(render.Ticks),
		WithDotSize(int(2*render.DotRadius)+2), //nolint:mnd
	)
	chart.AddRecords(b.records, b.base)
	page.AddChart(chart)

	b.l.Info("added chart",
		slog.Int("rows", len(chart.Rows)),
		slog.String("base", b.base.String()),
	)

	return page
}
