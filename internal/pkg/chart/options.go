package chart

// Theme constants from go-echarts.
const (
	ThemeRoma = "roma"
)

// Option configures a [Chart].
type Option func(*options)

type options struct {
	Title      string
	Subtitle   string
	XAxisLabel string
	Theme      string
	ShowLegend bool
	Domain     [2]float64
	Ticks      []float64
	DotSize    int
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(c *options) {
		c.Title = title
	}
}

// WithSubtitle sets the chart subtitle.
func WithSubtitle(subtitle string) Option {
	return func(c *options) {
		c.Subtitle = subtitle
	}
}

// WithTheme sets the color theme.
func WithTheme(theme string) Option {
	return func(c *options) {
		if theme == "" {
			return
		}

		c.Theme = theme
	}
}

// WithLegend enables or disables the legend.
func WithLegend(show bool) Option {
	return func(c *options) {
		c.ShowLegend = show
	}
}

// WithXAxisLabel sets the value axis label text.
func WithXAxisLabel(label string) Option {
	return func(c *options) {
		c.XAxisLabel = label
	}
}

// WithDomain fixes the range of the value axis.
func WithDomain(domain [2]float64) Option {
	return func(c *options) {
		c.Domain = domain
	}
}

// WithTicks sets the positions of the value axis ticks. Only their count is used, as the number of splits.
func WithTicks(ticks []float64) Option {
	return func(c *options) {
		c.Ticks = ticks
	}
}

// WithDotSize sets the diameter of the markers, in pixels.
func WithDotSize(size int) Option {
	return func(c *options) {
		if size <= 0 {
			return
		}

		c.DotSize = size
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		Theme:      ThemeRoma,
		ShowLegend: true,
		Domain:     [2]float64{0, 1500}, //nolint:mnd
		DotSize:    4,                   //nolint:mnd
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
