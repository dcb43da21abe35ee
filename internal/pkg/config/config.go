// Package config loads the YAML configuration of the wages chart.
package config

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Quartz/county-wages/internal/pkg/model"
	"github.com/go-viper/mapstructure/v2"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed default_config.yaml
var efs embed.FS

// Config holds the configuration for the wages chart.
type Config struct {
	Name     string
	Data     Data
	Render   Rendering
	Controls Controls
	Resize   Resize
	Server   Server
	Outputs  Output `mapstructure:"-"`

	fieldIndex map[model.Field]SortField
}

// GetSortField retrieves a sort control entry by its field.
func (c Config) GetSortField(id model.Field) (SortField, bool) {
	v, ok := c.fieldIndex[id]

	return v, ok
}

// EncodeYAML serializes a [Config] to YAML into the provided writer.
//
// Runtime-only fields (Outputs) are excluded from the output.
func (c *Config) EncodeYAML(w io.Writer) error {
	var raw map[string]any

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Squash: true,
		Deep:   true,
		Result: &raw,
	})
	if err != nil {
		return fmt.Errorf("creating mapstructure decoder: %w", err)
	}

	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decoding config to map: %w", err)
	}

	return yaml.NewEncoder(w).Encode(raw)
}

// Data locates the tabular data source.
type Data struct {
	Source  string
	Timeout string
}

// TimeoutDuration parses the Timeout field as a [time.Duration]. Zero means no timeout.
func (d Data) TimeoutDuration() time.Duration {
	t, err := time.ParseDuration(d.Timeout)
	if err != nil {
		return 0
	}

	return t
}

// Rendering holds the chart geometry and the output settings.
type Rendering struct {
	Title            string
	Subtitle         string
	Theme            string
	Engine           Engine
	Width            int
	MinWidth         int
	MaxWidth         int
	MobileBreakpoint int
	BarHeight        float64
	BarGap           float64
	LabelWidth       float64
	LabelGap         float64
	DotRadius        float64
	Margins          Margins
	Domain           Domain
	Ticks            []float64
	Screenshot       Screenshot
}

// DefaultMaxWidth bounds the container width when the configuration leaves maxWidth unset.
const DefaultMaxWidth = 4096

// Engine selects how the chart page is produced.
type Engine string

// Supported rendering engines.
const (
	EngineSVG     Engine = "svg"
	EngineECharts Engine = "echarts"
)

// IsValid reports whether the engine is supported.
func (e Engine) IsValid() bool {
	return e == EngineSVG || e == EngineECharts
}

// Margins around the plot area, in pixels.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Domain is the fixed value range mapped onto the chart width.
type Domain struct {
	Min float64
	Max float64
}

// Screenshot configures the PNG rendering.
type Screenshot struct {
	Engine ScreenshotEngine
	Height int64
	Width  int64
	Sleep  string
}

// ScreenshotEngine selects how PNG images are produced.
type ScreenshotEngine string

// Supported screenshot engines.
const (
	// ScreenshotChrome captures the HTML page with a headless browser.
	ScreenshotChrome ScreenshotEngine = "chrome"
	// ScreenshotRaster draws the chart directly, without a browser.
	ScreenshotRaster ScreenshotEngine = "raster"
)

// SleepDuration parses the Sleep field as a [time.Duration].
func (s Screenshot) SleepDuration() time.Duration {
	d, err := time.ParseDuration(s.Sleep)
	if d == 0 || err != nil {
		return 0
	}

	return d
}

// Controls holds the initial interaction state and the sort choices offered to users.
type Controls struct {
	Sort       model.Field
	Base       model.LineBase
	SortFields []SortField
}

// SortField is an entry of the sort control.
type SortField struct {
	ID    model.Field
	Title string
}

// Resize configures how viewport resizes trigger a redraw.
type Resize struct {
	Throttle string
}

// ThrottleDuration parses the Throttle field as a [time.Duration].
func (r Resize) ThrottleDuration() time.Duration {
	d, err := time.ParseDuration(r.Throttle)
	if err != nil {
		return 0
	}

	return d
}

// Server holds the settings of the HTTP mode.
type Server struct {
	Addr string
}

// Output holds the resolved output file paths for HTML and PNG rendering.
type Output struct {
	HTMLFile string
	PngFile  string
	IsTemp   bool
}

// Load a configuration file from the local file system, on top of the embedded defaults.
func Load(file string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("loading default config: %w", err)
	}

	fsys := os.DirFS(filepath.Dir(file))
	pth := filepath.Join(".", filepath.Base(file))

	return load(fsys, pth, cfg)
}

// LoadDefaults loads the default configuration from the embedded default_config.yaml.
func LoadDefaults() (*Config, error) {
	return loadDefaults()
}

// loadDefaults loads the default configuration from embedded FS.
func loadDefaults() (*Config, error) {
	return load(efs, "default_config.yaml", &Config{})
}

func load(fsys fs.FS, file string, cfg *Config) (*Config, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	var raw any
	err = yaml.Unmarshal(content, &raw)
	if err != nil {
		return nil, err
	}

	// lists in the file replace the defaults rather than merging with them
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ZeroFields: true,
		Result:     cfg,
	})
	if err != nil {
		return nil, err
	}

	if err = dec.Decode(raw); err != nil {
		return nil, err
	}

	cfg.fieldIndex = make(map[model.Field]SortField, len(cfg.Controls.SortFields))

	if err = cfg.validateRender(); err != nil {
		return nil, err
	}

	if err = cfg.validateControls(); err != nil {
		return nil, err
	}

	if err = cfg.validateResize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validateRender() error {
	r := &c.Render

	if r.Engine == "" {
		r.Engine = EngineSVG
	}
	if !r.Engine.IsValid() {
		return fmt.Errorf("invalid render: unknown engine %q (should be one of %v)", r.Engine, []Engine{EngineSVG, EngineECharts})
	}

	if r.Screenshot.Engine == "" {
		r.Screenshot.Engine = ScreenshotChrome
	}
	if r.Screenshot.Engine != ScreenshotChrome && r.Screenshot.Engine != ScreenshotRaster {
		return fmt.Errorf("invalid render: unknown screenshot engine %q", r.Screenshot.Engine)
	}

	if r.Width <= 0 {
		return fmt.Errorf("invalid render: width must be positive: %d", r.Width)
	}

	if r.MinWidth <= 0 {
		return fmt.Errorf("invalid render: minWidth must be positive: %d", r.MinWidth)
	}

	if r.MaxWidth == 0 {
		r.MaxWidth = DefaultMaxWidth
	}
	if r.MaxWidth < r.MinWidth {
		return fmt.Errorf("invalid render: maxWidth must not be below minWidth: %d < %d", r.MaxWidth, r.MinWidth)
	}
	if r.Width > r.MaxWidth {
		return fmt.Errorf("invalid render: width exceeds maxWidth: %d > %d", r.Width, r.MaxWidth)
	}

	if r.BarHeight <= 0 || r.BarGap < 0 {
		return fmt.Errorf("invalid render: barHeight must be positive and barGap not negative: %v, %v", r.BarHeight, r.BarGap)
	}

	if r.LabelWidth < 0 || r.LabelGap < 0 {
		return fmt.Errorf("invalid render: label sizes must not be negative: %v, %v", r.LabelWidth, r.LabelGap)
	}

	if r.Domain.Max <= r.Domain.Min {
		return fmt.Errorf("invalid render: empty domain [%v, %v]", r.Domain.Min, r.Domain.Max)
	}

	if len(r.Ticks) == 0 {
		return fmt.Errorf("invalid render: at least one tick is required")
	}

	return nil
}

func (c *Config) validateControls() error {
	ctl := &c.Controls

	if ctl.Sort == "" {
		ctl.Sort = model.FieldEmployment1990
	}
	if !ctl.Sort.IsValid() {
		return fmt.Errorf("invalid controls: sort: %w: %q", model.ErrUnknownField, ctl.Sort)
	}

	if ctl.Base == "" {
		ctl.Base = model.LineBaseStart
	}
	if !ctl.Base.IsValid() {
		return fmt.Errorf("invalid controls: base: %w: %q", model.ErrUnknownBase, ctl.Base)
	}

	for i, v := range ctl.SortFields {
		if v.ID == "" {
			return fmt.Errorf("invalid controls: empty ID found: sortFields[%d]", i)
		}
		if !v.ID.IsValid() {
			return fmt.Errorf("invalid controls: sortFields[%d]: %w: %q", i, model.ErrUnknownField, v.ID)
		}
		if _, ok := c.fieldIndex[v.ID]; ok {
			return fmt.Errorf("invalid controls: duplicate ID key found: %s", v.ID)
		}
		if v.Title == "" {
			v.Title = titleize(v.ID)
		}

		ctl.SortFields[i] = v
		c.fieldIndex[v.ID] = v
	}

	if _, ok := c.fieldIndex[ctl.Sort]; !ok && len(ctl.SortFields) > 0 {
		return fmt.Errorf("invalid controls: default sort %q is not offered in sortFields", ctl.Sort)
	}

	return nil
}

func (c *Config) validateResize() error {
	if c.Resize.Throttle == "" {
		return nil
	}

	d, err := time.ParseDuration(c.Resize.Throttle)
	if err != nil {
		return fmt.Errorf("invalid resize: throttle: %w", err)
	}

	if d < 0 {
		return fmt.Errorf("invalid resize: negative throttle: %v", d)
	}

	return nil
}

type str interface {
	~string
}

func titleize[T str](in T) string {
	caser := cases.Title(language.English, cases.NoLower) // the case is stateful: cannot declare it globally

	return caser.String(strings.Map(func(r rune) rune {
		switch r {
		case '_', '-':
			return ' '
		default:
			return r
		}
	}, string(in),
	))
}
