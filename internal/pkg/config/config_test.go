package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Quartz/county-wages/internal/pkg/model"
	"github.com/go-viper/mapstructure/v2"
	"go.yaml.in/yaml/v3"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestLoadDefault(t *testing.T) {
	cfg, err := loadDefaults()
	require.NoError(t, err)

	require.NoError(t, dumpConfig(io.Discard, cfg))
}

func TestLoadDefaultContent(t *testing.T) {
	cfg, err := LoadDefaults()
	require.NoError(t, err)

	r := cfg.Render
	assert.Equal(t, EngineSVG, r.Engine)
	assert.Equal(t, "roma", r.Theme)
	assert.Equal(t, 940, r.Width)
	assert.Equal(t, 200, r.MinWidth)
	assert.Equal(t, DefaultMaxWidth, r.MaxWidth)
	assert.Equal(t, 600, r.MobileBreakpoint)
	assert.InDelta(t, 20.0, r.BarHeight, 0)
	assert.InDelta(t, 5.0, r.BarGap, 0)
	assert.InDelta(t, 100.0, r.LabelWidth, 0)
	assert.InDelta(t, 10.0, r.LabelGap, 0)
	assert.Equal(t, Margins{Top: 10, Right: 30, Bottom: 50, Left: 10}, r.Margins)
	assert.Equal(t, Domain{Min: 0, Max: 1500}, r.Domain)
	assert.Equal(t, []float64{0, 500, 1000, 1500}, r.Ticks)
	assert.Equal(t, ScreenshotChrome, r.Screenshot.Engine)
	assert.Equal(t, 500*time.Millisecond, r.Screenshot.SleepDuration())

	assert.Equal(t, model.FieldEmployment1990, cfg.Controls.Sort)
	assert.Equal(t, model.LineBaseStart, cfg.Controls.Base)
	assert.Len(t, cfg.Controls.SortFields, len(model.AllFields()))

	for _, f := range model.AllFields() {
		_, ok := cfg.GetSortField(f)
		assert.True(t, ok, "expected sort field %q in index", f)
	}

	assert.Equal(t, 250*time.Millisecond, cfg.Resize.ThrottleDuration())
	assert.Equal(t, 30*time.Second, cfg.Data.TimeoutDuration())
	assert.Equal(t, "data/states.csv", cfg.Data.Source)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
name: Counties
render:
  width: 600
  ticks: [0, 750]
controls:
  base: change
`), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "Counties", cfg.Name)
	assert.Equal(t, 600, cfg.Render.Width)
	assert.Equal(t, []float64{0, 750}, cfg.Render.Ticks, "lists replace the defaults")
	assert.InDelta(t, 20.0, cfg.Render.BarHeight, 0, "unset values keep their default")
	assert.Equal(t, model.LineBaseChange, cfg.Controls.Base)
	assert.Equal(t, model.FieldEmployment1990, cfg.Controls.Sort)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte(":\n  :\n    - [invalid"), 0o600))

	_, err := load(os.DirFS(dir), "bad.yaml", &Config{})
	require.Error(t, err)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown engine",
			yaml:    "render:\n  engine: canvas\n",
			wantErr: "unknown engine",
		},
		{
			name:    "unknown screenshot engine",
			yaml:    "render:\n  screenshot:\n    engine: gimp\n",
			wantErr: "unknown screenshot engine",
		},
		{
			name:    "negative width",
			yaml:    "render:\n  width: -1\n",
			wantErr: "width must be positive",
		},
		{
			name:    "max width below min width",
			yaml:    "render:\n  minWidth: 300\n  maxWidth: 250\n",
			wantErr: "maxWidth must not be below minWidth",
		},
		{
			name:    "width above max width",
			yaml:    "render:\n  width: 5000\n",
			wantErr: "width exceeds maxWidth",
		},
		{
			name:    "empty domain",
			yaml:    "render:\n  domain:\n    min: 10\n    max: 10\n",
			wantErr: "empty domain",
		},
		{
			name:    "no ticks",
			yaml:    "render:\n  ticks: []\n",
			wantErr: "at least one tick",
		},
		{
			name:    "unknown sort",
			yaml:    "controls:\n  sort: population\n",
			wantErr: "unknown field",
		},
		{
			name:    "unknown base",
			yaml:    "controls:\n  base: middle\n",
			wantErr: "unknown baseline mode",
		},
		{
			name:    "duplicate sort field",
			yaml:    "controls:\n  sortFields:\n    - id: wages_1990\n    - id: wages_1990\n",
			wantErr: "duplicate ID",
		},
		{
			name:    "default sort not offered",
			yaml:    "controls:\n  sort: wages_2015\n  sortFields:\n    - id: wages_1990\n",
			wantErr: "not offered",
		},
		{
			name:    "bad throttle",
			yaml:    "resize:\n  throttle: soon\n",
			wantErr: "throttle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadOverDefaults(t, tt.yaml)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAutoTitle(t *testing.T) {
	cfg, err := loadOverDefaults(t, `
controls:
  sort: wages_change
  sortFields:
    - id: wages_change
    - id: area_title
      title: State
`)
	require.NoError(t, err)

	f, ok := cfg.GetSortField(model.FieldWagesChange)
	require.True(t, ok)
	assert.Equal(t, "Wages Change", f.Title)

	f, ok = cfg.GetSortField(model.FieldAreaTitle)
	require.True(t, ok)
	assert.Equal(t, "State", f.Title)
}

func TestTitleize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello", "Hello"},
		{"hello-world", "Hello World"},
		{"wages_1990", "Wages 1990"},
		{"area_title", "Area Title"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, titleize(tt.input))
		})
	}
}

func TestEncodeYAML(t *testing.T) {
	cfg, err := LoadDefaults()
	require.NoError(t, err)
	cfg.Render.Width = 720
	cfg.Outputs.HTMLFile = "ignored.html"

	dir := t.TempDir()
	file := filepath.Join(dir, "generated.yaml")
	f, err := os.Create(file)
	require.NoError(t, err)

	require.NoError(t, cfg.EncodeYAML(f))
	require.NoError(t, f.Close())

	loaded, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, 720, loaded.Render.Width)
	assert.Equal(t, cfg.Render.Ticks, loaded.Render.Ticks)
	assert.Equal(t, cfg.Controls.SortFields, loaded.Controls.SortFields)
	assert.Empty(t, loaded.Outputs.HTMLFile)
}

// helpers

func dumpConfig(w io.Writer, cfg *Config) error {
	var raw map[string]any
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Squash: true,
		Deep:   true,
		Result: &raw,
	})
	if err != nil {
		return err
	}

	err = dec.Decode(cfg)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)

	return enc.Encode(raw)
}

func loadOverDefaults(t *testing.T, yamlContent string) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yamlContent), 0o600))

	return Load(file)
}
