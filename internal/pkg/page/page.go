// Package page assembles the HTML document hosting the chart and its controls.
package page

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Quartz/county-wages/internal/pkg/config"
	"github.com/Quartz/county-wages/internal/pkg/model"
)

//go:embed page.html.tmpl
var efs embed.FS

var tmpl = template.Must(template.ParseFS(efs, "page.html.tmpl"))

// Choice is an entry of a select control.
type Choice struct {
	Value    string
	Title    string
	Selected bool
}

// Page is the HTML document hosting the chart.
type Page struct {
	options

	Title    string
	Subtitle string
	Sorts    []Choice
	Bases    []Choice
	Graphic  template.HTML
	Width    int
}

// New builds a [Page] around an already drawn graphic, with the controls set to the current selection.
func New(cfg *config.Config, sort model.Field, base model.LineBase, graphic []byte, opts ...Option) *Page {
	p := &Page{
		options:  optionsWithDefaults(opts),
		Title:    cfg.Render.Title,
		Subtitle: cfg.Render.Subtitle,
		Graphic:  template.HTML(graphic), //nolint:gosec // produced by html/template
		Width:    cfg.Render.Width,
	}

	fields := cfg.Controls.SortFields
	if len(fields) == 0 {
		for _, f := range model.AllFields() {
			fields = append(fields, config.SortField{ID: f, Title: f.String()})
		}
	}

	for _, f := range fields {
		p.Sorts = append(p.Sorts, Choice{Value: f.ID.String(), Title: f.Title, Selected: f.ID == sort})
	}

	p.Bases = []Choice{
		{Value: model.LineBaseStart.String(), Title: "Wages", Selected: base == model.LineBaseStart},
		{Value: model.LineBaseChange.String(), Title: "Change since 1990", Selected: base == model.LineBaseChange},
	}

	return p
}

// Interactive reports whether the controls redraw the chart.
func (p *Page) Interactive() bool {
	return p.interactive
}

// Endpoint is the URL path serving redrawn graphics.
func (p *Page) Endpoint() string {
	return p.endpoint
}

// ThrottleMillis is the resize throttle interval, in milliseconds.
func (p *Page) ThrottleMillis() int64 {
	return p.throttle.Milliseconds()
}

// Render writes the HTML document.
func (p *Page) Render(w io.Writer) error {
	if err := tmpl.Execute(w, p); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	return nil
}
