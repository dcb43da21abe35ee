// Package graphic draws a laid out [layout.Scene] as SVG markup.
package graphic

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"

	"github.com/Quartz/county-wages/internal/pkg/layout"
)

//go:embed graphic.svg.tmpl
var efs embed.FS

var tmpl = template.Must(
	template.New("graphic.svg.tmpl").
		Funcs(template.FuncMap{"px": px}).
		ParseFS(efs, "graphic.svg.tmpl"),
)

// SVG draws scenes as an SVG document wrapped in a div.
//
// Every call produces the complete markup: the output replaces whatever was drawn before.
type SVG struct{}

// New SVG drawer.
func New() *SVG {
	return &SVG{}
}

// Draw writes the scene to w.
func (*SVG) Draw(w io.Writer, scene layout.Scene) error {
	// render to a buffer first so that a failed draw does not leave partial markup behind
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, scene); err != nil {
		return fmt.Errorf("drawing graphic: %w", err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("writing graphic: %w", err)
	}

	return nil
}

// ContentType of the drawn markup.
func (*SVG) ContentType() string {
	return "text/html; charset=utf-8"
}

// px formats a pixel coordinate with at most 2 decimals.
func px(v float64) string {
	const precision = 100

	r := math.Round(v*precision) / precision
	if r == 0 {
		r = 0 // no "-0"
	}

	return strconv.FormatFloat(r, 'f', -1, 64)
}
