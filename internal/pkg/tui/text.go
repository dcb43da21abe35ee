package tui

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Quartz/county-wages/internal/pkg/layout"
)

// CellWidth is the number of layout pixels rendered by one terminal column.
const CellWidth = 8

// Glyphs of the text drawing.
const (
	glyphLine   = '─'
	glyph1990   = '○'
	glyph2015   = '●'
	glyphAxis   = '┴'
	glyphDomain = '─'
)

// Text draws a [layout.Scene] as plain text, one terminal line per row.
//
// Horizontal positions are divided by [CellWidth]. Vertical positions are not used: rows keep their order.
type Text struct{}

// Draw the scene as text.
func (Text) Draw(w io.Writer, scene layout.Scene) error {
	labelCols := columns(scene.Margins.Left + scene.BodyOffset)
	bodyCols := columns(scene.Axis.Width) + 1

	var b strings.Builder
	for i, line := range scene.Lines {
		label := ""
		if i < len(scene.Labels) {
			label = scene.Labels[i].Text
		}

		b.WriteString(fit(label, labelCols))
		b.WriteString(string(rowRunes(line, bodyCols)))
		b.WriteByte('\n')
	}

	axis := []rune(strings.Repeat(string(glyphDomain), bodyCols))
	legend := []rune(strings.Repeat(" ", bodyCols+CellWidth))
	for _, tick := range scene.Axis.Ticks {
		col := clamp(column(tick.X), bodyCols)
		axis[col] = glyphAxis

		text := []rune(tick.Label)
		start := max(min(col-len(text)/2, len(legend)-len(text)), 0) //nolint:mnd
		copy(legend[start:], text)
	}

	b.WriteString(strings.Repeat(" ", labelCols))
	b.WriteString(string(axis))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", labelCols))
	b.WriteString(strings.TrimRight(string(legend), " "))
	b.WriteByte('\n')

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing text: %w", err)
	}

	return nil
}

func rowRunes(line layout.Segment, cols int) []rune {
	row := []rune(strings.Repeat(" ", cols))
	c1, c2 := clamp(column(line.X1), cols), clamp(column(line.X2), cols)

	for c := min(c1, c2); c <= max(c1, c2); c++ {
		row[c] = glyphLine
	}

	row[c1] = glyph1990
	row[c2] = glyph2015

	return row
}

func columns(px float64) int {
	return int(math.Ceil(px / CellWidth))
}

func column(px float64) int {
	return int(math.Round(px / CellWidth))
}

func clamp(col, cols int) int {
	return max(0, min(col, cols-1))
}

// fit pads or truncates s to exactly n columns, keeping one trailing blank.
func fit(s string, n int) string {
	if n <= 0 {
		return ""
	}

	r := []rune(s)
	if len(r) >= n {
		if n == 1 {
			return " "
		}

		return string(r[:n-2]) + "… "
	}

	return s + strings.Repeat(" ", n-len(r))
}

// Screen is the terminal [interactive.Container] hosting the text drawing.
type Screen struct {
	cols    int
	content string
	err     error
}

// NewScreen builds a [Screen] that is cols terminal columns wide.
func NewScreen(cols int) *Screen {
	return &Screen{cols: cols}
}

// Width of the screen, in layout pixels.
func (s *Screen) Width() int {
	return s.cols * CellWidth
}

// SetColumns resizes the screen. The content is not redrawn.
func (s *Screen) SetColumns(cols int) {
	s.cols = cols
}

// Replace the content.
func (s *Screen) Replace(content []byte) {
	s.content = string(content)
	s.err = nil
}

// Fail keeps an error to show in place of the chart.
func (s *Screen) Fail(err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	s.err = err
	s.content = ""
}

// Content returns the current drawing.
func (s *Screen) Content() string {
	return s.content
}

// Err returns the error shown on screen, if any.
func (s *Screen) Err() error {
	return s.err
}
