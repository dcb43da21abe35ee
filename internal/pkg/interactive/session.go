// Package interactive holds the interaction state of the chart and the handlers reacting to control changes.
//
// A [Session] is driven by a single event loop: handlers run to completion one after the other,
// so a [Session] is not safe for concurrent use.
package interactive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/Quartz/county-wages/internal/pkg/layout"
	"github.com/Quartz/county-wages/internal/pkg/model"
	"github.com/Quartz/county-wages/internal/pkg/throttle"
)

// State is the interaction state of the chart.
type State struct {
	SortOrder model.Field
	LineBase  model.LineBase
	IsMobile  bool
	Width     int
	Records   []model.Record
}

// Drawer draws a laid out scene.
type Drawer interface {
	Draw(w io.Writer, scene layout.Scene) error
}

// Container is where the chart is mounted.
type Container interface {
	// Width is the current width of the container, in pixels.
	Width() int
	// Replace the content of the container.
	Replace(content []byte)
	// Fail replaces the content of the container with a visible error state.
	Fail(err error)
}

// Session owns the interaction state and redraws the chart whenever it changes.
type Session struct {
	options

	params    layout.Params
	drawer    Drawer
	container Container
	throttle  *throttle.Throttle
	state     State
	scene     layout.Scene
	renders   int
	l         *slog.Logger
}

// NewSession builds a [Session] over the transformed records.
//
// Nothing is drawn until [Session.Start] is called.
func NewSession(records []model.Record, params layout.Params, drawer Drawer, container Container, opts ...Option) *Session {
	o := optionsWithDefaults(opts)

	return &Session{
		options:   o,
		params:    params,
		drawer:    drawer,
		container: container,
		throttle:  throttle.New(o.throttleInterval, throttle.WithClock(o.now)),
		state: State{
			SortOrder: o.sort,
			LineBase:  o.base,
			Records:   slices.Clone(records),
		},
		l: slog.Default().With(slog.String("module", "interactive")),
	}
}

// Start applies the initial sort order and draws the chart for the first time.
func (s *Session) Start(ctx context.Context) error {
	return s.OnSortChange(ctx, s.state.SortOrder.String())
}

// OnSortChange reorders the records by the selected field, then redraws.
func (s *Session) OnSortChange(ctx context.Context, value string) error {
	field, err := model.ParseField(value)
	if err != nil {
		return err
	}

	sorted, err := model.SortBy(s.state.Records, field)
	if err != nil {
		return err
	}

	s.state.SortOrder = field
	s.state.Records = sorted
	s.l.DebugContext(ctx, "sort changed", slog.String("sort", field.String()))

	return s.Render(ctx)
}

// OnBaseChange switches the baseline mode, then redraws. The records are not reordered.
func (s *Session) OnBaseChange(ctx context.Context, value string) error {
	base, err := model.ParseLineBase(value)
	if err != nil {
		return err
	}

	s.state.LineBase = base
	s.l.DebugContext(ctx, "baseline changed", slog.String("base", base.String()))

	return s.Render(ctx)
}

// OnResize redraws the chart for the current container width.
//
// Resizes are throttled: it reports false when the call was dropped.
func (s *Session) OnResize(ctx context.Context) (bool, error) {
	if !s.throttle.Allow() {
		return false, nil
	}

	return true, s.Render(ctx)
}

// Render lays out and draws the chart for the current state, replacing the previous drawing,
// then reports the new content height.
//
// On failure, the container shows an error state.
func (s *Session) Render(ctx context.Context) error {
	if err := s.render(ctx); err != nil {
		s.l.ErrorContext(ctx, "render failed", slog.String("error", err.Error()))
		s.container.Fail(err)

		return err
	}

	return nil
}

func (s *Session) render(ctx context.Context) error {
	width := s.container.Width()
	l := layout.Compute(s.params, width, len(s.state.Records))
	s.state.Width = width
	s.state.IsMobile = l.IsMobile

	if l.Clamped {
		s.l.WarnContext(ctx, "container narrower than the minimum width",
			slog.Int("width", width),
			slog.Int("min_width", l.Width),
		)
	}

	scene, err := layout.Build(s.params, l, s.state.Records, s.state.LineBase)
	if err != nil {
		return fmt.Errorf("laying out chart: %w", err)
	}

	var buf bytes.Buffer
	if err := s.drawer.Draw(&buf, scene); err != nil {
		return err
	}

	s.container.Replace(buf.Bytes())
	s.scene = scene
	s.renders++

	if s.reporter != nil {
		if err := s.reporter.ReportHeight(ctx, scene.Height); err != nil {
			// the chart is drawn: a lost height report is not a render failure
			s.l.WarnContext(ctx, "height report failed", slog.String("error", err.Error()))
		}
	}

	return nil
}

// State returns a snapshot of the interaction state.
func (s *Session) State() State {
	st := s.state
	st.Records = slices.Clone(s.state.Records)

	return st
}

// Scene returns the last drawn scene.
func (s *Session) Scene() layout.Scene {
	return s.scene
}

// Renders counts the successful renders so far.
func (s *Session) Renders() int {
	return s.renders
}
