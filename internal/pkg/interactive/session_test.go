package interactive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Quartz/county-wages/internal/pkg/bridge"
	"github.com/Quartz/county-wages/internal/pkg/graphic"
	"github.com/Quartz/county-wages/internal/pkg/layout"
	"github.com/Quartz/county-wages/internal/pkg/model"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestSessionStart(t *testing.T) {
	var rec bridge.Recorder
	container := NewBuffer(940)
	s := NewSession(fixture(t), layout.DefaultParams(), graphic.New(), container, WithReporter(&rec))

	require.NoError(t, s.Start(context.Background()))

	st := s.State()
	assert.Equal(t, model.FieldEmployment1990, st.SortOrder)
	assert.Equal(t, model.LineBaseStart, st.LineBase)
	assert.False(t, st.IsMobile)
	assert.Equal(t, 940, st.Width)
	assert.Equal(t, []string{"Maine", "Ohio", "Idaho"}, titles(st.Records), "initial sort is applied")

	assert.Contains(t, string(container.Bytes()), `<svg`)
	assert.Equal(t, []int{3*25 + 60}, rec.Heights())
	assert.Equal(t, 1, s.Renders())
}

func TestSessionOnSortChange(t *testing.T) {
	s, container := startedSession(t)

	require.NoError(t, s.OnSortChange(context.Background(), "area_title"))
	assert.Equal(t, []string{"Idaho", "Maine", "Ohio"}, titles(s.State().Records))
	assert.Equal(t, model.FieldAreaTitle, s.State().SortOrder)

	out := string(container.Bytes())
	assert.Less(t, strings.Index(out, ">Idaho<"), strings.Index(out, ">Ohio<"))

	t.Run("same field twice is idempotent", func(t *testing.T) {
		before := s.Scene()
		require.NoError(t, s.OnSortChange(context.Background(), "area_title"))
		assert.Equal(t, before, s.Scene())
	})

	t.Run("unknown field leaves state untouched", func(t *testing.T) {
		renders := s.Renders()
		err := s.OnSortChange(context.Background(), "population")
		require.ErrorIs(t, err, model.ErrUnknownField)
		assert.Equal(t, model.FieldAreaTitle, s.State().SortOrder)
		assert.Equal(t, renders, s.Renders())
	})
}

func TestSessionOnBaseChange(t *testing.T) {
	s, _ := startedSession(t)
	start := s.Scene()
	order := titles(s.State().Records)

	require.NoError(t, s.OnBaseChange(context.Background(), "change"))
	assert.Equal(t, model.LineBaseChange, s.State().LineBase)
	assert.Equal(t, order, titles(s.State().Records), "base changes do not reorder")
	for _, line := range s.Scene().Lines {
		assert.InDelta(t, 0.0, line.X1, 1e-9)
	}

	require.NoError(t, s.OnBaseChange(context.Background(), "start"))
	assert.Equal(t, start, s.Scene(), "switching back restores positions")

	err := s.OnBaseChange(context.Background(), "middle")
	require.ErrorIs(t, err, model.ErrUnknownBase)
}

func TestSessionRenderIsIdempotent(t *testing.T) {
	s, container := startedSession(t)
	first := bytes.Clone(container.Bytes())

	require.NoError(t, s.Render(context.Background()))
	assert.Equal(t, first, container.Bytes())
}

func TestSessionOnResize(t *testing.T) {
	clock := &fakeClock{now: time.Date(2016, time.March, 1, 0, 0, 0, 0, time.UTC)}
	var rec bridge.Recorder
	container := NewBuffer(940)
	s := NewSession(fixture(t), layout.DefaultParams(), graphic.New(), container,
		WithReporter(&rec),
		WithClock(clock.Now),
	)
	require.NoError(t, s.Start(context.Background()))
	renders := s.Renders()

	// a burst of 10 resize events within 100ms
	var rendered int
	for i := range 10 {
		container.SetWidth(900 - i*40)
		ok, err := s.OnResize(context.Background())
		require.NoError(t, err)
		if ok {
			rendered++
		}
		clock.Advance(10 * time.Millisecond)
	}

	assert.Equal(t, 1, rendered)
	assert.Equal(t, renders+1, s.Renders())

	t.Run("next resize after the interval redraws at the current width", func(t *testing.T) {
		clock.Advance(250 * time.Millisecond)
		ok, err := s.OnResize(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)

		st := s.State()
		assert.Equal(t, 540, st.Width)
		assert.True(t, st.IsMobile)
		assert.True(t, strings.HasPrefix(string(container.Bytes()), `<div class="graphic-wrapper is-mobile"`))
	})
}

func TestSessionRenderFailure(t *testing.T) {
	errExpected := errors.New("out of ink")
	container := NewBuffer(940)
	s := NewSession(fixture(t), layout.DefaultParams(), &failingDrawer{err: errExpected}, container)

	err := s.Start(context.Background())
	require.ErrorIs(t, err, errExpected)
	require.ErrorIs(t, container.Err(), errExpected)
	assert.Contains(t, string(container.Bytes()), `class="graphic-error"`)
	assert.Contains(t, string(container.Bytes()), "out of ink")
	assert.Zero(t, s.Renders())
}

func TestSessionNoData(t *testing.T) {
	container := NewBuffer(940)
	s := NewSession(nil, layout.DefaultParams(), graphic.New(), container)

	err := s.Start(context.Background())
	require.ErrorIs(t, err, layout.ErrNoData)
	assert.Contains(t, string(container.Bytes()), "no data to render")
}

func TestSessionNarrowContainer(t *testing.T) {
	container := NewBuffer(20)
	s := NewSession(fixture(t), layout.DefaultParams(), graphic.New(), container)

	require.NoError(t, s.Start(context.Background()))
	assert.InDelta(t, 200.0, s.Scene().Width, 1e-9, "clamped to the minimum width")
}

func TestSessionReporterFailureIsNotFatal(t *testing.T) {
	container := NewBuffer(940)
	s := NewSession(fixture(t), layout.DefaultParams(), graphic.New(), container,
		WithReporter(bridge.NewWriter(failingWriter{})),
	)

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 1, s.Renders())
}

func TestSessionDoesNotMutateInput(t *testing.T) {
	records := fixture(t)
	before := titles(records)

	s := NewSession(records, layout.DefaultParams(), graphic.New(), NewBuffer(940), WithSort(model.FieldAreaTitle))
	require.NoError(t, s.Start(context.Background()))

	assert.Equal(t, before, titles(records))
}

// helpers

func startedSession(t *testing.T) (*Session, *Buffer) {
	t.Helper()

	container := NewBuffer(940)
	s := NewSession(fixture(t), layout.DefaultParams(), graphic.New(), container, WithThrottle(0))
	require.NoError(t, s.Start(context.Background()))

	return s, container
}

func fixture(t *testing.T) []model.Record {
	t.Helper()

	records, err := model.Transform([]model.RawRecord{
		{"area_title": "Ohio", "employment_1990": "100", "employment_2015": "120", "wages_1990": "500", "wages_2015": "600"},
		{"area_title": "Maine", "employment_1990": "80", "employment_2015": "90", "wages_1990": "420", "wages_2015": "815"},
		{"area_title": "Idaho", "employment_1990": "160", "employment_2015": "170", "wages_1990": "390", "wages_2015": "720"},
	})
	require.NoError(t, err)

	return records
}

func titles(records []model.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.AreaTitle)
	}

	return out
}

type failingDrawer struct {
	err error
}

func (d *failingDrawer) Draw(io.Writer, layout.Scene) error {
	return d.err
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("parent frame gone")
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
