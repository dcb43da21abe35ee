// Package tui previews the wages chart in a terminal.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Quartz/county-wages/internal/pkg/bridge"
	"github.com/Quartz/county-wages/internal/pkg/config"
	"github.com/Quartz/county-wages/internal/pkg/interactive"
	"github.com/Quartz/county-wages/internal/pkg/layout"
	"github.com/Quartz/county-wages/internal/pkg/model"
)

const (
	defaultColumns = 120
	headerHeight   = 2
	footerHeight   = 2
)

// settledMsg redraws once resizes stop coming.
type settledMsg struct{}

// Model is the bubbletea model of the terminal preview.
type Model struct {
	width  int
	height int

	title   string
	status  string
	fields  []config.SortField
	session *interactive.Session
	screen  *Screen

	// a resize was dropped by the throttle since the last redraw
	pending  bool
	throttle time.Duration

	showTable bool
	tbl       table.Model

	keys keyMap
	help help.Model
	l    *slog.Logger
}

// New builds the preview of the records and draws it a first time.
//
// A failed first draw is shown on screen rather than returned.
func New(cfg *config.Config, records []model.Record) Model {
	l := slog.Default().With(slog.String("module", "tui"))

	fields := cfg.Controls.SortFields
	if len(fields) == 0 {
		for _, f := range model.AllFields() {
			fields = append(fields, config.SortField{ID: f, Title: f.String()})
		}
	}

	screen := NewScreen(defaultColumns)
	throttle := cfg.Resize.ThrottleDuration()
	session := interactive.NewSession(records, layout.NewParams(cfg.Render), Text{}, screen,
		interactive.WithSort(cfg.Controls.Sort),
		interactive.WithBase(cfg.Controls.Base),
		interactive.WithThrottle(throttle),
		interactive.WithReporter(bridge.NewLogger(l)),
	)

	m := Model{
		title:    cfg.Render.Title,
		status:   "ready",
		fields:   fields,
		session:  session,
		screen:   screen,
		throttle: throttle,
		tbl: table.New(
			table.WithColumns(tableColumns()),
			table.WithFocused(true),
		),
		keys: defaultKeys(),
		help: help.New(),
		l:    l,
	}

	_ = session.Start(context.Background())
	m.refreshTable()

	return m
}

// Run the preview until the user quits or the context is canceled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal preview: %w", err)
	}

	return nil
}

func (m Model) Init() tea.Cmd { return nil }

// State of the underlying session.
func (m Model) State() interactive.State {
	return m.session.State()
}

func (m *Model) nextSort() model.Field {
	current := m.session.State().SortOrder
	for i, f := range m.fields {
		if f.ID == current {
			return m.fields[(i+1)%len(m.fields)].ID
		}
	}

	return m.fields[0].ID
}

func (m *Model) sortTitle(f model.Field) string {
	for _, v := range m.fields {
		if v.ID == f {
			return v.Title
		}
	}

	return f.String()
}

func tableColumns() []table.Column {
	return []table.Column{
		{Title: "Area", Width: 16},
		{Title: "Jobs 1990", Width: 10},
		{Title: "Jobs 2015", Width: 10},
		{Title: "Wages 1990", Width: 10},
		{Title: "Wages 2015", Width: 10},
		{Title: "Change", Width: 8},
		{Title: "Change %", Width: 8},
	}
}

func (m *Model) refreshTable() {
	records := m.session.State().Records
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, table.Row{
			rec.AreaTitle,
			fmt.Sprintf("%d", rec.Employment1990),
			fmt.Sprintf("%d", rec.Employment2015),
			fmt.Sprintf("%.2f", rec.Wages1990),
			fmt.Sprintf("%.2f", rec.Wages2015),
			fmt.Sprintf("%+.2f", rec.WagesChange),
			rec.FormatPctChange(),
		})
	}

	m.tbl.SetRows(rows)
}
