package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Quartz/county-wages/internal/pkg/model"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tbl.SetHeight(max(m.height-headerHeight-footerHeight-2, 3)) //nolint:mnd
		m.screen.SetColumns(msg.Width)

		redrawn, err := m.session.OnResize(ctx)
		switch {
		case err != nil:
			m.status = "resize: " + err.Error()
		case !redrawn:
			// the last size must eventually be drawn
			if !m.pending {
				m.pending = true

				return m, tea.Tick(m.throttle, func(time.Time) tea.Msg { return settledMsg{} })
			}
		default:
			m.pending = false
			m.status = fmt.Sprintf("width: %d", m.screen.Width())
		}

	case settledMsg:
		if m.pending {
			m.pending = false
			if err := m.session.Render(ctx); err == nil {
				m.status = fmt.Sprintf("width: %d", m.screen.Width())
			}
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Sort):
			next := m.nextSort()
			if err := m.session.OnSortChange(ctx, next.String()); err != nil {
				m.status = "sort: " + err.Error()

				break
			}

			m.refreshTable()
			m.status = "sorted by " + m.sortTitle(next)

		case key.Matches(msg, m.keys.Base):
			next := model.LineBaseChange
			if m.session.State().LineBase == model.LineBaseChange {
				next = model.LineBaseStart
			}

			if err := m.session.OnBaseChange(ctx, next.String()); err != nil {
				m.status = "base: " + err.Error()

				break
			}

			m.status = "baseline: " + next.String()

		case key.Matches(msg, m.keys.Table):
			m.showTable = !m.showTable

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		default:
			if m.showTable {
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)

				return m, cmd
			}
		}
	}

	return m, nil
}
