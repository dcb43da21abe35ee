package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	contentWidth := max(10, m.width) //nolint:mnd
	contentHeight := max(m.height-headerHeight-footerHeight, 4) //nolint:mnd

	state := m.session.State()
	header := titleStyle.Render(" " + m.title + " ")
	mode := " · sorted by " + m.sortTitle(state.SortOrder) + " · " + state.LineBase.String()
	if state.IsMobile {
		mode += " · mobile"
	}
	header = lipgloss.NewStyle().Width(contentWidth).Render(header + dimStyle.Render(mode))

	var body string
	switch {
	case m.screen.Err() != nil:
		body = boxStyle.Render(errorStyle.Render("cannot draw the chart: " + m.screen.Err().Error()))
	case m.showTable:
		body = m.tbl.View()
	default:
		body = m.screen.Content()
	}
	body = lipgloss.NewStyle().Width(contentWidth).MaxHeight(contentHeight).Render(body)

	status := dimStyle.Render(" " + m.status + " ")
	footer := lipgloss.JoinVertical(lipgloss.Left, status, m.help.View(m.keys))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, "", body, footer)

	return appStyle.Width(contentWidth).Render(ui)
}
