package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/sitelit/internal/calendar"
	"github.com/julianstephens/sitelit/internal/render"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case m.loading:
		content = fmt.Sprintf("%s Cargando…", m.spinner.View())
	case m.err != nil:
		content = dangerStyle.Render("Error: " + m.err.Error())
	case m.tab == TabCalendar:
		content = m.viewCalendar()
	case m.tab == TabProgress:
		content = m.viewProgress()
	}

	parts := []string{m.viewTabs(), docStyle.Render(content)}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.tab == Tab(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewCalendar() string {
	e := m.engine()
	if e == nil {
		return render.MutedStyle.Render("Esta página no tiene calendario.")
	}

	if ov, open := e.Overlay(); open {
		width := 0
		if m.width > 8 {
			width = min(m.width-8, 60)
		}
		return render.OverlayCard(ov, width)
	}

	g := e.Grid()
	key := calendar.DateKey(m.cursor)
	view := render.MonthView(g, e.Format(), key)
	if c, ok := g.Cell(key); ok {
		view = lipgloss.JoinVertical(lipgloss.Left, view, "", render.DayView(c))
	}
	return view
}

func (m Model) viewProgress() string {
	if !m.site.HasProgress {
		return render.MutedStyle.Render("Esta página no tiene progreso.")
	}

	res := m.site.Progress
	width := 40
	if m.width > 10 {
		width = min(m.width-10, 60)
	}
	return render.ProgressView(res.Summary, res.Initiatives, width, m.checkAt)
}
