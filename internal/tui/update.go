package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sitelit/internal/calendar"
	"github.com/julianstephens/sitelit/internal/logger"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		m.site = msg.site
		if e := m.engine(); e != nil {
			m.cursor = e.Visible().First()
			if calendar.MonthOf(m.now()) == e.Visible() {
				m.cursor = midnight(m.now())
			}
		}
		m.checkAt = 0
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.loading {
		return m, nil
	}

	if e := m.engine(); e != nil && e.State() == calendar.ModalOpen {
		if key.Matches(msg, m.keys.Close) || key.Matches(msg, m.keys.Enter) {
			m.site.Close()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Tab):
		m.tab = (m.tab + 1) % tabCount
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.tab = (m.tab - 1 + tabCount) % tabCount
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.load())
	}

	if m.site == nil {
		return m, nil
	}

	switch m.tab {
	case TabCalendar:
		m.handleCalendarKey(msg)
	case TabProgress:
		m.handleProgressKey(msg)
	}
	return m, nil
}

func (m *Model) handleCalendarKey(msg tea.KeyMsg) {
	e := m.engine()
	if e == nil {
		return
	}
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-7)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(7)
	case key.Matches(msg, m.keys.Prev):
		m.cursor = e.Prev().Month.First()
	case key.Matches(msg, m.keys.Next):
		m.cursor = e.Next().Month.First()
	case key.Matches(msg, m.keys.Today):
		e.Today()
		m.cursor = midnight(m.now())
	case key.Matches(msg, m.keys.Enter):
		if err := m.site.Open(calendar.DateKey(m.cursor)); err != nil {
			if errors.Is(err, calendar.ErrNoEvents) {
				m.status = "Sin actividades este día"
			} else {
				m.status = err.Error()
			}
		}
	}
}

// moveCursor shifts the focused day and follows it into adjacent months.
func (m *Model) moveCursor(days int) {
	m.cursor = m.cursor.AddDate(0, 0, days)
	if e := m.engine(); e != nil && !e.Visible().Contains(m.cursor) {
		e.Show(calendar.MonthOf(m.cursor))
	}
}

func (m *Model) handleProgressKey(msg tea.KeyMsg) {
	items := m.site.Progress.Initiatives
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.checkAt > 0 {
			m.checkAt--
		}
	case key.Matches(msg, m.keys.Down):
		if m.checkAt < len(items)-1 {
			m.checkAt++
		}
	case key.Matches(msg, m.keys.Toggle):
		tracker := m.site.Progress.Tracker
		if tracker == nil {
			m.status = "Solo las casillas guardadas localmente se pueden marcar"
			return
		}
		checks := tracker.Checks()
		if m.checkAt >= len(checks) {
			return
		}
		c := checks[m.checkAt]
		if _, err := m.site.Toggle(c.Name, !c.Checked); err != nil {
			logger.Warn("Failed to toggle checkbox", "name", c.Name, "error", err)
			m.status = err.Error()
		}
	}
}

func midnight(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
