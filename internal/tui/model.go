package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sitelit/internal/calendar"
	"github.com/julianstephens/sitelit/internal/site"
)

type Tab int

const (
	TabCalendar Tab = iota
	TabProgress
	tabCount
)

var tabTitles = []string{"Calendario", "Progreso"}

// loadedMsg carries the result of building the site off the update loop.
type loadedMsg struct {
	site *site.Site
	err  error
}

type Model struct {
	opts site.Options
	site *site.Site

	tab     Tab
	cursor  time.Time
	checkAt int

	loading bool
	err     error
	status  string

	spinner  spinner.Model
	keys     KeyMap
	help     help.Model
	width    int
	height   int
	quitting bool
}

// NewModel returns a model that builds the site described by opts on Init.
func NewModel(opts site.Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		opts:    opts,
		loading: true,
		spinner: sp,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.tab {
	case TabCalendar:
		keys = append(keys, m.keys.Prev, m.keys.Next, m.keys.Enter)
	case TabProgress:
		keys = append(keys, m.keys.Toggle)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Reload, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right}

	var actions []key.Binding
	switch m.tab {
	case TabCalendar:
		actions = []key.Binding{m.keys.Prev, m.keys.Next, m.keys.Today, m.keys.Enter, m.keys.Close}
	case TabProgress:
		actions = []key.Binding{m.keys.Toggle}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	opts := m.opts
	return func() tea.Msg {
		s, err := site.Build(context.Background(), opts)
		return loadedMsg{site: s, err: err}
	}
}

func (m Model) engine() *calendar.Engine {
	if m.site == nil {
		return nil
	}
	return m.site.Calendar
}

func (m Model) now() time.Time {
	if m.opts.Now != nil {
		return m.opts.Now()
	}
	return time.Now()
}
