package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/sitelit/internal/render"
)

// Tab and status styles derive from the painter palette so the TUI and the
// printed views share colours.
var (
	activeTabStyle   = render.TitleStyle.Padding(0, 1).Underline(true)
	inactiveTabStyle = render.MutedStyle.Padding(0, 1)
	statusStyle      = render.NoteStyle
	dangerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	docStyle         = lipgloss.NewStyle().Margin(1, 2, 0)
)
