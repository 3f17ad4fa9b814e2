package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/sitelit/internal/calendar"
	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/models"
	progresspkg "github.com/julianstephens/sitelit/internal/progress"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	NoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Align(lipgloss.Center)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Width(9)

	todayStyle = cellStyle.
			Foreground(lipgloss.Color("205")).
			Bold(true)

	cursorStyle = cellStyle.
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("62"))

	eventsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

// MonthView renders the grid as a table. cursor is the date key of the
// highlighted cell and may be empty.
func MonthView(g calendar.Grid, f calendar.Formatter, cursor string) string {
	if len(g.Cells) == 0 {
		return TitleStyle.Render(g.Label)
	}

	headers := make([]string, 0, constants.GridColumns)
	for _, c := range g.Cells[:constants.GridColumns] {
		headers = append(headers, f.WeekdayShort(c.Date))
	}

	rows := g.Rows()
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, 0, len(row))
		for _, c := range row {
			line = append(line, cellText(c))
		}
		data = append(data, line)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(MutedStyle).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(rows) || col >= len(rows[row]) {
				return cellStyle
			}
			c := rows[row][col]
			switch {
			case c.Key == cursor:
				return cursorStyle
			case c.Today:
				return todayStyle
			case !c.InMonth:
				return cellStyle.Foreground(lipgloss.Color("240"))
			}
			return cellStyle
		})

	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(g.Label),
		t.Render(),
	)
}

func cellText(c calendar.Cell) string {
	day := strconv.Itoa(c.Day)
	n := len(c.Events)
	if n == 0 {
		return day
	}
	return day + " " + eventsStyle.Render(fmt.Sprintf("●%d", n))
}

// DayView lists the badges of one cell the way the grid shows them.
func DayView(c calendar.Cell) string {
	if !c.HasEvents() {
		return MutedStyle.Render(c.Key + ": sin actividades")
	}
	lines := []string{c.Key}
	for _, b := range c.Badges {
		lines = append(lines, "  • "+b)
	}
	if label := c.OverflowLabel(); label != "" {
		lines = append(lines, "  "+MutedStyle.Render(label))
	}
	return strings.Join(lines, "\n")
}

// OverlayCard renders the detail overlay as a bordered card.
func OverlayCard(ov calendar.Overlay, width int) string {
	parts := []string{TitleStyle.Render(ov.Heading), ""}
	for i, e := range ov.Entries {
		if i > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, lipgloss.NewStyle().Bold(true).Render(e.Title))
		if len(e.Meta) > 0 {
			parts = append(parts, MutedStyle.Render(strings.Join(e.Meta, "  ")))
		}
		if e.Description != "" {
			parts = append(parts, e.Description)
		}
	}
	parts = append(parts, "", MutedStyle.Render("esc cerrar"))

	style := cardStyle
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(parts, "\n"))
}

// ProgressBar renders percent with a bubbles progress bar of the given width.
func ProgressBar(percent int, width int) string {
	bar := progress.New(progress.WithDefaultGradient())
	if width > 0 {
		bar.Width = width
	}
	return bar.ViewAs(float64(percent) / 100)
}

// ProgressView renders the summary, its bar and the initiative list. selected
// marks one initiative; pass -1 for none.
func ProgressView(s progresspkg.Summary, initiatives []models.Initiative, width, selected int) string {
	lines := []string{
		ProgressBar(s.Percent, width),
		s.Sentence(),
		MutedStyle.Render("fuente: " + s.Mode),
	}
	if len(initiatives) > 0 {
		lines = append(lines, "")
	}
	for i, in := range initiatives {
		lines = append(lines, InitiativeLine(in, i == selected))
	}
	return strings.Join(lines, "\n")
}

// InitiativeLine renders one initiative with a completion marker.
func InitiativeLine(in models.Initiative, selected bool) string {
	mark := "[ ]"
	if in.Completed {
		mark = doneStyle.Render("[x]")
	}
	title := in.Title
	if title == "" {
		title = in.ID
	}
	line := fmt.Sprintf("%s %s", mark, title)
	if in.Weight > 0 {
		line += MutedStyle.Render(fmt.Sprintf(" (peso %s)", strconv.FormatFloat(in.Weight, 'f', -1, 64)))
	}
	if selected {
		return cursorStyle.UnsetWidth().UnsetPadding().Render("> ") + line
	}
	return "  " + line
}
