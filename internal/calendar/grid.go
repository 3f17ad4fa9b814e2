package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/models"
)

// Cell is one day of the month grid.
type Cell struct {
	Date    time.Time
	Key     string
	Day     int
	InMonth bool
	Today   bool

	// Badges holds at most MaxBadges titles in source order.
	Badges []string
	// More is the number of events beyond the badges. A positive value means
	// the overflow control opens the overlay instead of the cell.
	More   int
	Events []models.CalendarEvent
}

// Clickable reports whether the whole cell opens the overlay.
func (c Cell) Clickable() bool {
	return len(c.Events) > 0 && c.More == 0
}

// HasEvents reports whether the overlay can be opened for this day.
func (c Cell) HasEvents() bool {
	return len(c.Events) > 0
}

// OverflowLabel is the text of the overflow control, empty when there is none.
func (c Cell) OverflowLabel() string {
	if c.More <= 0 {
		return ""
	}
	return fmt.Sprintf("+%d %s", c.More, constants.OverflowSuffix)
}

// Grid is the rendered view of one visible month.
type Grid struct {
	Month Month
	Label string
	Cells []Cell
}

// Rows splits the cells into weeks.
func (g Grid) Rows() [][]Cell {
	rows := make([][]Cell, 0, constants.GridRows)
	for i := 0; i < len(g.Cells); i += constants.GridColumns {
		end := min(i+constants.GridColumns, len(g.Cells))
		rows = append(rows, g.Cells[i:end])
	}
	return rows
}

// Cell returns the cell for key if it is part of the grid.
func (g Grid) Cell(key string) (Cell, bool) {
	for _, c := range g.Cells {
		if c.Key == key {
			return c, true
		}
	}
	return Cell{}, false
}

// GridStart returns the Monday on or before the first of m.
func GridStart(m Month) time.Time {
	first := m.First()
	return first.AddDate(0, 0, -MondayOffset(first.Weekday()))
}

// BuildCells lays out the fixed 35-day window of m. Days of a sixth week are
// not shown.
func BuildCells(m Month, idx Index, today time.Time) []Cell {
	start := GridStart(m)
	todayKey := DateKey(today)

	cells := make([]Cell, 0, constants.GridCells)
	for i := 0; i < constants.GridCells; i++ {
		d := start.AddDate(0, 0, i)
		key := DateKey(d)
		events := idx.Events(key)

		c := Cell{
			Date:    d,
			Key:     key,
			Day:     d.Day(),
			InMonth: m.Contains(d),
			Today:   key == todayKey,
			Events:  events,
		}
		for j, ev := range events {
			if j == constants.MaxBadges {
				c.More = len(events) - constants.MaxBadges
				break
			}
			c.Badges = append(c.Badges, eventTitle(ev))
		}
		cells = append(cells, c)
	}
	return cells
}

func eventTitle(ev models.CalendarEvent) string {
	if ev.Title == "" {
		return constants.DefaultTitle
	}
	return ev.Title
}

// CellView is the serializable form of a Cell.
type CellView struct {
	Date      string   `json:"date"`
	Day       int      `json:"day"`
	InMonth   bool     `json:"in_month"`
	Today     bool     `json:"today"`
	Badges    []string `json:"badges"`
	More      int      `json:"more"`
	Clickable bool     `json:"clickable"`
}

// GridView is the serializable form of a Grid.
type GridView struct {
	Month  string     `json:"month"`
	Label  string     `json:"label"`
	Source string     `json:"source"`
	Cells  []CellView `json:"cells"`
}

// View converts g for JSON output. source names where the events came from.
func (g Grid) View(source string) GridView {
	v := GridView{
		Month:  g.Month.String(),
		Label:  g.Label,
		Source: source,
		Cells:  make([]CellView, 0, len(g.Cells)),
	}
	for _, c := range g.Cells {
		v.Cells = append(v.Cells, CellView{
			Date:      c.Key,
			Day:       c.Day,
			InMonth:   c.InMonth,
			Today:     c.Today,
			Badges:    c.Badges,
			More:      c.More,
			Clickable: c.Clickable(),
		})
	}
	return v
}
