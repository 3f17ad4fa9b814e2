package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/sitelit/internal/constants"
)

// Month is a year and month pair. It carries no day so month arithmetic
// never spills into the following month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a YYYY-MM value.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(constants.MonthFormat, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", s, err)
	}
	return MonthOf(t), nil
}

// Add shifts the month by delta months, rolling over year boundaries.
func (m Month) Add(delta int) Month {
	idx := m.Year*12 + int(m.Month) - 1 + delta
	year := idx / 12
	month := idx % 12
	if month < 0 {
		month += 12
		year--
	}
	return Month{Year: year, Month: time.Month(month + 1)}
}

func (m Month) Next() Month { return m.Add(1) }
func (m Month) Prev() Month { return m.Add(-1) }

// First returns local midnight of the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.Local)
}

// Contains reports whether t falls in the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MondayOffset converts a Sunday-first weekday into a Monday-first column:
// Monday is 0 and Sunday is 6.
func MondayOffset(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// DateKey formats t as a YYYY-MM-DD index key.
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}
