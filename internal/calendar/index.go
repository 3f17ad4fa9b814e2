package calendar

import (
	"sort"

	"github.com/julianstephens/sitelit/internal/models"
)

// Index maps date keys to their events in source order.
type Index struct {
	byDate map[string][]models.CalendarEvent
	total  int
}

// NewIndex indexes events by their date key. Events without a date are dropped.
func NewIndex(events []models.CalendarEvent) Index {
	idx := Index{byDate: make(map[string][]models.CalendarEvent)}
	for _, ev := range events {
		key := models.DateKey(ev.Date)
		if key == "" {
			continue
		}
		idx.byDate[key] = append(idx.byDate[key], ev)
		idx.total++
	}
	return idx
}

// Events returns the events on key, nil when there are none.
func (i Index) Events(key string) []models.CalendarEvent {
	return i.byDate[key]
}

// Len is the number of indexed events.
func (i Index) Len() int {
	return i.total
}

// Keys returns every indexed date key in ascending order.
func (i Index) Keys() []string {
	keys := make([]string, 0, len(i.byDate))
	for k := range i.byDate {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
