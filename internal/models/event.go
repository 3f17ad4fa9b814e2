package models

import (
	"encoding/json"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// CalendarEvent is one scheduled activity. Date holds the YYYY-MM-DD key.
type CalendarEvent struct {
	Date        string `json:"fecha"`
	Title       string `json:"titulo,omitempty"`
	Time        string `json:"hora,omitempty"`
	Location    string `json:"lugar,omitempty"`
	Axis        string `json:"eje,omitempty"`
	Description string `json:"descripcion,omitempty"`
}

func (e *CalendarEvent) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = CalendarEvent{
		Date:        DateKey(firstString(raw, "fecha", "date")),
		Title:       firstString(raw, "titulo", "title"),
		Time:        firstString(raw, "hora", "time"),
		Location:    firstString(raw, "lugar", "location"),
		Axis:        firstString(raw, "eje", "axis"),
		Description: firstString(raw, "descripcion", "description"),
	}
	return nil
}

// DateKey normalizes a date-like value to its leading YYYY-MM-DD key, dropping
// any time-of-day suffix ("2025-03-10T14:00:00Z" -> "2025-03-10"). Values that
// do not start with a calendar date yield "".
func DateKey(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) < len(dateLayout) {
		return ""
	}
	key := string(r[:len(dateLayout)])
	if _, err := time.Parse(dateLayout, key); err != nil {
		return ""
	}
	return key
}

// HasMeta reports whether any of the overlay metadata fields is set.
func (e CalendarEvent) HasMeta() bool {
	return e.Time != "" || e.Location != "" || e.Axis != ""
}
