package calendar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/sitelit/internal/models"
	"github.com/julianstephens/sitelit/internal/source"
)

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 9, 30, 0, 0, time.Local) }
}

func TestMondayOffset(t *testing.T) {
	want := []int{6, 0, 1, 2, 3, 4, 5}
	for code := 0; code < 7; code++ {
		if got := MondayOffset(time.Weekday(code)); got != want[code] {
			t.Errorf("MondayOffset(%d) = %d, want %d", code, got, want[code])
		}
	}
}

func TestMonthAdd(t *testing.T) {
	tests := []struct {
		from  Month
		delta int
		want  Month
	}{
		{Month{2024, time.December}, 1, Month{2025, time.January}},
		{Month{2025, time.January}, -1, Month{2024, time.December}},
		{Month{2025, time.January}, 13, Month{2026, time.February}},
		{Month{2025, time.March}, -15, Month{2023, time.December}},
	}
	for _, tt := range tests {
		if got := tt.from.Add(tt.delta); got != tt.want {
			t.Errorf("%v.Add(%d) = %v, want %v", tt.from, tt.delta, got, tt.want)
		}
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2025-03")
	if err != nil {
		t.Fatal(err)
	}
	if m != (Month{2025, time.March}) || m.String() != "2025-03" {
		t.Errorf("ParseMonth = %v", m)
	}
	if _, err := ParseMonth("marzo"); err == nil {
		t.Error("expected error for invalid month")
	}
}

func TestBuildCells_Window(t *testing.T) {
	months := []Month{
		{2025, time.March},
		{2025, time.June},
		{2024, time.February},
		{2026, time.November},
	}
	for _, m := range months {
		t.Run(m.String(), func(t *testing.T) {
			cells := BuildCells(m, Index{}, time.Now())
			if len(cells) != 35 {
				t.Fatalf("got %d cells, want 35", len(cells))
			}
			if cells[0].Date.Weekday() != time.Monday {
				t.Errorf("first cell is %v, want Monday", cells[0].Date.Weekday())
			}
			first := m.First()
			if cells[0].Date.After(first) || first.Sub(cells[0].Date) >= 7*24*time.Hour {
				t.Errorf("grid start %v is not the Monday on or before %v", cells[0].Date, first)
			}
			for i := 1; i < len(cells); i++ {
				if cells[i].Date != cells[i-1].Date.AddDate(0, 0, 1) {
					t.Fatalf("cells %d and %d are not consecutive", i-1, i)
				}
			}
		})
	}
}

func TestBuildCells_MarchSixthWeekHidden(t *testing.T) {
	cells := BuildCells(Month{2025, time.March}, Index{}, time.Now())

	if cells[0].Key != "2025-02-24" || cells[0].InMonth {
		t.Errorf("first cell = %s (in month %v), want muted 2025-02-24", cells[0].Key, cells[0].InMonth)
	}
	if last := cells[34]; last.Key != "2025-03-30" {
		t.Errorf("last cell = %s, want 2025-03-30", last.Key)
	}
	if _, ok := (Grid{Cells: cells}).Cell("2025-03-31"); ok {
		t.Error("March 31 falls in a sixth week and must not be shown")
	}
}

func TestBuildCells_Today(t *testing.T) {
	tests := []struct {
		name  string
		month Month
		today time.Time
		want  string
	}{
		{"in month", Month{2025, time.March}, time.Date(2025, 3, 10, 18, 0, 0, 0, time.Local), "2025-03-10"},
		{"muted leading day", Month{2025, time.March}, time.Date(2025, 2, 25, 0, 0, 0, 0, time.Local), "2025-02-25"},
		{"outside window", Month{2025, time.May}, time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local), ""},
		{"hidden sixth week", Month{2025, time.March}, time.Date(2025, 3, 31, 0, 0, 0, 0, time.Local), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var marked []string
			for _, c := range BuildCells(tt.month, Index{}, tt.today) {
				if c.Today {
					marked = append(marked, c.Key)
				}
			}
			switch {
			case tt.want == "" && len(marked) != 0:
				t.Errorf("today marked on %v, want none", marked)
			case tt.want != "" && (len(marked) != 1 || marked[0] != tt.want):
				t.Errorf("today marked on %v, want [%s]", marked, tt.want)
			}
		})
	}
}

func eventsOn(key string, n int) []models.CalendarEvent {
	events := make([]models.CalendarEvent, n)
	for i := range events {
		events[i] = models.CalendarEvent{Date: key, Title: string(rune('A' + i))}
	}
	return events
}

func TestBuildCells_Badges(t *testing.T) {
	var events []models.CalendarEvent
	events = append(events, eventsOn("2025-03-03", 1)...)
	events = append(events, eventsOn("2025-03-04", 3)...)
	events = append(events, eventsOn("2025-03-05", 5)...)
	events = append(events, models.CalendarEvent{Date: "2025-03-06"})
	grid := Grid{Cells: BuildCells(Month{2025, time.March}, NewIndex(events), time.Now())}

	tests := []struct {
		key       string
		badges    []string
		more      int
		clickable bool
		overflow  string
	}{
		{"2025-03-03", []string{"A"}, 0, true, ""},
		{"2025-03-04", []string{"A", "B", "C"}, 0, true, ""},
		{"2025-03-05", []string{"A", "B", "C"}, 2, false, "+2 más"},
		{"2025-03-06", []string{"Actividad"}, 0, true, ""},
		{"2025-03-07", nil, 0, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			c, ok := grid.Cell(tt.key)
			if !ok {
				t.Fatalf("cell %s not in grid", tt.key)
			}
			if diff := cmp.Diff(tt.badges, c.Badges); diff != "" {
				t.Errorf("badges mismatch (-want +got):\n%s", diff)
			}
			if c.More != tt.more {
				t.Errorf("More = %d, want %d", c.More, tt.more)
			}
			if c.Clickable() != tt.clickable {
				t.Errorf("Clickable() = %v, want %v", c.Clickable(), tt.clickable)
			}
			if c.OverflowLabel() != tt.overflow {
				t.Errorf("OverflowLabel() = %q, want %q", c.OverflowLabel(), tt.overflow)
			}
		})
	}
}

func TestNewIndex(t *testing.T) {
	events := []models.CalendarEvent{
		{Date: "2025-03-10T14:00:00Z", Title: "Asamblea"},
		{Date: "2025-03-10", Title: "Taller"},
		{Date: "", Title: "Sin fecha"},
		{Date: "2025-03-11", Title: "Feria"},
	}
	idx := NewIndex(events)

	if idx.Len() != 3 {
		t.Errorf("Len() = %d, want 3", idx.Len())
	}
	got := idx.Events("2025-03-10")
	if len(got) != 2 || got[0].Title != "Asamblea" || got[1].Title != "Taller" {
		t.Errorf("Events(2025-03-10) = %+v, want source order", got)
	}
	if diff := cmp.Diff([]string{"2025-03-10", "2025-03-11"}, idx.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_Navigation(t *testing.T) {
	e := NewEngine(WithClock(fixedClock(2024, time.December, 15)))
	if e.State() != Loading {
		t.Fatalf("initial state = %v, want loading", e.State())
	}
	if e.Visible() != (Month{2024, time.December}) {
		t.Fatalf("visible = %v, want 2024-12", e.Visible())
	}

	e.SetEvents(nil, SourceNone)
	if e.State() != Ready {
		t.Fatalf("state = %v, want ready", e.State())
	}

	g := e.Next()
	if g.Month != (Month{2025, time.January}) {
		t.Errorf("Next() month = %v, want 2025-01", g.Month)
	}
	if g.Label != "Enero de 2025" {
		t.Errorf("label = %q, want %q", g.Label, "Enero de 2025")
	}
	e.Prev()
	e.Prev()
	if e.Visible() != (Month{2024, time.November}) {
		t.Errorf("visible = %v, want 2024-11", e.Visible())
	}
	if g := e.Today(); g.Month != (Month{2024, time.December}) {
		t.Errorf("Today() month = %v, want 2024-12", g.Month)
	}
	if e.State() != Ready {
		t.Errorf("navigation changed state to %v", e.State())
	}
}

func TestEngine_Overlay(t *testing.T) {
	e := NewEngine(WithClock(fixedClock(2025, time.March, 1)))

	if _, err := e.Open("2025-03-10"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Open while loading error = %v, want ErrNotReady", err)
	}

	e.SetEvents([]models.CalendarEvent{
		{Date: "2025-03-10", Title: "Asamblea", Time: "18:00", Location: "Plaza", Axis: "Cultura", Description: "Abierta"},
		{Date: "2025-03-10"},
	}, SourceDocument)

	if _, err := e.Open("2025-03-11"); !errors.Is(err, ErrNoEvents) {
		t.Errorf("Open on empty day error = %v, want ErrNoEvents", err)
	}
	if e.State() != Ready {
		t.Errorf("failed open changed state to %v", e.State())
	}

	ov, err := e.Open("2025-03-10")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if e.State() != ModalOpen {
		t.Errorf("state = %v, want modal_open", e.State())
	}
	if ov.Heading != "Lunes, 10 de marzo de 2025" {
		t.Errorf("heading = %q", ov.Heading)
	}
	want := []Entry{
		{Title: "Asamblea", Meta: []string{"🕒 18:00", "📍 Plaza", "🏷️ Cultura"}, Description: "Abierta"},
		{Title: "Actividad"},
	}
	if diff := cmp.Diff(want, ov.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	if !e.Close() {
		t.Error("Close() = false, want true")
	}
	if e.Close() {
		t.Error("second Close() = true, want false")
	}
	if _, open := e.Overlay(); open || e.State() != Ready {
		t.Errorf("after close: open=%v state=%v", open, e.State())
	}
}

func TestFormatter_English(t *testing.T) {
	f := NewFormatter("en_US")
	if got := f.MonthLabel(Month{2025, time.March}); got != "March 2025" {
		t.Errorf("MonthLabel = %q", got)
	}
	if got := NewFormatter("xx_XX").Locale(); got != "es_ES" {
		t.Errorf("fallback locale = %q, want es_ES", got)
	}
}

func TestLoader_FallsBackToDocument(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"eventos":[]}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	doc := `{"eventos":[{"fecha":"2025-03-10T14:00:00Z","titulo":"Asamblea"}]}`
	if err := os.WriteFile(filepath.Join(dir, "eventos.json"), []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(source.NewFetcher(dir), "").WithSchedule(srv.URL+"/exec", source.NewFetcher(""))
	events, name := l.Load(context.Background())
	if got := hits.Load(); got != 1 {
		t.Errorf("schedule hits = %d, want 1", got)
	}
	if name != SourceDocument {
		t.Errorf("source = %q, want document", name)
	}
	if len(events) != 1 || events[0].Date != "2025-03-10" {
		t.Errorf("events = %+v", events)
	}
}

func TestLoader_Schedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"eventos":[{"fecha":"2025-04-01","titulo":"Remoto"}]}`))
	}))
	defer srv.Close()

	l := NewLoader(source.NewFetcher(t.TempDir()), "").WithSchedule(srv.URL, nil)
	events, name := l.Load(context.Background())
	if name != SourceSchedule || len(events) != 1 || events[0].Title != "Remoto" {
		t.Errorf("Load() = %+v, %q", events, name)
	}
}

func TestEngine_LoadFailureStillReady(t *testing.T) {
	e := NewEngine(WithClock(fixedClock(2025, time.March, 10)))
	e.Load(context.Background(), NewLoader(source.NewFetcher(t.TempDir()), ""))

	if e.State() != Ready {
		t.Fatalf("state = %v, want ready", e.State())
	}
	if e.Source() != SourceNone || e.Index().Len() != 0 {
		t.Errorf("source = %q, events = %d", e.Source(), e.Index().Len())
	}
	if got := len(e.Grid().Cells); got != 35 {
		t.Errorf("grid has %d cells, want 35", got)
	}
}
