package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/models"
)

// State is the lifecycle state of an Engine.
type State int

const (
	Loading State = iota
	Ready
	ModalOpen
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case ModalOpen:
		return "modal_open"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrNotReady = errors.New("calendar is still loading")
	ErrNoEvents = errors.New("no events on this date")
)

// Entry is one event line of the detail overlay.
type Entry struct {
	Title       string   `json:"title"`
	Meta        []string `json:"meta,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Overlay is the detail view of one date.
type Overlay struct {
	Key     string    `json:"date"`
	Date    time.Time `json:"-"`
	Heading string    `json:"heading"`
	Entries []Entry   `json:"entries"`
}

// Engine owns the view state of one calendar. It is not safe for concurrent use.
type Engine struct {
	state   State
	visible Month
	index   Index
	source  string
	overlay *Overlay

	format Formatter
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the current time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocale selects the locale of labels and headings.
func WithLocale(locale string) Option {
	return func(e *Engine) { e.format = NewFormatter(locale) }
}

// WithMonth sets the initially visible month.
func WithMonth(m Month) Option {
	return func(e *Engine) { e.visible = m }
}

// NewEngine returns an engine in the Loading state showing the current month.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		state:  Loading,
		format: NewFormatter(constants.DefaultLocale),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.visible == (Month{}) {
		e.visible = MonthOf(e.now())
	}
	return e
}

// Load resolves events through l and moves the engine to Ready.
func (e *Engine) Load(ctx context.Context, l *Loader) {
	events, name := l.Load(ctx)
	e.SetEvents(events, name)
}

// SetEvents indexes events and moves the engine to Ready. An open overlay is closed.
func (e *Engine) SetEvents(events []models.CalendarEvent, source string) {
	e.index = NewIndex(events)
	e.source = source
	e.overlay = nil
	e.state = Ready
}

func (e *Engine) State() State      { return e.state }
func (e *Engine) Visible() Month    { return e.visible }
func (e *Engine) Index() Index      { return e.index }
func (e *Engine) Source() string    { return e.source }
func (e *Engine) Format() Formatter { return e.format }

// Prev shows the previous month.
func (e *Engine) Prev() Grid {
	e.visible = e.visible.Prev()
	return e.Grid()
}

// Next shows the following month.
func (e *Engine) Next() Grid {
	e.visible = e.visible.Next()
	return e.Grid()
}

// Today shows the current month.
func (e *Engine) Today() Grid {
	e.visible = MonthOf(e.now())
	return e.Grid()
}

// Show jumps to m.
func (e *Engine) Show(m Month) Grid {
	e.visible = m
	return e.Grid()
}

// Grid builds the view of the visible month from the loaded index.
func (e *Engine) Grid() Grid {
	return Grid{
		Month: e.visible,
		Label: e.format.MonthLabel(e.visible),
		Cells: BuildCells(e.visible, e.index, e.now()),
	}
}

// Open shows the overlay for the date key. Opening another date while the
// overlay is open replaces its content.
func (e *Engine) Open(key string) (Overlay, error) {
	if e.state == Loading {
		return Overlay{}, ErrNotReady
	}
	date, err := time.ParseInLocation(constants.DateFormat, key, time.Local)
	if err != nil {
		return Overlay{}, fmt.Errorf("invalid date %q: %w", key, err)
	}
	events := e.index.Events(key)
	if len(events) == 0 {
		return Overlay{}, fmt.Errorf("%w: %s", ErrNoEvents, key)
	}

	ov := Overlay{
		Key:     key,
		Date:    date,
		Heading: e.format.LongDate(date),
		Entries: make([]Entry, 0, len(events)),
	}
	for _, ev := range events {
		ov.Entries = append(ov.Entries, NewEntry(ev))
	}

	e.overlay = &ov
	e.state = ModalOpen
	return ov, nil
}

// Close hides the overlay. It reports whether anything changed.
func (e *Engine) Close() bool {
	if e.state != ModalOpen {
		return false
	}
	e.overlay = nil
	e.state = Ready
	return true
}

// Overlay returns the open overlay, if any.
func (e *Engine) Overlay() (Overlay, bool) {
	if e.overlay == nil {
		return Overlay{}, false
	}
	return *e.overlay, true
}

// NewEntry builds the overlay line of ev. Meta is empty when ev has no time,
// location or axis.
func NewEntry(ev models.CalendarEvent) Entry {
	entry := Entry{Title: eventTitle(ev), Description: ev.Description}
	if ev.Time != "" {
		entry.Meta = append(entry.Meta, "🕒 "+ev.Time)
	}
	if ev.Location != "" {
		entry.Meta = append(entry.Meta, "📍 "+ev.Location)
	}
	if ev.Axis != "" {
		entry.Meta = append(entry.Meta, "🏷️ "+ev.Axis)
	}
	return entry
}
