package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/logger"
	"github.com/julianstephens/sitelit/internal/models"
	"github.com/julianstephens/sitelit/internal/source"
)

// Event source names
const (
	SourceSchedule = "schedule"
	SourceDocument = "document"
	SourceNone     = "none"
)

var errEmptySchedule = errors.New("schedule returned no events")

// Loader resolves the event set: the remote schedule endpoint when one is
// configured, then the local event document.
type Loader struct {
	// Local reads the event document relative to the site root.
	Local *source.Fetcher
	// Remote reads the schedule endpoint. Local is used when nil.
	Remote   *source.Fetcher
	Schedule string
	Document string
}

// NewLoader returns a Loader for the event document at location.
func NewLoader(local *source.Fetcher, location string) *Loader {
	if location == "" {
		location = constants.DefaultEventsDocument
	}
	return &Loader{Local: local, Document: location}
}

// WithSchedule configures the remote endpoint tried before the local document.
func (l *Loader) WithSchedule(endpoint string, remote *source.Fetcher) *Loader {
	l.Schedule = endpoint
	l.Remote = remote
	return l
}

// Chain returns the ordered event strategies.
func (l *Loader) Chain() *source.Chain[[]models.CalendarEvent] {
	return source.NewChain("calendar",
		source.Strategy[[]models.CalendarEvent]{Name: SourceSchedule, Resolve: l.fromSchedule},
		source.Strategy[[]models.CalendarEvent]{Name: SourceDocument, Resolve: l.fromDocument},
	)
}

// Load never fails: an exhausted chain yields no events and SourceNone.
func (l *Loader) Load(ctx context.Context) ([]models.CalendarEvent, string) {
	events, name, err := l.Chain().Resolve(ctx)
	if err != nil {
		logger.Warn("No calendar events available", "document", l.Document, "error", err)
		return nil, SourceNone
	}
	return events, name
}

func (l *Loader) fromSchedule(ctx context.Context) ([]models.CalendarEvent, error) {
	if l.Schedule == "" {
		return nil, fmt.Errorf("%w: no schedule endpoint configured", source.ErrUnavailable)
	}
	f := l.Remote
	if f == nil {
		f = l.Local
	}
	if f == nil {
		return nil, fmt.Errorf("%w: no fetcher configured", source.ErrUnavailable)
	}

	var doc models.EventDocument
	if err := f.FetchJSON(ctx, l.Schedule, &doc); err != nil {
		return nil, err
	}
	if len(doc.Events) == 0 {
		return nil, errEmptySchedule
	}
	return doc.Events, nil
}

func (l *Loader) fromDocument(ctx context.Context) ([]models.CalendarEvent, error) {
	if l.Local == nil {
		return nil, fmt.Errorf("%w: no fetcher configured", source.ErrUnavailable)
	}
	var doc models.EventDocument
	if err := l.Local.FetchJSON(ctx, l.Document, &doc); err != nil {
		return nil, err
	}
	return doc.Events, nil
}
