// Package site runs the page-ready pipelines against one page: progress
// aggregation and the calendar engine.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/sitelit/internal/calendar"
	"github.com/julianstephens/sitelit/internal/kvstore"
	"github.com/julianstephens/sitelit/internal/logger"
	"github.com/julianstephens/sitelit/internal/models"
	"github.com/julianstephens/sitelit/internal/page"
	"github.com/julianstephens/sitelit/internal/progress"
	"github.com/julianstephens/sitelit/internal/render"
	"github.com/julianstephens/sitelit/internal/source"
)

// ErrNoLegacyControls is returned by Toggle on pages without checkbox controls.
var ErrNoLegacyControls = errors.New("page has no legacy checkbox controls")

// Options describes where a page and its documents live.
type Options struct {
	// Fetcher reads the page and the local documents relative to the site root.
	Fetcher *source.Fetcher
	// Page is the page location. Empty runs both pipelines without a page.
	Page     string
	Projects string
	Events   string

	// Schedule is the remote event endpoint tried before Events.
	Schedule        string
	ScheduleFetcher *source.Fetcher

	Store progress.Store
	// ReadOnly refuses checkbox toggles: Store cannot keep them.
	ReadOnly bool
	Locale   string

	// Month is the initially visible month; zero means the current month.
	Month calendar.Month
	// OpenDate opens the overlay for that date key after painting.
	OpenDate string
	Now      func() time.Time
}

// Site is one page with both pipelines resolved and painted.
type Site struct {
	Doc *page.Document

	Progress    progress.Result
	HasProgress bool

	Calendar    *calendar.Engine
	HasCalendar bool
	Overlay     *render.OverlayPainter

	readOnly bool
}

func (o Options) engine() *calendar.Engine {
	opts := []calendar.Option{calendar.WithLocale(o.Locale)}
	if o.Now != nil {
		opts = append(opts, calendar.WithClock(o.Now))
	}
	if o.Month != (calendar.Month{}) {
		opts = append(opts, calendar.WithMonth(o.Month))
	}
	return calendar.NewEngine(opts...)
}

// Build loads the page, resolves both pipelines concurrently and paints the
// results. Only a page that cannot be loaded, or a cancelled context, is an error.
func Build(ctx context.Context, opts Options) (*Site, error) {
	s := &Site{readOnly: opts.ReadOnly}

	if opts.Page != "" {
		doc, err := page.Load(ctx, opts.Fetcher, opts.Page)
		if err != nil {
			return nil, fmt.Errorf("failed to load page %s: %w", opts.Page, err)
		}
		s.Doc = doc
		s.Overlay = render.NewOverlayPainter(doc)
	}

	s.HasProgress = s.Doc == nil || s.Doc.HasProgress()
	s.HasCalendar = s.Doc == nil || s.Doc.HasCalendar()

	var events []models.CalendarEvent
	var eventSource string

	g, gctx := errgroup.WithContext(ctx)
	if s.HasProgress {
		g.Go(func() error {
			agg := progress.New(opts.Fetcher, opts.Projects, opts.Store)
			s.Progress = agg.Resolve(gctx, s.Doc)
			return nil
		})
	}
	if s.HasCalendar {
		g.Go(func() error {
			loader := calendar.NewLoader(opts.Fetcher, opts.Events).WithSchedule(opts.Schedule, opts.ScheduleFetcher)
			events, eventSource = loader.Load(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.HasCalendar {
		s.Calendar = opts.engine()
		s.Calendar.SetEvents(events, eventSource)
	}

	if err := s.paint(); err != nil {
		return nil, err
	}

	if opts.OpenDate != "" && s.Calendar != nil {
		if err := s.Open(opts.OpenDate); err != nil {
			logger.Warn("Cannot open calendar overlay", "date", opts.OpenDate, "error", err)
		}
	}

	logger.Debug("Built page",
		"page", opts.Page,
		"progress", s.Progress.Summary.Mode,
		"events", eventSource,
	)
	return s, nil
}

func (s *Site) paint() error {
	if s.Doc == nil {
		return nil
	}
	if s.HasProgress {
		progress.Apply(s.Doc, s.Progress)
	}
	return s.Repaint()
}

// Repaint writes the current calendar grid onto the page.
func (s *Site) Repaint() error {
	if s.Doc == nil || s.Calendar == nil {
		return nil
	}
	_, err := render.PaintCalendar(s.Doc, s.Calendar.Grid())
	return err
}

// Open opens the overlay for key on the engine and the page.
func (s *Site) Open(key string) error {
	if s.Calendar == nil {
		return calendar.ErrNotReady
	}
	ov, err := s.Calendar.Open(key)
	if err != nil {
		return err
	}
	if s.Overlay != nil {
		if _, err := s.Overlay.Open(ov); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the overlay. Closing twice is harmless.
func (s *Site) Close() {
	if s.Calendar != nil {
		s.Calendar.Close()
	}
	if s.Overlay != nil {
		s.Overlay.Close()
	}
}

// Toggle flips a legacy checkbox, persists it and repaints the progress anchors.
// A read-only site changes nothing and returns an error wrapping
// kvstore.ErrNotInitialized.
func (s *Site) Toggle(name string, checked bool) (progress.Summary, error) {
	if s.Progress.Tracker == nil {
		return s.Progress.Summary, ErrNoLegacyControls
	}
	if s.readOnly {
		return s.Progress.Summary, fmt.Errorf("cannot save checkbox state: %w", kvstore.ErrNotInitialized)
	}
	summary, err := s.Progress.Tracker.Toggle(name, checked)
	summary.Note = s.Progress.Summary.Note
	s.Progress.Summary = summary
	s.Progress.Initiatives = s.Progress.Tracker.Initiatives()
	if s.Doc != nil {
		progress.Paint(s.Doc, summary)
	}
	return summary, err
}

// Render writes the painted page to w.
func (s *Site) Render(w io.Writer) error {
	if s.Doc == nil {
		return errors.New("no page loaded")
	}
	return s.Doc.Render(w)
}
