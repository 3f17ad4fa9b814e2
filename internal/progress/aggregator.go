package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/logger"
	"github.com/julianstephens/sitelit/internal/models"
	"github.com/julianstephens/sitelit/internal/page"
	"github.com/julianstephens/sitelit/internal/source"
)

var errUnavailable = source.ErrUnavailable

// Result is the outcome of one aggregation pass.
type Result struct {
	Summary     Summary
	Initiatives []models.Initiative
	// Tracker is set in legacy mode only.
	Tracker *LegacyTracker
}

// Aggregator resolves initiatives through the fallback chain:
// project document, then page attributes, then legacy checkboxes.
type Aggregator struct {
	Fetcher  *source.Fetcher
	Document string
	Store    Store
}

// New returns an Aggregator reading the project document at location.
func New(f *source.Fetcher, location string, store Store) *Aggregator {
	if location == "" {
		location = constants.DefaultProjectsDocument
	}
	return &Aggregator{Fetcher: f, Document: location, Store: store}
}

// Chain builds the ordered source strategies for doc. doc may be nil, in which
// case only the project document is consulted.
func (a *Aggregator) Chain(doc *page.Document) *source.Chain[Result] {
	return source.NewChain("progress",
		source.Strategy[Result]{Name: constants.ModeDocument, Resolve: a.fromDocument},
		source.Strategy[Result]{Name: constants.ModeDOM, Resolve: func(ctx context.Context) (Result, error) {
			return fromAttributes(doc)
		}},
		source.Strategy[Result]{Name: constants.ModeLegacy, Resolve: func(ctx context.Context) (Result, error) {
			return fromLegacy(doc, a.Store)
		}},
	)
}

// Resolve runs the chain. It never fails: an exhausted chain yields a zero
// summary whose note names the missing document.
func (a *Aggregator) Resolve(ctx context.Context, doc *page.Document) Result {
	res, mode, err := a.Chain(doc).Resolve(ctx)
	if err != nil {
		logger.Warn("No progress data available", "document", a.Document, "error", err)
		return Result{Summary: Summary{
			Mode: constants.ModeNone,
			Note: fmt.Sprintf("No se pudo cargar %s. Verifica la ruta o usa un servidor local.", a.Document),
		}}
	}

	if mode == constants.ModeDOM {
		res.Summary.Note = fmt.Sprintf("(No se pudo cargar %s; datos tomados de la página.)", a.Document)
	}
	return res
}

// Apply paints a result onto doc. Per-item sync only happens for document
// results; legacy results also write the restored checkbox state.
func Apply(doc *page.Document, res Result) {
	Paint(doc, res.Summary)
	switch res.Summary.Mode {
	case constants.ModeDocument:
		n := SyncItems(doc, res.Initiatives)
		logger.Debug("Synced initiative markup", "items", n)
	case constants.ModeLegacy:
		if res.Tracker != nil {
			res.Tracker.Paint()
		}
	}
}

// Run resolves and paints in one step. Pages without a progress region are left alone.
func (a *Aggregator) Run(ctx context.Context, doc *page.Document) (Result, bool) {
	if doc == nil || !doc.HasProgress() {
		return Result{}, false
	}
	res := a.Resolve(ctx, doc)
	Apply(doc, res)
	return res, true
}

func (a *Aggregator) fromDocument(ctx context.Context) (Result, error) {
	if a.Fetcher == nil {
		return Result{}, fmt.Errorf("%w: no fetcher configured", errUnavailable)
	}

	var pd models.ProjectDocument
	if err := a.Fetcher.FetchJSON(ctx, a.Document, &pd); err != nil {
		return Result{}, err
	}

	s := Compute(pd.Initiatives)
	s.Mode = constants.ModeDocument
	return Result{Summary: s, Initiatives: pd.Initiatives}, nil
}

func fromAttributes(doc *page.Document) (Result, error) {
	if doc == nil {
		return Result{}, fmt.Errorf("%w: no page", errUnavailable)
	}

	items := initiativeElements(doc)
	flagged := items.FilterFunction(func(_ int, s *goquery.Selection) bool {
		_, ok := s.Attr(page.AttrCompleted)
		return ok
	})
	if flagged.Length() == 0 {
		return Result{}, fmt.Errorf("%w: no element carries %s", errUnavailable, page.AttrCompleted)
	}

	var initiatives []models.Initiative
	items.Each(func(_ int, item *goquery.Selection) {
		id, _ := page.Attr(item, page.AttrID)
		weight, _ := page.Attr(item, page.AttrWeight)
		flag, present := page.Attr(item, page.AttrCompleted)
		initiatives = append(initiatives, models.Initiative{
			ID:        id,
			Title:     itemTitle(doc, item),
			Weight:    models.CoerceWeight(weight),
			Completed: present && completedFlag(flag),
		})
	})

	s := Compute(initiatives)
	s.Mode = constants.ModeDOM
	return Result{Summary: s, Initiatives: initiatives}, nil
}

func fromLegacy(doc *page.Document, store Store) (Result, error) {
	if doc == nil {
		return Result{}, fmt.Errorf("%w: no page", errUnavailable)
	}
	tracker, err := NewLegacyTracker(doc, store)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Summary:     tracker.Summary(),
		Initiatives: tracker.Initiatives(),
		Tracker:     tracker,
	}, nil
}

func initiativeElements(doc *page.Document) *goquery.Selection {
	a := doc.Anchors
	items := doc.Find(a.ProjectsList).Find(a.ProjectItems)
	return items.AddSelection(doc.Find(a.LegacyList).Find(a.LegacyItems))
}

// completedFlag reads a data-completed value. A bare attribute counts as set.
func completedFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "true", "1", "yes", "si", "sí", "completed":
		return true
	}
	return false
}
