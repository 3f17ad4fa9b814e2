package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/julianstephens/sitelit/internal/calendar"
	"github.com/julianstephens/sitelit/internal/page"
)

var cellsTemplate = template.Must(template.New("cells").Parse(
	`{{range .}}<div class="cal-day{{if not .InMonth}} cal-day--muted{{end}}{{if .Today}} cal-day--today{{end}}" role="gridcell" aria-label="{{.Key}}"` +
		`{{if .Clickable}} data-open-date="{{.Key}}" style="cursor:pointer"{{end}}>` +
		`<div class="cal-day__head"><span>{{.Day}}</span></div>` +
		`{{if .HasEvents}}<div class="cal-badges">{{range .Badges}}<span class="cal-badge">{{.}}</span>{{end}}` +
		`{{if .More}}<button class="cal-badge cal-badge--more" type="button" data-open-date="{{.Key}}">{{.OverflowLabel}}</button>{{end}}` +
		`</div>{{end}}</div>{{end}}`,
))

var entriesTemplate = template.Must(template.New("entries").Parse(
	`{{range .}}<li class="cal-event"><div class="cal-event__title">{{.Title}}</div>` +
		`{{if .Meta}}<div class="cal-event__meta">{{range .Meta}}<span>{{.}}</span>{{end}}</div>{{end}}` +
		`{{if .Description}}<p>{{.Description}}</p>{{end}}</li>{{end}}`,
))

// CalendarHTML renders the grid cells as markup for the days container.
func CalendarHTML(g calendar.Grid) (string, error) {
	var buf bytes.Buffer
	if err := cellsTemplate.Execute(&buf, g.Cells); err != nil {
		return "", fmt.Errorf("failed to render calendar grid: %w", err)
	}
	return buf.String(), nil
}

// EntriesHTML renders overlay entries as list items.
func EntriesHTML(entries []calendar.Entry) (string, error) {
	var buf bytes.Buffer
	if err := entriesTemplate.Execute(&buf, entries); err != nil {
		return "", fmt.Errorf("failed to render overlay entries: %w", err)
	}
	return buf.String(), nil
}

// PaintCalendar writes the month label and the grid onto doc. It reports
// false when the page has no calendar region.
func PaintCalendar(doc *page.Document, g calendar.Grid) (bool, error) {
	if !doc.HasCalendar() {
		return false, nil
	}
	markup, err := CalendarHTML(g)
	if err != nil {
		return false, err
	}
	doc.Find(doc.Anchors.MonthLabel).SetText(g.Label)
	doc.Find(doc.Anchors.Days).SetHtml(markup)
	return true, nil
}

type attrSnapshot struct {
	value   string
	present bool
}

func snapshotAttr(doc *page.Document, selector, name string) attrSnapshot {
	v, ok := doc.Find(selector).Attr(name)
	return attrSnapshot{value: v, present: ok}
}

func (a attrSnapshot) restore(doc *page.Document, selector, name string) {
	if a.present {
		doc.Find(selector).SetAttr(name, a.value)
	} else {
		doc.Find(selector).RemoveAttr(name)
	}
}

type overlaySnapshot struct {
	hidden    attrSnapshot
	autofocus attrSnapshot
	heading   string
	list      string
}

// OverlayPainter shows and hides the detail overlay on a page. Closing
// restores every overlay attribute and its content to the values they had
// before the first Open.
type OverlayPainter struct {
	doc   *page.Document
	saved *overlaySnapshot
}

func NewOverlayPainter(doc *page.Document) *OverlayPainter {
	return &OverlayPainter{doc: doc}
}

// IsOpen reports whether the overlay is shown.
func (p *OverlayPainter) IsOpen() bool {
	return p.saved != nil
}

// Open paints ov into the overlay. It reports false when the page has no overlay.
func (p *OverlayPainter) Open(ov calendar.Overlay) (bool, error) {
	a := p.doc.Anchors
	if !p.doc.Exists(a.Modal) {
		return false, nil
	}

	list, err := EntriesHTML(ov.Entries)
	if err != nil {
		return false, err
	}

	if p.saved == nil {
		heading, _ := p.doc.Find(a.ModalDate).Html()
		items, _ := p.doc.Find(a.ModalList).Html()
		p.saved = &overlaySnapshot{
			hidden:    snapshotAttr(p.doc, a.Modal, "aria-hidden"),
			autofocus: snapshotAttr(p.doc, a.ModalClose, "autofocus"),
			heading:   heading,
			list:      items,
		}
	}

	p.doc.Find(a.ModalDate).SetText(ov.Heading)
	p.doc.Find(a.ModalList).SetHtml(list)
	p.doc.Find(a.Modal).SetAttr("aria-hidden", "false")
	p.doc.Find(a.ModalClose).SetAttr("autofocus", "")
	return true, nil
}

// Close hides the overlay. Closing a closed overlay does nothing.
func (p *OverlayPainter) Close() bool {
	if p.saved == nil {
		return false
	}
	a := p.doc.Anchors
	p.saved.hidden.restore(p.doc, a.Modal, "aria-hidden")
	p.saved.autofocus.restore(p.doc, a.ModalClose, "autofocus")
	p.doc.Find(a.ModalDate).SetHtml(p.saved.heading)
	p.doc.Find(a.ModalList).SetHtml(p.saved.list)
	p.saved = nil
	return true
}
