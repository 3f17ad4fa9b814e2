package page

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/julianstephens/sitelit/internal/source"
)

// Document is a parsed site page plus the selectors used to find its regions.
type Document struct {
	doc     *goquery.Document
	Anchors Anchors
}

// Parse reads an HTML page.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &Document{doc: doc, Anchors: DefaultAnchors()}, nil
}

// ParseString parses markup held in memory.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Load fetches and parses the page at location.
func Load(ctx context.Context, f *source.Fetcher, location string) (*Document, error) {
	data, err := f.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(data))
}

// Find runs a CSS selector against the whole page.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Exists reports whether selector matches at least one element.
func (d *Document) Exists(selector string) bool {
	return selector != "" && d.doc.Find(selector).Length() > 0
}

// HasProgress reports whether the page has any progress region.
func (d *Document) HasProgress() bool {
	a := d.Anchors
	return d.Exists(a.ProgressBar) || d.Exists(a.ProjectsList) ||
		d.Exists(a.LegacyBar) || d.Exists(a.LegacyList)
}

// HasCalendar reports whether the page has the calendar anchors.
func (d *Document) HasCalendar() bool {
	return d.Exists(d.Anchors.MonthLabel) && d.Exists(d.Anchors.Days)
}

// Render writes the page back out as HTML.
func (d *Document) Render(w io.Writer) error {
	for _, n := range d.doc.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(w, c); err != nil {
				return fmt.Errorf("failed to render page: %w", err)
			}
		}
	}
	return nil
}

// String renders the page, returning an empty string on failure.
func (d *Document) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

// Attr returns the trimmed attribute value and whether it is present.
func Attr(s *goquery.Selection, name string) (string, bool) {
	v, ok := s.Attr(name)
	return strings.TrimSpace(v), ok
}

// SetHidden toggles the boolean hidden attribute.
func SetHidden(s *goquery.Selection, hidden bool) {
	if hidden {
		s.SetAttr("hidden", "")
	} else {
		s.RemoveAttr("hidden")
	}
}

// ToggleClass adds or removes class depending on on. The class attribute is
// rewritten single-spaced; an empty list removes the attribute.
func ToggleClass(s *goquery.Selection, class string, on bool) {
	s.Each(func(_ int, el *goquery.Selection) {
		v, _ := el.Attr("class")
		classes := slices.DeleteFunc(strings.Fields(v), func(c string) bool { return c == class })
		if on {
			classes = append(classes, class)
		}
		if len(classes) == 0 {
			el.RemoveAttr("class")
			return
		}
		el.SetAttr("class", strings.Join(classes, " "))
	})
}
