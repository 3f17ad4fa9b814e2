package progress

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/models"
	"github.com/julianstephens/sitelit/internal/page"
)

const completedClass = "is-completed"

// SyncItems copies document state onto initiative elements that carry a matching
// data-id. Elements without a match are left untouched.
func SyncItems(doc *page.Document, initiatives []models.Initiative) int {
	byID := make(map[string]models.Initiative, len(initiatives))
	for _, in := range initiatives {
		byID[strings.TrimSpace(in.ID)] = in
	}

	synced := 0
	doc.Find(doc.Anchors.ProjectsList).Find(doc.Anchors.ProjectItems).Each(func(_ int, item *goquery.Selection) {
		id, _ := page.Attr(item, page.AttrID)
		if id == "" {
			return
		}
		in, ok := byID[id]
		if !ok {
			return
		}
		syncItem(doc, item, in)
		synced++
	})
	return synced
}

func syncItem(doc *page.Document, item *goquery.Selection, in models.Initiative) {
	page.ToggleClass(item, completedClass, in.Completed)

	title := item.Find(doc.Anchors.ItemTitle).First()
	if want := strings.TrimSpace(in.Title); want != "" && title.Length() > 0 {
		if strings.TrimSpace(title.Text()) != want {
			title.SetText(in.Title)
		}
	}

	status := item.Find(doc.Anchors.ItemStatus).First()
	when := item.Find(doc.Anchors.ItemCompletedAt).First()
	if status.Length() == 0 || when.Length() == 0 {
		return
	}

	if in.Completed && strings.TrimSpace(in.CompletedAt) != "" {
		text, iso := FormatCompletedAt(in.CompletedAt)
		if iso != "" {
			when.SetAttr("datetime", iso)
		} else {
			when.RemoveAttr("datetime")
		}
		when.SetText(text)
		page.SetHidden(status, false)
		return
	}

	page.SetHidden(status, true)
	when.RemoveAttr("datetime")
	when.SetText("")
}

// FormatCompletedAt renders a completion date as DD/MM/YYYY and returns its ISO form.
// Date-only values are taken as calendar dates with no time zone shift. Free text that
// is not a recognizable date is returned verbatim with an empty ISO form.
func FormatCompletedAt(raw string) (display, iso string) {
	raw = strings.TrimSpace(raw)

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.Local()
		return t.Format(constants.DisplayDateFormat), t.UTC().Format(time.RFC3339)
	}
	if len(raw) >= 10 {
		if t, err := time.Parse(constants.DateFormat, raw[:10]); err == nil {
			return t.Format(constants.DisplayDateFormat), t.Format(constants.DateFormat)
		}
	}
	return raw, ""
}

func itemTitle(doc *page.Document, item *goquery.Selection) string {
	if t := strings.TrimSpace(item.Find(doc.Anchors.ItemTitle).First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(item.Find("label").First().Text()); t != "" {
		return t
	}
	return ""
}
