package progress

import (
	"strconv"

	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/page"
)

// Paint writes the summary onto every progress anchor set present on the page.
// Legacy summaries prefer the legacy anchors and fall back to the primary ones.
func Paint(doc *page.Document, s Summary) {
	a := doc.Anchors
	primary := [3]string{a.ProgressBar, a.ProgressLabel, a.ProgressSummary}
	legacy := [3]string{a.LegacyBar, a.LegacyLabel, a.LegacySummary}

	sets := [][3]string{primary, legacy}
	if s.Mode == constants.ModeLegacy {
		sets = [][3]string{legacy, primary}
	}

	for _, set := range sets {
		if paintSet(doc, set, s) {
			return
		}
	}
}

func paintSet(doc *page.Document, set [3]string, s Summary) bool {
	bar := doc.Find(set[0])
	if set[0] == "" || bar.Length() == 0 {
		return false
	}

	pct := strconv.Itoa(s.Percent)
	bar.SetAttr("value", pct)
	bar.SetAttr("aria-valuenow", pct)

	if set[1] != "" {
		doc.Find(set[1]).SetText(s.Label())
	}
	if set[2] != "" {
		doc.Find(set[2]).SetText(s.Sentence())
	}
	return true
}
