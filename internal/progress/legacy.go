package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/PuerkitoBio/goquery"

	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/kvstore"
	"github.com/julianstephens/sitelit/internal/logger"
	"github.com/julianstephens/sitelit/internal/models"
	"github.com/julianstephens/sitelit/internal/page"
)

// Store is the slice of the key-value store the legacy mode needs.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Check is one legacy checkbox control and the initiative it stands for.
type Check struct {
	Name    string
	Title   string
	Weight  float64
	Checked bool

	control *goquery.Selection
}

// LegacyTracker drives progress from checkbox state persisted in the key-value store.
type LegacyTracker struct {
	store  Store
	checks []*Check
	saved  map[string]bool
}

// NewLegacyTracker reads the checkbox controls of doc and restores their state from store.
// It only reads doc; Paint writes the restored state back. It returns
// ErrUnavailable-wrapping errors when the page has no controls.
func NewLegacyTracker(doc *page.Document, store Store) (*LegacyTracker, error) {
	controls := doc.Find(doc.Anchors.LegacyCheck)
	if controls.Length() == 0 {
		return nil, fmt.Errorf("%w: no checkbox controls", errUnavailable)
	}

	t := &LegacyTracker{store: store, saved: loadSaved(store)}

	controls.Each(func(_ int, ctl *goquery.Selection) {
		item := ctl.Closest(doc.Anchors.LegacyItems)
		if item.Length() == 0 {
			item = ctl.Parent()
		}

		name, _ := page.Attr(ctl, "name")
		if name == "" {
			name, _ = page.Attr(item, page.AttrID)
		}
		weight, _ := page.Attr(item, page.AttrWeight)

		checked := ctl.Is("[checked]")
		if saved, ok := t.saved[name]; ok && name != "" {
			checked = saved
		}

		c := &Check{
			Name:    name,
			Title:   itemTitle(doc, item),
			Weight:  models.TruncateWeight(weight),
			Checked: checked,
			control: ctl,
		}
		t.checks = append(t.checks, c)
	})

	return t, nil
}

// Paint sets the checked attribute of every control to its live state.
func (t *LegacyTracker) Paint() {
	for _, c := range t.checks {
		c.paint()
	}
}

// Checks returns the controls in page order.
func (t *LegacyTracker) Checks() []*Check {
	return t.checks
}

// Initiatives converts the live checkbox state into initiatives.
func (t *LegacyTracker) Initiatives() []models.Initiative {
	out := make([]models.Initiative, 0, len(t.checks))
	for _, c := range t.checks {
		out = append(out, models.Initiative{
			ID:        c.Name,
			Title:     c.Title,
			Weight:    c.Weight,
			Completed: c.Checked,
		})
	}
	return out
}

// Summary computes progress from the live checkbox state.
func (t *LegacyTracker) Summary() Summary {
	s := Compute(t.Initiatives())
	s.Mode = constants.ModeLegacy
	return s
}

// Toggle sets the checked state of every control named name, persists the whole
// state map and returns the recomputed summary. Persist failures are returned but
// the in-memory state still changes.
func (t *LegacyTracker) Toggle(name string, checked bool) (Summary, error) {
	found := false
	for _, c := range t.checks {
		if c.Name == name {
			c.Checked = checked
			c.paint()
			found = true
		}
	}
	if !found {
		return t.Summary(), fmt.Errorf("unknown checkbox %q", name)
	}

	t.saved[name] = checked
	return t.Summary(), t.persist()
}

func (t *LegacyTracker) persist() error {
	if t.store == nil {
		return nil
	}
	data, err := json.Marshal(t.saved)
	if err != nil {
		return fmt.Errorf("failed to serialize checkbox state: %w", err)
	}
	if err := t.store.Set(constants.LegacyStoreKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist checkbox state: %w", err)
	}
	return nil
}

// SavedNames lists the persisted checkbox names, sorted.
func (t *LegacyTracker) SavedNames() []string {
	names := make([]string, 0, len(t.saved))
	for n := range t.saved {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Check) paint() {
	if c.control == nil {
		return
	}
	if c.Checked {
		c.control.SetAttr("checked", "")
	} else {
		c.control.RemoveAttr("checked")
	}
}

func loadSaved(store Store) map[string]bool {
	saved := make(map[string]bool)
	if store == nil {
		return saved
	}

	raw, err := store.Get(constants.LegacyStoreKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			logger.Warn("Failed to read saved checkbox state", "error", err)
		}
		return saved
	}
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		logger.Warn("Ignoring corrupt checkbox state", "error", err)
		return make(map[string]bool)
	}
	if saved == nil {
		saved = make(map[string]bool)
	}
	return saved
}
