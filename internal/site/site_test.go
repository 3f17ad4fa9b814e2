package site

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/sitelit/internal/calendar"
	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/kvstore"
	"github.com/julianstephens/sitelit/internal/source"
)

const indexHTML = `<!doctype html><html><body>
<nav><button class="nav-toggle" aria-expanded="false">Menú</button></nav>
<progress id="progress" max="100"></progress><span id="progress-label"></span><p id="progress-summary"></p>
<ul id="projects-list"><li class="project" data-id="a"><h3>A</h3></li></ul>
<h2 id="cal-month-label"></h2><div id="cal-days"></div>
<div id="cal-modal" aria-hidden="true"><button id="cal-modal-close">×</button>
<h3 id="cal-modal-date"></h3><ul id="cal-modal-list"></ul></div>
</body></html>`

const legacyHTML = `<html><body>
<div id="barra-progreso"></div><span id="progreso-porcentaje"></span><p id="resumen-progreso"></p>
<ul id="lista-proyectos">
<li class="proyecto" data-weight="50"><input type="checkbox" class="proyecto-check" name="uno"><label>Uno</label></li>
<li class="proyecto" data-weight="50"><input type="checkbox" class="proyecto-check" name="dos"><label>Dos</label></li>
</ul></body></html>`

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func clock() time.Time {
	return time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
}

func TestBuild_BothPipelines(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html":     indexHTML,
		"proyectos.json": `{"proyectos":[{"id":"a","peso":10,"completed":true},{"id":"b","peso":30}]}`,
		"eventos.json":   `{"eventos":[{"fecha":"2025-03-10T14:00:00Z","titulo":"Asamblea"}]}`,
	})

	s, err := Build(context.Background(), Options{
		Fetcher:  source.NewFetcher(dir),
		Page:     constants.DefaultPage,
		Now:      clock,
		OpenDate: "2025-03-10",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if s.Progress.Summary.Percent != 25 || s.Progress.Summary.Mode != constants.ModeDocument {
		t.Errorf("progress = %+v", s.Progress.Summary)
	}
	if s.Calendar.State() != calendar.ModalOpen {
		t.Errorf("calendar state = %v, want modal_open", s.Calendar.State())
	}

	var out strings.Builder
	if err := s.Render(&out); err != nil {
		t.Fatal(err)
	}
	html := out.String()
	for _, want := range []string{`value="25"`, "Marzo de 2025", `aria-label="2025-03-10"`, "Asamblea", `aria-hidden="false"`} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}

	s.Close()
	s.Close()
	if s.Calendar.State() != calendar.Ready {
		t.Errorf("state after close = %v", s.Calendar.State())
	}
	if got := s.Doc.Find("#cal-modal").AttrOr("aria-hidden", ""); got != "true" {
		t.Errorf("aria-hidden after close = %q", got)
	}
	if got := s.Doc.Find(".nav-toggle").AttrOr("aria-expanded", ""); got != "false" {
		t.Errorf("nav toggle changed to %q", got)
	}

	s.Calendar.Next()
	if err := s.Repaint(); err != nil {
		t.Fatal(err)
	}
	if got := s.Doc.Find("#cal-month-label").Text(); got != "Abril de 2025" {
		t.Errorf("label after next = %q", got)
	}
}

func TestBuild_Headless(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"eventos.json": `{"eventos":[{"fecha":"2025-03-11","titulo":"Feria"}]}`,
	})

	s, err := Build(context.Background(), Options{Fetcher: source.NewFetcher(dir), Now: clock})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.Doc != nil {
		t.Error("headless build should not have a page")
	}
	if s.Progress.Summary.Mode != constants.ModeNone {
		t.Errorf("progress mode = %q, want none", s.Progress.Summary.Mode)
	}
	if s.Calendar.Index().Len() != 1 {
		t.Errorf("indexed %d events, want 1", s.Calendar.Index().Len())
	}
	if err := s.Render(&strings.Builder{}); err == nil {
		t.Error("Render without page should fail")
	}
}

func TestBuild_MissingPage(t *testing.T) {
	_, err := Build(context.Background(), Options{Fetcher: source.NewFetcher(t.TempDir()), Page: "index.html"})
	if err == nil {
		t.Fatal("expected error for missing page")
	}
}

func TestToggle(t *testing.T) {
	dir := writeSite(t, map[string]string{"index.html": legacyHTML})
	store := kvstore.NewMemoryStore()
	opts := Options{Fetcher: source.NewFetcher(dir), Page: "index.html", Store: store, Now: clock}

	s, err := Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if s.HasCalendar || s.Calendar != nil {
		t.Error("page without calendar anchors should skip the calendar")
	}
	if s.Progress.Summary.Mode != constants.ModeLegacy {
		t.Fatalf("mode = %q, want legacy", s.Progress.Summary.Mode)
	}

	summary, err := s.Toggle("uno", true)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Percent != 50 {
		t.Errorf("percent = %d, want 50", summary.Percent)
	}
	if got := s.Doc.Find("#progreso-porcentaje").Text(); got != "50%" {
		t.Errorf("label = %q, want 50%%", got)
	}

	again, err := Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if again.Progress.Summary.Percent != 50 {
		t.Errorf("restored percent = %d, want 50", again.Progress.Summary.Percent)
	}
}

func TestToggle_ReadOnly(t *testing.T) {
	dir := writeSite(t, map[string]string{"index.html": legacyHTML})
	store := kvstore.NewMemoryStore()
	opts := Options{Fetcher: source.NewFetcher(dir), Page: "index.html", Store: store, ReadOnly: true, Now: clock}

	s, err := Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	before := s.Progress.Summary

	summary, err := s.Toggle("uno", true)
	if !errors.Is(err, kvstore.ErrNotInitialized) {
		t.Fatalf("Toggle() error = %v, want ErrNotInitialized", err)
	}
	if summary != before {
		t.Errorf("summary changed to %+v", summary)
	}
	if _, err := store.Get(constants.LegacyStoreKey); !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("read-only toggle wrote the store: %v", err)
	}
}

func TestToggle_NotLegacy(t *testing.T) {
	s := &Site{}
	if _, err := s.Toggle("x", true); !errors.Is(err, ErrNoLegacyControls) {
		t.Errorf("Toggle() error = %v, want ErrNoLegacyControls", err)
	}
}
