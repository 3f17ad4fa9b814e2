package page

import (
	"strings"
	"testing"
)

const fixture = `<!DOCTYPE html>
<html><body>
<button class="nav-toggle" aria-expanded="false">Menu</button>
<progress id="progress" value="0" max="100"></progress>
<div id="cal-month-label"></div><div id="cal-days"></div>
<p class="status" hidden>x</p>
</body></html>`

func TestAnchorsDetection(t *testing.T) {
	doc, err := ParseString(fixture)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	if !doc.HasProgress() {
		t.Error("HasProgress() = false, want true")
	}
	if !doc.HasCalendar() {
		t.Error("HasCalendar() = false, want true")
	}

	empty, _ := ParseString(`<html><body><p>nothing</p></body></html>`)
	if empty.HasProgress() || empty.HasCalendar() {
		t.Error("page without anchors reported regions")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	doc, err := ParseString(fixture)
	if err != nil {
		t.Fatal(err)
	}

	status := doc.Find(".status")
	SetHidden(status, false)
	ToggleClass(status, "is-completed", true)

	out := doc.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("rendered page lost its doctype: %.40q", out)
	}
	if !strings.Contains(out, `class="status is-completed"`) {
		t.Errorf("class change not rendered: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("hidden attribute still rendered: %s", out)
	}
}

func TestToggleClass(t *testing.T) {
	tests := []struct {
		name  string
		class string
		on    bool
		want  string
	}{
		{"add to messy list", `  project   card `, true, `class="project card is-completed"`},
		{"add twice", `project is-completed`, true, `class="project is-completed"`},
		{"remove", `project  is-completed card`, false, `class="project card"`},
		{"remove last", `is-completed`, false, `<li>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(`<ul><li class="` + tt.class + `">x</li></ul>`)
			if err != nil {
				t.Fatal(err)
			}
			ToggleClass(doc.Find("li"), "is-completed", tt.on)
			if out := doc.String(); !strings.Contains(out, tt.want) {
				t.Errorf("rendered %s, want it to contain %s", out, tt.want)
			}
		})
	}
}
