package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDateKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-03-10T14:00:00Z", "2025-03-10"},
		{"2025-03-10", "2025-03-10"},
		{" 2025-03-10 18:00", "2025-03-10"},
		{"2025-3-1", ""},
		{"2025-02-30", ""},
		{"２０２５-03-10T00:00", ""},
		{"10/03/2025", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DateKey(tt.in); got != tt.want {
			t.Errorf("DateKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCoerceWeight(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"number", 10.0, 10},
		{"fractional", 2.5, 2.5},
		{"numeric string", " 30 ", 30},
		{"garbage string", "abc", 0},
		{"empty string", "", 0},
		{"negative", -4.0, 0},
		{"missing", nil, 0},
		{"true", true, 1},
		{"object", map[string]any{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceWeight(tt.in); got != tt.want {
				t.Errorf("CoerceWeight(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateWeight(t *testing.T) {
	tests := map[string]float64{
		"10":   10,
		"7.9":  7,
		"12px": 12,
		"":     0,
		"x1":   0,
		"-3":   0,
	}
	for in, want := range tests {
		if got := TruncateWeight(in); got != want {
			t.Errorf("TruncateWeight(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestProjectDocument_Aliases(t *testing.T) {
	data := []byte(`{"proyectos":[
		{"id":1,"titulo":"Plaza","peso":"10","completed":true,"completed_at":"2025-02-01"},
		{"id":"b","title":"Huerta","weight":30},
		"not an object"
	]}`)

	var doc ProjectDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(doc.Initiatives) != 2 {
		t.Fatalf("got %d initiatives, want 2", len(doc.Initiatives))
	}

	a := doc.Initiatives[0]
	if a.ID != "1" || a.Title != "Plaza" || a.Weight != 10 || !a.Completed || a.CompletedAt != "2025-02-01" {
		t.Errorf("first initiative decoded as %+v", a)
	}
	b := doc.Initiatives[1]
	if b.ID != "b" || b.Title != "Huerta" || b.Weight != 30 || b.Completed {
		t.Errorf("second initiative decoded as %+v", b)
	}
}

func TestProjectDocument_MissingArrayIsEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `{"proyectos":null}`, `{"proyectos":"x"}`, `[]`, `null`} {
		var doc ProjectDocument
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			t.Errorf("Unmarshal(%s) returned error: %v", body, err)
		}
		if len(doc.Initiatives) != 0 {
			t.Errorf("Unmarshal(%s) = %d initiatives, want 0", body, len(doc.Initiatives))
		}
	}
}

func TestProjectDocument_Malformed(t *testing.T) {
	var doc ProjectDocument
	err := doc.UnmarshalJSON([]byte(`{"proyectos":[`))
	if !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("UnmarshalJSON() error = %v, want ErrMalformedDocument", err)
	}
}

func TestEventDocument_Normalizes(t *testing.T) {
	data := []byte(`{"eventos":[
		{"fecha":"2025-03-10T14:00:00Z","titulo":"Asamblea","hora":"18:00","lugar":"Plaza","eje":"Cultura","descripcion":"Abierta"},
		{"date":"2025-03-11","title":"Feria","time":"10:00"}
	]}`)

	var doc EventDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(doc.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(doc.Events))
	}
	if doc.Events[0].Date != "2025-03-10" {
		t.Errorf("Date = %q, want 2025-03-10", doc.Events[0].Date)
	}
	if doc.Events[1].Title != "Feria" || doc.Events[1].Time != "10:00" {
		t.Errorf("english aliases not decoded: %+v", doc.Events[1])
	}
	if !doc.Events[1].HasMeta() {
		t.Error("HasMeta() = false, want true")
	}
}
