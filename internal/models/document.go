package models

import (
	"encoding/json"
	"errors"
)

var ErrMalformedDocument = errors.New("malformed JSON document")

// ProjectDocument is the primary initiative document. A missing or non-array
// field decodes as an empty list, never as an error.
type ProjectDocument struct {
	Initiatives []Initiative `json:"proyectos"`
}

func (d *ProjectDocument) UnmarshalJSON(data []byte) error {
	items, err := arrayField(data, "proyectos", "initiatives")
	if err != nil {
		return err
	}
	d.Initiatives = make([]Initiative, 0, len(items))
	for _, item := range items {
		var in Initiative
		if err := json.Unmarshal(item, &in); err != nil {
			continue
		}
		d.Initiatives = append(d.Initiatives, in)
	}
	return nil
}

// EventDocument is the event payload served by the scheduling endpoint or the local file.
type EventDocument struct {
	Events []CalendarEvent `json:"eventos"`
}

func (d *EventDocument) UnmarshalJSON(data []byte) error {
	items, err := arrayField(data, "eventos", "events")
	if err != nil {
		return err
	}
	d.Events = make([]CalendarEvent, 0, len(items))
	for _, item := range items {
		var ev CalendarEvent
		if err := json.Unmarshal(item, &ev); err != nil {
			continue
		}
		d.Events = append(d.Events, ev)
	}
	return nil
}

// arrayField extracts the first named array field of a JSON object.
// Valid JSON that is not an object, or lacks the field, yields no items.
func arrayField(data []byte, keys ...string) ([]json.RawMessage, error) {
	if !json.Valid(data) {
		return nil, ErrMalformedDocument
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, nil
	}

	for _, k := range keys {
		msg, ok := obj[k]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(msg, &items); err != nil {
			return nil, nil
		}
		return items, nil
	}
	return nil, nil
}
