package models

import "encoding/json"

// Initiative is one trackable project from the project-status document or the page markup.
type Initiative struct {
	ID          string  `json:"id"`
	Title       string  `json:"titulo,omitempty"`
	Weight      float64 `json:"peso"`
	Completed   bool    `json:"completed"`
	CompletedAt string  `json:"completed_at,omitempty"`
}

func (i *Initiative) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*i = Initiative{
		ID:          ScalarString(raw["id"]),
		Title:       firstString(raw, "titulo", "title"),
		Weight:      CoerceWeight(first(raw, "peso", "weight")),
		Completed:   Truthy(raw["completed"]),
		CompletedAt: firstString(raw, "completed_at", "completedAt"),
	}
	return nil
}
