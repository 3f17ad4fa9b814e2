package progress

import (
	"fmt"
	"math"

	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/models"
)

// Summary is the derived progress view state of one aggregation pass.
type Summary struct {
	Percent     int     `json:"percent"`
	Completed   int     `json:"completed"`
	Total       int     `json:"total"`
	DoneWeight  float64 `json:"done_weight"`
	TotalWeight float64 `json:"total_weight"`
	Mode        string  `json:"mode"`
	Note        string  `json:"note,omitempty"`
}

// Percent returns round(100 * done / total), or 0 when total is not positive.
func Percent(done, total float64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * done / total))
}

// Compute aggregates initiatives into a summary. Counts ignore weight.
func Compute(initiatives []models.Initiative) Summary {
	var s Summary
	for _, in := range initiatives {
		w := models.CoerceWeight(in.Weight)
		s.TotalWeight += w
		if in.Completed {
			s.DoneWeight += w
			s.Completed++
		}
	}
	s.Total = len(initiatives)
	s.Percent = Percent(s.DoneWeight, s.TotalWeight)
	return s
}

// Label is the percentage label text.
func (s Summary) Label() string {
	return fmt.Sprintf("%d%%", s.Percent)
}

// Sentence is the human-readable summary, including any diagnostic note.
func (s Summary) Sentence() string {
	var base string
	if s.Mode == constants.ModeLegacy {
		base = fmt.Sprintf("Progreso total: %d%% (%d de %d proyectos completados).", s.Percent, s.Completed, s.Total)
	} else {
		base = fmt.Sprintf("%d/%d completados", s.Completed, s.Total)
	}
	if s.Note == "" {
		return base
	}
	return base + " " + s.Note
}
