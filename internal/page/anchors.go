package page

// Item attributes read from initiative elements
const (
	AttrID        = "data-id"
	AttrWeight    = "data-weight"
	AttrCompleted = "data-completed"
	// AttrOpenDate marks calendar cells and overflow controls that open the overlay
	AttrOpenDate = "data-open-date"
)

// Anchors names every selector the pipelines read or write.
type Anchors struct {
	ProgressBar     string
	ProgressLabel   string
	ProgressSummary string

	LegacyBar     string
	LegacyLabel   string
	LegacySummary string

	ProjectsList string
	ProjectItems string

	LegacyList  string
	LegacyItems string
	LegacyCheck string

	ItemTitle       string
	ItemStatus      string
	ItemCompletedAt string

	MonthLabel string
	Days       string

	Modal      string
	ModalClose string
	ModalDate  string
	ModalList  string

	NavToggle string
}

// DefaultAnchors matches the markup of the campaign site.
func DefaultAnchors() Anchors {
	return Anchors{
		ProgressBar:     "#progress",
		ProgressLabel:   "#progress-label",
		ProgressSummary: "#progress-summary",

		LegacyBar:     "#barra-progreso",
		LegacyLabel:   "#progreso-porcentaje",
		LegacySummary: "#resumen-progreso",

		ProjectsList: "#projects-list",
		ProjectItems: ".project, .proj-item",

		LegacyList:  "#lista-proyectos",
		LegacyItems: ".proyecto",
		LegacyCheck: ".proyecto-check",

		ItemTitle:       ".title, h3",
		ItemStatus:      ".proj-status",
		ItemCompletedAt: ".completed-at",

		MonthLabel: "#cal-month-label",
		Days:       "#cal-days",

		Modal:      "#cal-modal",
		ModalClose: "#cal-modal-close",
		ModalDate:  "#cal-modal-date",
		ModalList:  "#cal-modal-list",

		NavToggle: ".nav-toggle",
	}
}
