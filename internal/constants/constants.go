package constants

import "time"

const (
	AppName            = "sitelit"
	Version            = "v0.3.0"
	DefaultConfigPath  = "~/.config/sitelit/sitelit.yaml"
	DefaultStorePath   = "~/.config/sitelit/sitelit.db"
	DefaultKeyringUser = "database-connection"
	ScheduleTokenUser  = "schedule-token"

	// DateFormat is the calendar date key format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is the format used for month query parameters (YYYY-MM)
	MonthFormat = "2006-01"

	// DisplayDateFormat is the completion date format shown on initiative cards
	DisplayDateFormat = "02/01/2006"

	DefaultLocale = "es_ES"
)

// Source documents, relative to the site root
const (
	DefaultProjectsDocument = "proyectos.json"
	DefaultEventsDocument   = "eventos.json"
	DefaultPage             = "index.html"

	// LegacyStoreKey is the single key-value entry holding legacy checkbox state
	LegacyStoreKey = "progresoProyectos"
)

// Calendar grid
const (
	GridRows       = 5
	GridColumns    = 7
	GridCells      = GridRows * GridColumns
	MaxBadges      = 3
	DefaultTitle   = "Actividad"
	OverflowSuffix = "más"
)

// Progress modes
const (
	ModeDocument = "document"
	ModeDOM      = "dom"
	ModeLegacy   = "legacy"
	ModeNone     = "none"
)

// HTTP preview server
const (
	DefaultServerAddr  = ":8080"
	DefaultToggleRate  = 5
	DefaultToggleBurst = 10
	ReadHeaderTimeout  = 5 * time.Second
	ShutdownTimeout    = 10 * time.Second
)
