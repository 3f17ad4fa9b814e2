package calendar

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/goodsign/monday"

	"github.com/julianstephens/sitelit/internal/constants"
)

type layouts struct {
	month string
	long  string
}

var localeLayouts = map[monday.Locale]layouts{
	monday.LocaleEsES: {month: "January de 2006", long: "Monday, 2 de January de 2006"},
	monday.LocaleEnUS: {month: "January 2006", long: "Monday, January 2, 2006"},
}

// Formatter renders localized month labels and overlay headings.
type Formatter struct {
	locale  monday.Locale
	layouts layouts
}

// SupportedLocale reports whether locale has calendar layouts.
func SupportedLocale(locale string) bool {
	_, ok := localeLayouts[monday.Locale(locale)]
	return ok
}

// NewFormatter returns a formatter for locale, falling back to es_ES.
func NewFormatter(locale string) Formatter {
	l := monday.Locale(locale)
	lay, ok := localeLayouts[l]
	if !ok {
		l = monday.Locale(constants.DefaultLocale)
		lay = localeLayouts[l]
	}
	return Formatter{locale: l, layouts: lay}
}

// Locale returns the effective locale.
func (f Formatter) Locale() string {
	return string(f.locale)
}

// MonthLabel renders "Marzo de 2025" style labels.
func (f Formatter) MonthLabel(m Month) string {
	return capitalize(monday.Format(m.First(), f.layouts.month, f.locale))
}

// LongDate renders "Lunes, 10 de marzo de 2025" style headings.
func (f Formatter) LongDate(t time.Time) string {
	return capitalize(monday.Format(t, f.layouts.long, f.locale))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(s[size:])
	return b.String()
}

// WeekdayShort renders the abbreviated weekday name of t.
func (f Formatter) WeekdayShort(t time.Time) string {
	return capitalize(monday.Format(t, "Mon", f.locale))
}
