package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists every binding. Model picks the help entries for the active tab.
type KeyMap struct {
	Tab, ShiftTab, Reload, Quit, Help key.Binding

	// calendar
	Up, Down, Left, Right key.Binding
	Prev, Next, Today     key.Binding
	Enter, Close          key.Binding

	// progress
	Toggle key.Binding
}

func bind(label, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab:      bind("tab", "siguiente pestaña", "tab"),
		ShiftTab: bind("⇧tab", "pestaña anterior", "shift+tab"),
		Reload:   bind("r", "recargar", "r"),
		Quit:     bind("q", "salir", "q", "ctrl+c"),
		Help:     bind("?", "ayuda", "?"),

		Up:    bind("↑/k", "semana anterior", "up", "k"),
		Down:  bind("↓/j", "semana siguiente", "down", "j"),
		Left:  bind("←/h", "día anterior", "left", "h"),
		Right: bind("→/l", "día siguiente", "right", "l"),
		Prev:  bind("p", "mes anterior", "p"),
		Next:  bind("n", "mes siguiente", "n"),
		Today: bind("t", "hoy", "t"),
		Enter: bind("enter", "ver actividades", "enter"),
		Close: bind("esc", "cerrar", "esc"),

		Toggle: bind("espacio", "marcar", " ", "x"),
	}
}
