// Package keymap holds the TUI key bindings and the help built from them.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap is every binding the views react to. Some keys are shared
// between bindings that never apply on the same screen (tab, r).
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding

	// Form editing on the compare and locate screens.
	NextField key.Binding
	PrevField key.Binding
	Swap      key.Binding

	// Result screens.
	Details key.Binding
	Rerun   key.Binding
	Export  key.Binding
	New     key.Binding

	// History and doctor.
	Filter  key.Binding
	Delete  key.Binding
	Refresh key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: bind("ctrl+c", "quit", "ctrl+c"),
		Help: bind("?", "help", "?"),
		Back: bind("esc", "back", "esc"),

		Up:     bind("↑/k", "up", "up", "k"),
		Down:   bind("↓/j", "down", "down", "j"),
		Top:    bind("g", "first", "home", "g"),
		Bottom: bind("G", "last", "end", "G"),
		Open:   bind("enter", "open", "enter"),

		NextField: bind("tab", "next field", "tab", "down"),
		PrevField: bind("shift+tab", "previous field", "shift+tab", "up"),
		Swap:      bind("ctrl+s", "swap sides", "ctrl+s"),

		Details: bind("tab", "details", "tab"),
		Rerun:   bind("r", "rerun", "r"),
		Export:  bind("e", "export report", "e"),
		New:     bind("n", "new run", "n"),

		Filter:  bind("f", "filter kind", "f"),
		Delete:  bind("d", "delete", "d"),
		Refresh: bind("r", "refresh", "r"),
	}
}

// ShortHelp is shown in the status bar when nothing else applies.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// ResultsHelp is shown in the status bar while browsing results.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Details, k.Rerun, k.Export, k.Back}
}

// Section is one titled group of the help screen.
type Section struct {
	Title    string
	Bindings []key.Binding
}

// Sections groups the bindings by screen for the help view.
func (k *KeyMap) Sections() []Section {
	return []Section{
		{"Everywhere", []key.Binding{k.Back, k.Help, k.Quit}},
		{"Lists", []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.Open}},
		{"Compare and locate forms", []key.Binding{k.NextField, k.PrevField, k.Swap, k.Open}},
		{"Compare results", []key.Binding{k.Details, k.Rerun, k.Export, k.New}},
		{"History", []key.Binding{k.Filter, k.Delete}},
		{"Doctor", []key.Binding{k.Refresh}},
	}
}

// Matches reports whether keyStr triggers any of the bindings.
func Matches(keyStr string, bindings ...key.Binding) bool {
	for _, b := range bindings {
		for _, k := range b.Keys() {
			if k == keyStr {
				return true
			}
		}
	}
	return false
}
