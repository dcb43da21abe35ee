package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Sort  key.Binding
	Base  key.Binding
	Table key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Sort, k.Base, k.Table, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Sort, k.Base}, {k.Table, k.Help, k.Quit}}
}

func defaultKeys() keyMap {
	return keyMap{
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "next sort"),
		),
		Base: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "wages/change"),
		),
		Table: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "table"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
