package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// maxSlots is how many slots have a selection key (a-z)
const maxSlots = 26

type keyMap struct {
	Select   key.Binding
	Hint     key.Binding
	Deal     key.Binding
	Unselect key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap(variant string, tableSize int) keyMap {
	slots := make([]string, maxSlots)
	for i := range slots {
		slots[i] = slotKey(i)
	}
	deal := "re-deal"
	if variant == "classic" {
		deal = "3 more cards"
	}
	k := keyMap{
		Select: key.NewBinding(
			key.WithKeys(slots...),
		),
		Hint: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "hint"),
		),
		Deal: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", deal),
		),
		Unselect: key.NewBinding(
			key.WithKeys(" ", "backspace"),
			key.WithHelp("space", "unselect all"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h", "f1"),
			key.WithHelp("F1", "more help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
	k.setSlots(tableSize)
	return k
}

// setSlots labels the select binding with the keys of a table of n slots
func (k *keyMap) setSlots(n int) {
	n = min(max(n, 1), maxSlots)
	k.Select.SetHelp("a-"+slotKey(n-1), "select card")
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Hint, k.Deal, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Select, k.Unselect},
		{k.Hint, k.Deal},
		{k.Help, k.Quit},
	}
}
