package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Delete key.Binding
	Hide   key.Binding
	Quit   key.Binding
	Digit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "navigate")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "navigate")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "focus selected")),
		Delete: key.NewBinding(key.WithKeys("delete", "backspace", "x"), key.WithHelp("del", "delete selected")),
		Hide:   key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "hide")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
		Digit: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "focus index"),
		),
	}
}
