package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the stage view.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	next      key.Binding
	prev      key.Binding
	transUp   key.Binding
	transDown key.Binding
	transZero key.Binding
	stage     key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "chords")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "set")),
		next:      key.NewBinding(key.WithKeys("right", "l", "n", " "), key.WithHelp("→/n", "next")),
		prev:      key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/p", "prev")),
		transUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "up ½")),
		transDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "down ½")),
		transZero: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset")),
		stage:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stage mode")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.next, k.prev},
		{k.transUp, k.transDown, k.transZero},
		{k.stage, k.quit},
	}
}
